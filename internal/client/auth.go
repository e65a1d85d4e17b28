package client

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/Ejaz0000/bike-gear-client/internal/domain/user"
	"github.com/Ejaz0000/bike-gear-client/internal/forms"
)

// loginData is the data payload of a successful login or register.
type loginData struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// Login authenticates with email and password. On success the bearer token
// is persisted in the token store for subsequent requests.
func (c *Client) Login(ctx context.Context, form forms.Login) (*user.User, error) {
	var out loginData
	err := c.sendForm(ctx, http.MethodPost, "/auth/login/", map[string]string{
		"email":    form.Email,
		"password": form.Password,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, errors.New("login response missing token")
	}
	if err := c.tokens.Set(out.Token); err != nil {
		return nil, errors.Wrap(err, "store token")
	}
	return &out.User, nil
}

// Register creates an account and, like Login, stores the returned token so
// the new user is immediately signed in.
func (c *Client) Register(ctx context.Context, form forms.Register) (*user.User, error) {
	var out loginData
	err := c.sendForm(ctx, http.MethodPost, "/auth/register/", map[string]string{
		"name":     form.Name,
		"email":    form.Email,
		"phone":    form.Phone,
		"password": form.Password,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token != "" {
		if err := c.tokens.Set(out.Token); err != nil {
			return nil, errors.Wrap(err, "store token")
		}
	}
	return &out.User, nil
}

// Logout discards the stored token. The backend keeps no server-side
// session, so this is purely local.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// Profile fetches the authenticated user's profile, including saved
// addresses.
func (c *Client) Profile(ctx context.Context) (*user.User, error) {
	var out user.User
	if err := c.getJSON(ctx, "/auth/profile/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile patches name, email and phone on the profile.
func (c *Client) UpdateProfile(ctx context.Context, form forms.UserDetails) (*user.User, error) {
	var out user.User
	err := c.sendForm(ctx, http.MethodPatch, "/auth/profile/", map[string]string{
		"name":  form.Name,
		"email": form.Email,
		"phone": form.Phone,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword requests a reset email for the given address. The backend
// responds identically whether or not the account exists.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.sendForm(ctx, http.MethodPost, "/auth/forgot-password/", map[string]string{
		"email": email,
	}, nil)
}

// VerifyResetToken checks that a reset token from the email link is still
// valid before showing the new-password form.
func (c *Client) VerifyResetToken(ctx context.Context, token string) error {
	return c.sendForm(ctx, http.MethodPost, "/auth/verify-reset-token/", map[string]string{
		"token": token,
	}, nil)
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, form forms.ResetPassword) error {
	return c.sendForm(ctx, http.MethodPost, "/auth/reset-password/", map[string]string{
		"token":            form.Token,
		"new_password":     form.NewPassword,
		"confirm_password": form.ConfirmPassword,
	}, nil)
}

// ChangePassword changes the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, form forms.ChangePassword) error {
	return c.sendForm(ctx, http.MethodPost, "/auth/change-password/", map[string]string{
		"old_password":     form.OldPassword,
		"new_password":     form.NewPassword,
		"confirm_password": form.ConfirmPassword,
	}, nil)
}
