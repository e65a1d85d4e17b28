// Package forms holds the client-side form models for checkout and account
// flows, with the same validation rules the storefront applies before
// calling the API: required-field presence for addresses, email shape for
// auth forms, and the password length/match rules.
package forms

import (
	"reflect"
	"strings"
	"sync"

	validatorv10 "github.com/go-playground/validator/v10"
)

// UserDetails is the Step 1 form (name, email, phone).
type UserDetails struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// Address is the checkout address form. AddressLine1 is the form's internal
// field name; the backend expects "street", and the rename happens during
// payload assembly, not here.
type Address struct {
	Label        string `json:"label"`
	Phone        string `json:"phone" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Country      string `json:"country" validate:"required"`
}

// IsZero reports whether every field of the form is empty.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Login is the login form.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register is the registration form.
type Register struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// ChangePassword is the account password change form.
type ChangePassword struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// ResetPassword is the token-based password reset form.
type ResetPassword struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

var (
	validateOnce sync.Once
	validate     *validatorv10.Validate
)

// validator returns the shared Validate instance, configured to report
// field names from json tags so error maps line up with the wire format.
func sharedValidator() *validatorv10.Validate {
	validateOnce.Do(func() {
		validate = validatorv10.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks a form and returns a field -> message map, empty when the
// form is valid. Messages match the storefront's inline error copy.
func Validate(form any) map[string]string {
	err := sharedValidator().Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return map[string]string{"_form": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return "Password must be at least 8 characters"
	case "eqfield":
		return "Passwords do not match"
	default:
		return "Invalid value"
	}
}
