package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{
		Label:        "Home",
		Phone:        "01700000000",
		AddressLine1: "House 12, Road 5",
		City:         "Dhaka",
		State:        "Dhaka",
		PostalCode:   "1207",
		Country:      "Bangladesh",
	}
}

func TestValidate_AddressOK(t *testing.T) {
	assert.Empty(t, Validate(validAddress()))
}

func TestValidate_AddressMissingFields(t *testing.T) {
	a := validAddress()
	a.AddressLine1 = ""
	a.City = ""

	errs := Validate(a)
	require.Len(t, errs, 2)
	assert.Equal(t, "This field is required", errs["address_line1"])
	assert.Equal(t, "This field is required", errs["city"])
}

func TestValidate_AddressLabelOptional(t *testing.T) {
	a := validAddress()
	a.Label = ""
	assert.Empty(t, Validate(a))
}

func TestValidate_LoginEmail(t *testing.T) {
	errs := Validate(Login{Email: "not-an-email", Password: "secret"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Enter a valid email address", errs["email"])
}

func TestValidate_ChangePassword(t *testing.T) {
	errs := Validate(ChangePassword{
		OldPassword:     "oldsecret",
		NewPassword:     "short",
		ConfirmPassword: "short",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "Password must be at least 8 characters", errs["new_password"])

	errs = Validate(ChangePassword{
		OldPassword:     "oldsecret",
		NewPassword:     "longenough",
		ConfirmPassword: "different1",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "Passwords do not match", errs["confirm_password"])
}

func TestValidate_ResetPassword(t *testing.T) {
	assert.Empty(t, Validate(ResetPassword{
		Token:           "tok",
		NewPassword:     "longenough",
		ConfirmPassword: "longenough",
	}))
}

func TestAddress_IsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.False(t, validAddress().IsZero())
}
