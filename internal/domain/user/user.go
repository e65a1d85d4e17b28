package user

// AddressType distinguishes billing from shipping addresses.
type AddressType string

const (
	AddressBilling  AddressType = "billing"
	AddressShipping AddressType = "shipping"
)

// Address is a saved customer address as returned by the API.
// The backend guarantees at most one default per type, but nothing in the
// client enforces it; FindDefault simply returns the first match.
type Address struct {
	ID                int64       `json:"id"`
	Label             string      `json:"label"`
	Street            string      `json:"street"`
	City              string      `json:"city"`
	State             string      `json:"state"`
	PostalCode        string      `json:"postal_code"`
	Country           string      `json:"country"`
	Phone             string      `json:"phone"`
	AddressType       AddressType `json:"address_type"`
	IsDefaultBilling  bool        `json:"is_default_billing"`
	IsDefaultShipping bool        `json:"is_default_shipping"`
}

// User is the authenticated customer profile.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Addresses []Address `json:"addresses"`
}

// FindDefault returns the first address flagged as the default for the given
// type. The second return value reports whether such an address exists.
func FindDefault(addresses []Address, t AddressType) (*Address, bool) {
	for i := range addresses {
		a := &addresses[i]
		switch t {
		case AddressBilling:
			if a.IsDefaultBilling {
				return a, true
			}
		case AddressShipping:
			if a.IsDefaultShipping {
				return a, true
			}
		}
	}
	return nil, false
}

// HasAddresses reports whether the user has any saved addresses. The checkout
// flow branches on this to decide between creating and updating addresses.
func (u *User) HasAddresses() bool {
	return u != nil && len(u.Addresses) > 0
}

// IsAuthenticated reports whether this profile represents a logged-in user.
func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != 0
}
