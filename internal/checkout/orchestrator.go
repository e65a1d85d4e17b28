package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ejaz0000/bike-gear-client/internal/client"
	"github.com/Ejaz0000/bike-gear-client/internal/domain/order"
	"github.com/Ejaz0000/bike-gear-client/internal/domain/user"
	"github.com/Ejaz0000/bike-gear-client/internal/forms"
	"github.com/Ejaz0000/bike-gear-client/internal/store"
)

// DefaultPaymentMethod is the only payment method currently offered.
const DefaultPaymentMethod = "cod"

// FieldErrors is a client-side validation failure, keyed by form field.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Session is one buyer's pass through checkout. It owns the step sequencer,
// the accumulated form state, and a single idempotency key so a
// double-submitted order reaches the backend as a duplicate it can detect.
type Session struct {
	api   *client.Client
	store *store.Store
	steps *Sequencer

	details  forms.UserDetails
	billing  forms.Address
	shipping forms.Address

	useBillingAsShipping bool
	paymentMethod        string
	idempotencyKey       string
}

// NewSession starts a checkout session at the details step.
func NewSession(api *client.Client, st *store.Store) *Session {
	return &Session{
		api:            api,
		store:          st,
		steps:          NewSequencer(),
		paymentMethod:  DefaultPaymentMethod,
		idempotencyKey: uuid.NewString(),
	}
}

// Step returns the active checkout step.
func (s *Session) Step() Step {
	return s.steps.Current()
}

// Back returns to the previous step without undoing any side effects the
// abandoned step already performed.
func (s *Session) Back() Step {
	return s.steps.Previous()
}

// SetPaymentMethod selects the payment method for the final step.
func (s *Session) SetPaymentMethod(method string) {
	if method != "" {
		s.paymentMethod = method
	}
}

// Prefill seeds the detail and address forms from an authenticated user's
// profile, mirroring how the checkout pre-populates fields on mount.
func (s *Session) Prefill(u *user.User) {
	if !u.IsAuthenticated() {
		return
	}
	s.details = forms.UserDetails{Name: u.Name, Email: u.Email, Phone: u.Phone}
	if billing, ok := user.FindDefault(u.Addresses, user.AddressBilling); ok {
		s.billing = addressForm(billing)
	}
	if shipping, ok := user.FindDefault(u.Addresses, user.AddressShipping); ok {
		s.shipping = addressForm(shipping)
	}
}

func addressForm(a *user.Address) forms.Address {
	return forms.Address{
		Label:        a.Label,
		Phone:        a.Phone,
		AddressLine1: a.Street,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
	}
}

// SubmitDetails handles Step 1. Authenticated users get their profile
// patched before the step advances; guests just record the contact details
// locally for the order payload.
func (s *Session) SubmitDetails(ctx context.Context, form forms.UserDetails) error {
	if errs := forms.Validate(form); len(errs) > 0 {
		return FieldErrors(errs)
	}

	u := s.store.User().User
	if u.IsAuthenticated() {
		updated, err := s.api.UpdateProfile(ctx, form)
		if err != nil {
			return errors.Wrap(err, "update profile")
		}
		// PATCH /auth/profile/ responds without addresses; keep the ones
		// already loaded.
		updated.Addresses = u.Addresses
		s.store.UserFulfilled(updated)
	}

	s.details = form
	s.steps.Next()
	return nil
}

// SubmitAddresses handles Step 2. Guests keep the addresses local. For
// authenticated users the forms are reconciled against saved addresses:
//
//   - no saved addresses: the forms are created as new defaults;
//   - saved addresses exist: only the current default of each type is
//     patched in place;
//   - saved addresses exist but none is flagged default: nothing is
//     written and the step still advances. The order payload will then
//     omit the address IDs entirely.
func (s *Session) SubmitAddresses(ctx context.Context, billing, shipping forms.Address, useBillingAsShipping bool) error {
	if errs := forms.Validate(billing); len(errs) > 0 {
		return FieldErrors(errs)
	}
	if !useBillingAsShipping {
		if errs := forms.Validate(shipping); len(errs) > 0 {
			return FieldErrors(errs)
		}
	}

	u := s.store.User().User
	if u.IsAuthenticated() {
		if err := s.reconcileAddresses(ctx, u, billing, shipping, useBillingAsShipping); err != nil {
			return err
		}
		refreshed, err := s.api.Profile(ctx)
		if err != nil {
			return errors.Wrap(err, "refresh profile")
		}
		s.store.UserFulfilled(refreshed)
	}

	s.billing = billing
	s.shipping = shipping
	s.useBillingAsShipping = useBillingAsShipping
	s.steps.Next()
	return nil
}

func (s *Session) reconcileAddresses(ctx context.Context, u *user.User, billing, shipping forms.Address, useBillingAsShipping bool) error {
	if !u.HasAddresses() {
		// Creates carry only their own default flag: a shared billing
		// address is still stored as default billing only.
		if billing.Label == "" {
			billing.Label = "Billing Address"
		}
		_, err := s.api.CreateAddress(ctx, client.AddressParams{
			Form:             billing,
			AddressType:      user.AddressBilling,
			IsDefaultBilling: true,
		})
		if err != nil {
			return errors.Wrap(err, "create billing address")
		}
		if !useBillingAsShipping {
			if shipping.Label == "" {
				shipping.Label = "Shipping Address"
			}
			_, err := s.api.CreateAddress(ctx, client.AddressParams{
				Form:              shipping,
				AddressType:       user.AddressShipping,
				IsDefaultShipping: true,
			})
			if err != nil {
				return errors.Wrap(err, "create shipping address")
			}
		}
		return nil
	}

	// Updates rewrite the address fields in place; the default flags are
	// already set on the record and are not resent.
	lg := zctx.From(ctx)
	patched := false
	if def, ok := user.FindDefault(u.Addresses, user.AddressBilling); ok {
		_, err := s.api.UpdateAddress(ctx, def.ID, client.AddressParams{
			Form:        billing,
			AddressType: user.AddressBilling,
		})
		if err != nil {
			return errors.Wrap(err, "update billing address")
		}
		patched = true
	}
	if !useBillingAsShipping {
		if def, ok := user.FindDefault(u.Addresses, user.AddressShipping); ok {
			_, err := s.api.UpdateAddress(ctx, def.ID, client.AddressParams{
				Form:        shipping,
				AddressType: user.AddressShipping,
			})
			if err != nil {
				return errors.Wrap(err, "update shipping address")
			}
			patched = true
		}
	}
	if !patched {
		// Saved addresses exist but none is the default of the needed type.
		// The flow proceeds anyway and the order payload will carry no
		// address reference.
		lg.Warn("no default address to update, proceeding without address write",
			zap.Int("saved_addresses", len(u.Addresses)))
	}
	return nil
}

// SubmitOrder handles the final step: it assembles the payload from the
// accumulated forms, creates the order, clears the cart, and returns the
// confirmation page URL.
func (s *Session) SubmitOrder(ctx context.Context) (string, error) {
	if s.steps.Current() != StepPayment {
		return "", errors.Errorf("cannot place order from step %s", s.steps.Current())
	}

	u := s.store.User().User
	req := order.BuildCreateRequest(order.AssembleParams{
		PaymentMethod:        s.paymentMethod,
		User:                 u,
		Details:              s.details,
		Billing:              s.billing,
		Shipping:             s.shipping,
		UseBillingAsShipping: s.useBillingAsShipping,
	})

	s.store.OrderPending()
	placed, err := s.api.CreateOrder(ctx, req, s.idempotencyKey)
	if err != nil {
		s.store.OrderRejected(err)
		return "", errors.Wrap(err, "create order")
	}
	s.store.OrderFulfilled(placed)

	if err := s.api.ClearCart(ctx); err != nil {
		// The order is already placed; a failed cart clear is logged and
		// otherwise ignored, the next cart fetch resolves it.
		zctx.From(ctx).Warn("clear cart after order", zap.Error(err))
	}
	s.store.ClearCart()

	// The confirmation view reads the order from the URL, not the store,
	// so the order slice is ephemeral and resets once the URL is built.
	s.store.ClearOrder()

	return order.ConfirmationURL(*placed, !u.IsAuthenticated())
}
