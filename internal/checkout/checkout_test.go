package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ejaz0000/bike-gear-client/internal/client"
	"github.com/Ejaz0000/bike-gear-client/internal/domain/order"
	"github.com/Ejaz0000/bike-gear-client/internal/domain/user"
	"github.com/Ejaz0000/bike-gear-client/internal/forms"
	"github.com/Ejaz0000/bike-gear-client/internal/store"
)

// fakeAPI records the address and order traffic the checkout flow produces.
type fakeAPI struct {
	t *testing.T

	addressPosts     int
	addressPostForms []map[string][]string
	addressPatches   []string
	addressPatchForm map[string][]string
	orderBodies      []order.CreateRequest
	orderKeys        []string
	profile          user.User
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	ok := func(w http.ResponseWriter, data string) {
		w.Write([]byte(`{"status":true,"message":"ok","status_code":200,"data":` + data + `}`))
	}
	mux.HandleFunc("/api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		payload, err := json.Marshal(f.profile)
		require.NoError(f.t, err)
		ok(w, string(payload))
	})
	mux.HandleFunc("/api/auth/addresses/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(f.t, r.ParseMultipartForm(1<<20))
		switch r.Method {
		case http.MethodPost:
			f.addressPosts++
			f.addressPostForms = append(f.addressPostForms, r.MultipartForm.Value)
			ok(w, `{"id": 100}`)
		case http.MethodPatch:
			f.addressPatches = append(f.addressPatches, r.URL.Path)
			f.addressPatchForm = r.MultipartForm.Value
			ok(w, `{"id": 100}`)
		default:
			f.t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	mux.HandleFunc("/api/orders/create/", func(w http.ResponseWriter, r *http.Request) {
		var req order.CreateRequest
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		f.orderBodies = append(f.orderBodies, req)
		f.orderKeys = append(f.orderKeys, r.Header.Get("X-Idempotency-Key"))
		ok(w, `{"order_number": "ORD-9001", "subtotal": "1000.00", "shipping_cost": "60.00", "total_price": "1060.00"}`)
	})
	mux.HandleFunc("/api/cart/clear/", func(w http.ResponseWriter, r *http.Request) {
		ok(w, `null`)
	})
	return mux
}

func newSession(t *testing.T, f *fakeAPI, u *user.User) (*Session, *store.Store) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	api, err := client.New(client.Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	st := store.New()
	if u != nil {
		st.UserFulfilled(u)
	}
	return NewSession(api, st), st
}

func guestDetails() forms.UserDetails {
	return forms.UserDetails{Name: "Guest Buyer", Email: "guest@example.com", Phone: "0170000000"}
}

func billingForm() forms.Address {
	return forms.Address{
		Phone:        "0170000000",
		AddressLine1: "12 Mirpur Road",
		City:         "Dhaka",
		State:        "Dhaka",
		PostalCode:   "1216",
		Country:      "Bangladesh",
	}
}

func TestSequencerClampsAtBothEnds(t *testing.T) {
	s := NewSequencer()
	assert.Equal(t, StepDetails, s.Previous())
	assert.Equal(t, StepAddress, s.Next())
	assert.Equal(t, StepPayment, s.Next())
	assert.Equal(t, StepPayment, s.Next())
	assert.Equal(t, StepAddress, s.Previous())
}

func TestGuestCheckoutNeverTouchesAddressEndpoints(t *testing.T) {
	f := &fakeAPI{t: t}
	sess, st := newSession(t, f, nil)
	ctx := context.Background()

	require.NoError(t, sess.SubmitDetails(ctx, guestDetails()))
	require.NoError(t, sess.SubmitAddresses(ctx, billingForm(), forms.Address{}, true))

	confirmURL, err := sess.SubmitOrder(ctx)
	require.NoError(t, err)

	assert.Zero(t, f.addressPosts, "guests must not create saved addresses")
	require.Len(t, f.orderBodies, 1)
	req := f.orderBodies[0]
	assert.Nil(t, req.BillingAddressID)
	assert.Nil(t, req.ShippingAddressID)
	require.NotNil(t, req.GuestBillingAddress)
	assert.Equal(t, "12 Mirpur Road", req.GuestBillingAddress.Street)
	assert.Equal(t, "guest@example.com", req.GuestEmail)

	conf, err := order.ParseConfirmation(confirmURL)
	require.NoError(t, err)
	assert.True(t, conf.IsGuest)
	assert.False(t, conf.TrackOrderVisible())
	assert.Nil(t, st.Cart().Cart)
	assert.Nil(t, st.Order().Order, "order slice resets after the hand-off")
}

func TestAuthenticatedFirstCheckoutCreatesDefaultAddresses(t *testing.T) {
	u := &user.User{ID: 7, Name: "Rahim", Email: "r@example.com", Phone: "0171111111"}
	f := &fakeAPI{t: t, profile: *u}
	sess, _ := newSession(t, f, u)
	ctx := context.Background()

	require.NoError(t, sess.SubmitDetails(ctx, guestDetails()))

	shipping := billingForm()
	shipping.AddressLine1 = "45 Gulshan Avenue"
	require.NoError(t, sess.SubmitAddresses(ctx, billingForm(), shipping, false))
	assert.Equal(t, 2, f.addressPosts, "billing and shipping each created once")
}

func TestAuthenticatedFirstCheckoutSharedAddressCreatesOnce(t *testing.T) {
	u := &user.User{ID: 7, Name: "Rahim", Email: "r@example.com", Phone: "0171111111"}
	f := &fakeAPI{t: t, profile: *u}
	sess, _ := newSession(t, f, u)
	ctx := context.Background()

	require.NoError(t, sess.SubmitDetails(ctx, guestDetails()))
	require.NoError(t, sess.SubmitAddresses(ctx, billingForm(), forms.Address{}, true))
	require.Equal(t, 1, f.addressPosts, "shared billing/shipping creates a single address")

	// The created record is a billing default only; sharing it for
	// shipping is an order-payload concern, not a stored flag.
	form := f.addressPostForms[0]
	assert.Equal(t, []string{"billing"}, form["address_type"])
	assert.Equal(t, []string{"true"}, form["is_default_billing"])
	assert.NotContains(t, form, "is_default_shipping")
	assert.Equal(t, []string{"Billing Address"}, form["label"], "empty label falls back")
}

func TestSharedShippingNeverWritesShippingAddress(t *testing.T) {
	u := &user.User{
		ID:   7,
		Name: "Rahim",
		Addresses: []user.Address{
			{ID: 1, AddressType: user.AddressBilling, IsDefaultBilling: true},
			{ID: 2, AddressType: user.AddressShipping, IsDefaultShipping: true},
		},
	}
	f := &fakeAPI{t: t, profile: *u}
	sess, _ := newSession(t, f, u)
	ctx := context.Background()

	require.NoError(t, sess.SubmitDetails(ctx, guestDetails()))

	// The shipping form carries data, but with shared shipping it must be
	// ignored entirely.
	require.NoError(t, sess.SubmitAddresses(ctx, billingForm(), billingForm(), true))
	assert.Equal(t, []string{"/api/auth/addresses/1/"}, f.addressPatches)
	assert.Zero(t, f.addressPosts)

	// Updates carry the address fields and type only, never default flags.
	assert.Equal(t, []string{"billing"}, f.addressPatchForm["address_type"])
	assert.NotContains(t, f.addressPatchForm, "is_default_billing")
	assert.NotContains(t, f.addressPatchForm, "is_default_shipping")
}

func TestAuthenticatedCheckoutPatchesOnlyDefaultAddresses(t *testing.T) {
	u := &user.User{
		ID:   7,
		Name: "Rahim",
		Addresses: []user.Address{
			{ID: 1, AddressType: user.AddressBilling, IsDefaultBilling: true},
			{ID: 2, AddressType: user.AddressShipping, IsDefaultShipping: true},
			{ID: 3, AddressType: user.AddressShipping},
		},
	}
	f := &fakeAPI{t: t, profile: *u}
	sess, _ := newSession(t, f, u)
	ctx := context.Background()

	require.NoError(t, sess.SubmitDetails(ctx, guestDetails()))
	require.NoError(t, sess.SubmitAddresses(ctx, billingForm(), billingForm(), false))

	assert.Zero(t, f.addressPosts)
	assert.Equal(t, []string{
		"/api/auth/addresses/1/",
		"/api/auth/addresses/2/",
	}, f.addressPatches, "only the flagged defaults are written")
}

func TestAuthenticatedCheckoutWithoutDefaultsSkipsWrites(t *testing.T) {
	u := &user.User{
		ID:   7,
		Name: "Rahim",
		Addresses: []user.Address{
			{ID: 1, Street: "Old Street", AddressType: user.AddressBilling},
		},
	}
	f := &fakeAPI{t: t, profile: *u}
	sess, _ := newSession(t, f, u)
	ctx := context.Background()

	require.NoError(t, sess.SubmitDetails(ctx, guestDetails()))
	require.NoError(t, sess.SubmitAddresses(ctx, billingForm(), forms.Address{}, true))
	assert.Equal(t, StepPayment, sess.Step(), "flow advances even with nothing to patch")
	assert.Zero(t, f.addressPosts)

	_, err := sess.SubmitOrder(ctx)
	require.NoError(t, err)
	require.Len(t, f.orderBodies, 1)
	assert.Nil(t, f.orderBodies[0].BillingAddressID, "no default means no address reference")
	assert.Nil(t, f.orderBodies[0].GuestBillingAddress, "authenticated payloads never embed guest addresses")
}

func TestDefaultBillingOnlyWithSeparateShipping(t *testing.T) {
	u := &user.User{
		ID:   7,
		Name: "Rahim",
		Addresses: []user.Address{
			{ID: 1, AddressType: user.AddressBilling, IsDefaultBilling: true},
		},
	}
	f := &fakeAPI{t: t, profile: *u}
	sess, _ := newSession(t, f, u)
	ctx := context.Background()

	require.NoError(t, sess.SubmitDetails(ctx, guestDetails()))

	shipping := billingForm()
	shipping.AddressLine1 = "45 Gulshan Avenue"
	require.NoError(t, sess.SubmitAddresses(ctx, billingForm(), shipping, false),
		"missing default shipping must not block the step")
	assert.Equal(t, []string{"/api/auth/addresses/1/"}, f.addressPatches)
	assert.Zero(t, f.addressPosts)

	_, err := sess.SubmitOrder(ctx)
	require.NoError(t, err)
	require.Len(t, f.orderBodies, 1)
	req := f.orderBodies[0]
	require.NotNil(t, req.BillingAddressID)
	assert.Equal(t, int64(1), *req.BillingAddressID)
	assert.Nil(t, req.ShippingAddressID, "no default shipping means the field stays omitted")
}

func TestDoubleSubmitReusesIdempotencyKey(t *testing.T) {
	f := &fakeAPI{t: t}
	sess, _ := newSession(t, f, nil)
	ctx := context.Background()

	require.NoError(t, sess.SubmitDetails(ctx, guestDetails()))
	require.NoError(t, sess.SubmitAddresses(ctx, billingForm(), forms.Address{}, true))

	_, err := sess.SubmitOrder(ctx)
	require.NoError(t, err)
	_, err = sess.SubmitOrder(ctx)
	require.NoError(t, err)

	require.Len(t, f.orderKeys, 2)
	assert.NotEmpty(t, f.orderKeys[0])
	assert.Equal(t, f.orderKeys[0], f.orderKeys[1])
}

func TestSubmitDetailsValidates(t *testing.T) {
	f := &fakeAPI{t: t}
	sess, _ := newSession(t, f, nil)

	err := sess.SubmitDetails(context.Background(), forms.UserDetails{Email: "not-an-email"})
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "This field is required", fieldErrs["name"])
	assert.Equal(t, "Enter a valid email address", fieldErrs["email"])
	assert.Equal(t, StepDetails, sess.Step())
	assert.True(t, strings.Contains(err.Error(), "invalid form"))
}
