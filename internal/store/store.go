// Package store provides the client-side state container holding the cart,
// user, and order slices. It replaces the storefront's global state store
// with an explicit, injectable object so the checkout flow can be tested in
// isolation.
//
// Every slice carries its value plus a loading flag and last error, and all
// mutations go through the store's single mutex. That serialization is the
// only concurrency safety in the system, and it is sufficient because every
// mutation is a last-write-wins field replacement.
package store

import (
	"sync"

	"github.com/Ejaz0000/bike-gear-client/internal/domain/cart"
	"github.com/Ejaz0000/bike-gear-client/internal/domain/order"
	"github.com/Ejaz0000/bike-gear-client/internal/domain/user"
)

// CartState is the cart slice.
type CartState struct {
	Cart    *cart.Cart
	Loading bool
	Err     error
}

// UserState is the user slice.
type UserState struct {
	User    *user.User
	Loading bool
	Err     error
}

// OrderState is the order slice. Submitting mirrors the order-create
// in-flight flag.
type OrderState struct {
	Order      *order.Order
	Submitting bool
	Err        error
}

// Store is the state container. The zero value is not usable; call New.
type Store struct {
	mu    sync.Mutex
	cart  CartState
	user  UserState
	order OrderState
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Cart returns a snapshot of the cart slice.
func (s *Store) Cart() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// User returns a snapshot of the user slice.
func (s *Store) User() UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Order returns a snapshot of the order slice.
func (s *Store) Order() OrderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

// CartPending marks the cart slice as loading and clears its error.
func (s *Store) CartPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Loading = true
	s.cart.Err = nil
}

// CartFulfilled stores a freshly fetched cart.
func (s *Store) CartFulfilled(c *cart.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = CartState{Cart: c}
}

// CartRejected records a cart fetch or mutation failure.
func (s *Store) CartRejected(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Loading = false
	s.cart.Err = err
}

// ClearCart drops the cart, as after a successful order or cart clear.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = CartState{}
}

// UserPending marks the user slice as loading and clears its error.
func (s *Store) UserPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Loading = true
	s.user.Err = nil
}

// UserFulfilled stores the fetched profile.
func (s *Store) UserFulfilled(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = UserState{User: u}
}

// UserRejected records a profile fetch failure.
func (s *Store) UserRejected(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Loading = false
	s.user.Err = err
}

// ClearUser drops the user, as after logout or token purge.
func (s *Store) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = UserState{}
}

// OrderPending marks the order slice as submitting.
func (s *Store) OrderPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order.Submitting = true
	s.order.Err = nil
}

// OrderFulfilled stores the created order record.
func (s *Store) OrderFulfilled(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = OrderState{Order: o}
}

// OrderRejected records an order creation failure.
func (s *Store) OrderRejected(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order.Submitting = false
	s.order.Err = err
}

// ClearOrder drops the ephemeral order state after the confirmation
// hand-off.
func (s *Store) ClearOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = OrderState{}
}
