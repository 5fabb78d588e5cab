package orders

import (
	"errors"
	"fmt"

	"github.com/alextreichler/pcbuilder/internal/models"
)

var (
	// ErrEmptyCart rejects checkout of a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingAddress rejects checkout without a shipping address.
	ErrMissingAddress = errors.New("shipping address is required")
	// ErrMissingCustomer rejects operations with no authenticated owner.
	ErrMissingCustomer = errors.New("customer is required")
	// ErrNotFound covers both a missing order and an order owned by a
	// different customer; the two are deliberately indistinguishable.
	ErrNotFound = errors.New("order not found")
	// ErrComponentUnavailable aborts checkout when a cart line's
	// component no longer resolves in the catalog.
	ErrComponentUnavailable = errors.New("component is no longer available")
)

// StateError reports a transition attempted from a status that does
// not allow it. The current status is named so the message can be
// shown to the customer as-is.
type StateError struct {
	Op     string
	Status models.OrderStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("order cannot be %s: it is already %s", e.Op, e.Status)
}
