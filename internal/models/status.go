package models

// OrderStatus is stored as its string form so the orders table stays
// readable from the sqlite shell.
type OrderStatus string

const (
	StatusPending       OrderStatus = "Pending"
	StatusProcessing    OrderStatus = "Processing"
	StatusShipped       OrderStatus = "Shipped"
	StatusDelivered     OrderStatus = "Delivered"
	StatusCancelled     OrderStatus = "Cancelled"
	StatusPaymentFailed OrderStatus = "PaymentFailed"
)

// CanCancel reports whether a customer may still cancel the order.
func (s OrderStatus) CanCancel() bool {
	return s == StatusPending || s == StatusProcessing
}

// CanModify reports whether the order's items may still be pulled back
// into a cart. Only Pending orders qualify; anything further along has
// already been picked.
func (s OrderStatus) CanModify() bool {
	return s == StatusPending
}

// Terminal reports whether no further transitions are defined.
func (s OrderStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusDelivered || s == StatusPaymentFailed
}

// Next returns the fulfillment step after s, or "" when the order does
// not advance (terminal states and Delivered).
func (s OrderStatus) Next() OrderStatus {
	switch s {
	case StatusPending:
		return StatusProcessing
	case StatusProcessing:
		return StatusShipped
	case StatusShipped:
		return StatusDelivered
	}
	return ""
}

func ValidStatus(s string) bool {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusPaymentFailed:
		return true
	}
	return false
}
