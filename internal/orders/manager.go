// Package orders owns the transition from a priced cart to a persisted
// order and every status transition after that. Orders are never
// mutated in place once placed; "modify" is cancel-and-rebuild so the
// order history stays intact.
package orders

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alextreichler/pcbuilder/internal/cart"
	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/google/uuid"
)

// Catalog resolves component ids. The catalog is read-only from this
// package's perspective.
type Catalog interface {
	ComponentByID(id int) (*models.Component, error)
}

// Store persists order aggregates. CreateOrder must write the order
// and all of its items in one transaction. OrderForCustomer returns
// nil (no error) when no order matches the id/customer pair, so
// callers cannot tell a foreign order from a missing one.
type Store interface {
	CreateOrder(order *models.Order) error
	OrderForCustomer(orderID int, customerID string) (*models.Order, error)
	OrderByID(orderID int) (*models.Order, error)
	UpdateOrderStatus(orderID int, status models.OrderStatus) error
}

type Manager struct {
	Catalog Catalog
	Store   Store
}

func NewManager(catalog Catalog, store Store) *Manager {
	return &Manager{Catalog: catalog, Store: store}
}

// PlaceOrder converts the cart into a Pending order owned by
// customerID. Every cart line's component is re-resolved against the
// live catalog; if any line no longer resolves the whole placement
// fails and nothing is persisted. Unit prices are snapshotted from the
// cart lines, not recomputed later. On success the cart is cleared and
// the caller must re-save it.
func (m *Manager) PlaceOrder(c *cart.Cart, customerID, shippingAddress string) (*models.Order, error) {
	if c == nil || c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, ErrMissingAddress
	}
	if customerID == "" {
		return nil, ErrMissingCustomer
	}

	order := &models.Order{
		OrderRef:        newOrderRef(),
		CustomerID:      customerID,
		TotalAmount:     c.Total(),
		ShippingAddress: shippingAddress,
		Status:          models.StatusPending,
	}
	for _, line := range c.Lines {
		component, err := m.Catalog.ComponentByID(line.ComponentID)
		if err != nil {
			return nil, fmt.Errorf("resolving component %d: %w", line.ComponentID, err)
		}
		if component == nil {
			return nil, fmt.Errorf("%q (id %d): %w", line.Name, line.ComponentID, ErrComponentUnavailable)
		}
		order.Items = append(order.Items, models.OrderItem{
			ComponentID:   component.ID,
			ComponentName: component.Name,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice(),
		})
	}

	if err := m.Store.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	c.Clear()
	slog.Info("Order placed", "order_id", order.ID, "order_ref", order.OrderRef,
		"customer_id", customerID, "total", order.TotalAmount.StringFixed(2))
	return order, nil
}

// CancelOrder cancels the customer's order. Allowed from Pending and
// Processing; any other status yields a StateError naming it and the
// order is left untouched.
func (m *Manager) CancelOrder(orderID int, customerID string) (*models.Order, error) {
	order, err := m.ownedOrder(orderID, customerID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanCancel() {
		return nil, &StateError{Op: "cancelled", Status: order.Status}
	}
	if err := m.Store.UpdateOrderStatus(order.ID, models.StatusCancelled); err != nil {
		return nil, fmt.Errorf("cancelling order %d: %w", order.ID, err)
	}
	order.Status = models.StatusCancelled
	slog.Info("Order cancelled", "order_id", order.ID, "customer_id", customerID)
	return order, nil
}

// ModifyOrder implements modify as cancel-and-rebuild: every item
// whose component still resolves is added back into the customer's
// cart at the catalog's current price, then the original order is
// cancelled regardless of how many items made it back. Items whose
// component is gone are logged and skipped. The returned flag tells
// the caller whether the cart changed and needs saving. Allowed from
// Pending only.
func (m *Manager) ModifyOrder(orderID int, customerID string, c *cart.Cart) (bool, error) {
	order, err := m.ownedOrder(orderID, customerID)
	if err != nil {
		return false, err
	}
	if !order.Status.CanModify() {
		return false, &StateError{Op: "modified", Status: order.Status}
	}

	itemsAdded := false
	for _, item := range order.Items {
		component, err := m.Catalog.ComponentByID(item.ComponentID)
		if err != nil || component == nil {
			slog.Warn("Skipping unavailable component during order modify",
				"order_id", order.ID, "component_id", item.ComponentID, "error", err)
			continue
		}
		c.AddItem(component, item.Quantity)
		itemsAdded = true
	}

	if err := m.Store.UpdateOrderStatus(order.ID, models.StatusCancelled); err != nil {
		return itemsAdded, fmt.Errorf("cancelling order %d: %w", order.ID, err)
	}
	slog.Info("Order moved back to cart", "order_id", order.ID,
		"customer_id", customerID, "items_added", itemsAdded)
	return itemsAdded, nil
}

// AdvanceOrder moves an order one step along the fulfillment path
// (Pending -> Processing -> Shipped -> Delivered). Used by the admin
// side, so it is not customer-scoped.
func (m *Manager) AdvanceOrder(orderID int) (*models.Order, error) {
	order, err := m.Store.OrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("loading order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	next := order.Status.Next()
	if next == "" {
		return nil, &StateError{Op: "advanced", Status: order.Status}
	}
	if err := m.Store.UpdateOrderStatus(order.ID, next); err != nil {
		return nil, fmt.Errorf("advancing order %d: %w", order.ID, err)
	}
	order.Status = next
	slog.Info("Order advanced", "order_id", order.ID, "status", next)
	return order, nil
}

// MarkPaymentFailed records a payment failure reported by the payment
// processor. Terminal orders are left alone.
func (m *Manager) MarkPaymentFailed(orderID int) (*models.Order, error) {
	order, err := m.Store.OrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("loading order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.Status.Terminal() {
		return nil, &StateError{Op: "marked as payment failed", Status: order.Status}
	}
	if err := m.Store.UpdateOrderStatus(order.ID, models.StatusPaymentFailed); err != nil {
		return nil, fmt.Errorf("marking order %d payment failed: %w", order.ID, err)
	}
	order.Status = models.StatusPaymentFailed
	slog.Warn("Order payment failed", "order_id", order.ID)
	return order, nil
}

func (m *Manager) ownedOrder(orderID int, customerID string) (*models.Order, error) {
	if customerID == "" {
		return nil, ErrMissingCustomer
	}
	order, err := m.Store.OrderForCustomer(orderID, customerID)
	if err != nil {
		return nil, fmt.Errorf("loading order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

func newOrderRef() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
