package orders

import (
	"errors"
	"testing"

	"github.com/alextreichler/pcbuilder/internal/cart"
	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	components map[int]*models.Component
}

func (f *fakeCatalog) ComponentByID(id int) (*models.Component, error) {
	return f.components[id], nil
}

// fakeStore keeps order aggregates in memory, mirroring the sqlite
// store's contract: missing rows come back as (nil, nil).
type fakeStore struct {
	orders    map[int]*models.Order
	nextID    int
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[int]*models.Order{}, nextID: 1}
}

func (f *fakeStore) CreateOrder(order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = f.nextID
	f.nextID++
	saved := *order
	saved.Items = append([]models.OrderItem(nil), order.Items...)
	f.orders[order.ID] = &saved
	return nil
}

func (f *fakeStore) OrderForCustomer(orderID int, customerID string) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok || order.CustomerID != customerID {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (f *fakeStore) OrderByID(orderID int) (*models.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (f *fakeStore) UpdateOrderStatus(orderID int, status models.OrderStatus) error {
	order, ok := f.orders[orderID]
	if !ok {
		return errors.New("no such order")
	}
	order.Status = status
	return nil
}

func newManager() (*Manager, *fakeCatalog, *fakeStore) {
	catalog := &fakeCatalog{components: map[int]*models.Component{
		1: {ID: 1, Type: "CPU", Name: "Ryzen 7", PriceCents: 44900},
		2: {ID: 2, Type: "GPU", Name: "RTX 4070", PriceCents: 59900},
	}}
	store := newFakeStore()
	return NewManager(catalog, store), catalog, store
}

func cartWith(items ...*models.Component) *cart.Cart {
	c := cart.New()
	for _, component := range items {
		c.AddItem(component, 1)
	}
	return c
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	m, _, store := newManager()

	_, err := m.PlaceOrder(cart.New(), "cust-1", "1 Main St")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, store.orders)
}

func TestPlaceOrderMissingAddress(t *testing.T) {
	m, catalog, store := newManager()

	_, err := m.PlaceOrder(cartWith(catalog.components[1]), "cust-1", "   ")
	assert.ErrorIs(t, err, ErrMissingAddress)
	assert.Empty(t, store.orders)
}

func TestPlaceOrderMissingCustomer(t *testing.T) {
	m, catalog, _ := newManager()

	_, err := m.PlaceOrder(cartWith(catalog.components[1]), "", "1 Main St")
	assert.ErrorIs(t, err, ErrMissingCustomer)
}

func TestPlaceOrderStaleComponentAbortsEverything(t *testing.T) {
	m, catalog, store := newManager()

	c := cart.New()
	c.AddItem(catalog.components[1], 1)
	c.AddItem(catalog.components[2], 2)
	delete(catalog.components, 2) // pulled from the catalog after add-to-cart

	_, err := m.PlaceOrder(c, "cust-1", "1 Main St")
	assert.ErrorIs(t, err, ErrComponentUnavailable)
	// All or nothing: no order, and the cart is untouched.
	assert.Empty(t, store.orders)
	assert.Len(t, c.Lines, 2)
}

func TestPlaceOrderSuccess(t *testing.T) {
	m, catalog, store := newManager()

	c := cart.New()
	c.AddItem(catalog.components[1], 2)
	c.AddItem(catalog.components[2], 1)

	// A later catalog price change must not move the snapshot; the cart
	// captured the price at add time.
	catalog.components[1].PriceCents = 99900

	order, err := m.PlaceOrder(c, "cust-1", "1 Main St")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "cust-1", order.CustomerID)
	assert.NotEmpty(t, order.OrderRef)
	assert.True(t, order.TotalAmount.Equal(decimal.New(149700, -2)),
		"total %s", order.TotalAmount)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.New(44900, -2)),
		"unit price %s", order.Items[0].UnitPrice)

	assert.True(t, c.IsEmpty(), "cart should be cleared after placement")
	require.Len(t, store.orders, 1)
}

func TestCancelOrderPending(t *testing.T) {
	m, catalog, store := newManager()
	placed, err := m.PlaceOrder(cartWith(catalog.components[1]), "cust-1", "1 Main St")
	require.NoError(t, err)

	cancelled, err := m.CancelOrder(placed.ID, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, models.StatusCancelled, store.orders[placed.ID].Status)
}

func TestCancelOrderShippedNamesStatus(t *testing.T) {
	m, catalog, store := newManager()
	placed, err := m.PlaceOrder(cartWith(catalog.components[1]), "cust-1", "1 Main St")
	require.NoError(t, err)
	store.orders[placed.ID].Status = models.StatusShipped

	_, err = m.CancelOrder(placed.ID, "cust-1")
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.StatusShipped, stateErr.Status)
	assert.Contains(t, err.Error(), "Shipped")
	assert.Equal(t, models.StatusShipped, store.orders[placed.ID].Status)
}

func TestCancelOrderOwnershipMismatchReadsAsNotFound(t *testing.T) {
	m, catalog, _ := newManager()
	placed, err := m.PlaceOrder(cartWith(catalog.components[1]), "cust-1", "1 Main St")
	require.NoError(t, err)

	_, errForeign := m.CancelOrder(placed.ID, "cust-2")
	_, errMissing := m.CancelOrder(9999, "cust-2")

	// A foreign order and a missing order are indistinguishable.
	assert.ErrorIs(t, errForeign, ErrNotFound)
	assert.ErrorIs(t, errMissing, ErrNotFound)
	assert.Equal(t, errForeign.Error(), errMissing.Error())
}

func TestModifyOrderBestEffort(t *testing.T) {
	m, catalog, store := newManager()

	c := cart.New()
	c.AddItem(catalog.components[1], 2)
	c.AddItem(catalog.components[2], 1)
	placed, err := m.PlaceOrder(c, "cust-1", "1 Main St")
	require.NoError(t, err)

	// One of the two components disappears before the modify.
	delete(catalog.components, 2)

	newCart := cart.New()
	itemsAdded, err := m.ModifyOrder(placed.ID, "cust-1", newCart)
	require.NoError(t, err)

	assert.True(t, itemsAdded)
	require.Len(t, newCart.Lines, 1)
	assert.Equal(t, 1, newCart.Lines[0].ComponentID)
	assert.Equal(t, 2, newCart.Lines[0].Quantity)
	assert.Equal(t, models.StatusCancelled, store.orders[placed.ID].Status)
}

func TestModifyOrderNothingResolvableStillCancels(t *testing.T) {
	m, catalog, store := newManager()
	placed, err := m.PlaceOrder(cartWith(catalog.components[1]), "cust-1", "1 Main St")
	require.NoError(t, err)
	delete(catalog.components, 1)

	newCart := cart.New()
	itemsAdded, err := m.ModifyOrder(placed.ID, "cust-1", newCart)
	require.NoError(t, err)

	assert.False(t, itemsAdded)
	assert.True(t, newCart.IsEmpty())
	assert.Equal(t, models.StatusCancelled, store.orders[placed.ID].Status)
}

func TestModifyOrderOnlyFromPending(t *testing.T) {
	m, catalog, store := newManager()
	placed, err := m.PlaceOrder(cartWith(catalog.components[1]), "cust-1", "1 Main St")
	require.NoError(t, err)
	store.orders[placed.ID].Status = models.StatusProcessing

	_, err = m.ModifyOrder(placed.ID, "cust-1", cart.New())
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.StatusProcessing, stateErr.Status)
}

func TestAdvanceOrderWalksFulfillment(t *testing.T) {
	m, catalog, store := newManager()
	placed, err := m.PlaceOrder(cartWith(catalog.components[1]), "cust-1", "1 Main St")
	require.NoError(t, err)

	for _, want := range []models.OrderStatus{models.StatusProcessing, models.StatusShipped, models.StatusDelivered} {
		order, err := m.AdvanceOrder(placed.ID)
		require.NoError(t, err)
		assert.Equal(t, want, order.Status)
	}

	// Delivered is terminal.
	_, err = m.AdvanceOrder(placed.ID)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.StatusDelivered, stateErr.Status)
	assert.Equal(t, models.StatusDelivered, store.orders[placed.ID].Status)
}

func TestMarkPaymentFailed(t *testing.T) {
	m, catalog, store := newManager()
	placed, err := m.PlaceOrder(cartWith(catalog.components[1]), "cust-1", "1 Main St")
	require.NoError(t, err)

	order, err := m.MarkPaymentFailed(placed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaymentFailed, order.Status)

	// Terminal now; a second report is rejected.
	_, err = m.MarkPaymentFailed(placed.ID)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.StatusPaymentFailed, store.orders[placed.ID].Status)
}
