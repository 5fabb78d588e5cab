package store

import (
	"path/filepath"
	"testing"

	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate("../../migrations"))
	return s
}

func seedCustomer(t *testing.T, s *Store) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		ID:           uuid.New().String(),
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, s.CreateCustomer(customer))
	return customer
}

func seedComponent(t *testing.T, s *Store, componentType, name string, priceCents int64) *models.Component {
	t.Helper()
	component := &models.Component{Type: componentType, Name: name, PriceCents: priceCents, Spec: "test spec"}
	require.NoError(t, s.CreateComponent(component))
	return component
}

func TestComponentRoundTrip(t *testing.T) {
	s := newTestStore(t)

	created := seedComponent(t, s, "CPU", "Ryzen 7 7700X", 44900)
	require.NotZero(t, created.ID)

	got, err := s.ComponentByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ryzen 7 7700X", got.Name)
	assert.Equal(t, int64(44900), got.PriceCents)

	got.Name = "Ryzen 7 7800X3D"
	got.PriceCents = 52900
	require.NoError(t, s.UpdateComponent(got))
	require.NoError(t, s.UpdateComponentImage(got.ID, "/static/uploads/cpu.jpg"))

	updated, err := s.ComponentByID(got.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ryzen 7 7800X3D", updated.Name)
	assert.Equal(t, int64(52900), updated.PriceCents)
	assert.Equal(t, "/static/uploads/cpu.jpg", updated.ImageURL)

	require.NoError(t, s.DeleteComponent(got.ID))
	gone, err := s.ComponentByID(got.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestComponentsByCategoryIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	seedComponent(t, s, "CPU", "Ryzen 5", 22900)
	seedComponent(t, s, "CPU", "Ryzen 7", 44900)
	seedComponent(t, s, "GPU", "RTX 4070", 59900)

	cpus, err := s.ComponentsByCategory("cpu")
	require.NoError(t, err)
	require.Len(t, cpus, 2)
	// Cheapest first.
	assert.Equal(t, "Ryzen 5", cpus[0].Name)

	none, err := s.ComponentsByCategory("Cooler")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateOrderPersistsItemsAtomically(t *testing.T) {
	s := newTestStore(t)
	customer := seedCustomer(t, s)
	cpu := seedComponent(t, s, "CPU", "Ryzen 7", 44900)
	gpu := seedComponent(t, s, "GPU", "RTX 4070", 59900)

	order := &models.Order{
		OrderRef:        "ABCD1234",
		CustomerID:      customer.ID,
		TotalAmount:     decimal.New(149700, -2),
		ShippingAddress: "1 Main St",
		Status:          models.StatusPending,
		Items: []models.OrderItem{
			{ComponentID: cpu.ID, Quantity: 2, UnitPrice: decimal.New(44900, -2)},
			{ComponentID: gpu.ID, Quantity: 1, UnitPrice: decimal.New(59900, -2)},
		},
	}
	require.NoError(t, s.CreateOrder(order))
	require.NotZero(t, order.ID)
	assert.NotZero(t, order.Items[0].ID)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	loaded, err := s.OrderForCustomer(order.ID, customer.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "ABCD1234", loaded.OrderRef)
	assert.True(t, loaded.TotalAmount.Equal(decimal.New(149700, -2)), "total %s", loaded.TotalAmount)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Ryzen 7", loaded.Items[0].ComponentName)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.True(t, loaded.Items[0].UnitPrice.Equal(decimal.New(44900, -2)), "unit price %s", loaded.Items[0].UnitPrice)
}

func TestOrderForCustomerScopesToOwner(t *testing.T) {
	s := newTestStore(t)
	owner := seedCustomer(t, s)
	stranger := seedCustomer(t, s)
	cpu := seedComponent(t, s, "CPU", "Ryzen 7", 44900)

	order := &models.Order{
		OrderRef:        "WXYZ9876",
		CustomerID:      owner.ID,
		TotalAmount:     decimal.New(44900, -2),
		ShippingAddress: "1 Main St",
		Status:          models.StatusPending,
		Items:           []models.OrderItem{{ComponentID: cpu.ID, Quantity: 1, UnitPrice: decimal.New(44900, -2)}},
	}
	require.NoError(t, s.CreateOrder(order))

	foreign, err := s.OrderForCustomer(order.ID, stranger.ID)
	require.NoError(t, err)
	assert.Nil(t, foreign, "foreign order must read as missing")

	missing, err := s.OrderForCustomer(order.ID+1000, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	// The unscoped admin lookup still sees it.
	admin, err := s.OrderByID(order.ID)
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, owner.ID, admin.CustomerID)
}

func TestOrdersByCustomerAndStatusUpdate(t *testing.T) {
	s := newTestStore(t)
	customer := seedCustomer(t, s)
	cpu := seedComponent(t, s, "CPU", "Ryzen 7", 44900)

	for _, ref := range []string{"AAAA0001", "AAAA0002"} {
		order := &models.Order{
			OrderRef:        ref,
			CustomerID:      customer.ID,
			TotalAmount:     decimal.New(44900, -2),
			ShippingAddress: "1 Main St",
			Status:          models.StatusPending,
			Items:           []models.OrderItem{{ComponentID: cpu.ID, Quantity: 1, UnitPrice: decimal.New(44900, -2)}},
		}
		require.NoError(t, s.CreateOrder(order))
	}

	orders, err := s.OrdersByCustomer(customer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Len(t, orders[0].Items, 1)

	count, err := s.TotalOrdersCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.UpdateOrderStatus(orders[0].ID, models.StatusCancelled))
	reloaded, err := s.OrderByID(orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, reloaded.Status)

	paged, err := s.AllOrders(1, 0)
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestCustomerLookupIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	customer := &models.Customer{
		ID:           uuid.New().String(),
		Email:        "Jordan@Example.com",
		PasswordHash: "not-a-real-hash",
		FirstName:    "Jordan",
	}
	require.NoError(t, s.CreateCustomer(customer))

	got, err := s.CustomerByEmail("jordan@example.COM")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, customer.ID, got.ID)

	got.Address = "42 King St"
	got.City = "Halifax"
	require.NoError(t, s.UpdateCustomerProfile(got))

	reloaded, err := s.CustomerByID(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "42 King St", reloaded.Address)

	none, err := s.CustomerByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestDashboardStats(t *testing.T) {
	s := newTestStore(t)
	customer := seedCustomer(t, s)
	cpu := seedComponent(t, s, "CPU", "Ryzen 7", 44900)
	seedComponent(t, s, "GPU", "RTX 4070", 59900)

	order := &models.Order{
		OrderRef:        "STAT0001",
		CustomerID:      customer.ID,
		TotalAmount:     decimal.New(44900, -2),
		ShippingAddress: "1 Main St",
		Status:          models.StatusPending,
		Items:           []models.OrderItem{{ComponentID: cpu.ID, Quantity: 1, UnitPrice: decimal.New(44900, -2)}},
	}
	require.NoError(t, s.CreateOrder(order))

	stats, err := s.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalComponents)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 1, stats.OrdersByStatus["Pending"])
	require.Len(t, stats.ComponentOrderCounts, 2)
	assert.Equal(t, cpu.ID, stats.ComponentOrderCounts[0].ComponentID)
	assert.Equal(t, 1, stats.ComponentOrderCounts[0].OrderCount)
}

func TestAdminRoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateAdmin("admin", "hashed-password"))

	admin, err := s.AdminByUsername("admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "hashed-password", admin.Password)

	none, err := s.AdminByUsername("ghost")
	require.NoError(t, err)
	assert.Nil(t, none)
}
