package cart

import (
	"testing"

	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func component(id int, name string, priceCents int64) *models.Component {
	return &models.Component{ID: id, Type: "CPU", Name: name, PriceCents: priceCents}
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	c := New()
	cpu := component(1, "Ryzen 7", 44900)

	c.AddItem(cpu, 2)
	c.AddItem(cpu, 3)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, int64(44900), c.Lines[0].UnitPriceCents)
}

func TestAddItemFirstPriceWins(t *testing.T) {
	c := New()
	c.AddItem(component(1, "Ryzen 7", 44900), 1)

	// Catalog price changed between adds; the open line keeps the
	// price captured on the first add.
	c.AddItem(component(1, "Ryzen 7", 39900), 1)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, int64(44900), c.Lines[0].UnitPriceCents)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestAddItemClampsQuantity(t *testing.T) {
	c := New()
	c.AddItem(component(1, "Ryzen 7", 44900), 0)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestAddItemNilComponent(t *testing.T) {
	c := New()
	c.AddItem(nil, 1)
	assert.True(t, c.IsEmpty())
}

func TestRemoveItem(t *testing.T) {
	c := New()
	c.AddItem(component(1, "Ryzen 7", 44900), 2)
	c.AddItem(component(2, "RTX 4070", 59900), 1)

	c.RemoveItem(1)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].ComponentID)
}

func TestRemoveItemUnknownIDIsNoop(t *testing.T) {
	c := New()
	c.AddItem(component(1, "Ryzen 7", 44900), 1)

	c.RemoveItem(42)

	assert.Len(t, c.Lines, 1)
}

func TestTotals(t *testing.T) {
	c := New()
	c.AddItem(component(1, "A", 500), 2)
	c.AddItem(component(2, "B", 1500), 1)

	assert.Equal(t, int64(2500), c.TotalCents())
	assert.Equal(t, 3, c.ItemCount())
	assert.Equal(t, "25.00", c.Total().StringFixed(2))

	// Totals are derived, not cached; they follow mutations.
	c.RemoveItem(1)
	assert.Equal(t, int64(1500), c.TotalCents())
	assert.Equal(t, 1, c.ItemCount())
}

func TestClear(t *testing.T) {
	c := New()
	c.AddItem(component(1, "A", 500), 2)
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.TotalCents())
	assert.Equal(t, 0, c.ItemCount())
}
