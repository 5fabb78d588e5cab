package cart

import (
	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/shopspring/decimal"
)

// Line is one component-and-quantity entry in a cart. The line is
// keyed by the component id, so adding the same component twice
// increments the existing line instead of duplicating it.
type Line struct {
	ComponentID int    `json:"component_id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Quantity    int    `json:"quantity"`
	// UnitPriceCents is captured when the line is first created and is
	// not refreshed by later adds or catalog price changes.
	UnitPriceCents int64 `json:"unit_price_cents"`
}

// SubtotalCents is quantity times the captured unit price.
func (l Line) SubtotalCents() int64 {
	return int64(l.Quantity) * l.UnitPriceCents
}

func (l Line) Subtotal() decimal.Decimal {
	return decimal.New(l.SubtotalCents(), -2)
}

func (l Line) UnitPrice() decimal.Decimal {
	return decimal.New(l.UnitPriceCents, -2)
}

// Cart accumulates a session's selected components. It holds no
// persistence logic; callers round-trip it through a session with
// Load and Save.
type Cart struct {
	Lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem adds quantity units of component to the cart. If a line for
// the component already exists its quantity is incremented and its
// captured unit price stands. Quantities below one are clamped to one.
func (c *Cart) AddItem(component *models.Component, quantity int) {
	if component == nil {
		return
	}
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ComponentID == component.ID {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, Line{
		ComponentID:    component.ID,
		Name:           component.Name,
		ImageURL:       component.ImageURL,
		Quantity:       quantity,
		UnitPriceCents: component.PriceCents,
	})
}

// RemoveItem removes the whole line for componentID regardless of its
// quantity. Removing an id that is not in the cart is a no-op, so a
// stale page cannot surface an error.
func (c *Cart) RemoveItem(componentID int) {
	for i := range c.Lines {
		if c.Lines[i].ComponentID == componentID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called after a successful checkout.
func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the sum of line quantities, recomputed on every call.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// TotalCents is the sum of quantity times unit price over all lines,
// recomputed on every call.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.SubtotalCents()
	}
	return total
}

// Total is the cart total in dollars.
func (c *Cart) Total() decimal.Decimal {
	return decimal.New(c.TotalCents(), -2)
}
