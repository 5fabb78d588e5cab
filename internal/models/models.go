package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Component is a catalog entry. Prices are stored in integer cents to
// keep cart arithmetic exact; conversion to dollars happens at the
// edges (order snapshots, templates).
type Component struct {
	ID         int       `json:"id"`
	Type       string    `json:"type"` // "CPU", "GPU", "RAM", ...
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Spec       string    `json:"spec"` // free-form spec sheet text
	ImageURL   string    `json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// Price is the catalog price in dollars.
func (c *Component) Price() decimal.Decimal {
	return decimal.New(c.PriceCents, -2)
}

type Customer struct {
	ID           string    `json:"id"` // uuid
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Province     string    `json:"province"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
}

type Order struct {
	ID              int             `json:"id"`
	OrderRef        string          `json:"order_ref"` // public reference shown to the customer
	CustomerID      string          `json:"customer_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID          int `json:"id"`
	OrderID     int `json:"order_id"`
	ComponentID int `json:"component_id"`
	// Denormalized for display; the authoritative snapshot is UnitPrice.
	ComponentName string          `json:"component_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"` // captured at purchase time
}

type Admin struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // bcrypt hash
}
