package store

import (
	"database/sql"
	"fmt"

	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/shopspring/decimal"
)

// CreateOrder writes the order and all of its items in one
// transaction; a failed item insert rolls the whole order back.
func (s *Store) CreateOrder(order *models.Order) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO orders (order_ref, customer_id, total_amount, shipping_address, status, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, order.OrderRef, order.CustomerID, order.TotalAmount.StringFixed(2), order.ShippingAddress, string(order.Status))
	if err != nil {
		return err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		res, err := tx.Exec(`
			INSERT INTO order_items (order_id, component_id, quantity, unit_price)
			VALUES (?, ?, ?, ?)
		`, orderID, item.ComponentID, item.Quantity, item.UnitPrice.StringFixed(2))
		if err != nil {
			return err
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		item.ID = int(itemID)
		item.OrderID = int(orderID)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	order.ID = int(orderID)
	return nil
}

const orderColumns = `o.id, o.order_ref, o.customer_id, o.total_amount, o.shipping_address, o.status, o.created_at`

// OrderForCustomer loads one order scoped to its owner. A missing
// order and an order owned by someone else both come back (nil, nil).
func (s *Store) OrderForCustomer(orderID int, customerID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = ? AND o.customer_id = ?`
	return s.loadOrder(s.DB.QueryRow(query, orderID, customerID))
}

// OrderByID loads one order without an ownership scope (admin side).
func (s *Store) OrderByID(orderID int) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = ?`
	return s.loadOrder(s.DB.QueryRow(query, orderID))
}

// OrdersByCustomer lists a customer's orders with items, newest first.
func (s *Store) OrdersByCustomer(customerID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.customer_id = ? ORDER BY o.created_at DESC, o.id DESC`
	rows, err := s.DB.Query(query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		items, err := s.orderItems(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// AllOrders pages through every order for the admin list.
func (s *Store) AllOrders(limit, offset int) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o ORDER BY o.created_at DESC, o.id DESC LIMIT ? OFFSET ?`
	rows, err := s.DB.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *Store) TotalOrdersCount() (int, error) {
	var count int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

func (s *Store) UpdateOrderStatus(orderID int, status models.OrderStatus) error {
	query := `UPDATE orders SET status = ? WHERE id = ?`
	_, err := s.DB.Exec(query, string(status), orderID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) loadOrder(row rowScanner) (*models.Order, error) {
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	items, err := s.orderItems(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var total, status string
	if err := row.Scan(&o.ID, &o.OrderRef, &o.CustomerID, &total, &o.ShippingAddress, &status, &o.CreatedAt); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("order %d has a bad total_amount %q: %w", o.ID, total, err)
	}
	o.TotalAmount = amount
	o.Status = models.OrderStatus(status)
	return &o, nil
}

func (s *Store) orderItems(orderID int) ([]models.OrderItem, error) {
	// Join the catalog only for the display name; quantity and price
	// stay frozen on the order item.
	query := `
		SELECT oi.id, oi.order_id, oi.component_id, COALESCE(c.name, '') as name, oi.quantity, oi.unit_price
		FROM order_items oi
		LEFT JOIN components c ON oi.component_id = c.id
		WHERE oi.order_id = ?
		ORDER BY oi.id ASC
	`
	rows, err := s.DB.Query(query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		var price string
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ComponentID, &item.ComponentName, &item.Quantity, &price); err != nil {
			return nil, err
		}
		unitPrice, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("order item %d has a bad unit_price %q: %w", item.ID, price, err)
		}
		item.UnitPrice = unitPrice
		items = append(items, item)
	}
	return items, rows.Err()
}
