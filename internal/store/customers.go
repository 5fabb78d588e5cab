package store

import (
	"database/sql"

	"github.com/alextreichler/pcbuilder/internal/models"
)

const customerColumns = `id, email, password_hash, first_name, last_name, address, city, province, postal_code, country, created_at`

func (s *Store) CreateCustomer(c *models.Customer) error {
	query := `
		INSERT INTO customers (id, email, password_hash, first_name, last_name, address, city, province, postal_code, country, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	_, err := s.DB.Exec(query, c.ID, c.Email, c.PasswordHash, c.FirstName, c.LastName,
		c.Address, c.City, c.Province, c.PostalCode, c.Country)
	return err
}

// CustomerByEmail resolves a login email, case-insensitively.
// Returns (nil, nil) when no account matches.
func (s *Store) CustomerByEmail(email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE LOWER(email) = LOWER(?)`
	return scanCustomer(s.DB.QueryRow(query, email))
}

func (s *Store) CustomerByID(id string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	return scanCustomer(s.DB.QueryRow(query, id))
}

func (s *Store) UpdateCustomerProfile(c *models.Customer) error {
	query := `
		UPDATE customers
		SET first_name = ?, last_name = ?, address = ?, city = ?, province = ?, postal_code = ?, country = ?
		WHERE id = ?
	`
	_, err := s.DB.Exec(query, c.FirstName, c.LastName, c.Address, c.City, c.Province, c.PostalCode, c.Country, c.ID)
	return err
}

func scanCustomer(row *sql.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.FirstName, &c.LastName,
		&c.Address, &c.City, &c.Province, &c.PostalCode, &c.Country, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
