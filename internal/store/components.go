package store

import (
	"database/sql"

	"github.com/alextreichler/pcbuilder/internal/models"
)

const componentColumns = `id, type, name, price_cents, spec, COALESCE(image_url, '') as image_url, created_at`

// ComponentByID resolves a catalog id. Returns (nil, nil) when the
// component does not exist.
func (s *Store) ComponentByID(id int) (*models.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE id = ?`
	var c models.Component
	err := s.DB.QueryRow(query, id).Scan(&c.ID, &c.Type, &c.Name, &c.PriceCents, &c.Spec, &c.ImageURL, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ComponentsByCategory lists components of one type. The match is
// case-insensitive so "cpu" and "CPU" are the same category.
func (s *Store) ComponentsByCategory(category string) ([]models.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE LOWER(type) = LOWER(?) ORDER BY price_cents ASC`
	rows, err := s.DB.Query(query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComponents(rows)
}

// AllComponents lists the whole catalog, newest first.
func (s *Store) AllComponents() ([]models.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components ORDER BY created_at DESC`
	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComponents(rows)
}

func (s *Store) CreateComponent(c *models.Component) error {
	query := `
		INSERT INTO components (type, name, price_cents, spec, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	res, err := s.DB.Exec(query, c.Type, c.Name, c.PriceCents, c.Spec, c.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = int(id)
	return nil
}

func (s *Store) UpdateComponent(c *models.Component) error {
	query := `
		UPDATE components
		SET type = ?, name = ?, price_cents = ?, spec = ?
		WHERE id = ?
	`
	_, err := s.DB.Exec(query, c.Type, c.Name, c.PriceCents, c.Spec, c.ID)
	return err
}

func (s *Store) UpdateComponentImage(id int, imageURL string) error {
	query := `UPDATE components SET image_url = ? WHERE id = ?`
	_, err := s.DB.Exec(query, imageURL, id)
	return err
}

func (s *Store) DeleteComponent(id int) error {
	query := `DELETE FROM components WHERE id = ?`
	_, err := s.DB.Exec(query, id)
	return err
}

func scanComponents(rows *sql.Rows) ([]models.Component, error) {
	var components []models.Component
	for rows.Next() {
		var c models.Component
		if err := rows.Scan(&c.ID, &c.Type, &c.Name, &c.PriceCents, &c.Spec, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, rows.Err()
}
