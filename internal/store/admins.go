package store

import (
	"database/sql"

	"github.com/alextreichler/pcbuilder/internal/models"
)

func (s *Store) AdminByUsername(username string) (*models.Admin, error) {
	query := `SELECT id, username, password FROM admins WHERE username = ?`
	row := s.DB.QueryRow(query, username)

	var admin models.Admin
	if err := row.Scan(&admin.ID, &admin.Username, &admin.Password); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// CreateAdmin is mainly for seeding the initial admin via the CLI.
func (s *Store) CreateAdmin(username, hashedPassword string) error {
	query := `INSERT INTO admins (username, password) VALUES (?, ?)`
	_, err := s.DB.Exec(query, username, hashedPassword)
	return err
}
