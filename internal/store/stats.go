package store

import "database/sql"

type DashboardStats struct {
	TotalComponents      int
	TotalOrders          int
	OrdersByStatus       map[string]int
	ComponentOrderCounts []ComponentOrderCount
}

type ComponentOrderCount struct {
	ComponentID int
	Name        string
	OrderCount  int
}

func (s *Store) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: make(map[string]int),
	}

	err := s.DB.QueryRow("SELECT COUNT(*) FROM components").Scan(&stats.TotalComponents)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRow("SELECT COUNT(*) FROM orders").Scan(&stats.TotalOrders)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.DB.Query("SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}

	componentRows, err := s.DB.Query(`
		SELECT c.id, c.name, COUNT(oi.id) as order_count
		FROM components c
		LEFT JOIN order_items oi ON c.id = oi.component_id
		GROUP BY c.id
		ORDER BY order_count DESC
	`)
	if err != nil {
		return nil, err
	}
	defer componentRows.Close()
	for componentRows.Next() {
		var coc ComponentOrderCount
		if err := componentRows.Scan(&coc.ComponentID, &coc.Name, &coc.OrderCount); err != nil {
			return nil, err
		}
		stats.ComponentOrderCounts = append(stats.ComponentOrderCounts, coc)
	}

	return stats, nil
}
