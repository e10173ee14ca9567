package store

import (
	"context"
)

type DashboardStats struct {
	TotalBooks       int
	TotalStock       int
	TotalRequests    int
	ConfirmedCount   int
	RequestsByStatus map[string]int
	TopBooks         []BookRequestCount
}

type BookRequestCount struct {
	BookID       int64
	Title        string
	RequestCount int
}

func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		RequestsByStatus: make(map[string]int),
	}

	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(stock), 0) FROM books").Scan(&stats.TotalBooks, &stats.TotalStock)
	if err != nil {
		return nil, err
	}

	err = s.DB.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(confirmed), 0) FROM donation_requests").Scan(&stats.TotalRequests, &stats.ConfirmedCount)
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM donation_requests GROUP BY status")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.RequestsByStatus[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	bookRows, err := s.DB.QueryContext(ctx, `
		SELECT b.id, b.title, COUNT(dr.id) AS request_count
		FROM books b
		JOIN donation_requests dr ON b.id = dr.book_id
		GROUP BY b.id
		ORDER BY request_count DESC, b.id
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer bookRows.Close()
	for bookRows.Next() {
		var c BookRequestCount
		if err := bookRows.Scan(&c.BookID, &c.Title, &c.RequestCount); err != nil {
			return nil, err
		}
		stats.TopBooks = append(stats.TopBooks, c)
	}
	return stats, bookRows.Err()
}
