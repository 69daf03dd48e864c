package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardTotals is the admin dashboard summary.
type DashboardTotals struct {
	ApprovedEvents        int `json:"approved_events"`
	AvailableVolunteers   int `json:"available_volunteers"`
	ApprovedOrganizations int `json:"approved_organizations"`
	PendingReports        int `json:"pending_reports"`
}

// FavoriteCount is one row of the top-favorited-events leaderboard.
type FavoriteCount struct {
	EventID uuid.UUID `json:"event_id"`
	Title   string    `json:"title"`
	Count   int       `json:"count"`
}

// Repository runs the aggregation queries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a stats repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// MonthlyEventCounts returns raw (year, month) event counts by start_time over
// the trailing 12 months. All statuses count; MonthlyBuckets zero-fills.
func (r *Repository) MonthlyEventCounts(ctx context.Context, now time.Time) (map[[2]int]int, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	const q = `SELECT EXTRACT(YEAR FROM start_time)::int, EXTRACT(MONTH FROM start_time)::int, COUNT(*)
		FROM events WHERE start_time >= $1 AND start_time < $2
		GROUP BY 1, 2`
	rows, err := r.pool.Query(ctx, q, from, from.AddDate(0, 12, 0))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	raw := make(map[[2]int]int)
	for rows.Next() {
		var y, m, n int
		if err := rows.Scan(&y, &m, &n); err != nil {
			return nil, err
		}
		raw[[2]int{y, m}] = n
	}
	return raw, rows.Err()
}

// Dashboard returns the admin dashboard totals.
func (r *Repository) Dashboard(ctx context.Context) (*DashboardTotals, error) {
	const q = `SELECT
		(SELECT COUNT(*) FROM events WHERE status = 'approved'),
		(SELECT COUNT(*) FROM volunteers WHERE availability = 'available'),
		(SELECT COUNT(*) FROM organizations WHERE is_approved),
		(SELECT COUNT(*) FROM event_reports WHERE status = 'pending')`
	var t DashboardTotals
	if err := r.pool.QueryRow(ctx, q).
		Scan(&t.ApprovedEvents, &t.AvailableVolunteers, &t.ApprovedOrganizations, &t.PendingReports); err != nil {
		return nil, err
	}
	return &t, nil
}

// TopFavorites returns the most-favorited events. Ties break on event id
// ascending so the ordering is deterministic.
func (r *Repository) TopFavorites(ctx context.Context, limit int) ([]FavoriteCount, error) {
	const q = `SELECT e.id, e.title, COUNT(f.user_id) AS favorites
		FROM events e
		JOIN event_favorites f ON f.event_id = e.id
		GROUP BY e.id, e.title
		ORDER BY favorites DESC, e.id ASC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []FavoriteCount
	for rows.Next() {
		var fc FavoriteCount
		if err := rows.Scan(&fc.EventID, &fc.Title, &fc.Count); err != nil {
			return nil, err
		}
		list = append(list, fc)
	}
	return list, rows.Err()
}
