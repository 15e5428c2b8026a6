package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shift_scheduler_backend/internal/models"
)

// ReportRepository reads the raw spans the hours report aggregates.
type ReportRepository interface {
	// GetShiftSpans returns shifts starting inside [from, to).
	GetShiftSpans(ctx context.Context, from, to time.Time) ([]models.TimeSpan, error)
	// GetPunchSpans returns punches, open or closed, starting inside [from, to).
	GetPunchSpans(ctx context.Context, from, to time.Time) ([]models.TimeSpan, error)
	// GetUsernames maps every account id to its username.
	GetUsernames(ctx context.Context) (map[string]string, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetShiftSpans(ctx context.Context, from, to time.Time) ([]models.TimeSpan, error) {
	query := `SELECT employee_id, start_time, end_time FROM shifts
	          WHERE start_time >= $1 AND start_time < $2
	          ORDER BY start_time ASC`
	return r.spans(ctx, "shift", query, from.UTC(), to.UTC())
}

func (r *reportRepository) GetPunchSpans(ctx context.Context, from, to time.Time) ([]models.TimeSpan, error) {
	query := `SELECT employee_id, punch_in, punch_out FROM punches
	          WHERE punch_in >= $1 AND punch_in < $2
	          ORDER BY punch_in ASC`
	return r.spans(ctx, "punch", query, from.UTC(), to.UTC())
}

func (r *reportRepository) spans(ctx context.Context, kind, query string, args ...interface{}) ([]models.TimeSpan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s spans: %v", ErrDatabaseError, kind, err)
	}
	defer rows.Close()

	spans := []models.TimeSpan{}
	for rows.Next() {
		var span models.TimeSpan
		var end sql.NullTime
		if err := rows.Scan(&span.EmployeeID, &span.Start, &end); err != nil {
			return nil, fmt.Errorf("%w: scanning %s span: %v", ErrDatabaseError, kind, err)
		}
		if end.Valid {
			t := end.Time
			span.End = &t
		}
		spans = append(spans, span)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating %s spans: %v", ErrDatabaseError, kind, err)
	}
	return spans, nil
}

func (r *reportRepository) GetUsernames(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username FROM users`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying usernames: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, fmt.Errorf("%w: scanning username: %v", ErrDatabaseError, err)
		}
		names[id] = username
	}
	return names, rows.Err()
}
