package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shift_scheduler_backend/internal/models"
)

// PunchRepository defines the database operations on time punches.
type PunchRepository interface {
	CreatePunch(ctx context.Context, executor SQLExecutor, p *models.Punch) (*models.Punch, error)
	// GetOpenPunch returns the employee's punch without a punch_out, or ErrNotFound.
	GetOpenPunch(ctx context.Context, employeeID string) (*models.Punch, error)
	ClosePunch(ctx context.Context, executor SQLExecutor, id int64, punchOut time.Time) error
	GetPunchesByEmployee(ctx context.Context, employeeID string) ([]models.Punch, error)
}

type punchRepository struct {
	db *sql.DB
}

func NewPunchRepository(db *sql.DB) PunchRepository {
	return &punchRepository{db: db}
}

const punchColumns = `id, employee_id, punch_in, punch_out, notes`

func scanPunch(row scanner) (*models.Punch, error) {
	var p models.Punch
	var punchOut sql.NullTime
	var notes sql.NullString
	if err := row.Scan(&p.ID, &p.EmployeeID, &p.PunchIn, &punchOut, &notes); err != nil {
		return nil, err
	}
	if punchOut.Valid {
		out := punchOut.Time
		p.PunchOut = &out
	}
	p.Notes = stringPtr(notes)
	return &p, nil
}

func (r *punchRepository) CreatePunch(ctx context.Context, executor SQLExecutor, p *models.Punch) (*models.Punch, error) {
	query := `INSERT INTO punches (employee_id, punch_in, notes)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	p.PunchIn = p.PunchIn.UTC()

	err := executor.QueryRowContext(ctx, query, p.EmployeeID, p.PunchIn, nullString(p.Notes)).Scan(&p.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: creating punch (employee %s not found): %v", ErrNotFound, p.EmployeeID, err)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: employee %s already has an open punch", ErrDuplicateKey, p.EmployeeID)
		}
		return nil, fmt.Errorf("%w: creating punch: %v", ErrDatabaseError, err)
	}
	return p, nil
}

func (r *punchRepository) GetOpenPunch(ctx context.Context, employeeID string) (*models.Punch, error) {
	query := `SELECT ` + punchColumns + ` FROM punches
	          WHERE employee_id = $1 AND punch_out IS NULL
	          ORDER BY punch_in DESC LIMIT 1`
	p, err := scanPunch(r.db.QueryRowContext(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting open punch for %s: %v", ErrDatabaseError, employeeID, err)
	}
	return p, nil
}

func (r *punchRepository) ClosePunch(ctx context.Context, executor SQLExecutor, id int64, punchOut time.Time) error {
	result, err := executor.ExecContext(ctx,
		`UPDATE punches SET punch_out = $1 WHERE id = $2 AND punch_out IS NULL`, punchOut.UTC(), id)
	if err != nil {
		return fmt.Errorf("%w: closing punch ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *punchRepository) GetPunchesByEmployee(ctx context.Context, employeeID string) ([]models.Punch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+punchColumns+` FROM punches WHERE employee_id = $1 ORDER BY punch_in DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying punches: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	punches := []models.Punch{}
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning punch: %v", ErrDatabaseError, err)
		}
		punches = append(punches, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating punch rows: %v", ErrDatabaseError, err)
	}
	return punches, nil
}
