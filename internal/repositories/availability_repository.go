package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shift_scheduler_backend/internal/models"
)

// AvailabilityRepository defines the database operations on availabilities.
type AvailabilityRepository interface {
	CreateAvailability(ctx context.Context, executor SQLExecutor, a *models.Availability) (*models.Availability, error)
	GetAvailabilityByID(ctx context.Context, id int64) (*models.Availability, error)
	GetAvailabilitiesByEmployee(ctx context.Context, employeeID string) ([]models.Availability, error)
	DeleteAvailability(ctx context.Context, executor SQLExecutor, id int64) error
}

type availabilityRepository struct {
	db *sql.DB
}

func NewAvailabilityRepository(db *sql.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

const availabilityColumns = `id, employee_id, day_of_week, start_time, end_time, notes, created_at`

func scanAvailability(row scanner) (*models.Availability, error) {
	var a models.Availability
	var notes sql.NullString
	if err := row.Scan(&a.ID, &a.EmployeeID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &notes, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Notes = stringPtr(notes)
	return &a, nil
}

func (r *availabilityRepository) CreateAvailability(ctx context.Context, executor SQLExecutor, a *models.Availability) (*models.Availability, error) {
	query := `INSERT INTO availabilities (employee_id, day_of_week, start_time, end_time, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	a.CreatedAt = time.Now().UTC()

	err := executor.QueryRowContext(ctx, query,
		a.EmployeeID, a.DayOfWeek, a.StartTime, a.EndTime, nullString(a.Notes), a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: creating availability (employee %s not found): %v", ErrNotFound, a.EmployeeID, err)
		}
		return nil, fmt.Errorf("%w: creating availability: %v", ErrDatabaseError, err)
	}
	return a, nil
}

func (r *availabilityRepository) GetAvailabilityByID(ctx context.Context, id int64) (*models.Availability, error) {
	a, err := scanAvailability(r.db.QueryRowContext(ctx, `SELECT `+availabilityColumns+` FROM availabilities WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting availability by ID %d: %v", ErrDatabaseError, id, err)
	}
	return a, nil
}

func (r *availabilityRepository) GetAvailabilitiesByEmployee(ctx context.Context, employeeID string) ([]models.Availability, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+availabilityColumns+` FROM availabilities WHERE employee_id = $1 ORDER BY day_of_week, start_time`,
		employeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying availabilities: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	availabilities := []models.Availability{}
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning availability: %v", ErrDatabaseError, err)
		}
		availabilities = append(availabilities, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating availability rows: %v", ErrDatabaseError, err)
	}
	return availabilities, nil
}

func (r *availabilityRepository) DeleteAvailability(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM availabilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting availability ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
