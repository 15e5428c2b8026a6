package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shift_scheduler_backend/internal/models"
)

// ShiftRepository defines the database operations on shifts.
type ShiftRepository interface {
	CreateShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	GetShiftByID(ctx context.Context, id int64) (*models.Shift, error)
	GetShifts(ctx context.Context, employeeID *string) ([]models.Shift, error)
	// UpdateShift applies the update only if shift.Version matches the stored
	// version, and bumps it. Returns ErrVersionMismatch or ErrNotFound otherwise.
	UpdateShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	// DeleteShift removes the shift; its shift details go with it (ON DELETE CASCADE).
	DeleteShift(ctx context.Context, executor SQLExecutor, id int64) error
}

type shiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates a new instance of ShiftRepository.
func NewShiftRepository(db *sql.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `s.id, s.employee_id, s.start_time, s.end_time, s.notes, s.version, s.created_at, s.updated_at`

func scanShift(row scanner) (*models.Shift, error) {
	var shift models.Shift
	var notes sql.NullString
	err := row.Scan(
		&shift.ID, &shift.EmployeeID, &shift.StartTime, &shift.EndTime, &notes,
		&shift.Version, &shift.CreatedAt, &shift.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	shift.Notes = stringPtr(notes)
	return &shift, nil
}

func (r *shiftRepository) CreateShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `INSERT INTO shifts (employee_id, start_time, end_time, notes, version, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	currentTime := time.Now().UTC()
	shift.CreatedAt = currentTime
	shift.UpdatedAt = currentTime
	shift.Version = 1

	err := executor.QueryRowContext(ctx, query,
		shift.EmployeeID, shift.StartTime.UTC(), shift.EndTime.UTC(), nullString(shift.Notes),
		shift.Version, shift.CreatedAt, shift.UpdatedAt,
	).Scan(&shift.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: creating shift (employee %s not found): %v", ErrNotFound, shift.EmployeeID, err)
		}
		return nil, fmt.Errorf("%w: creating shift: %v", ErrDatabaseError, err)
	}
	return shift, nil
}

func (r *shiftRepository) GetShiftByID(ctx context.Context, id int64) (*models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts s WHERE s.id = $1`
	shift, err := scanShift(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting shift by ID %d: %v", ErrDatabaseError, id, err)
	}
	return shift, nil
}

func (r *shiftRepository) GetShifts(ctx context.Context, employeeID *string) ([]models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts s`
	var args []interface{}
	if employeeID != nil {
		query += ` WHERE s.employee_id = $1`
		args = append(args, *employeeID)
	}
	query += ` ORDER BY s.start_time DESC, s.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	shifts := []models.Shift{}
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
		}
		shifts = append(shifts, *shift)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shift rows: %v", ErrDatabaseError, err)
	}
	return shifts, nil
}

func (r *shiftRepository) UpdateShift(ctx context.Context, executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `UPDATE shifts SET
	            employee_id = $1, start_time = $2, end_time = $3, notes = $4,
	            updated_at = $5, version = version + 1
	          WHERE id = $6 AND version = $7
	          RETURNING version`

	updatedAt := time.Now().UTC()
	err := executor.QueryRowContext(ctx, query,
		shift.EmployeeID, shift.StartTime.UTC(), shift.EndTime.UTC(), nullString(shift.Notes),
		updatedAt, shift.ID, shift.Version,
	).Scan(&shift.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.staleOrMissing(ctx, executor, shift.ID)
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: updating shift (employee %s not found): %v", ErrNotFound, shift.EmployeeID, err)
		}
		return nil, fmt.Errorf("%w: updating shift ID %d: %v", ErrDatabaseError, shift.ID, err)
	}
	shift.UpdatedAt = updatedAt
	return shift, nil
}

func (r *shiftRepository) staleOrMissing(ctx context.Context, executor SQLExecutor, id int64) error {
	exists, err := rowExists(ctx, executor, "shifts", id)
	if err != nil {
		return fmt.Errorf("%w: checking shift ID %d: %v", ErrDatabaseError, id, err)
	}
	if !exists {
		return ErrNotFound
	}
	return fmt.Errorf("%w: shift ID %d", ErrVersionMismatch, id)
}

func (r *shiftRepository) DeleteShift(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting shift ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
