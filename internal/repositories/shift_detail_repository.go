package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shift_scheduler_backend/internal/models"
)

// ShiftDetailRepository defines the database operations on shift details.
// Reads attach the parent Shift to every returned detail.
type ShiftDetailRepository interface {
	CreateShiftDetail(ctx context.Context, executor SQLExecutor, detail *models.ShiftDetail) (*models.ShiftDetail, error)
	GetShiftDetailByID(ctx context.Context, id int64) (*models.ShiftDetail, error)
	GetShiftDetails(ctx context.Context) ([]models.ShiftDetail, error)
	GetShiftDetailsByShift(ctx context.Context, shiftID int64) ([]models.ShiftDetail, error)
	// UpdateShiftDetail applies the update only if detail.Version matches the
	// stored version. Returns ErrNotFound when the row is gone and
	// ErrVersionMismatch when it changed underneath the caller.
	UpdateShiftDetail(ctx context.Context, executor SQLExecutor, detail *models.ShiftDetail) (*models.ShiftDetail, error)
	DeleteShiftDetail(ctx context.Context, executor SQLExecutor, id int64) error
}

type shiftDetailRepository struct {
	db *sql.DB
}

// NewShiftDetailRepository creates a new instance of ShiftDetailRepository.
func NewShiftDetailRepository(db *sql.DB) ShiftDetailRepository {
	return &shiftDetailRepository{db: db}
}

const shiftDetailWithShiftSelect = `SELECT
	    sd.id, sd.shift_id, sd.task_description, sd.task_start_time, sd.task_end_time,
	    sd.task_type, sd.notes, sd.is_completed, sd.version, sd.created_at, sd.updated_at,
	    ` + shiftColumns + `
	  FROM shift_details sd
	  JOIN shifts s ON sd.shift_id = s.id`

func scanShiftDetailWithShift(row scanner) (*models.ShiftDetail, error) {
	var detail models.ShiftDetail
	var shift models.Shift
	var notes, shiftNotes sql.NullString

	err := row.Scan(
		&detail.ID, &detail.ShiftID, &detail.TaskDescription, &detail.TaskStartTime, &detail.TaskEndTime,
		&detail.TaskType, &notes, &detail.IsCompleted, &detail.Version, &detail.CreatedAt, &detail.UpdatedAt,
		&shift.ID, &shift.EmployeeID, &shift.StartTime, &shift.EndTime, &shiftNotes,
		&shift.Version, &shift.CreatedAt, &shift.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	detail.Notes = stringPtr(notes)
	shift.Notes = stringPtr(shiftNotes)
	detail.Shift = &shift
	return &detail, nil
}

func (r *shiftDetailRepository) CreateShiftDetail(ctx context.Context, executor SQLExecutor, detail *models.ShiftDetail) (*models.ShiftDetail, error) {
	query := `INSERT INTO shift_details
	            (shift_id, task_description, task_start_time, task_end_time, task_type, notes, is_completed, version, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	currentTime := time.Now().UTC()
	detail.CreatedAt = currentTime
	detail.UpdatedAt = currentTime
	detail.Version = 1

	err := executor.QueryRowContext(ctx, query,
		detail.ShiftID, detail.TaskDescription, detail.TaskStartTime.UTC(), detail.TaskEndTime.UTC(),
		detail.TaskType, nullString(detail.Notes), detail.IsCompleted, detail.Version,
		detail.CreatedAt, detail.UpdatedAt,
	).Scan(&detail.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: creating shift detail (shift %d not found): %v", ErrNotFound, detail.ShiftID, err)
		}
		return nil, fmt.Errorf("%w: creating shift detail: %v", ErrDatabaseError, err)
	}
	return detail, nil
}

func (r *shiftDetailRepository) GetShiftDetailByID(ctx context.Context, id int64) (*models.ShiftDetail, error) {
	detail, err := scanShiftDetailWithShift(r.db.QueryRowContext(ctx, shiftDetailWithShiftSelect+` WHERE sd.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting shift detail by ID %d: %v", ErrDatabaseError, id, err)
	}
	return detail, nil
}

func (r *shiftDetailRepository) GetShiftDetails(ctx context.Context) ([]models.ShiftDetail, error) {
	return r.list(ctx, shiftDetailWithShiftSelect+` ORDER BY sd.task_start_time ASC, sd.id ASC`)
}

func (r *shiftDetailRepository) GetShiftDetailsByShift(ctx context.Context, shiftID int64) ([]models.ShiftDetail, error) {
	return r.list(ctx, shiftDetailWithShiftSelect+` WHERE sd.shift_id = $1 ORDER BY sd.task_start_time ASC, sd.id ASC`, shiftID)
}

func (r *shiftDetailRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.ShiftDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying shift details: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	details := []models.ShiftDetail{}
	for rows.Next() {
		detail, err := scanShiftDetailWithShift(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning shift detail: %v", ErrDatabaseError, err)
		}
		details = append(details, *detail)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shift detail rows: %v", ErrDatabaseError, err)
	}
	return details, nil
}

func (r *shiftDetailRepository) UpdateShiftDetail(ctx context.Context, executor SQLExecutor, detail *models.ShiftDetail) (*models.ShiftDetail, error) {
	query := `UPDATE shift_details SET
	            shift_id = $1, task_description = $2, task_start_time = $3, task_end_time = $4,
	            task_type = $5, notes = $6, is_completed = $7, updated_at = $8, version = version + 1
	          WHERE id = $9 AND version = $10
	          RETURNING version`

	updatedAt := time.Now().UTC()
	err := executor.QueryRowContext(ctx, query,
		detail.ShiftID, detail.TaskDescription, detail.TaskStartTime.UTC(), detail.TaskEndTime.UTC(),
		detail.TaskType, nullString(detail.Notes), detail.IsCompleted, updatedAt,
		detail.ID, detail.Version,
	).Scan(&detail.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			exists, existsErr := rowExists(ctx, executor, "shift_details", detail.ID)
			if existsErr != nil {
				return nil, fmt.Errorf("%w: checking shift detail ID %d: %v", ErrDatabaseError, detail.ID, existsErr)
			}
			if !exists {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("%w: shift detail ID %d", ErrVersionMismatch, detail.ID)
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: updating shift detail (shift %d not found): %v", ErrNotFound, detail.ShiftID, err)
		}
		return nil, fmt.Errorf("%w: updating shift detail ID %d: %v", ErrDatabaseError, detail.ID, err)
	}
	detail.UpdatedAt = updatedAt
	return detail, nil
}

func (r *shiftDetailRepository) DeleteShiftDetail(ctx context.Context, executor SQLExecutor, id int64) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM shift_details WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting shift detail ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
