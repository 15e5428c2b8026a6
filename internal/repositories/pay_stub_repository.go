package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shift_scheduler_backend/internal/models"
)

// PayStubRepository defines the database operations on pay stubs.
type PayStubRepository interface {
	CreatePayStub(ctx context.Context, executor SQLExecutor, stub *models.PayStub) (*models.PayStub, error)
	GetPayStubByID(ctx context.Context, id int64) (*models.PayStub, error)
	GetPayStubsByEmployee(ctx context.Context, employeeID string) ([]models.PayStub, error)
}

type payStubRepository struct {
	db *sql.DB
}

func NewPayStubRepository(db *sql.DB) PayStubRepository {
	return &payStubRepository{db: db}
}

const payStubColumns = `id, employee_id, period_start, period_end, hours_worked, hourly_rate, gross_pay, deductions, net_pay, issued_at`

func scanPayStub(row scanner) (*models.PayStub, error) {
	var s models.PayStub
	err := row.Scan(&s.ID, &s.EmployeeID, &s.PeriodStart, &s.PeriodEnd, &s.HoursWorked,
		&s.HourlyRate, &s.GrossPay, &s.Deductions, &s.NetPay, &s.IssuedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *payStubRepository) CreatePayStub(ctx context.Context, executor SQLExecutor, stub *models.PayStub) (*models.PayStub, error) {
	query := `INSERT INTO pay_stubs
	            (employee_id, period_start, period_end, hours_worked, hourly_rate, gross_pay, deductions, net_pay, issued_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	stub.IssuedAt = time.Now().UTC()

	err := executor.QueryRowContext(ctx, query,
		stub.EmployeeID, stub.PeriodStart.UTC(), stub.PeriodEnd.UTC(), stub.HoursWorked, stub.HourlyRate,
		stub.GrossPay, stub.Deductions, stub.NetPay, stub.IssuedAt,
	).Scan(&stub.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: creating pay stub (employee %s not found): %v", ErrNotFound, stub.EmployeeID, err)
		}
		return nil, fmt.Errorf("%w: creating pay stub: %v", ErrDatabaseError, err)
	}
	return stub, nil
}

func (r *payStubRepository) GetPayStubByID(ctx context.Context, id int64) (*models.PayStub, error) {
	stub, err := scanPayStub(r.db.QueryRowContext(ctx, `SELECT `+payStubColumns+` FROM pay_stubs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting pay stub by ID %d: %v", ErrDatabaseError, id, err)
	}
	return stub, nil
}

func (r *payStubRepository) GetPayStubsByEmployee(ctx context.Context, employeeID string) ([]models.PayStub, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+payStubColumns+` FROM pay_stubs WHERE employee_id = $1 ORDER BY period_start DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying pay stubs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	stubs := []models.PayStub{}
	for rows.Next() {
		s, err := scanPayStub(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning pay stub: %v", ErrDatabaseError, err)
		}
		stubs = append(stubs, *s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating pay stub rows: %v", ErrDatabaseError, err)
	}
	return stubs, nil
}
