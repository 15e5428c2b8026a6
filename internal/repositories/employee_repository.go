package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shift_scheduler_backend/internal/models"
)

// EmployeeRepository reads the employee directory.
type EmployeeRepository interface {
	// GetEmployees returns one page of accounts ordered by username, and the
	// total number of accounts matching searchTerm.
	GetEmployees(ctx context.Context, page, pageSize int, searchTerm *string) ([]models.EmployeeSummary, int, error)
}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetEmployees(ctx context.Context, page, pageSize int, searchTerm *string) ([]models.EmployeeSummary, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    u.id, u.username, u.email, u.full_name, u.role, u.telegram_chat_id, u.created_at, u.updated_at,
	    (SELECT COUNT(*) FROM shifts s WHERE s.employee_id = u.id) AS shift_count,
	    COUNT(*) OVER() AS total_count
	  FROM users u`)

	var args []interface{}
	argCount := 1

	if searchTerm != nil && *searchTerm != "" {
		searchPattern := "%" + strings.ToLower(*searchTerm) + "%"
		queryBuilder.WriteString(fmt.Sprintf(
			" WHERE (LOWER(u.username) LIKE $%d OR LOWER(COALESCE(u.full_name, '')) LIKE $%d OR LOWER(COALESCE(u.email, '')) LIKE $%d)",
			argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY u.username ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 1 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying employees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	employees := []models.EmployeeSummary{}
	totalCount := 0
	for rows.Next() {
		var e models.EmployeeSummary
		var email, fullName sql.NullString
		var chatID sql.NullInt64
		// total_count repeats on every row
		err := rows.Scan(
			&e.ID, &e.Username, &email, &fullName, &e.Role, &chatID, &e.CreatedAt, &e.UpdatedAt,
			&e.ShiftCount, &totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning employee: %v", ErrDatabaseError, err)
		}
		e.Email = stringPtr(email)
		e.FullName = stringPtr(fullName)
		if chatID.Valid {
			e.TelegramChatID = &chatID.Int64
		}
		employees = append(employees, e)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating employee rows: %v", ErrDatabaseError, err)
	}
	return employees, totalCount, nil
}
