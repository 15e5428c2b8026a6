package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrReferenced is returned when a delete is rejected because other rows
	// still reference the record (ON DELETE RESTRICT).
	ErrReferenced = errors.New("record is still referenced by other records")

	// ErrVersionMismatch is returned by versioned updates when the stored row
	// changed after the caller read it.
	ErrVersionMismatch = errors.New("record was modified by another request")
)

// SQLExecutor is satisfied by *sql.DB and *sql.Tx, so write methods can run
// inside a caller-managed transaction or directly on the pool.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// isForeignKeyViolation recognises FK failures from both supported drivers.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "foreign_key_violation"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		// SQLite reports a RESTRICT rejected delete as SQLITE_CONSTRAINT_TRIGGER
		// rather than SQLITE_CONSTRAINT_FOREIGNKEY. The schema defines no triggers.
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintTrigger
	}
	return false
}

// isUniqueViolation recognises unique constraint failures from both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// rowExists reports whether table has a row with id. table is never user input.
func rowExists(ctx context.Context, executor SQLExecutor, table string, id int64) (bool, error) {
	var one int
	err := executor.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = $1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
