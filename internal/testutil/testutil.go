// Package testutil provides a throwaway SQLite database and seed helpers for
// package tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"shift_scheduler_backend/internal/database"
	"shift_scheduler_backend/internal/models"
)

// NewSQLiteDB opens a fresh file-backed SQLite database with the schema
// applied. It is closed when the test ends.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.OpenDSN(database.DriverSQLite, database.SQLiteDSN(path))
	require.NoError(t, err)
	require.NoError(t, database.ApplySchema(db, database.DriverSQLite))
	t.Cleanup(func() { db.Close() })
	return db
}

// SeedUser inserts a user with the given username and role and returns its id.
// The password hash is a placeholder; use the auth service when a login is needed.
func SeedUser(t *testing.T, db *sql.DB, username, role string) string {
	t.Helper()
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO users (id, username, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, id, username, "x", role, now, now)
	require.NoError(t, err)
	return id
}

// SeedShift inserts an eight hour shift for employeeID starting at start.
func SeedShift(t *testing.T, db *sql.DB, employeeID string, start time.Time) *models.Shift {
	t.Helper()
	now := time.Now().UTC()
	shift := &models.Shift{
		EmployeeID: employeeID,
		StartTime:  start.UTC(),
		EndTime:    start.Add(8 * time.Hour).UTC(),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := db.QueryRow(`INSERT INTO shifts (employee_id, start_time, end_time, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		shift.EmployeeID, shift.StartTime, shift.EndTime, shift.Version, now, now).Scan(&shift.ID)
	require.NoError(t, err)
	return shift
}

// SeedShiftDetail inserts a one hour task at the start of shift.
func SeedShiftDetail(t *testing.T, db *sql.DB, shift *models.Shift, description string) *models.ShiftDetail {
	t.Helper()
	now := time.Now().UTC()
	detail := &models.ShiftDetail{
		ShiftID:         shift.ID,
		TaskDescription: description,
		TaskStartTime:   shift.StartTime,
		TaskEndTime:     shift.StartTime.Add(time.Hour),
		TaskType:        "Setup",
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := db.QueryRow(`INSERT INTO shift_details
		(shift_id, task_description, task_start_time, task_end_time, task_type, is_completed, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		detail.ShiftID, detail.TaskDescription, detail.TaskStartTime, detail.TaskEndTime, detail.TaskType,
		false, detail.Version, now, now).Scan(&detail.ID)
	require.NoError(t, err)
	return detail
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
