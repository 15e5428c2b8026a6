package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/testutil"
)

var monday9am = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func TestShiftRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewShiftRepository(db)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "alice", models.RoleEmployee)

	notes := "opening"
	created, err := repo.CreateShift(ctx, db, &models.Shift{
		EmployeeID: owner,
		StartTime:  monday9am,
		EndTime:    monday9am.Add(8 * time.Hour),
		Notes:      &notes,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1), created.Version)

	got, err := repo.GetShiftByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, got.EmployeeID)
	assert.True(t, monday9am.Equal(got.StartTime))
	require.NotNil(t, got.Notes)
	assert.Equal(t, "opening", *got.Notes)

	_, err = repo.GetShiftByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShiftRepository_CreateUnknownEmployee(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewShiftRepository(db)

	_, err := repo.CreateShift(context.Background(), db, &models.Shift{
		EmployeeID: "nobody",
		StartTime:  monday9am,
		EndTime:    monday9am.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShiftRepository_GetShiftsFilter(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewShiftRepository(db)
	ctx := context.Background()
	alice := testutil.SeedUser(t, db, "alice", models.RoleEmployee)
	bob := testutil.SeedUser(t, db, "bob", models.RoleEmployee)
	testutil.SeedShift(t, db, alice, monday9am)
	testutil.SeedShift(t, db, alice, monday9am.Add(24*time.Hour))
	testutil.SeedShift(t, db, bob, monday9am)

	all, err := repo.GetShifts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.GetShifts(ctx, &alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].StartTime.After(mine[1].StartTime), "newest first")
}

func TestShiftRepository_UpdateVersioned(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewShiftRepository(db)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "alice", models.RoleEmployee)
	shift := testutil.SeedShift(t, db, owner, monday9am)

	shift.EndTime = shift.EndTime.Add(time.Hour)
	updated, err := repo.UpdateShift(ctx, db, shift)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	stale := *shift
	stale.Version = 1
	_, err = repo.UpdateShift(ctx, db, &stale)
	assert.ErrorIs(t, err, ErrVersionMismatch)

	missing := *shift
	missing.ID = 999
	_, err = repo.UpdateShift(ctx, db, &missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShiftRepository_DeleteCascadesToDetails(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewShiftRepository(db)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "alice", models.RoleEmployee)
	shift := testutil.SeedShift(t, db, owner, monday9am)
	other := testutil.SeedShift(t, db, owner, monday9am.Add(24*time.Hour))
	for _, d := range []string{"count till", "stock shelves", "mop floor"} {
		testutil.SeedShiftDetail(t, db, shift, d)
	}
	testutil.SeedShiftDetail(t, db, other, "unrelated")

	require.NoError(t, repo.DeleteShift(ctx, db, shift.ID))
	assert.Equal(t, 1, testutil.CountRows(t, db, "shift_details"))

	assert.ErrorIs(t, repo.DeleteShift(ctx, db, shift.ID), ErrNotFound)
}
