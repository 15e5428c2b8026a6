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

func TestShiftDetailRepository_CreateAttachesShiftOnRead(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewShiftDetailRepository(db)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "alice", models.RoleEmployee)
	shift := testutil.SeedShift(t, db, owner, monday9am)

	detail, err := repo.CreateShiftDetail(ctx, db, &models.ShiftDetail{
		ShiftID:         shift.ID,
		TaskDescription: "restock",
		TaskStartTime:   monday9am,
		TaskEndTime:     monday9am.Add(30 * time.Minute),
		TaskType:        "Setup",
		IsCompleted:     true,
	})
	require.NoError(t, err)

	got, err := repo.GetShiftDetailByID(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, "restock", got.TaskDescription)
	assert.True(t, got.IsCompleted)
	assert.Nil(t, got.Notes)
	require.NotNil(t, got.Shift)
	assert.Equal(t, owner, got.Shift.EmployeeID)

	_, err = repo.GetShiftDetailByID(ctx, detail.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShiftDetailRepository_CreateUnknownShift(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewShiftDetailRepository(db)

	_, err := repo.CreateShiftDetail(context.Background(), db, &models.ShiftDetail{
		ShiftID:         42,
		TaskDescription: "restock",
		TaskStartTime:   monday9am,
		TaskEndTime:     monday9am.Add(time.Hour),
		TaskType:        "Setup",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, testutil.CountRows(t, db, "shift_details"))
}

func TestShiftDetailRepository_Lists(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewShiftDetailRepository(db)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "alice", models.RoleEmployee)
	first := testutil.SeedShift(t, db, owner, monday9am)
	second := testutil.SeedShift(t, db, owner, monday9am.Add(24*time.Hour))
	testutil.SeedShiftDetail(t, db, first, "a")
	testutil.SeedShiftDetail(t, db, first, "b")
	testutil.SeedShiftDetail(t, db, second, "c")

	all, err := repo.GetShiftDetails(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, d := range all {
		assert.NotNil(t, d.Shift)
	}

	byShift, err := repo.GetShiftDetailsByShift(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, byShift, 2)
}

func TestShiftDetailRepository_UpdateVersioned(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewShiftDetailRepository(db)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "alice", models.RoleEmployee)
	shift := testutil.SeedShift(t, db, owner, monday9am)
	detail := testutil.SeedShiftDetail(t, db, shift, "restock")

	detail.TaskDescription = "restock fridge"
	updated, err := repo.UpdateShiftDetail(ctx, db, detail)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	stale := *detail
	stale.Version = 1
	_, err = repo.UpdateShiftDetail(ctx, db, &stale)
	assert.ErrorIs(t, err, ErrVersionMismatch)

	require.NoError(t, repo.DeleteShiftDetail(ctx, db, detail.ID))
	_, err = repo.UpdateShiftDetail(ctx, db, detail)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteShiftDetail(ctx, db, detail.ID), ErrNotFound)
}
