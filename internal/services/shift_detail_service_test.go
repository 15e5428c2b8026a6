package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/repositories"
	"shift_scheduler_backend/internal/testutil"
)

var shiftStart = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type detailFixture struct {
	db    *sql.DB
	svc   ShiftDetailService
	alice string
	bob   string
	shift *models.Shift
}

func newDetailFixture(t *testing.T) *detailFixture {
	db := testutil.NewSQLiteDB(t)
	alice := testutil.SeedUser(t, db, "alice", models.RoleEmployee)
	bob := testutil.SeedUser(t, db, "bob", models.RoleEmployee)
	return &detailFixture{
		db:    db,
		svc:   NewShiftDetailService(repositories.NewShiftDetailRepository(db), repositories.NewShiftRepository(db), db),
		alice: alice,
		bob:   bob,
		shift: testutil.SeedShift(t, db, alice, shiftStart),
	}
}

func validDetailRequest(shiftID int64) ShiftDetailRequest {
	return ShiftDetailRequest{
		ShiftID:         shiftID,
		TaskDescription: "Stock the fridge",
		TaskStartTime:   "2024-03-04T09:00",
		TaskEndTime:     "2024-03-04T10:00",
		TaskType:        "Setup",
	}
}

func TestShiftDetailService_CreateByOwner(t *testing.T) {
	f := newDetailFixture(t)
	req := validDetailRequest(f.shift.ID)
	req.ID = 77
	req.Notes = "  bring keys "

	detail, err := f.svc.CreateShiftDetail(context.Background(), f.alice, req)
	require.NoError(t, err)
	assert.NotEqual(t, int64(77), detail.ID, "client supplied id is ignored")
	require.NotNil(t, detail.Notes)
	assert.Equal(t, "bring keys", *detail.Notes)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "shift_details"))
}

func TestShiftDetailService_CreateByNonOwnerIsForbidden(t *testing.T) {
	f := newDetailFixture(t)

	_, err := f.svc.CreateShiftDetail(context.Background(), f.bob, validDetailRequest(f.shift.ID))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.CreateShiftDetail(context.Background(), "", validDetailRequest(f.shift.ID))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 0, testutil.CountRows(t, f.db, "shift_details"))
}

func TestShiftDetailService_CreateUnknownShift(t *testing.T) {
	f := newDetailFixture(t)

	_, err := f.svc.CreateShiftDetail(context.Background(), f.alice, validDetailRequest(f.shift.ID+10))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid shift selected.", verr.Fields["shift_id"])
}

func TestShiftDetailService_CreateMissingFields(t *testing.T) {
	f := newDetailFixture(t)

	_, err := f.svc.CreateShiftDetail(context.Background(), f.alice, ShiftDetailRequest{ShiftID: f.shift.ID, TaskDescription: "   "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"task_description", "task_start_time", "task_end_time", "task_type"} {
		assert.Contains(t, verr.Fields, field)
	}
	assert.Equal(t, 0, testutil.CountRows(t, f.db, "shift_details"))
}

func TestShiftDetailService_CreateEndBeforeStart(t *testing.T) {
	f := newDetailFixture(t)
	req := validDetailRequest(f.shift.ID)
	req.TaskEndTime = "2024-03-04T08:00"

	_, err := f.svc.CreateShiftDetail(context.Background(), f.alice, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShiftDetailService_SelectableShiftIDs(t *testing.T) {
	f := newDetailFixture(t)
	testutil.SeedShift(t, f.db, f.bob, shiftStart)

	ids, err := f.svc.SelectableShiftIDs(context.Background(), f.alice)
	require.NoError(t, err)
	assert.Equal(t, []int64{f.shift.ID}, ids)

	ids, err = f.svc.SelectableShiftIDs(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestShiftDetailService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerUpdates", func(t *testing.T) {
		f := newDetailFixture(t)
		existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
		req := validDetailRequest(f.shift.ID)
		req.ID = existing.ID
		req.Version = existing.Version
		req.IsCompleted = true

		updated, err := f.svc.UpdateShiftDetail(ctx, f.alice, existing.ID, req)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.Version)
		assert.True(t, updated.IsCompleted)
	})

	t.Run("PathAndPayloadMismatch", func(t *testing.T) {
		f := newDetailFixture(t)
		existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
		req := validDetailRequest(f.shift.ID)
		req.ID = existing.ID

		_, err := f.svc.UpdateShiftDetail(ctx, f.alice, existing.ID+1, req)
		assert.ErrorIs(t, err, ErrShiftDetailNotFound)
	})

	t.Run("ParentShiftMissing", func(t *testing.T) {
		f := newDetailFixture(t)
		existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
		req := validDetailRequest(f.shift.ID + 50)
		req.ID = existing.ID
		req.Version = 1

		_, err := f.svc.UpdateShiftDetail(ctx, f.alice, existing.ID, req)
		assert.ErrorIs(t, err, ErrShiftNotFound)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		f := newDetailFixture(t)
		existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
		req := validDetailRequest(f.shift.ID)
		req.ID = existing.ID
		req.Version = 1

		_, err := f.svc.UpdateShiftDetail(ctx, f.bob, existing.ID, req)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("ReassignToForeignShiftForbidden", func(t *testing.T) {
		f := newDetailFixture(t)
		existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
		bobsShift := testutil.SeedShift(t, f.db, f.bob, shiftStart)
		req := validDetailRequest(bobsShift.ID)
		req.ID = existing.ID
		req.Version = 1

		_, err := f.svc.UpdateShiftDetail(ctx, f.alice, existing.ID, req)
		assert.ErrorIs(t, err, ErrForbidden)

		// Bob owns the target but not the shift the detail currently sits under.
		_, err = f.svc.UpdateShiftDetail(ctx, f.bob, existing.ID, req)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("ReassignBetweenOwnShifts", func(t *testing.T) {
		f := newDetailFixture(t)
		existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
		second := testutil.SeedShift(t, f.db, f.alice, shiftStart.Add(24*time.Hour))
		req := validDetailRequest(second.ID)
		req.ID = existing.ID
		req.Version = 1

		updated, err := f.svc.UpdateShiftDetail(ctx, f.alice, existing.ID, req)
		require.NoError(t, err)
		assert.Equal(t, second.ID, updated.ShiftID)
	})

	t.Run("StaleVersionConflicts", func(t *testing.T) {
		f := newDetailFixture(t)
		existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
		req := validDetailRequest(f.shift.ID)
		req.ID = existing.ID
		req.Version = 1

		_, err := f.svc.UpdateShiftDetail(ctx, f.alice, existing.ID, req)
		require.NoError(t, err)
		_, err = f.svc.UpdateShiftDetail(ctx, f.alice, existing.ID, req)
		assert.ErrorIs(t, err, ErrConcurrentUpdate)
	})

	t.Run("MissingVersion", func(t *testing.T) {
		f := newDetailFixture(t)
		existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
		req := validDetailRequest(f.shift.ID)
		req.ID = existing.ID

		_, err := f.svc.UpdateShiftDetail(ctx, f.alice, existing.ID, req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "version")
	})

	t.Run("UnknownIDIsNotFound", func(t *testing.T) {
		f := newDetailFixture(t)
		req := validDetailRequest(f.shift.ID)
		req.ID = 404
		req.Version = 1

		_, err := f.svc.UpdateShiftDetail(ctx, f.alice, 404, req)
		assert.ErrorIs(t, err, ErrShiftDetailNotFound)
	})
}

// racingDetailRepo fails every update with ErrNotFound as if a concurrent
// request got there first. With deleteRow set it also removes the row.
type racingDetailRepo struct {
	repositories.ShiftDetailRepository
	db        *sql.DB
	deleteRow bool
}

func (r *racingDetailRepo) UpdateShiftDetail(ctx context.Context, executor repositories.SQLExecutor, detail *models.ShiftDetail) (*models.ShiftDetail, error) {
	if r.deleteRow {
		if err := r.ShiftDetailRepository.DeleteShiftDetail(ctx, r.db, detail.ID); err != nil {
			return nil, err
		}
	}
	return nil, repositories.ErrNotFound
}

func TestShiftDetailService_UpdateLosesRace(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		deleteRow bool
		wantErr   error
	}{
		{name: "RowDeleted", deleteRow: true, wantErr: ErrShiftDetailNotFound},
		{name: "TargetShiftGone", deleteRow: false, wantErr: ErrShiftNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDetailFixture(t)
			existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
			repo := &racingDetailRepo{
				ShiftDetailRepository: repositories.NewShiftDetailRepository(f.db),
				db:                    f.db,
				deleteRow:             tt.deleteRow,
			}
			svc := NewShiftDetailService(repo, repositories.NewShiftRepository(f.db), f.db)

			req := validDetailRequest(f.shift.ID)
			req.ID = existing.ID
			req.Version = existing.Version

			_, err := svc.UpdateShiftDetail(ctx, f.alice, existing.ID, req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, ErrConcurrentUpdate)
		})
	}
}

func TestShiftDetailService_GetOwnedShiftDetail(t *testing.T) {
	f := newDetailFixture(t)
	existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
	ctx := context.Background()

	got, err := f.svc.GetOwnedShiftDetail(ctx, f.alice, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)

	_, err = f.svc.GetOwnedShiftDetail(ctx, f.bob, existing.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.GetOwnedShiftDetail(ctx, f.alice, existing.ID+1)
	assert.ErrorIs(t, err, ErrShiftDetailNotFound)
}

func TestShiftDetailService_Delete(t *testing.T) {
	f := newDetailFixture(t)
	existing := testutil.SeedShiftDetail(t, f.db, f.shift, "old")
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.DeleteShiftDetail(ctx, f.bob, existing.ID), ErrForbidden)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "shift_details"))

	require.NoError(t, f.svc.DeleteShiftDetail(ctx, f.alice, existing.ID))
	require.NoError(t, f.svc.DeleteShiftDetail(ctx, f.alice, existing.ID), "deleting twice is a no-op")
	assert.Equal(t, 0, testutil.CountRows(t, f.db, "shift_details"))
}
