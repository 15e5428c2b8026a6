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

func TestAvailabilityRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "alice", models.RoleEmployee)

	tuesday, err := repo.CreateAvailability(ctx, db, &models.Availability{EmployeeID: owner, DayOfWeek: 2, StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)
	_, err = repo.CreateAvailability(ctx, db, &models.Availability{EmployeeID: owner, DayOfWeek: 1, StartTime: "12:00", EndTime: "20:00"})
	require.NoError(t, err)

	list, err := repo.GetAvailabilitiesByEmployee(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].DayOfWeek)

	got, err := repo.GetAvailabilityByID(ctx, tuesday.ID)
	require.NoError(t, err)
	assert.Equal(t, "09:00", got.StartTime)

	require.NoError(t, repo.DeleteAvailability(ctx, db, tuesday.ID))
	assert.ErrorIs(t, repo.DeleteAvailability(ctx, db, tuesday.ID), ErrNotFound)

	_, err = repo.CreateAvailability(ctx, db, &models.Availability{EmployeeID: "ghost", DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPunchRepository_OpenAndClose(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPunchRepository(db)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "alice", models.RoleEmployee)

	_, err := repo.GetOpenPunch(ctx, owner)
	assert.ErrorIs(t, err, ErrNotFound)

	in := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	punch, err := repo.CreatePunch(ctx, db, &models.Punch{EmployeeID: owner, PunchIn: in})
	require.NoError(t, err)

	_, err = repo.CreatePunch(ctx, db, &models.Punch{EmployeeID: owner, PunchIn: in.Add(time.Minute)})
	assert.ErrorIs(t, err, ErrDuplicateKey, "only one open punch per employee")

	open, err := repo.GetOpenPunch(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, punch.ID, open.ID)
	assert.Nil(t, open.PunchOut)

	require.NoError(t, repo.ClosePunch(ctx, db, punch.ID, in.Add(90*time.Minute)))
	assert.ErrorIs(t, repo.ClosePunch(ctx, db, punch.ID, in.Add(2*time.Hour)), ErrNotFound)

	punches, err := repo.GetPunchesByEmployee(ctx, owner)
	require.NoError(t, err)
	require.Len(t, punches, 1)
	assert.Equal(t, 90*time.Minute, punches[0].Duration())
}

func TestPayStubRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewPayStubRepository(db)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "alice", models.RoleEmployee)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	stub, err := repo.CreatePayStub(ctx, db, &models.PayStub{
		EmployeeID:  owner,
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 0, 14),
		HoursWorked: 10,
		HourlyRate:  20,
		GrossPay:    200,
		Deductions:  25,
		NetPay:      175,
	})
	require.NoError(t, err)

	got, err := repo.GetPayStubByID(ctx, stub.ID)
	require.NoError(t, err)
	assert.InDelta(t, 175.0, got.NetPay, 0.001)
	assert.True(t, start.Equal(got.PeriodStart))

	list, err := repo.GetPayStubsByEmployee(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.GetPayStubByID(ctx, stub.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}
