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

func TestEmployeeRepository_GetEmployees(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	alice := testutil.SeedUser(t, db, "alice", models.RoleEmployee)
	testutil.SeedUser(t, db, "bob", models.RoleEmployee)
	testutil.SeedUser(t, db, "carol", models.RoleManager)
	testutil.SeedShift(t, db, alice, monday9am)
	testutil.SeedShift(t, db, alice, monday9am.Add(24*time.Hour))

	t.Run("FirstPage", func(t *testing.T) {
		list, total, err := repo.GetEmployees(ctx, 1, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, list, 2)
		assert.Equal(t, "alice", list[0].Username)
		assert.Equal(t, 2, list[0].ShiftCount)
		assert.Equal(t, "bob", list[1].Username)
		assert.Equal(t, 0, list[1].ShiftCount)
	})

	t.Run("SecondPage", func(t *testing.T) {
		list, total, err := repo.GetEmployees(ctx, 2, 2, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, list, 1)
		assert.Equal(t, "carol", list[0].Username)
	})

	t.Run("Search", func(t *testing.T) {
		term := "CAR"
		list, total, err := repo.GetEmployees(ctx, 1, 10, &term)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, models.RoleManager, list[0].Role)
	})

	t.Run("NoMatches", func(t *testing.T) {
		term := "zed"
		list, total, err := repo.GetEmployees(ctx, 1, 10, &term)
		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.Empty(t, list)
	})
}
