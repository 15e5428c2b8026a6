package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/testutil"
)

func TestAuthRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewAuthRepository(db)
	ctx := context.Background()

	email := "alice@example.com"
	chatID := int64(1234)
	user := &models.User{
		ID:             uuid.NewString(),
		Username:       "alice",
		PasswordHash:   "hash",
		Email:          &email,
		Role:           models.RoleEmployee,
		TelegramChatID: &chatID,
	}
	require.NoError(t, repo.CreateUser(ctx, db, user))

	byName, err := repo.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash", byName.PasswordHash)
	require.NotNil(t, byName.TelegramChatID)
	assert.Equal(t, chatID, *byName.TelegramChatID)

	byID, err := repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.PasswordHash)
	assert.Nil(t, byID.FullName)

	_, err = repo.FindUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthRepository_DuplicateUsername(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewAuthRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, db, &models.User{ID: uuid.NewString(), Username: "alice", PasswordHash: "h", Role: models.RoleEmployee}))
	err := repo.CreateUser(ctx, db, &models.User{ID: uuid.NewString(), Username: "alice", PasswordHash: "h", Role: models.RoleEmployee})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestAuthRepository_DeleteRestrictedByShifts(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewAuthRepository(db)
	ctx := context.Background()
	owner := testutil.SeedUser(t, db, "alice", models.RoleEmployee)
	loner := testutil.SeedUser(t, db, "bob", models.RoleEmployee)
	testutil.SeedShift(t, db, owner, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, repo.DeleteUser(ctx, db, owner), ErrReferenced)
	assert.Equal(t, 1, testutil.CountRows(t, db, "shifts"))

	require.NoError(t, repo.DeleteUser(ctx, db, loner))
	assert.ErrorIs(t, repo.DeleteUser(ctx, db, loner), ErrNotFound)
}
