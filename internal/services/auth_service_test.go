package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/repositories"
	"shift_scheduler_backend/internal/testutil"
	"shift_scheduler_backend/pkg/utils"
)

func newAuthService(t *testing.T) (AuthService, *utils.TokenManager) {
	db := testutil.NewSQLiteDB(t)
	tokens, err := utils.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	return NewAuthService(repositories.NewAuthRepository(db), db, tokens), tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, Principal{}, RegisterUserRequest{
		Username: "alice",
		Password: "Sup3r$ecret",
		Email:    "alice@example.com",
		Role:     models.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, user.Role, "self registration cannot pick a role")
	assert.Empty(t, user.PasswordHash)

	resp, err := svc.LoginUser(ctx, LoginRequest{Username: "alice", Password: "Sup3r$ecret"})
	require.NoError(t, err)
	claims, err := tokens.Validate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.LoginUser(ctx, LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.LoginUser(ctx, LoginRequest{Username: "nobody", Password: "Sup3r$ecret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterRules(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterUser(ctx, Principal{}, RegisterUserRequest{Username: "weak", Password: "password"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["password"], "needs an uppercase letter")

	_, err = svc.RegisterUser(ctx, Principal{}, RegisterUserRequest{Username: "x", Password: "Sup3r$ecret", Role: "Admin"})
	assert.ErrorIs(t, err, ErrRoleNotFound)

	manager := Principal{UserID: "boss", Role: models.RoleManager}
	created, err := svc.RegisterUser(ctx, manager, RegisterUserRequest{Username: "carol", Password: "Sup3r$ecret", Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, created.Role)

	_, err = svc.RegisterUser(ctx, Principal{}, RegisterUserRequest{Username: "carol", Password: "Sup3r$ecret"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	tokens, err := utils.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	svc := NewAuthService(repositories.NewAuthRepository(db), db, tokens)
	ctx := context.Background()

	busy := testutil.SeedUser(t, db, "busy", models.RoleEmployee)
	idle := testutil.SeedUser(t, db, "idle", models.RoleEmployee)
	testutil.SeedShift(t, db, busy, shiftStart)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, busy), ErrAccountInUse)
	require.NoError(t, svc.DeleteAccount(ctx, idle))
	assert.ErrorIs(t, svc.DeleteAccount(ctx, idle), ErrUserNotFound)

	_, err = svc.GetUserProfile(ctx, idle)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
