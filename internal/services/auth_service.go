package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shift_scheduler_backend/internal/models"
	"shift_scheduler_backend/internal/repositories"
	"shift_scheduler_backend/pkg/utils"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrRoleNotFound       = errors.New("specified role not found")
	ErrAccountInUse       = errors.New("account is still referenced by shifts or employee records")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// LoginRequest DTO
type LoginRequest struct {
	Username string `form:"Username" json:"username" binding:"required"`
	Password string `form:"Password" json:"password" binding:"required"`
}

// RegisterUserRequest DTO. Role is only honoured when a manager registers
// the account; self-registration always yields an Employee.
type RegisterUserRequest struct {
	Username       string `form:"Username" json:"username" binding:"required"`
	Password       string `form:"Password" json:"password" binding:"required"`
	Email          string `form:"Email" json:"email" binding:"omitempty,email"`
	FullName       string `form:"FullName" json:"full_name"`
	Role           string `form:"Role" json:"role"`
	TelegramChatID *int64 `form:"TelegramChatId" json:"telegram_chat_id"`
}

// AuthResponse DTO
type AuthResponse struct {
	User        *models.User  `json:"user"`
	AccessToken string        `json:"access_token"`
	Claims      *utils.Claims `json:"-"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, caller Principal, req RegisterUserRequest) (*models.User, error)
	LoginUser(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetUserProfile(ctx context.Context, userID string) (*models.User, error)
	// DeleteAccount removes the caller's own account. It fails with
	// ErrAccountInUse while shifts or other records reference it.
	DeleteAccount(ctx context.Context, userID string) error
}

type authService struct {
	authRepo repositories.AuthRepository
	db       *sql.DB
	tokens   *utils.TokenManager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, db *sql.DB, tokens *utils.TokenManager) AuthService {
	return &authService{
		authRepo: authRepo,
		db:       db,
		tokens:   tokens,
	}
}

func normalizeRole(role string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "", strings.ToLower(models.RoleEmployee):
		return models.RoleEmployee, true
	case strings.ToLower(models.RoleManager):
		return models.RoleManager, true
	}
	return "", false
}

func (s *authService) RegisterUser(ctx context.Context, caller Principal, req RegisterUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	verr := &ValidationError{}
	if username == "" {
		verr.add("username", "The Username field is required.")
	}
	if violations := utils.PasswordPolicyViolations(req.Password, MinPasswordLength); len(violations) > 0 {
		verr.add("password", "Password "+strings.Join(violations, ", ")+".")
	}
	if email := strings.TrimSpace(req.Email); email != "" && !utils.IsValidEmail(email) {
		verr.add("email", "The Email field is not a valid e-mail address.")
	}
	role, ok := normalizeRole(req.Role)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrRoleNotFound, req.Role)
	}
	if !caller.IsManager() {
		role = models.RoleEmployee
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if _, err := s.authRepo.FindUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Username:       username,
		PasswordHash:   string(hashedPasswordBytes),
		Email:          utils.NewNullString(req.Email),
		FullName:       utils.NewNullString(req.FullName),
		Role:           role,
		TelegramChatID: req.TelegramChatID,
	}
	if err := s.authRepo.CreateUser(ctx, s.db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameExists, "username or email already taken")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user.PasswordHash = ""
	utils.LogInfo("User registered", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

func (s *authService) LoginUser(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.authRepo.FindUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	user.PasswordHash = ""
	return &AuthResponse{User: user, AccessToken: token, Claims: claims}, nil
}

func (s *authService) GetUserProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.authRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	return user, nil
}

func (s *authService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.authRepo.DeleteUser(ctx, s.db, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrReferenced):
		return fmt.Errorf("%w: %v", ErrAccountInUse, err)
	}
	return fmt.Errorf("failed to delete account: %w", err)
}
