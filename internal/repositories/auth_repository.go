package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shift_scheduler_backend/internal/models"
)

// AuthRepository defines the database operations on user accounts.
type AuthRepository interface {
	CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, userID string) (*models.User, error)
	// DeleteUser returns ErrReferenced while shifts, availabilities, punches
	// or pay stubs still point at the user.
	DeleteUser(ctx context.Context, executor SQLExecutor, userID string) error
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts user. user.ID and user.PasswordHash must already be set.
func (r *authRepository) CreateUser(ctx context.Context, executor SQLExecutor, user *models.User) error {
	query := `INSERT INTO users (id, username, password_hash, email, full_name, role, telegram_chat_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	currentTime := time.Now().UTC()
	user.CreatedAt = currentTime
	user.UpdatedAt = currentTime

	var chatID sql.NullInt64
	if user.TelegramChatID != nil {
		chatID = sql.NullInt64{Int64: *user.TelegramChatID, Valid: true}
	}

	_, err := executor.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, nullString(user.Email), nullString(user.FullName),
		user.Role, chatID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return nil
}

const userColumns = `id, username, password_hash, email, full_name, role, telegram_chat_id, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var email, fullName sql.NullString
	var chatID sql.NullInt64
	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &email, &fullName,
		&user.Role, &chatID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Email = stringPtr(email)
	user.FullName = stringPtr(fullName)
	if chatID.Valid {
		user.TelegramChatID = &chatID.Int64
	}
	return user, nil
}

// FindUserByUsername retrieves a user, including the password hash, by username.
func (r *authRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by username %s: %v", ErrDatabaseError, username, err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id. The password hash is cleared.
func (r *authRepository) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %s: %v", ErrDatabaseError, userID, err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (r *authRepository) DeleteUser(ctx context.Context, executor SQLExecutor, userID string) error {
	result, err := executor.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: user %s", ErrReferenced, userID)
		}
		return fmt.Errorf("%w: deleting user %s: %v", ErrDatabaseError, userID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
