package models

import "time"

const (
	RoleEmployee = "Employee"
	RoleManager  = "Manager"
)

// User represents an account. ID is an opaque UUID string.
type User struct {
	ID             string    `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Email          *string   `json:"email,omitempty" db:"email"`
	FullName       *string   `json:"full_name,omitempty" db:"full_name"`
	Role           string    `json:"role" db:"role"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty" db:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool { return u != nil && u.Role == RoleManager }
