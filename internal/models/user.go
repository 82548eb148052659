package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID       `json:"id" db:"id"`                   // Primary key
	Username     string          `json:"username" db:"username"`       // Unique username
	Email        string          `json:"email" db:"email"`             // Unique email
	PasswordHash string          `json:"-" db:"password_hash"`         // bcrypt hash, never serialized
	FullName     *string         `json:"full_name" db:"full_name"`     // Optional display name
	Balance      decimal.Decimal `json:"balance" db:"balance"`         // Current balance
	IsActive     bool            `json:"is_active" db:"is_active"`     // Inactive users cannot log in
	IsVerified   bool            `json:"is_verified" db:"is_verified"` // Email verification flag
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`   // Creation timestamp
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`   // Last update timestamp
}

// NewUser holds the fields needed to insert a user.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     *string
	Balance      decimal.Decimal
}
