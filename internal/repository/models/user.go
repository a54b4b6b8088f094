package models

import (
	"time"
)

// User is the users table row. Only the bcrypt hash of the password is
// ever stored.
type User struct {
	ID           string    `db:"id"` // ULID
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
