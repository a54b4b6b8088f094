package domain

import "time"

// User represents a registered account. Passwords are stored only as
// bcrypt hashes; the plaintext never leaves the auth service.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
