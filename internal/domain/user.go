package domain

import "time"

// User represents a registered account. Email is stored lower-cased and is
// unique alongside the username.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
