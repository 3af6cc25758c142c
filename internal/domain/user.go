package domain

import "time"

// User is the domain entity for an account that owns plans.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
