package types

import "time"

// User represents an account in the system.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"usuario" db:"username"`

	// Email is an optional notification address used by the reminder job.
	Email string `json:"email,omitempty" db:"email"`

	// SecretHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	SecretHash string `json:"-" db:"secret_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
