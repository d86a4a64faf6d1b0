package types

import (
	"errors"
	"strings"
	"time"
)

// Priority is the urgency tier of an expense.
type Priority string

const (
	PriorityLow    Priority = "Baja"
	PriorityMedium Priority = "Media"
	PriorityHigh   Priority = "Alta"
)

// ErrInvalidPriority is returned for values outside the closed enumeration.
var ErrInvalidPriority = errors.New("invalid priority")

// ParsePriority normalizes a priority value. The empty string maps to the
// Media default; English synonyms are accepted for compatibility with older
// clients.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case "baja", "low":
		return PriorityLow, nil
	case "media", "medium":
		return PriorityMedium, nil
	case "alta", "high":
		return PriorityHigh, nil
	default:
		return "", ErrInvalidPriority
	}
}

// Expense is a single outgoing entry in a user's ledger.
type Expense struct {
	// ID is the unique identifier of the expense.
	ID int `json:"id" db:"id"`

	// UserID references the owning user. Every query is scoped by it.
	UserID int `json:"-" db:"usuario_id"`

	// Name is the label given to the expense.
	Name string `json:"nombre" db:"nombre"`

	// Amount is the expense value, non-negative with two decimal places.
	Amount Money `json:"valor" db:"valor"`

	// Priority is the urgency tier, Media when unspecified.
	Priority Priority `json:"prioridad" db:"prioridad"`

	// Date is the day the expense is due or was incurred.
	Date Date `json:"fecha" db:"fecha"`

	// CreatedAt is the timestamp when the row was written.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
