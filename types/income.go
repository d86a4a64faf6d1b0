package types

import "time"

// Income is a single incoming entry in a user's ledger. Incomes are
// append-only; there is no delete path.
type Income struct {
	// ID is the unique identifier of the income.
	ID int `json:"id" db:"id"`

	// UserID references the owning user.
	UserID int `json:"-" db:"usuario_id"`

	// Amount is the income value, non-negative with two decimal places.
	Amount Money `json:"monto" db:"monto"`

	// Units counts billable sessions attached to the income.
	Units int `json:"clases" db:"clases"`

	// Description is free text, possibly empty.
	Description string `json:"descripcion" db:"descripcion"`

	// Date is the day the income applies to.
	Date Date `json:"fecha" db:"fecha"`

	// CreatedAt is the timestamp when the row was written.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
