package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type represents the direction of a transaction.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

var (
	ErrInvalidAmount   = errors.New("transaction amount must not be negative")
	ErrInvalidType     = errors.New("transaction type must be INCOME or EXPENSE")
	ErrInvalidCategory = errors.New("transaction category must not be empty")
)

// Transaction represents a single recorded money movement.
// Transactions are immutable once created; they are only ever deleted.
type Transaction struct {
	ID          uuid.UUID
	Amount      int64 // Amount in whole rupiah
	Type        Type
	Category    string
	Description string
	Date        time.Time // Calendar date, no time component
	CreatedAt   time.Time
}
