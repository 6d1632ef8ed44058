package budget

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidLimit = errors.New("budget limit must be positive")

// Budget is a per-category monthly spending ceiling. Categories are free
// text; nothing ties a budget's category to any transaction's category.
type Budget struct {
	ID       uuid.UUID
	Category string
	Limit    int64 // Limit in whole rupiah, always > 0
}
