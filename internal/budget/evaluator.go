package budget

import (
	"time"

	"kantong/internal/transaction"
)

// Status classifies how far along a budget is for the month.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusOver    Status = "over"
)

// warnRatio is the early-warning band before the hard limit.
const warnRatio = 0.8

// Progress is the evaluated state of one budget for a given month.
type Progress struct {
	Category string
	Limit    int64
	Spent    int64
	Ratio    float64 // Capped at 1.0 for display
	Status   Status
}

// Evaluate computes spent-vs-limit progress for every budget, counting only
// EXPENSE transactions dated within the given month. It is pure: the
// reference month is an explicit parameter, never the wall clock.
func Evaluate(budgets []*Budget, txs []*transaction.Transaction, month time.Time) []Progress {
	spentByCategory := make(map[string]int64)

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense || !sameMonth(tx.Date, month) {
			continue
		}

		spentByCategory[tx.Category] += tx.Amount
	}

	progress := make([]Progress, 0, len(budgets))

	for _, b := range budgets {
		spent := spentByCategory[b.Category]
		ratio := float64(spent) / float64(b.Limit)

		status := StatusOK

		switch {
		case ratio >= 1.0:
			status = StatusOver
		case ratio >= warnRatio:
			status = StatusWarning
		}

		progress = append(progress, Progress{
			Category: b.Category,
			Limit:    b.Limit,
			Spent:    spent,
			Ratio:    min(ratio, 1.0),
			Status:   status,
		})
	}

	return progress
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
