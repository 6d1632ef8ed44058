// Package stats aggregates the transaction history into chart-ready
// summaries.
package stats

import (
	"context"
	"sort"
	"time"

	"kantong/internal/transaction"
)

// Summary is the all-time income/expense/balance overview.
type Summary struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

// CategorySlice is one slice of the expense-by-category breakdown.
type CategorySlice struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

// MonthPoint is one month of the income/expense series.
type MonthPoint struct {
	Month   time.Time `json:"month"` // First day of the month, UTC
	Income  int64     `json:"income"`
	Expense int64     `json:"expense"`
}

type Service struct {
	txs *transaction.Service
}

func NewService(txs *transaction.Service) *Service {
	return &Service{txs: txs}
}

func (s *Service) Overview(ctx context.Context) (Summary, error) {
	balance, err := s.txs.Balance(ctx)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Income:  balance.Income,
		Expense: balance.Expense,
		Balance: balance.Net(),
	}, nil
}

// ExpenseByCategory groups all expenses by category, largest first.
func (s *Service) ExpenseByCategory(ctx context.Context) ([]CategorySlice, error) {
	txs, err := s.txs.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, err
	}

	return GroupExpensesByCategory(txs), nil
}

// MonthlyFlow buckets all transactions into per-month income/expense sums,
// oldest month first.
func (s *Service) MonthlyFlow(ctx context.Context) ([]MonthPoint, error) {
	txs, err := s.txs.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, err
	}

	return GroupByMonth(txs), nil
}

func GroupExpensesByCategory(txs []*transaction.Transaction) []CategorySlice {
	grouped := make(map[string]int64)

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		grouped[tx.Category] += tx.Amount
	}

	slices := make([]CategorySlice, 0, len(grouped))
	for category, amount := range grouped {
		slices = append(slices, CategorySlice{Category: category, Amount: amount})
	}

	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Amount != slices[j].Amount {
			return slices[i].Amount > slices[j].Amount
		}

		return slices[i].Category < slices[j].Category
	})

	return slices
}

func GroupByMonth(txs []*transaction.Transaction) []MonthPoint {
	grouped := make(map[time.Time]*MonthPoint)

	for _, tx := range txs {
		month := time.Date(tx.Date.Year(), tx.Date.Month(), 1, 0, 0, 0, 0, time.UTC)

		point, ok := grouped[month]
		if !ok {
			point = &MonthPoint{Month: month}
			grouped[month] = point
		}

		if tx.Type == transaction.TypeIncome {
			point.Income += tx.Amount
		} else {
			point.Expense += tx.Amount
		}
	}

	points := make([]MonthPoint, 0, len(grouped))
	for _, point := range grouped {
		points = append(points, *point)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Month.Before(points[j].Month)
	})

	return points
}
