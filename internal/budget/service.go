package budget

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"kantong/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	UpsertBudget(ctx context.Context, b *Budget) error
	ListBudgets(ctx context.Context) ([]*Budget, error)
	DeleteBudget(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	txs  *transaction.Service
}

func NewService(repo Repository, txs *transaction.Service) *Service {
	return &Service{repo: repo, txs: txs}
}

// Put creates or overwrites the budget for a category. At most one budget
// exists per category.
func (s *Service) Put(ctx context.Context, category string, limit int64) (*Budget, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	if strings.TrimSpace(category) == "" {
		return nil, transaction.ErrInvalidCategory
	}

	b := &Budget{Category: category, Limit: limit}
	if err := s.repo.UpsertBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) List(ctx context.Context) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx)
}

// Delete removes a budget by id. Transactions in its category are untouched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBudget(ctx, id)
}

// Progress evaluates every budget against the expenses of the month
// containing ref.
func (s *Service) Progress(ctx context.Context, ref time.Time) ([]Progress, error) {
	budgets, err := s.repo.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	txs, err := s.txs.List(ctx, transaction.ListFilter{
		StartDate: &monthStart,
		EndDate:   &monthEnd,
	})
	if err != nil {
		return nil, err
	}

	return Evaluate(budgets, txs, ref), nil
}
