package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	ListRecentTransactions(ctx context.Context, limit int) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	GetBalance(ctx context.Context) (Balance, error)

	BeginReplace(ctx context.Context) (ReplaceTx, error)
}

// ReplaceTx is a single database transaction covering a full replacement of
// the collection. A concurrent reader never observes the cleared-but-empty
// intermediate state.
type ReplaceTx interface {
	DeleteAll(ctx context.Context) error
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Amount      int64
	Type        Type
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time // Zero value means "now", assigned by the store
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
	Type      *Type
}

// Balance holds the all-time income/expense sums.
type Balance struct {
	Income  int64
	Expense int64
}

func (b Balance) Net() int64 {
	return b.Income - b.Expense
}

func validate(params CreateParams) error {
	if params.Amount < 0 {
		return ErrInvalidAmount
	}

	if !params.Type.Valid() {
		return ErrInvalidType
	}

	if strings.TrimSpace(params.Category) == "" {
		return ErrInvalidCategory
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	tx := &Transaction{
		Amount:      params.Amount,
		Type:        params.Type,
		Category:    params.Category,
		Description: params.Description,
		Date:        params.Date,
		CreatedAt:   params.CreatedAt,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// ListSince returns transactions dated on or after the given day, ordered by
// date ascending.
func (s *Service) ListSince(ctx context.Context, day time.Time) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, ListFilter{StartDate: &day})
}

// ListRecent returns at most limit transactions ordered by insertion time
// descending.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*Transaction, error) {
	return s.repo.ListRecentTransactions(ctx, limit)
}

// Delete removes a transaction by id. Deleting an id that does not exist is
// a no-op, not an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *Service) Balance(ctx context.Context) (Balance, error) {
	return s.repo.GetBalance(ctx)
}

// ReplaceAll atomically clears the collection and inserts the given
// transactions in its place. Either both effects apply or neither does.
func (s *Service) ReplaceAll(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	rtx, err := s.repo.BeginReplace(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace: %w", err)
	}
	defer rtx.Rollback()

	if err := rtx.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear transactions: %w", err)
	}

	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = &Transaction{
			Amount:      p.Amount,
			Type:        p.Type,
			Category:    p.Category,
			Description: p.Description,
			Date:        p.Date,
			CreatedAt:   p.CreatedAt,
		}
	}

	if err := rtx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace: %w", err)
	}

	return txs, nil
}
