package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"kantong/internal/budget"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertBudget inserts the budget or, when one already exists for the
// category, overwrites its limit.
func (s *Store) UpsertBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (category, monthly_limit)
		VALUES ($1, $2)
		ON CONFLICT (category) DO UPDATE SET monthly_limit = EXCLUDED.monthly_limit
		RETURNING id
	`

	if err := s.db.QueryRowContext(ctx, query, b.Category, b.Limit).Scan(&b.ID); err != nil {
		return fmt.Errorf("upserting budget: %w", err)
	}

	return nil
}

func (s *Store) ListBudgets(ctx context.Context) ([]*budget.Budget, error) {
	query := `SELECT id, category, monthly_limit FROM budgets ORDER BY category ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		var b budget.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Limit); err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget rows: %w", err)
	}

	return budgets, nil
}

func (s *Store) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}

	return nil
}
