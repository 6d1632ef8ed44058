package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"kantong/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.amount, t.type, t.category, t.description, t.date, t.created_at
`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	if err := s.Scan(
		&tx.ID, &tx.Amount, &typeStr, &tx.Category, &tx.Description, &tx.Date, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (amount, type, category, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
		RETURNING id, created_at
	`

	var createdAt any
	if !tx.CreatedAt.IsZero() {
		createdAt = tx.CreatedAt
	}

	err := s.db.QueryRowContext(ctx, query,
		tx.Amount,
		tx.Type,
		tx.Category,
		tx.Description,
		tx.Date,
		createdAt,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND t.category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	query += " ORDER BY t.date ASC, t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (s *Store) ListRecentTransactions(ctx context.Context, limit int) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		ORDER BY t.created_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// DeleteTransaction removes a transaction by id. A missing id deletes zero
// rows and is not an error.
func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transactions WHERE id = $1`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func (s *Store) GetBalance(ctx context.Context) (transaction.Balance, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = $1), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = $2), 0)
		FROM transactions
	`

	var b transaction.Balance

	err := s.db.QueryRowContext(ctx, query, transaction.TypeIncome, transaction.TypeExpense).
		Scan(&b.Income, &b.Expense)
	if err != nil {
		return transaction.Balance{}, fmt.Errorf("summing balance: %w", err)
	}

	return b, nil
}

type replaceTx struct {
	tx *sql.Tx
}

func (s *Store) BeginReplace(ctx context.Context) (transaction.ReplaceTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning replace tx: %w", err)
	}

	return &replaceTx{tx: dbTx}, nil
}

func (rtx *replaceTx) Commit() error   { return rtx.tx.Commit() }
func (rtx *replaceTx) Rollback() error { return rtx.tx.Rollback() }

func (rtx *replaceTx) DeleteAll(ctx context.Context) error {
	if _, err := rtx.tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}

	return nil
}

func (rtx *replaceTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	query := `
		INSERT INTO transactions (amount, type, category, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
		RETURNING id, created_at
	`

	for _, tx := range txs {
		var createdAt any
		if !tx.CreatedAt.IsZero() {
			createdAt = tx.CreatedAt
		}

		err := rtx.tx.QueryRowContext(ctx, query,
			tx.Amount,
			tx.Type,
			tx.Category,
			tx.Description,
			tx.Date,
			createdAt,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}

func collectTransactions(rows *sql.Rows) ([]*transaction.Transaction, error) {
	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}
