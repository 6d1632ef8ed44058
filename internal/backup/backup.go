// Package backup implements the versioned JSON exchange format used to back
// up and restore the transaction collection.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"kantong/internal/encoding"
	"kantong/internal/transaction"
)

// Version is the current backup document version.
const Version = 1

// ErrInvalidFormat marks a document that fails validation before any store
// mutation happens.
var ErrInvalidFormat = errors.New("invalid backup format")

// Document is the top-level backup envelope.
type Document struct {
	Version   int     `json:"version"`
	Timestamp string  `json:"timestamp"`
	Data      Payload `json:"data"`
}

// Payload wraps the backed-up collections. Only transactions are exported;
// the wrapper object keeps the format extensible.
type Payload struct {
	Transactions []Record `json:"transactions"`
}

// Record is one transaction as it appears on the wire. Dates are plain
// YYYY-MM-DD strings and createdAt is epoch milliseconds.
type Record struct {
	ID          string           `json:"id,omitempty"`
	Amount      int64            `json:"amount"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	CreatedAt   int64            `json:"createdAt"`
}

type Service struct {
	txs *transaction.Service
}

func NewService(txs *transaction.Service) *Service {
	return &Service{txs: txs}
}

// Filename returns the conventional backup filename for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("finance-backup-%s.json", now.Format(time.DateOnly))
}

// Export serializes the entire transaction collection as a versioned JSON
// document. No transaction is omitted and no field value is altered; rows
// appear in the store's natural iteration order.
func (s *Service) Export(ctx context.Context, now time.Time) ([]byte, error) {
	txs, err := s.txs.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	doc := Document{
		Version:   Version,
		Timestamp: now.Format(time.RFC3339),
		Data: Payload{
			Transactions: make([]Record, 0, len(txs)),
		},
	}

	for _, tx := range txs {
		doc.Data.Transactions = append(doc.Data.Transactions, recordFromTransaction(tx))
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup document: %w", err)
	}

	return out, nil
}

// envelope checks only the shape the restore depends on; everything else in
// the document is ignored.
type envelope struct {
	Data struct {
		Transactions json.RawMessage `json:"transactions"`
	} `json:"data"`
}

// Import validates a backup document and atomically replaces the transaction
// collection with its contents. Validation stays shallow: data.transactions
// must be a JSON array whose elements decode into the record shape; field
// values beyond that are not range-checked. Any validation failure rejects
// the document with ErrInvalidFormat before the store is touched. If the
// replace itself fails, the single enclosing database transaction rolls back
// and the previous contents remain.
func (s *Service) Import(ctx context.Context, r io.Reader) error {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	// json.Unmarshal accepts "null" into a slice, so the array check has to
	// look at the raw value.
	arr := bytes.TrimSpace(env.Data.Transactions)
	if len(arr) == 0 || arr[0] != '[' {
		return fmt.Errorf("%w: data.transactions is not an array", ErrInvalidFormat)
	}

	var records []Record
	if err := json.Unmarshal(arr, &records); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	params := make([]transaction.CreateParams, 0, len(records))

	for i, rec := range records {
		date, err := time.Parse(time.DateOnly, rec.Date)
		if err != nil {
			return fmt.Errorf("%w: transaction %d: bad date %q", ErrInvalidFormat, i, rec.Date)
		}

		var createdAt time.Time
		if rec.CreatedAt != 0 {
			createdAt = time.UnixMilli(rec.CreatedAt).UTC()
		}

		params = append(params, transaction.CreateParams{
			Amount:      rec.Amount,
			Type:        rec.Type,
			Category:    rec.Category,
			Description: rec.Description,
			Date:        date,
			CreatedAt:   createdAt,
		})
	}

	if _, err := s.txs.ReplaceAll(ctx, params); err != nil {
		return fmt.Errorf("restoring transactions: %w", err)
	}

	return nil
}

// recordFromTransaction converts a stored transaction to its wire shape.
func recordFromTransaction(tx *transaction.Transaction) Record {
	id := ""
	if tx.ID != uuid.Nil {
		id = tx.ID.String()
	}

	return Record{
		ID:          id,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.Format(time.DateOnly),
		CreatedAt:   tx.CreatedAt.UnixMilli(),
	}
}
