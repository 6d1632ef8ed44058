package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"kantong/internal/budget"
	"kantong/internal/transaction"
)

// contextWindowDays is how far back the assembled summary looks.
const contextWindowDays = 30

// rupiah renders amounts with Indonesian digit grouping ("1.500.000").
var rupiah = message.NewPrinter(language.Indonesian)

func formatRupiah(amount int64) string {
	return rupiah.Sprintf("Rp %d", amount)
}

// Assembler builds the financial-context block handed to the completion
// service as part of its system instruction. It reads transactions and
// budgets only; chat history is never inspected.
type Assembler struct {
	txs     *transaction.Service
	budgets *budget.Service
}

func NewAssembler(txs *transaction.Service, budgets *budget.Service) *Assembler {
	return &Assembler{txs: txs, budgets: budgets}
}

// Build assembles the context string for the 30 days up to and including
// ref. Budget alerts are evaluated against ref's calendar month. A window
// with no transactions still yields a well-formed string with zero totals.
func (a *Assembler) Build(ctx context.Context, ref time.Time) (string, error) {
	since := ref.AddDate(0, 0, -contextWindowDays)

	txs, err := a.txs.ListSince(ctx, since)
	if err != nil {
		return "", fmt.Errorf("loading transactions: %w", err)
	}

	budgets, err := a.budgets.List(ctx)
	if err != nil {
		return "", fmt.Errorf("loading budgets: %w", err)
	}

	var totalIncome, totalExpense int64

	lines := make([]string, 0, len(txs))

	for _, tx := range txs {
		if tx.Type == transaction.TypeIncome {
			totalIncome += tx.Amount
		} else {
			totalExpense += tx.Amount
		}

		detail := ""
		if tx.Description != "" && tx.Description != tx.Category {
			detail = fmt.Sprintf(" (Detail: %s)", tx.Description)
		}

		lines = append(lines, fmt.Sprintf("- %s: %s - %s%s -> %s",
			tx.Date.Format(time.DateOnly), tx.Type, tx.Category, detail, formatRupiah(tx.Amount)))
	}

	var sb strings.Builder

	sb.WriteString("FINANCIAL SUMMARY:\n")
	sb.WriteString("Total Income: " + formatRupiah(totalIncome) + "\n")
	sb.WriteString("Total Expense: " + formatRupiah(totalExpense) + "\n")
	sb.WriteString("Net Cashflow: " + formatRupiah(totalIncome-totalExpense) + "\n")

	if alerts := budgetAlerts(budgets, txs, ref); len(alerts) > 0 {
		sb.WriteString("\nBUDGET STATUS (IMPORTANT!):\n")
		sb.WriteString(strings.Join(alerts, "\n"))
		sb.WriteString("\n")
	}

	sb.WriteString("\nTRANSACTION DETAILS:\n")

	if len(lines) == 0 {
		sb.WriteString("(no transactions recorded in the last 30 days)\n")
	} else {
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// budgetAlerts emits one line per budget classified OVER or WARNING for the
// month containing ref. Budgets on track produce nothing; zero alerts is a
// normal outcome.
func budgetAlerts(budgets []*budget.Budget, txs []*transaction.Transaction, ref time.Time) []string {
	var alerts []string

	for _, p := range budget.Evaluate(budgets, txs, ref) {
		switch p.Status {
		case budget.StatusOver:
			alerts = append(alerts, fmt.Sprintf(
				"- DANGER: The user has OVERSPENT in category '%s'. Used %s of the %s limit. Address this overspending directly!",
				p.Category, formatRupiah(p.Spent), formatRupiah(p.Limit)))
		case budget.StatusWarning:
			alerts = append(alerts, fmt.Sprintf(
				"- WARNING: Category '%s' is almost exhausted (80%% of the limit). Give a gentle caution.",
				p.Category))
		}
	}

	return alerts
}
