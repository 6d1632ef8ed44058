package advisor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kantong/internal/advisor"
	"kantong/internal/budget"
	"kantong/internal/transaction"
)

func newAssembler(t *testing.T) (*advisor.Assembler, *transaction.MockRepository, *budget.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	txRepo := transaction.NewMockRepository(ctrl)
	budgetRepo := budget.NewMockRepository(ctrl)

	txSvc := transaction.NewService(txRepo)
	budgetSvc := budget.NewService(budgetRepo, txSvc)

	return advisor.NewAssembler(txSvc, budgetSvc), txRepo, budgetRepo
}

func TestAssembler_Build_EmptyWindow(t *testing.T) {
	assembler, txRepo, budgetRepo := newAssembler(t)

	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	txRepo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
			require.NotNil(t, filter.StartDate)
			assert.Equal(t, ref.AddDate(0, 0, -30), *filter.StartDate)
			return nil, nil
		})
	budgetRepo.EXPECT().ListBudgets(gomock.Any()).Return(nil, nil)

	got, err := assembler.Build(context.Background(), ref)
	require.NoError(t, err)

	assert.Contains(t, got, "FINANCIAL SUMMARY:")
	assert.Contains(t, got, "Total Income: Rp 0")
	assert.Contains(t, got, "Total Expense: Rp 0")
	assert.Contains(t, got, "Net Cashflow: Rp 0")
	assert.Contains(t, got, "(no transactions recorded in the last 30 days)")
	assert.NotContains(t, got, "BUDGET STATUS")
}

func TestAssembler_Build_Totals(t *testing.T) {
	assembler, txRepo, budgetRepo := newAssembler(t)

	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	txRepo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{
		{Amount: 5000000, Type: transaction.TypeIncome, Category: "Gaji", Date: ref.AddDate(0, 0, -10)},
		{Amount: 1500000, Type: transaction.TypeExpense, Category: "Makanan", Date: ref.AddDate(0, 0, -5)},
		{Amount: 500000, Type: transaction.TypeExpense, Category: "Transportasi", Date: ref},
	}, nil)
	budgetRepo.EXPECT().ListBudgets(gomock.Any()).Return(nil, nil)

	got, err := assembler.Build(context.Background(), ref)
	require.NoError(t, err)

	assert.Contains(t, got, "Total Income: Rp 5.000.000")
	assert.Contains(t, got, "Total Expense: Rp 2.000.000")
	assert.Contains(t, got, "Net Cashflow: Rp 3.000.000")
	assert.Contains(t, got, "- 2025-03-10: EXPENSE - Makanan -> Rp 1.500.000")
}

func TestAssembler_Build_DetailSuppression(t *testing.T) {
	assembler, txRepo, budgetRepo := newAssembler(t)

	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	txRepo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{
		{Amount: 100, Type: transaction.TypeExpense, Category: "Makanan", Description: "Makanan", Date: ref},
		{Amount: 200, Type: transaction.TypeExpense, Category: "Makanan", Description: "Nasi goreng", Date: ref},
		{Amount: 300, Type: transaction.TypeExpense, Category: "Makanan", Description: "", Date: ref},
	}, nil)
	budgetRepo.EXPECT().ListBudgets(gomock.Any()).Return(nil, nil)

	got, err := assembler.Build(context.Background(), ref)
	require.NoError(t, err)

	assert.Contains(t, got, "(Detail: Nasi goreng)")
	assert.NotContains(t, got, "(Detail: Makanan)")
}

func TestAssembler_Build_BudgetAlerts(t *testing.T) {
	assembler, txRepo, budgetRepo := newAssembler(t)

	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	txRepo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{
		{Amount: 550000, Type: transaction.TypeExpense, Category: "Makanan", Date: ref},
		{Amount: 170000, Type: transaction.TypeExpense, Category: "Transportasi", Date: ref},
		{Amount: 10000, Type: transaction.TypeExpense, Category: "Hiburan", Date: ref},
	}, nil)
	budgetRepo.EXPECT().ListBudgets(gomock.Any()).Return([]*budget.Budget{
		{Category: "Makanan", Limit: 500000},
		{Category: "Transportasi", Limit: 200000},
		{Category: "Hiburan", Limit: 100000},
	}, nil)

	got, err := assembler.Build(context.Background(), ref)
	require.NoError(t, err)

	assert.Contains(t, got, "BUDGET STATUS (IMPORTANT!):")
	assert.Contains(t, got, "DANGER: The user has OVERSPENT in category 'Makanan'")
	assert.Contains(t, got, "Used Rp 550.000 of the Rp 500.000 limit")
	assert.Contains(t, got, "WARNING: Category 'Transportasi' is almost exhausted")
	assert.NotContains(t, got, "Hiburan'")
}

func TestAssembler_Build_AlertsUseRefMonthOnly(t *testing.T) {
	assembler, txRepo, budgetRepo := newAssembler(t)

	// Window spans the previous month's end. Overspending there must not
	// trigger an alert for the current month.
	ref := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)

	txRepo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{
		{Amount: 900000, Type: transaction.TypeExpense, Category: "Makanan", Date: time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)},
	}, nil)
	budgetRepo.EXPECT().ListBudgets(gomock.Any()).Return([]*budget.Budget{
		{Category: "Makanan", Limit: 500000},
	}, nil)

	got, err := assembler.Build(context.Background(), ref)
	require.NoError(t, err)

	assert.NotContains(t, got, "BUDGET STATUS")
}
