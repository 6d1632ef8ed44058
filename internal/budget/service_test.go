package budget_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kantong/internal/budget"
	"kantong/internal/transaction"
)

func TestService_Put(t *testing.T) {
	type args struct {
		category string
		limit    int64
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *budget.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{category: "Makanan", limit: 500000},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().
					UpsertBudget(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *budget.Budget) error {
						b.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "ZeroLimit",
			args:    args{category: "Makanan", limit: 0},
			wantErr: budget.ErrInvalidLimit,
		},
		{
			name:    "NegativeLimit",
			args:    args{category: "Makanan", limit: -100},
			wantErr: budget.ErrInvalidLimit,
		},
		{
			name:    "BlankCategory",
			args:    args{category: "  ", limit: 100000},
			wantErr: transaction.ErrInvalidCategory,
		},
		{
			name: "RepoError",
			args: args{category: "Makanan", limit: 100000},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().
					UpsertBudget(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := budget.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := budget.NewService(repo, nil)
			got, err := svc.Put(context.Background(), tt.args.category, tt.args.limit)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.args.category, got.Category)
			assert.Equal(t, tt.args.limit, got.Limit)
		})
	}
}

func TestService_Progress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	budgetRepo := budget.NewMockRepository(ctrl)
	txRepo := transaction.NewMockRepository(ctrl)
	svc := budget.NewService(budgetRepo, transaction.NewService(txRepo))

	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	budgetRepo.EXPECT().ListBudgets(gomock.Any()).Return([]*budget.Budget{
		{ID: uuid.New(), Category: "Makanan", Limit: 500000},
	}, nil)

	txRepo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
			require.NotNil(t, filter.StartDate)
			require.NotNil(t, filter.EndDate)
			assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
			assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), *filter.EndDate)

			return []*transaction.Transaction{
				{Amount: 450000, Type: transaction.TypeExpense, Category: "Makanan", Date: ref},
			}, nil
		})

	got, err := svc.Progress(context.Background(), ref)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(450000), got[0].Spent)
	assert.Equal(t, budget.StatusWarning, got[0].Status)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := budget.NewMockRepository(ctrl)
	svc := budget.NewService(repo, nil)

	id := uuid.New()
	repo.EXPECT().DeleteBudget(gomock.Any(), id).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), id))
}
