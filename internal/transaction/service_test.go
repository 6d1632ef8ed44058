package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kantong/internal/transaction"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					Amount:      50000,
					Type:        transaction.TypeExpense,
					Category:    "Makanan",
					Description: "Nasi goreng",
					Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "ZeroAmountAllowed",
			args: args{
				params: transaction.CreateParams{
					Amount:   0,
					Type:     transaction.TypeIncome,
					Category: "Gaji",
					Date:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "NegativeAmount",
			args: args{
				params: transaction.CreateParams{
					Amount:   -100,
					Type:     transaction.TypeExpense,
					Category: "Makanan",
				},
			},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name: "InvalidType",
			args: args{
				params: transaction.CreateParams{
					Amount:   100,
					Type:     "TRANSFER",
					Category: "Makanan",
				},
			},
			wantErr: transaction.ErrInvalidType,
		},
		{
			name: "BlankCategory",
			args: args{
				params: transaction.CreateParams{
					Amount:   100,
					Type:     transaction.TypeExpense,
					Category: "   ",
				},
			},
			wantErr: transaction.ErrInvalidCategory,
		},
		{
			name: "RepoError",
			args: args{
				params: transaction.CreateParams{
					Amount:   500,
					Type:     transaction.TypeExpense,
					Category: "Makanan",
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_List(t *testing.T) {
	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
			wantErr: false,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantLen: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_ListSince(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	day := time.Date(2025, 2, 8, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
			require.NotNil(t, filter.StartDate)
			assert.Equal(t, day, *filter.StartDate)
			assert.Nil(t, filter.EndDate)
			return []*transaction.Transaction{{ID: uuid.New()}}, nil
		})

	got, err := svc.ListSince(context.Background(), day)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	id := uuid.New()
	repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), id))
}

func TestService_Balance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	repo.EXPECT().GetBalance(gomock.Any()).Return(transaction.Balance{
		Income:  5000000,
		Expense: 1250000,
	}, nil)

	balance, err := svc.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5000000), balance.Income)
	assert.Equal(t, int64(1250000), balance.Expense)
	assert.Equal(t, int64(3750000), balance.Net())
}

func TestService_ReplaceAll(t *testing.T) {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Amount:   75000,
			Type:     transaction.TypeExpense,
			Category: "Transportasi",
			Date:     date,
		},
		{
			Amount:   3000000,
			Type:     transaction.TypeIncome,
			Category: "Gaji",
			Date:     date,
		},
	}

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		rtx := transaction.NewMockReplaceTx(ctrl)
		svc := transaction.NewService(repo)

		repo.EXPECT().BeginReplace(gomock.Any()).Return(rtx, nil)
		rtx.EXPECT().DeleteAll(gomock.Any()).Return(nil)
		rtx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
		rtx.EXPECT().Commit().Return(nil)
		rtx.EXPECT().Rollback().Return(nil)

		txs, err := svc.ReplaceAll(context.Background(), params)
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, int64(75000), txs[0].Amount)
		assert.Equal(t, transaction.TypeIncome, txs[1].Type)
	})

	t.Run("Empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		rtx := transaction.NewMockReplaceTx(ctrl)
		svc := transaction.NewService(repo)

		repo.EXPECT().BeginReplace(gomock.Any()).Return(rtx, nil)
		rtx.EXPECT().DeleteAll(gomock.Any()).Return(nil)
		rtx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(0)).Return(nil)
		rtx.EXPECT().Commit().Return(nil)
		rtx.EXPECT().Rollback().Return(nil)

		txs, err := svc.ReplaceAll(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("CreateFailsRollsBack", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		rtx := transaction.NewMockReplaceTx(ctrl)
		svc := transaction.NewService(repo)

		repo.EXPECT().BeginReplace(gomock.Any()).Return(rtx, nil)
		rtx.EXPECT().DeleteAll(gomock.Any()).Return(nil)
		rtx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
		rtx.EXPECT().Rollback().Return(nil)

		txs, err := svc.ReplaceAll(context.Background(), params)
		assert.Error(t, err)
		assert.Nil(t, txs)
	})

	t.Run("DeleteFailsRollsBack", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		rtx := transaction.NewMockReplaceTx(ctrl)
		svc := transaction.NewService(repo)

		repo.EXPECT().BeginReplace(gomock.Any()).Return(rtx, nil)
		rtx.EXPECT().DeleteAll(gomock.Any()).Return(errors.New("delete failed"))
		rtx.EXPECT().Rollback().Return(nil)

		txs, err := svc.ReplaceAll(context.Background(), params)
		assert.Error(t, err)
		assert.Nil(t, txs)
	})
}
