package advisor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kantong/internal/advisor"
	"kantong/internal/budget"
	"kantong/internal/chat"
	"kantong/internal/transaction"
)

type completerFunc func(ctx context.Context, system string, history []*chat.Message, onDelta func(string)) (string, error)

func (f completerFunc) StreamChat(ctx context.Context, system string, history []*chat.Message, onDelta func(string)) (string, error) {
	return f(ctx, system, history, onDelta)
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
}

func newAdvisorService(t *testing.T, completer advisor.Completer) (*advisor.Service, *chat.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	txRepo := transaction.NewMockRepository(ctrl)
	budgetRepo := budget.NewMockRepository(ctrl)
	chatRepo := chat.NewMockRepository(ctrl)

	txRepo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	budgetRepo.EXPECT().ListBudgets(gomock.Any()).Return(nil, nil).AnyTimes()

	txSvc := transaction.NewService(txRepo)
	assembler := advisor.NewAssembler(txSvc, budget.NewService(budgetRepo, txSvc))

	return advisor.NewService(assembler, chat.NewService(chatRepo), completer, fixedClock), chatRepo
}

func TestService_Advise(t *testing.T) {
	var (
		gotSystem  string
		gotHistory []*chat.Message
		deltas     []string
	)

	completer := completerFunc(func(_ context.Context, system string, history []*chat.Message, onDelta func(string)) (string, error) {
		gotSystem = system
		gotHistory = history
		onDelta("Halo! ")
		onDelta("Keuanganmu aman.")
		return "Halo! Keuanganmu aman.", nil
	})

	svc, chatRepo := newAdvisorService(t, completer)

	chatRepo.EXPECT().ListMessages(gomock.Any()).Return([]*chat.Message{
		{Role: chat.RoleUser, Content: "earlier question"},
		{Role: chat.RoleAssistant, Content: "earlier answer"},
	}, nil)
	chatRepo.EXPECT().
		CreateMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *chat.Message) error {
			assert.Equal(t, chat.RoleUser, msg.Role)
			assert.Equal(t, "how am I doing?", msg.Content)
			return nil
		})
	chatRepo.EXPECT().
		CreateMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *chat.Message) error {
			assert.Equal(t, chat.RoleAssistant, msg.Role)
			assert.Equal(t, "Halo! Keuanganmu aman.", msg.Content)
			return nil
		})

	reply, err := svc.Advise(context.Background(), "how am I doing?", func(delta string) {
		deltas = append(deltas, delta)
	})
	require.NoError(t, err)

	assert.Equal(t, "Halo! Keuanganmu aman.", reply)
	assert.Equal(t, []string{"Halo! ", "Keuanganmu aman."}, deltas)
	assert.Contains(t, gotSystem, "FINANCIAL SUMMARY:")

	// The completer sees the prior conversation plus the new user message.
	require.Len(t, gotHistory, 3)
	assert.Equal(t, "how am I doing?", gotHistory[2].Content)
}

func TestService_Advise_CompletionFailureKeepsUserMessage(t *testing.T) {
	completer := completerFunc(func(context.Context, string, []*chat.Message, func(string)) (string, error) {
		return "", errors.New("upstream unavailable")
	})

	svc, chatRepo := newAdvisorService(t, completer)

	chatRepo.EXPECT().ListMessages(gomock.Any()).Return(nil, nil)

	// Exactly one persisted message: the user's. No assistant message is
	// written when the completion fails.
	chatRepo.EXPECT().
		CreateMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *chat.Message) error {
			assert.Equal(t, chat.RoleUser, msg.Role)
			return nil
		})

	_, err := svc.Advise(context.Background(), "help", nil)
	assert.Error(t, err)
}

func TestService_Advise_UserPersistFailure(t *testing.T) {
	completer := completerFunc(func(context.Context, string, []*chat.Message, func(string)) (string, error) {
		t.Fatal("completer must not be called when the user message fails to persist")
		return "", nil
	})

	svc, chatRepo := newAdvisorService(t, completer)

	chatRepo.EXPECT().ListMessages(gomock.Any()).Return(nil, nil)
	chatRepo.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

	_, err := svc.Advise(context.Background(), "help", nil)
	assert.Error(t, err)
}

func TestService_Reset(t *testing.T) {
	svc, chatRepo := newAdvisorService(t, nil)

	chatRepo.EXPECT().DeleteAllMessages(gomock.Any()).Return(nil)

	assert.NoError(t, svc.Reset(context.Background()))
}
