package advisor

import (
	"context"
	"fmt"
	"time"

	"kantong/internal/chat"
)

// Completer is the streaming text-completion boundary. The response is
// opaque text; the advisor never interprets it.
type Completer interface {
	StreamChat(ctx context.Context, system string, history []*chat.Message, onDelta func(string)) (string, error)
}

// Service runs one advisory turn: persist the user's message, assemble the
// financial context, stream the completion, persist the reply.
type Service struct {
	assembler *Assembler
	chats     *chat.Service
	completer Completer
	clock     func() time.Time
}

func NewService(assembler *Assembler, chats *chat.Service, completer Completer, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		assembler: assembler,
		chats:     chats,
		completer: completer,
		clock:     clock,
	}
}

// Advise handles one user message. The message is persisted before the
// completion call and stays persisted whatever the call's outcome; a
// completion failure surfaces as an error with no store mutation beyond
// that. The assistant reply is persisted only once fully received.
func (s *Service) Advise(ctx context.Context, userMessage string, onDelta func(string)) (string, error) {
	history, err := s.chats.List(ctx)
	if err != nil {
		return "", fmt.Errorf("loading chat history: %w", err)
	}

	userMsg, err := s.chats.Append(ctx, chat.RoleUser, userMessage)
	if err != nil {
		return "", fmt.Errorf("persisting user message: %w", err)
	}

	dataContext, err := s.assembler.Build(ctx, s.clock())
	if err != nil {
		return "", fmt.Errorf("assembling financial context: %w", err)
	}

	history = append(history, userMsg)

	reply, err := s.completer.StreamChat(ctx, systemPrompt(dataContext), history, onDelta)
	if err != nil {
		return "", fmt.Errorf("advisory completion: %w", err)
	}

	if _, err := s.chats.Append(ctx, chat.RoleAssistant, reply); err != nil {
		return "", fmt.Errorf("persisting assistant message: %w", err)
	}

	return reply, nil
}

// History exposes the conversation for presentation layers.
func (s *Service) History(ctx context.Context) ([]*chat.Message, error) {
	return s.chats.List(ctx)
}

// Reset clears the conversation. Financial records are untouched.
func (s *Service) Reset(ctx context.Context) error {
	return s.chats.Clear(ctx)
}
