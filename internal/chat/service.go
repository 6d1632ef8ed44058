package chat

import (
	"context"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=chat
type Repository interface {
	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context) ([]*Message, error)
	DeleteAllMessages(ctx context.Context) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Append(ctx context.Context, role Role, content string) (*Message, error) {
	msg := &Message{Role: role, Content: content}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// List returns the conversation ordered by insertion time ascending.
func (s *Service) List(ctx context.Context) ([]*Message, error) {
	return s.repo.ListMessages(ctx)
}

func (s *Service) Clear(ctx context.Context) error {
	return s.repo.DeleteAllMessages(ctx)
}
