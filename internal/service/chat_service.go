package service

import (
	"context"
	"fmt"

	"linktrack/internal/domain"
	"linktrack/internal/metrics"
	"linktrack/internal/repository"
)

// ChatService is the append-and-poll support channel between a link's
// end user and its creator. No push delivery, no read receipts: the
// client owns its cursor and re-polls at its own interval.
type ChatService struct {
	messages repository.MessageRepository
	links    repository.LinkRepository
}

// NewChatService creates a new chat service.
func NewChatService(messages repository.MessageRepository, links repository.LinkRepository) *ChatService {
	return &ChatService{
		messages: messages,
		links:    links,
	}
}

// PostMessage appends one chat message. Fails with
// domain.ErrLinkNotFound when the link id is unknown and with
// domain.ErrEmptyBody / domain.ErrInvalidRole on malformed input.
func (s *ChatService) PostMessage(ctx context.Context, linkID string, sender domain.SenderRole, body, ip string) (*domain.ChatMessage, error) {
	if _, err := s.links.GetByID(ctx, linkID); err != nil {
		return nil, err
	}

	msg := domain.NewChatMessage(linkID, sender, body, ip)
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	metrics.RecordChatMessage(string(msg.Sender))
	return msg, nil
}

// Poll returns messages newer than the supplied cursor, ascending by
// id. A cursor of 0 reads from the beginning; a cursor beyond the
// latest id yields an empty slice.
func (s *ChatService) Poll(ctx context.Context, linkID string, afterID int64) ([]*domain.ChatMessage, error) {
	if _, err := s.links.GetByID(ctx, linkID); err != nil {
		return nil, err
	}

	return s.messages.ListAfter(ctx, linkID, afterID)
}
