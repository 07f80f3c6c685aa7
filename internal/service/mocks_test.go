package service

import (
	"context"

	"linktrack/internal/domain"

	"github.com/stretchr/testify/mock"
)

// ==================== MOCKS ====================

// MockLinkRepository is a mock implementation of repository.LinkRepository.
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Create(ctx context.Context, link *domain.TrackableLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLinkRepository) GetByID(ctx context.Context, id string) (*domain.TrackableLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackableLink), args.Error(1)
}

func (m *MockLinkRepository) GetBySlug(ctx context.Context, slug string) (*domain.TrackableLink, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackableLink), args.Error(1)
}

func (m *MockLinkRepository) ListByCreator(ctx context.Context, creatorID string) ([]*domain.TrackableLink, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TrackableLink), args.Error(1)
}

func (m *MockLinkRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLinkRepository) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

// MockEventRepository is a mock implementation of repository.EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *domain.FunnelEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) ListBySubject(ctx context.Context, creatorID, subjectID string) ([]*domain.FunnelEvent, error) {
	args := m.Called(ctx, creatorID, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FunnelEvent), args.Error(1)
}

func (m *MockEventRepository) ListByCreator(ctx context.Context, creatorID string) ([]*domain.FunnelEvent, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FunnelEvent), args.Error(1)
}

func (m *MockEventRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessageRepository is a mock implementation of repository.MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) ListAfter(ctx context.Context, linkID string, afterID int64) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, linkID, afterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatMessage), args.Error(1)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetLink(ctx context.Context, slug string) (*domain.TrackableLink, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackableLink), args.Error(1)
}

func (m *MockCache) SetLink(ctx context.Context, link *domain.TrackableLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockCache) DeleteLink(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// memMessageRepo is an in-memory message log used for cursor-semantics
// tests, where a mock.Mock would just restate the expected answer.
type memMessageRepo struct {
	nextID   int64
	messages []*domain.ChatMessage
}

func (r *memMessageRepo) Create(_ context.Context, msg *domain.ChatMessage) error {
	r.nextID++
	msg.ID = r.nextID
	stored := *msg
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *memMessageRepo) ListAfter(_ context.Context, linkID string, afterID int64) ([]*domain.ChatMessage, error) {
	var out []*domain.ChatMessage
	for _, m := range r.messages {
		if m.LinkID == linkID && m.ID > afterID {
			out = append(out, m)
		}
	}
	return out, nil
}
