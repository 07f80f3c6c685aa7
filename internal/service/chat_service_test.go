package service

import (
	"context"
	"testing"

	"linktrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newChatFixture(t *testing.T) (*ChatService, *memMessageRepo) {
	t.Helper()
	links := new(MockLinkRepository)
	links.On("GetByID", mock.Anything, "L1").Return(testLink("L1", "C1"), nil)
	repo := &memMessageRepo{}
	return NewChatService(repo, links), repo
}

func TestPostMessage_Success(t *testing.T) {
	svc, _ := newChatFixture(t)

	msg, err := svc.PostMessage(context.Background(), "L1", domain.RoleUser, "hello", "1.2.3.4")

	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, domain.RoleUser, msg.Sender)
	assert.Equal(t, "hello", msg.Body)
}

func TestPostMessage_UnknownLink(t *testing.T) {
	links := new(MockLinkRepository)
	links.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrLinkNotFound)
	svc := NewChatService(&memMessageRepo{}, links)

	_, err := svc.PostMessage(context.Background(), "missing", domain.RoleUser, "hello", "")

	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}

func TestPostMessage_EmptyBody(t *testing.T) {
	svc, repo := newChatFixture(t)

	_, err := svc.PostMessage(context.Background(), "L1", domain.RoleUser, "", "")

	assert.ErrorIs(t, err, domain.ErrEmptyBody)
	assert.Empty(t, repo.messages)
}

func TestPostMessage_InvalidRole(t *testing.T) {
	svc, repo := newChatFixture(t)

	_, err := svc.PostMessage(context.Background(), "L1", domain.SenderRole("moderator"), "hello", "")

	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	assert.Empty(t, repo.messages)
}

func TestPoll_CursorReturnsStrictlyNewer(t *testing.T) {
	svc, _ := newChatFixture(t)
	ctx := context.Background()

	m1, err := svc.PostMessage(ctx, "L1", domain.RoleUser, "first", "")
	require.NoError(t, err)
	m2, err := svc.PostMessage(ctx, "L1", domain.RoleCreator, "second", "")
	require.NoError(t, err)
	m3, err := svc.PostMessage(ctx, "L1", domain.RoleUser, "third", "")
	require.NoError(t, err)

	got, err := svc.Poll(ctx, "L1", m1.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, m2.ID, got[0].ID)
	assert.Equal(t, m3.ID, got[1].ID)

	// The message at the cursor itself is never re-delivered.
	for _, m := range got {
		assert.Greater(t, m.ID, m1.ID)
	}
}

func TestPoll_RepeatedPollsAreDisjoint(t *testing.T) {
	svc, _ := newChatFixture(t)
	ctx := context.Background()

	_, err := svc.PostMessage(ctx, "L1", domain.RoleUser, "first", "")
	require.NoError(t, err)

	first, err := svc.Poll(ctx, "L1", 0)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	cursor := first[len(first)-1].ID

	m2, err := svc.PostMessage(ctx, "L1", domain.RoleCreator, "second", "")
	require.NoError(t, err)

	second, err := svc.Poll(ctx, "L1", cursor)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, m2.ID, second[0].ID)
}

func TestPoll_CursorBeyondLatest(t *testing.T) {
	svc, _ := newChatFixture(t)
	ctx := context.Background()

	m1, err := svc.PostMessage(ctx, "L1", domain.RoleUser, "only", "")
	require.NoError(t, err)

	got, err := svc.Poll(ctx, "L1", m1.ID+100)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPoll_UnknownLink(t *testing.T) {
	links := new(MockLinkRepository)
	links.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrLinkNotFound)
	svc := NewChatService(&memMessageRepo{}, links)

	_, err := svc.Poll(context.Background(), "missing", 0)

	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
}
