package service

import (
	"context"
	"testing"

	"linktrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLink(id, creatorID string) *domain.TrackableLink {
	link := domain.NewTrackableLink(creatorID, "Item", "", "", "https://example.com/item/1")
	link.ID = id
	return link
}

func TestAppendEvent_Success(t *testing.T) {
	events := new(MockEventRepository)
	links := new(MockLinkRepository)

	links.On("GetByID", mock.Anything, "L1").Return(testLink("L1", "C1"), nil)
	events.On("Create", mock.Anything, mock.AnythingOfType("*domain.FunnelEvent")).Return(nil)

	svc := NewEventService(events, links)
	event, err := svc.AppendEvent(context.Background(), AppendEventInput{
		LinkID:    "L1",
		SubjectID: "S1",
		Status:    domain.StatusLinkFollowed,
		IP:        "1.2.3.4",
		Country:   "US",
	})

	require.NoError(t, err)
	assert.Equal(t, "C1", event.CreatorID, "the creator comes from the referenced link")
	assert.Equal(t, domain.StatusLinkFollowed, event.Status)
	events.AssertExpectations(t)
}

func TestAppendEvent_UnknownLink(t *testing.T) {
	events := new(MockEventRepository)
	links := new(MockLinkRepository)

	links.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrLinkNotFound)

	svc := NewEventService(events, links)
	_, err := svc.AppendEvent(context.Background(), AppendEventInput{
		LinkID:    "missing",
		SubjectID: "S1",
		Status:    domain.StatusLinkFollowed,
	})

	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAppendEvent_InvalidStatus(t *testing.T) {
	events := new(MockEventRepository)
	links := new(MockLinkRepository)

	links.On("GetByID", mock.Anything, "L1").Return(testLink("L1", "C1"), nil)

	svc := NewEventService(events, links)
	_, err := svc.AppendEvent(context.Background(), AppendEventInput{
		LinkID:    "L1",
		SubjectID: "S1",
		Status:    domain.EventStatus("wandered-off"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAppendEvent_PlatformDefault(t *testing.T) {
	events := new(MockEventRepository)
	links := new(MockLinkRepository)

	links.On("GetByID", mock.Anything, "L1").Return(testLink("L1", "C1"), nil)
	events.On("Create", mock.Anything, mock.AnythingOfType("*domain.FunnelEvent")).Return(nil)

	svc := NewEventService(events, links)

	event, err := svc.AppendEvent(context.Background(), AppendEventInput{
		LinkID:    "L1",
		SubjectID: "S1",
		Status:    domain.StatusNewChatMessage,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPlatform, event.Platform)

	event, err = svc.AppendEvent(context.Background(), AppendEventInput{
		LinkID:    "L1",
		SubjectID: "S1",
		Status:    domain.StatusNewChatMessage,
		Platform:  "Rarible",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rarible", event.Platform)
}

func TestListEvents_PassesThrough(t *testing.T) {
	events := new(MockEventRepository)
	links := new(MockLinkRepository)

	stored := []*domain.FunnelEvent{
		{ID: 1, LinkID: "L1", CreatorID: "C1", SubjectID: "S1", Status: domain.StatusLinkFollowed},
	}
	events.On("ListBySubject", mock.Anything, "C1", "S1").Return(stored, nil)

	svc := NewEventService(events, links)
	got, err := svc.ListEvents(context.Background(), "C1", "S1")

	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestDeleteEvent_NotFound(t *testing.T) {
	events := new(MockEventRepository)
	links := new(MockLinkRepository)

	events.On("Delete", mock.Anything, int64(42)).Return(domain.ErrEventNotFound)

	svc := NewEventService(events, links)
	err := svc.DeleteEvent(context.Background(), 42)

	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}
