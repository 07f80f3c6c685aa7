package service

import (
	"context"
	"fmt"

	"linktrack/internal/domain"
	"linktrack/internal/metrics"
	"linktrack/internal/repository"
)

// AppendEventInput carries the fields of one observed interaction.
type AppendEventInput struct {
	LinkID    string
	SubjectID string
	Status    domain.EventStatus
	Platform  string
	Wallet    string
	Address   string
	Balance   string
	IP        string
	Country   string
}

// EventService is the write/read surface of the funnel-event store.
// Referential validation happens here: every event must reference an
// existing link, and the creator is taken from that link - callers
// never supply it directly.
type EventService struct {
	events repository.EventRepository
	links  repository.LinkRepository
}

// NewEventService creates a new event service.
func NewEventService(events repository.EventRepository, links repository.LinkRepository) *EventService {
	return &EventService{
		events: events,
		links:  links,
	}
}

// AppendEvent validates and appends one funnel event. Fails with
// domain.ErrLinkNotFound when the link id does not reference an
// existing link, and with domain.ErrInvalidStatus for an out-of-set
// status. Events are immutable once written.
func (s *EventService) AppendEvent(ctx context.Context, in AppendEventInput) (*domain.FunnelEvent, error) {
	link, err := s.links.GetByID(ctx, in.LinkID)
	if err != nil {
		return nil, err
	}

	event := domain.NewFunnelEvent(in.LinkID, in.SubjectID, in.Status)
	event.CreatorID = link.CreatorID
	if in.Platform != "" {
		event.Platform = in.Platform
	}
	event.Wallet = in.Wallet
	event.Address = in.Address
	event.Balance = in.Balance
	event.IP = in.IP
	event.Country = in.Country

	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	metrics.RecordEvent(string(event.Status))
	return event, nil
}

// ListEvents returns all events for one creator/subject pair in
// creation order. An empty slice when nothing matches - not an error.
func (s *EventService) ListEvents(ctx context.Context, creatorID, subjectID string) ([]*domain.FunnelEvent, error) {
	return s.events.ListBySubject(ctx, creatorID, subjectID)
}

// ListCreatorEvents returns every event recorded against a creator's
// links. Administrative browse, oldest first.
func (s *EventService) ListCreatorEvents(ctx context.Context, creatorID string) ([]*domain.FunnelEvent, error) {
	return s.events.ListByCreator(ctx, creatorID)
}

// DeleteEvent removes one event by id. Explicit creator action; the
// normal write path never deletes.
func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	return s.events.Delete(ctx, id)
}
