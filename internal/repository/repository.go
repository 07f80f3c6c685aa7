package repository

import (
	"context"

	"linktrack/internal/domain"
)

// LinkRepository defines the interface for TrackableLink data access.
// This is the repository pattern - it abstracts data storage so the
// service layer never touches SQL, and tests can substitute mocks.
// In Go, interfaces are satisfied implicitly - any type implementing
// these methods satisfies the interface.
type LinkRepository interface {
	// Create inserts a new link. The slug must already be derived;
	// storage enforces its uniqueness.
	Create(ctx context.Context, link *domain.TrackableLink) error

	// GetByID retrieves a link by its UUID.
	GetByID(ctx context.Context, id string) (*domain.TrackableLink, error)

	// GetBySlug retrieves a link by its unique slug.
	GetBySlug(ctx context.Context, slug string) (*domain.TrackableLink, error)

	// ListByCreator returns all links owned by a creator, newest first.
	ListByCreator(ctx context.Context, creatorID string) ([]*domain.TrackableLink, error)

	// Delete removes a link. Administrative operation outside the
	// event append path.
	Delete(ctx context.Context, id string) error

	// ExistsSlug checks whether a slug is already taken.
	ExistsSlug(ctx context.Context, slug string) (bool, error)
}

// EventRepository defines the interface for the funnel-event log.
// Events are append-only: there is no update operation on purpose.
type EventRepository interface {
	// Create appends a new funnel event.
	Create(ctx context.Context, event *domain.FunnelEvent) error

	// ListBySubject returns every event belonging to one creator and
	// subject pair, ordered by creation time ascending. An empty slice
	// (not an error) when nothing matches.
	ListBySubject(ctx context.Context, creatorID, subjectID string) ([]*domain.FunnelEvent, error)

	// ListByCreator returns all events for a creator's links, oldest
	// first. Used by the administrative browse endpoint.
	ListByCreator(ctx context.Context, creatorID string) ([]*domain.FunnelEvent, error)

	// Delete removes one event by id. Explicit creator action, not
	// part of the normal append path.
	Delete(ctx context.Context, id int64) error
}

// MessageRepository defines the interface for the chat message log.
// The log shares the append/read shape of the event log: append-only
// writes, cursor-based incremental reads.
type MessageRepository interface {
	// Create appends a new chat message and assigns its ID.
	Create(ctx context.Context, msg *domain.ChatMessage) error

	// ListAfter returns messages for a link with ID strictly greater
	// than afterID, ascending by ID. afterID 0 means from the
	// beginning.
	ListAfter(ctx context.Context, linkID string, afterID int64) ([]*domain.ChatMessage, error)
}
