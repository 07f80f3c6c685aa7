package domain

import (
	"errors"
	"strings"
	"time"
)

// EventStatus is the closed set of funnel stages an event can report.
// Modeled as a dedicated type rather than a free string so an
// out-of-set value is rejected at the boundary, not discovered later
// in a rendered report.
type EventStatus string

const (
	StatusNewChatMessage EventStatus = "new-chat-message"
	StatusLinkFollowed   EventStatus = "link-followed"
	StatusFormSubmitted  EventStatus = "clicking-submit"
)

// Valid reports whether the status is one of the closed set.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusNewChatMessage, StatusLinkFollowed, StatusFormSubmitted:
		return true
	}
	return false
}

// FunnelEvent represents one observed interaction against a TrackableLink.
// It is a separate entity composed with the link (one link, many events),
// not a specialization of it - a plain link never carries funnel fields.
type FunnelEvent struct {
	ID        int64       // Auto-incrementing ID, assigned by storage
	LinkID    string      // Foreign key to TrackableLink
	CreatorID string      // Denormalized owner, set from the link at append
	SubjectID string      // The end-user/wallet identity the event pertains to
	Status    EventStatus // Funnel stage
	Platform  string      // Originating platform (e.g. "OpenSea")
	Wallet    string      // Wallet provider name
	Address   string      // Wallet address
	Balance   string      // Observed balance, decimal string
	IP        string      // Origin IP address
	Country   string      // Origin country code
	CreatedAt time.Time   // When the interaction was observed
}

var (
	ErrInvalidStatus = errors.New("status is not in the allowed set")
	ErrEmptySubject  = errors.New("subject id cannot be empty")
	ErrEventNotFound = errors.New("funnel event not found")
)

// DefaultPlatform is applied when the inbound event does not name one.
const DefaultPlatform = "OpenSea"

// Validate checks the event fields before it is appended.
func (e *FunnelEvent) Validate() error {
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	if strings.TrimSpace(e.SubjectID) == "" {
		return ErrEmptySubject
	}
	return nil
}

// NewFunnelEvent creates an event for a link with sensible defaults.
// Events are immutable once appended.
func NewFunnelEvent(linkID, subjectID string, status EventStatus) *FunnelEvent {
	return &FunnelEvent{
		LinkID:    linkID,
		SubjectID: subjectID,
		Status:    status,
		Platform:  DefaultPlatform,
		CreatedAt: time.Now(),
	}
}
