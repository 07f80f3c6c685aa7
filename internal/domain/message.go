package domain

import (
	"errors"
	"strings"
	"time"
)

// SenderRole identifies which side of the support chat wrote a message.
// A closed enum validated on write - the participant marker is part of
// the contract, not a free-form string.
type SenderRole string

const (
	RoleCreator SenderRole = "creator"
	RoleUser    SenderRole = "user"
)

// Valid reports whether the role is one of the two participants.
func (r SenderRole) Valid() bool {
	return r == RoleCreator || r == RoleUser
}

// ChatMessage belongs to exactly one TrackableLink. Messages for a link
// form a strictly increasing, append-only sequence by ID and creation
// time; they are never mutated after being written.
type ChatMessage struct {
	ID        int64      // Auto-incrementing ID, doubles as the poll cursor
	LinkID    string     // Foreign key to TrackableLink
	Sender    SenderRole // Which participant wrote the message
	Body      string     // Free-text message body
	IP        string     // Origin IP address
	CreatedAt time.Time  // When the message was posted
}

var (
	ErrInvalidRole = errors.New("sender role must be creator or user")
	ErrEmptyBody   = errors.New("message body cannot be empty")
)

// Validate checks the message fields before it is appended.
func (m *ChatMessage) Validate() error {
	if !m.Sender.Valid() {
		return ErrInvalidRole
	}
	if strings.TrimSpace(m.Body) == "" {
		return ErrEmptyBody
	}
	return nil
}

// NewChatMessage creates a message for a link.
func NewChatMessage(linkID string, sender SenderRole, body, ip string) *ChatMessage {
	return &ChatMessage{
		LinkID:    linkID,
		Sender:    sender,
		Body:      body,
		IP:        ip,
		CreatedAt: time.Now(),
	}
}
