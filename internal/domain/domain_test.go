package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventStatus_Valid(t *testing.T) {
	assert.True(t, StatusNewChatMessage.Valid())
	assert.True(t, StatusLinkFollowed.Valid())
	assert.True(t, StatusFormSubmitted.Valid())

	assert.False(t, EventStatus("").Valid())
	assert.False(t, EventStatus("link-Followed").Valid())
	assert.False(t, EventStatus("purchased").Valid())
}

func TestSenderRole_Valid(t *testing.T) {
	assert.True(t, RoleCreator.Valid())
	assert.True(t, RoleUser.Valid())

	assert.False(t, SenderRole("").Valid())
	assert.False(t, SenderRole("admin").Valid())
	assert.False(t, SenderRole("Creator").Valid())
}

func TestFunnelEvent_Validate(t *testing.T) {
	event := NewFunnelEvent("L1", "S1", StatusLinkFollowed)
	assert.NoError(t, event.Validate())
	assert.Equal(t, DefaultPlatform, event.Platform)

	event.Status = EventStatus("bogus")
	assert.ErrorIs(t, event.Validate(), ErrInvalidStatus)

	event.Status = StatusLinkFollowed
	event.SubjectID = "  "
	assert.ErrorIs(t, event.Validate(), ErrEmptySubject)
}

func TestChatMessage_Validate(t *testing.T) {
	msg := NewChatMessage("L1", RoleUser, "hello", "")
	assert.NoError(t, msg.Validate())

	msg.Body = "  "
	assert.ErrorIs(t, msg.Validate(), ErrEmptyBody)

	msg.Body = "hello"
	msg.Sender = SenderRole("bot")
	assert.ErrorIs(t, msg.Validate(), ErrInvalidRole)
}

func TestTrackableLink_Validate(t *testing.T) {
	link := NewTrackableLink("C1", "Item", "", "10.00", "https://example.com/item")
	assert.NoError(t, link.Validate())

	link.CreatorID = ""
	assert.ErrorIs(t, link.Validate(), ErrEmptyCreator)

	link = NewTrackableLink("C1", "", "", "", "")
	assert.ErrorIs(t, link.Validate(), ErrEmptyURL)

	link = NewTrackableLink("C1", "", "", "", "ftp://example.com")
	assert.ErrorIs(t, link.Validate(), ErrInvalidURL)
}

func TestSlugify(t *testing.T) {
	// Deterministic and idempotent over its own output alphabet.
	assert.Equal(t, Slugify("https://example.com/a"), Slugify("https://example.com/a"))
	assert.Equal(t, "example-com-a", Slugify("https://example.com/a"))
	assert.Equal(t, "example-com-a", Slugify("HTTPS://EXAMPLE.COM/A"))
	assert.Equal(t, "example-com", Slugify("https://example.com///"))
	assert.Equal(t, "a-b-c", Slugify("a__b!!c"))
}

func TestTrackableLink_SoftDelete(t *testing.T) {
	link := NewTrackableLink("C1", "", "", "", "https://example.com")
	assert.False(t, link.IsDeleted())

	now := link.CreatedAt
	link.DeletedAt = &now
	assert.True(t, link.IsDeleted())
}
