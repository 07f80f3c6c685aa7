package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// TrackableLink represents a creator-issued destination link.
// This is our domain model - it contains both data AND behavior (methods).
// Every funnel event and chat message in the system hangs off one of these.
type TrackableLink struct {
	ID          string     // UUID for internal identification
	CreatorID   string     // The creator (worker) that owns this link
	Title       string     // Display title shown to the end user
	Description string     // Free-form description
	Price       string     // Display price, kept as a decimal string
	URL         string     // The canonical destination URL
	Slug        string     // Unique slug derived from the URL at creation
	QR          []byte     // Optional PNG QR artifact for the link
	CreatedAt   time.Time  // When the link was created
	DeletedAt   *time.Time // Set when the owning creator removes the link
}

// Domain errors - defining errors as package-level values makes them
// testable and allows callers to check for specific error types.
var (
	ErrInvalidURL   = errors.New("invalid URL format")
	ErrEmptyURL     = errors.New("URL cannot be empty")
	ErrEmptySlug    = errors.New("slug cannot be empty")
	ErrEmptyCreator = errors.New("creator id cannot be empty")
	ErrLinkNotFound = errors.New("link not found")
	ErrSlugTaken    = errors.New("slug already exists")
	ErrNotLinkOwner = errors.New("link is owned by another creator")
)

// Slugify derives the canonical slug for a destination URL.
// The slug is computed once at creation time and never recomputed:
// lower-cased, with every run of non-alphanumeric characters collapsed
// into a single hyphen. The derivation is deterministic so the same URL
// always yields the same slug.
func Slugify(rawURL string) string {
	s := strings.ToLower(strings.TrimSpace(rawURL))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")

	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Validate checks the link fields before it is persisted.
func (l *TrackableLink) Validate() error {
	if strings.TrimSpace(l.CreatorID) == "" {
		return ErrEmptyCreator
	}
	if strings.TrimSpace(l.URL) == "" {
		return ErrEmptyURL
	}

	parsed, err := url.Parse(l.URL)
	if err != nil {
		return ErrInvalidURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidURL
	}
	if parsed.Host == "" {
		return ErrInvalidURL
	}

	// The slug is assigned at construction; a persisted link without one
	// would break every lookup downstream.
	if l.Slug == "" {
		return ErrEmptySlug
	}

	return nil
}

// IsDeleted reports whether the owning creator has removed the link.
func (l *TrackableLink) IsDeleted() bool {
	return l.DeletedAt != nil
}

// NewTrackableLink is a constructor function that creates a link with the
// slug already derived from the URL. The slug is immutable from here on.
func NewTrackableLink(creatorID, title, description, price, rawURL string) *TrackableLink {
	return &TrackableLink{
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Price:       price,
		URL:         rawURL,
		Slug:        Slugify(rawURL),
		CreatedAt:   time.Now(),
	}
}

// WithQR attaches a generated QR artifact to the link.
func (l *TrackableLink) WithQR(png []byte) *TrackableLink {
	l.QR = png
	return l
}
