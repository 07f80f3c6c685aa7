package service

import (
	"context"
	"fmt"
	"log/slog"

	"linktrack/internal/domain"
	"linktrack/internal/metrics"
	"linktrack/internal/repository"

	qrcode "github.com/skip2/go-qrcode"
)

// Cache interface for link caching.
// Using an interface allows for easy testing and swapping implementations.
type Cache interface {
	GetLink(ctx context.Context, slug string) (*domain.TrackableLink, error)
	SetLink(ctx context.Context, link *domain.TrackableLink) error
	DeleteLink(ctx context.Context, slug string) error
}

// LinkService handles business logic for trackable links. It sits
// between the HTTP handlers and the repositories: slug derivation,
// uniqueness, ownership checks and the QR artifact all live here.
type LinkService struct {
	links repository.LinkRepository
	cache Cache
	log   *slog.Logger
}

// NewLinkService creates a new link service.
func NewLinkService(links repository.LinkRepository, cache Cache, log *slog.Logger) *LinkService {
	return &LinkService{
		links: links,
		cache: cache,
		log:   log,
	}
}

// qrSize is the side length in pixels of the generated QR PNG.
const qrSize = 256

// CreateLink creates a trackable link for a creator. The slug is
// derived from the URL exactly once, here, and never recomputed.
func (s *LinkService) CreateLink(ctx context.Context, creatorID, title, description, price, rawURL string) (*domain.TrackableLink, error) {
	link := domain.NewTrackableLink(creatorID, title, description, price, rawURL)

	if err := link.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.links.ExistsSlug(ctx, link.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if exists {
		return nil, domain.ErrSlugTaken
	}

	// The QR artifact is a convenience; a generation failure must not
	// block link creation.
	if png, err := qrcode.Encode(link.URL, qrcode.Medium, qrSize); err == nil {
		link.WithQR(png)
	} else {
		s.log.Warn("failed to generate QR artifact", "slug", link.Slug, "error", err)
	}

	if err := s.links.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	// Warm the cache; a caching failure is not critical.
	if err := s.cache.SetLink(ctx, link); err != nil {
		s.log.Warn("failed to cache link", "slug", link.Slug, "error", err)
	}

	metrics.RecordLinkCreated()
	return link, nil
}

// GetLinkBySlug retrieves a link by its slug, cache first.
func (s *LinkService) GetLinkBySlug(ctx context.Context, slug string) (*domain.TrackableLink, error) {
	// Cache-aside: check cache, fall through to the database, store
	// back on a miss.
	cached, err := s.cache.GetLink(ctx, slug)
	if err == nil && cached != nil {
		return cached, nil
	}

	link, err := s.links.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetLink(ctx, link); err != nil {
		s.log.Warn("failed to cache link", "slug", slug, "error", err)
	}

	return link, nil
}

// ListLinks returns all links owned by a creator.
func (s *LinkService) ListLinks(ctx context.Context, creatorID string) ([]*domain.TrackableLink, error) {
	return s.links.ListByCreator(ctx, creatorID)
}

// DeleteLink removes a link on behalf of its owning creator. Only the
// owner may delete; the cached entry is dropped with the record.
func (s *LinkService) DeleteLink(ctx context.Context, creatorID, id string) error {
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if link.CreatorID != creatorID {
		return domain.ErrNotLinkOwner
	}

	if err := s.links.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.DeleteLink(ctx, link.Slug); err != nil {
		s.log.Warn("failed to evict cached link", "slug", link.Slug, "error", err)
	}

	return nil
}
