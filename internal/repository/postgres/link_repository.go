package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linktrack/internal/domain"
	"linktrack/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// linkRepository is the PostgreSQL implementation of repository.LinkRepository.
// The lowercase name means it's private to this package; constructors return
// the interface type for abstraction.
type linkRepository struct {
	db *pgxpool.Pool
}

// NewLinkRepository creates a new PostgreSQL link repository.
func NewLinkRepository(db *pgxpool.Pool) repository.LinkRepository {
	return &linkRepository{db: db}
}

// Create inserts a new link into the database.
func (r *linkRepository) Create(ctx context.Context, link *domain.TrackableLink) error {
	query := `
		INSERT INTO links (
			creator_id, title, description, price, url, slug, qr, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		link.CreatorID,
		link.Title,
		link.Description,
		link.Price,
		link.URL,
		link.Slug,
		link.QR,
		link.CreatedAt,
	).Scan(&link.ID)

	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

const linkColumns = `id, creator_id, title, description, price, url, slug, qr, created_at, deleted_at`

func scanLink(row pgx.Row) (*domain.TrackableLink, error) {
	link := &domain.TrackableLink{}
	err := row.Scan(
		&link.ID,
		&link.CreatorID,
		&link.Title,
		&link.Description,
		&link.Price,
		&link.URL,
		&link.Slug,
		&link.QR,
		&link.CreatedAt,
		&link.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return link, nil
}

// GetByID retrieves a link by its UUID.
func (r *linkRepository) GetByID(ctx context.Context, id string) (*domain.TrackableLink, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1 AND deleted_at IS NULL`

	link, err := scanLink(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

// GetBySlug retrieves a link by its unique slug.
func (r *linkRepository) GetBySlug(ctx context.Context, slug string) (*domain.TrackableLink, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE slug = $1 AND deleted_at IS NULL`

	link, err := scanLink(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link by slug: %w", err)
	}

	return link, nil
}

// ListByCreator returns all links owned by a creator, newest first.
func (r *linkRepository) ListByCreator(ctx context.Context, creatorID string) ([]*domain.TrackableLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM links
		WHERE creator_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []*domain.TrackableLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// Delete performs a soft delete (sets deleted_at).
func (r *linkRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE links SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrLinkNotFound
	}

	return nil
}

// ExistsSlug checks if a slug is already taken.
func (r *linkRepository) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM links WHERE slug = $1 AND deleted_at IS NULL)`

	var exists bool
	err := r.db.QueryRow(ctx, query, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}

	return exists, nil
}

// InitDB initializes the database connection pool.
// Called once at application startup; the pool is shared by all
// repositories and supports concurrent readers and writers.
func InitDB(ctx context.Context, dsn string, maxConns, minConns int, maxLifetime time.Duration) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = int32(maxConns)
	config.MinConns = int32(minConns)
	config.MaxConnLifetime = maxLifetime
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
