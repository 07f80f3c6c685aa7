package postgres

import (
	"context"
	"fmt"

	"linktrack/internal/domain"
	"linktrack/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// eventRepository is the PostgreSQL implementation of the funnel-event log.
type eventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new PostgreSQL event repository.
func NewEventRepository(db *pgxpool.Pool) repository.EventRepository {
	return &eventRepository{db: db}
}

// Create appends a new funnel event. Append is atomic per call: either
// the whole row is written or nothing is.
func (r *eventRepository) Create(ctx context.Context, event *domain.FunnelEvent) error {
	query := `
		INSERT INTO funnel_events (
			link_id, creator_id, subject_id, status, platform,
			wallet, address, balance, ip, country, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		event.LinkID,
		event.CreatorID,
		event.SubjectID,
		event.Status,
		event.Platform,
		event.Wallet,
		event.Address,
		event.Balance,
		event.IP,
		event.Country,
		event.CreatedAt,
	).Scan(&event.ID)

	if err != nil {
		return fmt.Errorf("failed to create funnel event: %w", err)
	}

	return nil
}

const eventColumns = `id, link_id, creator_id, subject_id, status, platform,
		       wallet, address, balance, ip, country, created_at`

func scanEvents(rows pgx.Rows) ([]*domain.FunnelEvent, error) {
	var events []*domain.FunnelEvent
	for rows.Next() {
		event := &domain.FunnelEvent{}
		err := rows.Scan(
			&event.ID,
			&event.LinkID,
			&event.CreatorID,
			&event.SubjectID,
			&event.Status,
			&event.Platform,
			&event.Wallet,
			&event.Address,
			&event.Balance,
			&event.IP,
			&event.Country,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funnel event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funnel events: %w", err)
	}

	return events, nil
}

// ListBySubject returns all events for one creator/subject pair in
// creation order. Ordering by (created_at, id) keeps the sequence
// stable when two appends land in the same instant.
func (r *eventRepository) ListBySubject(ctx context.Context, creatorID, subjectID string) ([]*domain.FunnelEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM funnel_events
		WHERE creator_id = $1 AND subject_id = $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, creatorID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funnel events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListByCreator returns all events for a creator's links, oldest first.
func (r *eventRepository) ListByCreator(ctx context.Context, creatorID string) ([]*domain.FunnelEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM funnel_events
		WHERE creator_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funnel events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Delete removes one event by id.
func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM funnel_events WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete funnel event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}
