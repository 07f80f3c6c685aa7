package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"linktrack/internal/metrics"
	"linktrack/internal/repository"
)

// Provider is the outbound boundary of the dispatcher: one directory
// lookup and one delivery call per dispatch. Using an interface instead
// of the concrete Telegram client keeps the failure matrix testable
// without a network.
type Provider interface {
	GetChatUsername(ctx context.Context, chatID string) (string, error)
	SendMessage(ctx context.Context, chatID, text string) error
}

// Dispatch failure reasons. Kept distinct internally even though the
// caller-facing wording may conflate them.
const (
	ReasonRejected  = "rejected"
	ReasonTransport = "transport"
)

// DispatchResult is the typed outcome of one dispatch. Failures from
// the provider are contained here, never returned as errors: the
// dispatcher's contract is that no transport failure escapes it.
type DispatchResult struct {
	OK     bool
	Reason string // ReasonRejected or ReasonTransport when !OK
	Report string // The rendered body, kept for logging and tests
}

// Dispatcher resolves the subject's display name, aggregates the
// subject's funnel events into one report and delivers it to the
// external messaging provider.
type Dispatcher struct {
	events      repository.EventRepository
	provider    Provider
	placeholder string        // Substituted when the directory lookup fails
	callTimeout time.Duration // Bound on each outbound call
	logger      *slog.Logger
}

// NewDispatcher creates a dispatcher. All provider settings arrive here
// by injection; the dispatcher holds no global state.
func NewDispatcher(events repository.EventRepository, provider Provider, placeholder string, callTimeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		events:      events,
		provider:    provider,
		placeholder: placeholder,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Dispatch aggregates all events for (creatorID, subjectID) and delivers
// the rendered report to destinationID. fields selects the full or the
// abbreviated report shape.
//
// The directory lookup and the event load have no dependency on each
// other, so they run concurrently; delivery waits for both. Each
// outbound call carries its own timeout, and a lookup failure only
// degrades the rendered name - it never blocks delivery.
//
// The returned error covers the event-store read only. Every provider
// failure is classified into the result.
func (d *Dispatcher) Dispatch(ctx context.Context, creatorID, subjectID, destinationID string, fields ReportFields) (DispatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	}()

	// Kick off the directory lookup while the events load. The lookup
	// gets its own bounded context so a slow provider cannot hold up
	// anything beyond the name.
	nameCh := make(chan string, 1)
	go func() {
		lookupCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
		defer cancel()

		name, err := d.provider.GetChatUsername(lookupCtx, subjectID)
		if err != nil {
			d.logger.Warn("directory lookup failed, using placeholder",
				"subject_id", subjectID,
				"error", err,
			)
			name = ""
		}
		nameCh <- name
	}()

	// The event store is read without holding any lock across the
	// outbound calls; other subjects' writes proceed independently.
	events, err := d.events.ListBySubject(ctx, creatorID, subjectID)
	if err != nil {
		metrics.RecordDispatch("storage")
		return DispatchResult{}, err
	}

	displayName := <-nameCh
	if displayName == "" {
		displayName = d.placeholder
	}

	report := RenderReport(events, displayName, fields)

	deliverCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	defer cancel()

	if err := d.provider.SendMessage(deliverCtx, destinationID, report); err != nil {
		reason := ReasonTransport
		if errors.Is(err, ErrRejected) {
			reason = ReasonRejected
		}
		d.logger.Error("notification delivery failed",
			"creator_id", creatorID,
			"subject_id", subjectID,
			"destination_id", destinationID,
			"reason", reason,
			"error", err,
		)
		metrics.RecordDispatch(reason)
		return DispatchResult{OK: false, Reason: reason, Report: report}, nil
	}

	d.logger.Info("notification delivered",
		"creator_id", creatorID,
		"subject_id", subjectID,
		"destination_id", destinationID,
		"events", len(events),
	)
	metrics.RecordDispatch("ok")
	return DispatchResult{OK: true, Report: report}, nil
}
