package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"linktrack/internal/domain"
	"linktrack/internal/notify"
	"linktrack/internal/service"
	"linktrack/pkg/validator"
)

// Service interfaces consumed by the handler. Declared here, where they
// are used, so tests can substitute mocks without touching the service
// package.

type LinkService interface {
	CreateLink(ctx context.Context, creatorID, title, description, price, rawURL string) (*domain.TrackableLink, error)
	GetLinkBySlug(ctx context.Context, slug string) (*domain.TrackableLink, error)
	ListLinks(ctx context.Context, creatorID string) ([]*domain.TrackableLink, error)
	DeleteLink(ctx context.Context, creatorID, id string) error
}

type EventService interface {
	AppendEvent(ctx context.Context, in service.AppendEventInput) (*domain.FunnelEvent, error)
	ListCreatorEvents(ctx context.Context, creatorID string) ([]*domain.FunnelEvent, error)
	DeleteEvent(ctx context.Context, id int64) error
}

type ChatService interface {
	PostMessage(ctx context.Context, linkID string, sender domain.SenderRole, body, ip string) (*domain.ChatMessage, error)
	Poll(ctx context.Context, linkID string, afterID int64) ([]*domain.ChatMessage, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, creatorID, subjectID, destinationID string, fields notify.ReportFields) (notify.DispatchResult, error)
}

// Handler holds dependencies for HTTP handlers, injected through the
// constructor rather than globals.
type Handler struct {
	links      LinkService
	events     EventService
	chat       ChatService
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(links LinkService, events EventService, chat ChatService, dispatcher Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		links:      links,
		events:     events,
		chat:       chat,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Request/Response DTOs. Kept separate from domain models so the API
// contract stays stable even when the domain changes.

type CreateLinkRequest struct {
	CreatorID   string `json:"creator_id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	URL         string `json:"url"`
}

type LinkResponse struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price,omitempty"`
	URL         string    `json:"url"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
}

type AppendEventRequest struct {
	LinkID    string `json:"link_id"`
	Status    string `json:"status"`
	SubjectID string `json:"subject_id"`
	Platform  string `json:"platform,omitempty"`
	Wallet    string `json:"wallet,omitempty"`
	Address   string `json:"address,omitempty"`
	Balance   string `json:"balance,omitempty"`
	IP        string `json:"ip,omitempty"`
	Country   string `json:"country,omitempty"`
}

type EventResponse struct {
	ID        int64     `json:"id"`
	LinkID    string    `json:"link_id"`
	Status    string    `json:"status"`
	SubjectID string    `json:"subject_id"`
	Platform  string    `json:"platform"`
	Wallet    string    `json:"wallet,omitempty"`
	Address   string    `json:"address,omitempty"`
	Balance   string    `json:"balance,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type NotifyRequest struct {
	SubjectID     string `json:"subject_id"`
	CreatorID     string `json:"creator_id"`
	DestinationID string `json:"destination_id"`
}

type PostMessageRequest struct {
	LinkID     string `json:"link_id"`
	Body       string `json:"body"`
	SenderRole string `json:"sender_role"`
	IP         string `json:"ip,omitempty"`
}

type MessageResponse struct {
	ID         int64     `json:"id"`
	SenderRole string    `json:"sender_role"`
	Body       string    `json:"body"`
	Timestamp  time.Time `json:"timestamp"`
}

func linkResponse(l *domain.TrackableLink) LinkResponse {
	return LinkResponse{
		ID:          l.ID,
		CreatorID:   l.CreatorID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		URL:         l.URL,
		Slug:        l.Slug,
		CreatedAt:   l.CreatedAt,
	}
}

func eventResponse(e *domain.FunnelEvent) EventResponse {
	return EventResponse{
		ID:        e.ID,
		LinkID:    e.LinkID,
		Status:    string(e.Status),
		SubjectID: e.SubjectID,
		Platform:  e.Platform,
		Wallet:    e.Wallet,
		Address:   e.Address,
		Balance:   e.Balance,
		IP:        e.IP,
		Country:   e.Country,
		CreatedAt: e.CreatedAt,
	}
}

func messageResponse(m *domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderRole: string(m.Sender),
		Body:       m.Body,
		Timestamp:  m.CreatedAt,
	}
}

// isValidationErr reports whether err is malformed or referentially
// inconsistent input - surfaced as 400, never retried.
func isValidationErr(err error) bool {
	return errors.Is(err, domain.ErrLinkNotFound) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrEmptySubject) ||
		errors.Is(err, domain.ErrInvalidRole) ||
		errors.Is(err, domain.ErrEmptyBody) ||
		errors.Is(err, domain.ErrInvalidURL) ||
		errors.Is(err, domain.ErrEmptyURL) ||
		errors.Is(err, domain.ErrEmptyCreator) ||
		errors.Is(err, domain.ErrSlugTaken)
}

// CreateLink handles POST /api/v1/links.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	defer r.Body.Close()

	if err := validator.ValidateURL(req.URL); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price != "" {
		if err := validator.ValidateDecimal(req.Price); err != nil {
			respondError(w, http.StatusBadRequest, "price: "+err.Error())
			return
		}
	}

	link, err := h.links.CreateLink(r.Context(), req.CreatorID, req.Title, req.Description, req.Price, req.URL)
	if err != nil {
		if isValidationErr(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create link", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create link")
		return
	}

	respondSuccess(w, http.StatusCreated, linkResponse(link), "link created")
}

// GetLink handles GET /api/v1/links/{slug}.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	link, err := h.links.GetLinkBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			respondError(w, http.StatusNotFound, "link not found")
			return
		}
		h.logger.Error("failed to get link", "slug", slug, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get link")
		return
	}

	respondSuccess(w, http.StatusOK, linkResponse(link), "")
}

// GetLinkQR handles GET /api/v1/links/{slug}/qr, serving the PNG
// artifact generated at creation time.
func (h *Handler) GetLinkQR(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	link, err := h.links.GetLinkBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			respondError(w, http.StatusNotFound, "link not found")
			return
		}
		h.logger.Error("failed to get link", "slug", slug, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get link")
		return
	}

	if len(link.QR) == 0 {
		respondError(w, http.StatusNotFound, "link has no QR artifact")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(link.QR)
}

// ListLinks handles GET /api/v1/links?creator_id=...
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	creatorID := r.URL.Query().Get("creator_id")
	if creatorID == "" {
		respondError(w, http.StatusBadRequest, "creator_id is required")
		return
	}

	links, err := h.links.ListLinks(r.Context(), creatorID)
	if err != nil {
		h.logger.Error("failed to list links", "creator_id", creatorID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list links")
		return
	}

	out := make([]LinkResponse, 0, len(links))
	for _, l := range links {
		out = append(out, linkResponse(l))
	}
	respondSuccess(w, http.StatusOK, out, "")
}

// DeleteLink handles DELETE /api/v1/links/{id}?creator_id=...
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	creatorID := r.URL.Query().Get("creator_id")

	if err := h.links.DeleteLink(r.Context(), creatorID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrLinkNotFound):
			respondError(w, http.StatusNotFound, "link not found")
		case errors.Is(err, domain.ErrNotLinkOwner):
			respondError(w, http.StatusForbidden, "link is owned by another creator")
		default:
			h.logger.Error("failed to delete link", "id", id, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to delete link")
		}
		return
	}

	respondSuccess(w, http.StatusOK, nil, "link deleted")
}

// AppendEvent handles POST /api/v1/events.
func (h *Handler) AppendEvent(w http.ResponseWriter, r *http.Request) {
	var req AppendEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	defer r.Body.Close()

	if req.Balance != "" {
		if err := validator.ValidateDecimal(req.Balance); err != nil {
			respondError(w, http.StatusBadRequest, "balance: "+err.Error())
			return
		}
	}

	ip := req.IP
	if ip == "" {
		ip = extractIP(r)
	}

	event, err := h.events.AppendEvent(r.Context(), service.AppendEventInput{
		LinkID:    req.LinkID,
		SubjectID: req.SubjectID,
		Status:    domain.EventStatus(req.Status),
		Platform:  req.Platform,
		Wallet:    req.Wallet,
		Address:   req.Address,
		Balance:   req.Balance,
		IP:        ip,
		Country:   req.Country,
	})
	if err != nil {
		if isValidationErr(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to append event", "link_id", req.LinkID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to append event")
		return
	}

	respondSuccess(w, http.StatusCreated, eventResponse(event), "event recorded")
}

// ListEvents handles GET /api/v1/events?creator_id=...
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	creatorID := r.URL.Query().Get("creator_id")
	if creatorID == "" {
		respondError(w, http.StatusBadRequest, "creator_id is required")
		return
	}

	events, err := h.events.ListCreatorEvents(r.Context(), creatorID)
	if err != nil {
		h.logger.Error("failed to list events", "creator_id", creatorID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse(e))
	}
	respondSuccess(w, http.StatusOK, out, "")
}

// DeleteEvent handles DELETE /api/v1/events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := h.events.DeleteEvent(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			respondError(w, http.StatusNotFound, "event not found")
			return
		}
		h.logger.Error("failed to delete event", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	respondSuccess(w, http.StatusOK, nil, "event deleted")
}

// notify runs one dispatch and maps the typed result onto the response.
// A failed dispatch is a server-side error toward the triggering
// creator, with the internal reason in the body.
func (h *Handler) notify(w http.ResponseWriter, r *http.Request, fields notify.ReportFields) {
	var req NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	defer r.Body.Close()

	if req.SubjectID == "" || req.CreatorID == "" || req.DestinationID == "" {
		respondError(w, http.StatusBadRequest, "subject_id, creator_id and destination_id are required")
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), req.CreatorID, req.SubjectID, req.DestinationID, fields)
	if err != nil {
		h.logger.Error("dispatch failed to read events", "creator_id", req.CreatorID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	if !result.OK {
		respondError(w, http.StatusBadGateway, result.Reason)
		return
	}

	respondSuccess(w, http.StatusOK, nil, "notification delivered")
}

// Notify handles POST /api/v1/notify - the full per-event report.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	h.notify(w, r, notify.FieldsFull)
}

// NotifyGeneral handles POST /api/v1/notify/general - the abbreviated
// broadcast shape (status and resolved name only).
func (h *Handler) NotifyGeneral(w http.ResponseWriter, r *http.Request) {
	h.notify(w, r, notify.FieldsGeneral)
}

// PostMessage handles POST /api/v1/chats.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	defer r.Body.Close()

	ip := req.IP
	if ip == "" {
		ip = extractIP(r)
	}

	msg, err := h.chat.PostMessage(r.Context(), req.LinkID, domain.SenderRole(req.SenderRole), req.Body, ip)
	if err != nil {
		if isValidationErr(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to post message", "link_id", req.LinkID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to post message")
		return
	}

	respondSuccess(w, http.StatusCreated, messageResponse(msg), "message posted")
}

// PollMessages handles GET /api/v1/chats?link_id=...&after=...
// The caller owns the cursor: it passes the highest message id it has
// seen and receives only strictly newer messages.
func (h *Handler) PollMessages(w http.ResponseWriter, r *http.Request) {
	linkID := r.URL.Query().Get("link_id")
	if linkID == "" {
		respondError(w, http.StatusBadRequest, "link_id is required")
		return
	}

	var afterID int64
	if after := r.URL.Query().Get("after"); after != "" {
		parsed, err := strconv.ParseInt(after, 10, 64)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid cursor")
			return
		}
		afterID = parsed
	}

	messages, err := h.chat.Poll(r.Context(), linkID, afterID)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			respondError(w, http.StatusNotFound, "link not found")
			return
		}
		h.logger.Error("failed to poll messages", "link_id", linkID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to poll messages")
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, messageResponse(m))
	}
	respondSuccess(w, http.StatusOK, out, "")
}

// HealthCheck handles GET /health/live.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
