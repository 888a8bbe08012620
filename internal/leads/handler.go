package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	httpmiddleware "github.com/kiwiclean/housewash-platform/internal/http/middleware"
	"github.com/kiwiclean/housewash-platform/internal/observability/metrics"
	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

// userFacingSubmitError is the only persistence-failure message shown to the
// public form; the underlying cause is logged, never returned.
const userFacingSubmitError = "There was an issue submitting your request. Please try again."

// ServiceResolver confirms a selected service id references an active
// catalog entry and resolves its display title for notifications.
type ServiceResolver interface {
	ActiveServiceTitle(ctx context.Context, id string) (title string, found bool, err error)
}

// Notifier receives a persisted lead for best-effort admin notification.
// Implementations must not block and must swallow their own failures.
type Notifier interface {
	LeadCreated(lead *Lead, serviceTitle string)
}

// Handler handles HTTP requests for leads
type Handler struct {
	repo     Repository
	resolver ServiceResolver
	notifier Notifier
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(repo Repository, resolver ServiceResolver, notifier Notifier, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		resolver: resolver,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Create handles POST /leads requests from the public quote form.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode lead request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if errs := req.Validate(); errs != nil {
		h.metrics.ObserveSubmission("rejected")
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	// The placeholder check already ran inside Validate; this confirms the
	// id references a live catalog entry before anything is persisted.
	title, found, err := h.resolver.ActiveServiceTitle(r.Context(), req.ServiceID)
	if err != nil {
		h.logger.Error("failed to resolve service", "error", err, "service_id", req.ServiceID)
		h.metrics.ObserveSubmission("failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": userFacingSubmitError})
		return
	}
	if !found {
		h.metrics.ObserveSubmission("rejected")
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": FieldErrors{"service_id": "Please select a valid service"},
		})
		return
	}

	lead, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create lead", "error", err)
		h.metrics.ObserveSubmission("failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": userFacingSubmitError})
		return
	}

	h.logger.Info("lead created", "id", lead.ID, "service", title)
	h.metrics.ObserveSubmission("accepted")

	// Success is reported to the caller regardless of the notification
	// outcome; the dispatcher logs its own failures.
	if h.notifier != nil {
		h.notifier.LeadCreated(lead, title)
	}

	writeJSON(w, http.StatusCreated, lead)
}

// ListResponse is the response for the admin leads list
type ListResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// List handles GET /admin/leads requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	leads, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list leads"})
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Leads:  leads,
		Count:  len(leads),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// Delete handles DELETE /admin/leads/{id} requests.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing lead id"})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if err == ErrLeadNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "lead not found"})
			return
		}
		h.logger.Error("failed to delete lead", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete lead"})
		return
	}

	if claims, ok := httpmiddleware.AdminClaimsFromContext(r.Context()); ok {
		h.logger.Info("lead deleted", "id", id, "deleted_by", claims.Subject)
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
