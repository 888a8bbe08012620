package crm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/kiwiclean/housewash-platform/internal/observability/metrics"
	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

// SyncLeadRequest is the inbound payload: the lead to forward to the CRM.
type SyncLeadRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	ServiceID string `json:"service_id"`
}

// SyncResponse is what every sync invocation returns.
type SyncResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RecordAppender is the audit-trail dependency; nil-safe via wrapper.
type RecordAppender interface {
	Append(ctx context.Context, rec SyncRecord) error
}

// Handler forwards leads to the external CRM and records every attempt.
// It is mounted both on the API router and behind the function runtime
// entrypoint, so the core logic works on raw bytes.
type Handler struct {
	client  *Client
	store   RecordAppender
	metrics *metrics.LeadMetrics
	logger  *logging.Logger
}

func NewHandler(client *Client, store RecordAppender, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		client:  client,
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// Sync handles POST /crm/sync.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		body = nil
	}
	status, resp := h.Process(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// Process runs one sync attempt against the raw request body and returns
// the HTTP status plus response. Outcomes:
//
//   - credentials absent: 200 with success=false and "CRM not configured";
//     no audit row, because nothing was attempted.
//   - CRM error (network or non-2xx): one failed audit row, 500.
//   - success: one success audit row carrying the external id, 200.
//   - unparseable body: a failed row is still attempted from whatever lead
//     data could be recovered, 500.
func (h *Handler) Process(ctx context.Context, body []byte) (int, SyncResponse) {
	var req SyncLeadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Error("crm sync request unparseable", "error", err)
		h.appendRecord(ctx, SyncRecord{
			LeadEmail:    req.Email,
			Status:       StatusFailed,
			ErrorMessage: "invalid request body: " + err.Error(),
		})
		h.metrics.ObserveCRMSync(StatusFailed)
		return http.StatusInternalServerError, SyncResponse{Success: false, Error: "invalid request body"}
	}

	if !h.client.Configured() {
		// Not configured is a valid deployment state, not a failed
		// attempt; nothing is appended to the audit trail.
		h.logger.Info("crm sync skipped: not configured")
		return http.StatusOK, SyncResponse{Success: false, Message: "CRM not configured"}
	}

	externalID, err := h.client.PushContact(ctx, Contact{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		City:  req.City,
		Tags:  []string{"lead"},
	})
	if err != nil {
		h.appendRecord(ctx, SyncRecord{
			LeadEmail:    req.Email,
			Status:       StatusFailed,
			ErrorMessage: err.Error(),
		})
		h.metrics.ObserveCRMSync(StatusFailed)
		return http.StatusInternalServerError, SyncResponse{Success: false, Error: err.Error()}
	}

	h.appendRecord(ctx, SyncRecord{
		LeadEmail:  req.Email,
		ExternalID: externalID,
		Status:     StatusSuccess,
	})
	h.metrics.ObserveCRMSync(StatusSuccess)
	h.logger.Info("crm sync succeeded", "external_id", externalID)
	return http.StatusOK, SyncResponse{Success: true, ID: externalID}
}

// appendRecord writes the audit row best-effort; a failed append is logged
// and never changes the sync outcome.
func (h *Handler) appendRecord(ctx context.Context, rec SyncRecord) {
	if h.store == nil {
		return
	}
	if err := h.store.Append(ctx, rec); err != nil {
		h.logger.Error("failed to append crm sync record", "error", err)
	}
}
