package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/kiwiclean/housewash-platform/internal/http/middleware"
	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

// Handler serves the public selector options and the admin CRUD screens.
type Handler struct {
	repo   *Repository
	cache  *Cache
	logger *logging.Logger
}

func NewHandler(repo *Repository, cache *Cache, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Options handles GET /services/options for the public quote form. An empty
// list is a valid response; the client renders its own placeholder.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	options, err := h.cache.Options(r.Context())
	if err != nil {
		h.logger.Error("failed to load service options", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load services"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": options})
}

// AdminList handles GET /admin/services.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list services"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// AdminCreate handles POST /admin/services.
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var svc Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.repo.Create(r.Context(), &svc); err != nil {
		if errors.Is(err, ErrInvalidService) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("failed to create service", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create service"})
		return
	}
	h.cache.Invalidate(r.Context())
	h.logger.Info("service created", "id", svc.ID, "created_by", adminSubject(r))
	writeJSON(w, http.StatusCreated, svc)
}

// AdminUpdate handles PUT /admin/services/{id}.
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	var svc Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	svc.ID = chi.URLParam(r, "id")

	err := h.repo.Update(r.Context(), &svc)
	switch {
	case errors.Is(err, ErrInvalidService):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, ErrServiceNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
		return
	case err != nil:
		h.logger.Error("failed to update service", "error", err, "id", svc.ID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update service"})
		return
	}
	h.cache.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, svc)
}

// AdminReorder handles PUT /admin/services/order with {"ids":[...]}.
func (h *Handler) AdminReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ids required"})
		return
	}
	if err := h.repo.Reorder(r.Context(), req.IDs); err != nil {
		h.logger.Error("failed to reorder services", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to reorder services"})
		return
	}
	h.cache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// AdminDeactivate handles DELETE /admin/services/{id}. Services referenced
// by leads are deactivated, never removed.
func (h *Handler) AdminDeactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.repo.Deactivate(r.Context(), id)
	switch {
	case errors.Is(err, ErrServiceNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
		return
	case err != nil:
		h.logger.Error("failed to deactivate service", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to deactivate service"})
		return
	}
	h.cache.Invalidate(r.Context())
	h.logger.Info("service deactivated", "id", id, "deactivated_by", adminSubject(r))
	w.WriteHeader(http.StatusNoContent)
}

// adminSubject identifies the acting administrator for audit logs.
func adminSubject(r *http.Request) string {
	claims, ok := httpmiddleware.AdminClaimsFromContext(r.Context())
	if !ok {
		return "unknown"
	}
	return claims.Subject
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
