package cities

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

// Handler serves the autocomplete endpoint. The server side answers each
// query directly; debouncing across keystrokes is the Suggester's job and
// is exercised wherever lookups are driven by a keystroke stream.
type Handler struct {
	lookup Lookup
	logger *logging.Logger
}

func NewHandler(lookup Lookup, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		lookup: lookup,
		logger: logger,
	}
}

// Suggest handles GET /cities/suggest?q=. Errors and short queries both
// degrade to an empty list; the city field is optional and never blocks.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	suggestions := []Suggestion{}
	if len(query) >= minQueryLength {
		found, err := h.lookup.SuggestByPrefix(r.Context(), query)
		if err != nil {
			h.logger.Error("city suggestion lookup failed", "error", err, "query", query)
		} else {
			suggestions = found
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"suggestions": suggestions})
}
