package export

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/SensanoJM/dcompc-cms/internal/domain"
)

// Handler streams snapshot exports over HTTP.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a GET endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clientID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("client")), 10, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid client id: %v", err), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=client-%d-snapshots.csv", clientID))

	if err := h.service.WriteClientCSV(r.Context(), clientID, w); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
