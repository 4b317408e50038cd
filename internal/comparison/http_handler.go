package comparison

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/SensanoJM/dcompc-cms/internal/domain"
)

// Handler exposes period comparison as an HTTP endpoint.
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

	basePeriod := strings.TrimSpace(r.URL.Query().Get("base"))
	currentPeriod := strings.TrimSpace(r.URL.Query().Get("current"))
	if basePeriod == "" || currentPeriod == "" {
		http.Error(w, "base and current periods are required", http.StatusBadRequest)
		return
	}

	result, err := h.service.ComparePeriods(r.Context(), clientID, basePeriod, currentPeriod)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
