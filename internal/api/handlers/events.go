package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kurb-simulator/peripheral/internal/api/middleware"
	"github.com/kurb-simulator/peripheral/internal/storage"
)

// EventListResponse wraps the audit log listing.
type EventListResponse struct {
	Events []storage.EventRecord `json:"events"`
	Count  int                   `json:"count"`
}

// ListEvents returns a handler serving the recent event audit log,
// newest first. The optional limit query parameter caps the result.
func ListEvents(repo *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "limit must be a positive integer")
				return
			}
			limit = parsed
		}

		records, err := repo.ListRecent(r.Context(), limit)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "failed to list events")
			return
		}
		if records == nil {
			records = []storage.EventRecord{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(EventListResponse{
			Events: records,
			Count:  len(records),
		})
	}
}
