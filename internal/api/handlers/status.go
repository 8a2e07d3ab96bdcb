package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kurb-simulator/peripheral/internal/device"
	"github.com/kurb-simulator/peripheral/internal/schedule"
	"github.com/kurb-simulator/peripheral/internal/storage"
	"github.com/kurb-simulator/peripheral/internal/websocket"
)

// HealthResponse is the health check body.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck reports process liveness and audit DB reachability.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		if !dbConnected {
			status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		})
	}
}

// StatusResponse is a full snapshot of the simulated device.
type StatusResponse struct {
	LockState      string             `json:"lock_state"`
	Battery        int                `json:"battery"`
	BatteryTier    string             `json:"battery_tier"`
	UnlocksToday   int                `json:"unlocks_today"`
	Schedule       *schedule.Schedule `json:"schedule,omitempty"`
	SimTime        time.Time          `json:"sim_time"`
	ConnectedPeers int                `json:"connected_peers"`
	EventsRecorded int                `json:"events_recorded"`
}

// Status returns a handler exposing the device snapshot for operators.
// Each field is a single consistent read of the controller; the
// snapshot as a whole is informational, not transactional.
func Status(core *device.Core, hub *websocket.Hub, events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := StatusResponse{
			LockState:      core.State().String(),
			Battery:        core.Battery(),
			BatteryTier:    core.Tier().String(),
			UnlocksToday:   core.UnlocksToday(),
			SimTime:        core.Now(),
			ConnectedPeers: hub.PeerCount(),
		}

		if s, ok := core.Schedule(); ok {
			response.Schedule = &s
		}
		if events != nil {
			if count, err := events.Count(r.Context()); err == nil {
				response.EventsRecorded = count
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
