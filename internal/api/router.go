// Package api provides HTTP routing for the simulator's control API.
package api

import (
	"github.com/gorilla/mux"

	"github.com/kurb-simulator/peripheral/internal/api/handlers"
	"github.com/kurb-simulator/peripheral/internal/api/middleware"
	"github.com/kurb-simulator/peripheral/internal/gatt"
	"github.com/kurb-simulator/peripheral/internal/storage"
	"github.com/kurb-simulator/peripheral/internal/websocket"
)

// NewRouter creates the HTTP router. The attribute endpoints are a
// transport adapter over the protocol bridge; the rest is the operator
// surface of the simulator.
func NewRouter(
	bridge *gatt.Bridge,
	db *storage.DB,
	events *storage.EventRepository,
	hub *websocket.Hub,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	api := r.PathPrefix("/api").Subrouter()

	// Health and status
	api.HandleFunc("/health", handlers.HealthCheck(db)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(bridge.Core(), hub, events)).Methods("GET")

	// WebSocket peer endpoint (the simulated connected central)
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(hub, bridge)).Methods("GET")

	// Attribute surface
	api.HandleFunc("/attributes/{uuid}", handlers.ReadAttribute(bridge)).Methods("GET")
	api.HandleFunc("/attributes/{uuid}", handlers.WriteAttribute(bridge)).Methods("PUT")

	// Event audit log
	api.HandleFunc("/events", handlers.ListEvents(events)).Methods("GET")

	return r
}
