// Package main is the entry point for the Kurb lock peripheral simulator.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/kurb-simulator/peripheral/internal/api"
	"github.com/kurb-simulator/peripheral/internal/device"
	"github.com/kurb-simulator/peripheral/internal/gatt"
	"github.com/kurb-simulator/peripheral/internal/sim"
	"github.com/kurb-simulator/peripheral/internal/storage"
	"github.com/kurb-simulator/peripheral/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	addr := flag.String("addr", getEnv("KURB_ADDR", ":8088"), "HTTP server address")
	dataDir := flag.String("data", getEnv("KURB_DATA", "./data"), "Data directory for the event audit database")
	initialBattery := flag.Int("battery", getEnvInt("KURB_BATTERY", 100), "Initial battery percentage")
	drainStep := flag.Int("drain-step", getEnvInt("KURB_DRAIN_STEP", 1), "Battery percent drained per tick (0 disables)")
	drainInterval := flag.Duration("drain-interval", 60*time.Second, "Battery drain tick interval")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(*addr); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	log.Printf("Starting Kurb lock peripheral simulator (version: %s)...", version)

	// Event audit database
	db, err := storage.NewDB(*dataDir + "/kurb-peripheral.db")
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Notification transport
	hub := websocket.NewHub()
	go hub.Run()

	// Lock controller and protocol bridge
	eventRepo := storage.NewEventRepository(db)
	core := device.NewCore(device.NewClock(), *initialBattery)
	bridge := gatt.NewBridge(core, websocket.NewPeerNotifier(hub), storage.NewEventLogger(eventRepo))

	// Battery drain driver
	drain := sim.NewDrainScheduler(bridge, *drainInterval, *drainStep)
	if err := drain.Start(); err != nil {
		log.Printf("Warning: Failed to start battery drain: %v", err)
	}

	router := api.NewRouter(bridge, db, eventRepo, hub)

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Peripheral listening on %s (service %s)", *addr, gatt.KurbServiceUUID)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	drain.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Peripheral stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}

// getEnv returns an environment variable value or a default if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
