// Package sim drives the simulated hardware around the lock core,
// currently just the battery drain.
package sim

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kurb-simulator/peripheral/internal/gatt"
)

// DrainScheduler periodically lowers the simulated battery level,
// feeding each new level through the bridge so tier crossings notify
// peers like any other event.
type DrainScheduler struct {
	cron     *cron.Cron
	bridge   *gatt.Bridge
	interval time.Duration
	step     int
}

// NewDrainScheduler creates a drain driver that subtracts step percent
// every interval. A step of zero disables draining.
func NewDrainScheduler(bridge *gatt.Bridge, interval time.Duration, step int) *DrainScheduler {
	return &DrainScheduler{
		cron:     cron.New(cron.WithSeconds()),
		bridge:   bridge,
		interval: interval,
		step:     step,
	}
}

// Start begins the drain schedule.
func (s *DrainScheduler) Start() error {
	if s.step <= 0 {
		log.Println("Battery drain disabled")
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("scheduling battery drain: %w", err)
	}

	s.cron.Start()
	log.Printf("Battery drain started: -%d%% every %s", s.step, s.interval)
	return nil
}

// Stop shuts the scheduler down, waiting for a running tick.
func (s *DrainScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Battery drain stopped")
}

// tick applies one drain step. The battery floors at zero; an empty
// battery stays empty.
func (s *DrainScheduler) tick() {
	level := s.bridge.Core().Battery()
	if level <= 0 {
		return
	}

	next := level - s.step
	if next < 0 {
		next = 0
	}
	s.bridge.SetBattery(next)
}
