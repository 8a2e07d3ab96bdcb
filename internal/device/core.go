// Package device implements the lock controller state machine for the
// simulated Kurb peripheral: lock/unlock state, schedule enforcement,
// battery tier tracking and the simulated clock.
package device

import (
	"sync"
	"time"

	"github.com/kurb-simulator/peripheral/internal/battery"
	"github.com/kurb-simulator/peripheral/internal/schedule"
)

// Core is the lock controller. Commands are applied one at a time and
// run to completion; the mutex serializes transport writes, battery
// ticks and status reads onto a single stream so the machine never
// sees two commands in flight.
type Core struct {
	mu sync.Mutex

	state LockState
	level int
	tier  battery.Tier
	clock *Clock
	eval  *schedule.Evaluator
}

// NewCore returns a locked controller with the given starting battery
// level and no schedule configured.
func NewCore(clock *Clock, batteryLevel int) *Core {
	level := clampPercent(batteryLevel)
	return &Core{
		state: Locked,
		level: level,
		tier:  battery.Classify(level),
		clock: clock,
		eval:  schedule.NewEvaluator(),
	}
}

// Apply runs one command to completion and returns the events it
// produced, in emission order. Every command has a defined outcome;
// there is no failure path here — malformed input never reaches the
// state machine.
func (c *Core) Apply(cmd Command) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd := cmd.(type) {
	case Unlock:
		return c.unlock()
	case ForceUnlock:
		c.state = Unlocked
		return []Event{{Type: EventForceUnlocked, LockState: Unlocked, At: c.clock.Now()}}
	case Reset:
		c.state = Locked
		return []Event{{Type: EventLocked, LockState: Locked, At: c.clock.Now()}}
	case SetSchedule:
		c.eval.Replace(cmd.Schedule)
		return nil
	case SetTime:
		c.clock.Set(cmd.At)
		return nil
	}
	return nil
}

func (c *Core) unlock() []Event {
	// Already unlocked: idempotent, no event.
	if c.state == Unlocked {
		return nil
	}

	now := c.clock.Now()
	if !c.eval.IsWithinWindow(now) || !c.eval.HasQuota(now) {
		return []Event{{Type: EventUnlockDenied, LockState: Locked, At: now}}
	}

	c.state = Unlocked
	c.eval.RecordUnlock(now)
	return []Event{{Type: EventUnlocked, LockState: Unlocked, At: now}}
}

// SetBattery records a new battery level, driven by the drain
// simulator. Out-of-range values are clamped. A tier crossing emits a
// single BatteryTierChanged event.
func (c *Core) SetBattery(percent int) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.level = clampPercent(percent)
	tier := battery.Classify(c.level)
	if tier == c.tier {
		return nil
	}

	c.tier = tier
	return []Event{{Type: EventBatteryTierChanged, Tier: tier, LockState: c.state, At: c.clock.Now()}}
}

// State returns the current lock state.
func (c *Core) State() LockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Battery returns the current battery percentage.
func (c *Core) Battery() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// Tier returns the current battery health tier.
func (c *Core) Tier() battery.Tier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tier
}

// Schedule returns the configured schedule; ok is false until a
// schedule has been written.
func (c *Core) Schedule() (schedule.Schedule, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eval.Current()
}

// UnlocksToday returns the quota consumed for the current simulated day.
func (c *Core) UnlocksToday() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eval.UnlocksToday(c.clock.Now())
}

// Now returns the current simulated time.
func (c *Core) Now() time.Time {
	return c.clock.Now()
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
