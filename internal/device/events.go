package device

import (
	"time"

	"github.com/kurb-simulator/peripheral/internal/battery"
	"github.com/kurb-simulator/peripheral/internal/schedule"
)

// LockState is the physical bolt position. The byte values are the
// wire encoding of the lock-state attribute.
type LockState byte

const (
	Locked   LockState = 0x00
	Unlocked LockState = 0x01
)

// String returns the human-readable state name.
func (s LockState) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

// EventType tags an event on the wire. 0x01, 0x02 and 0x09 are the
// lock-state family: peers watching only the lock-state attribute get
// a refresh for these.
type EventType byte

const (
	EventUnlocked           EventType = 0x01
	EventLocked             EventType = 0x02
	EventUnlockDenied       EventType = 0x04
	EventForceUnlocked      EventType = 0x09
	EventBatteryTierChanged EventType = 0x0A
)

// String returns the event name used in logs and the audit trail.
func (t EventType) String() string {
	switch t {
	case EventUnlocked:
		return "unlocked"
	case EventLocked:
		return "locked"
	case EventUnlockDenied:
		return "unlock_denied"
	case EventForceUnlocked:
		return "force_unlocked"
	case EventBatteryTierChanged:
		return "battery_tier_changed"
	default:
		return "unknown"
	}
}

// Event is a single observable outcome of a command or battery update.
// Events are emitted in order and consumed once by the protocol bridge.
type Event struct {
	Type      EventType
	LockState LockState
	Tier      battery.Tier
	At        time.Time
}

// LockRelated reports whether the event concerns the bolt, in which
// case its wire payload carries the lock-state byte.
func (e Event) LockRelated() bool {
	switch e.Type {
	case EventUnlocked, EventLocked, EventUnlockDenied, EventForceUnlocked:
		return true
	}
	return false
}

// StateChanging reports whether peers subscribed to the lock-state
// attribute should be notified of a new value.
func (e Event) StateChanging() bool {
	switch e.Type {
	case EventUnlocked, EventLocked, EventForceUnlocked:
		return true
	}
	return false
}

// Command is a decoded instruction for the state machine. Commands are
// built by the protocol bridge from inbound attribute writes and
// consumed immediately.
type Command interface {
	isCommand()
}

// Unlock requests a normal, schedule-checked unlock.
type Unlock struct{}

// ForceUnlock unlocks unconditionally without consuming quota.
type ForceUnlock struct{}

// Reset relocks the device.
type Reset struct{}

// SetSchedule replaces the access schedule wholesale.
type SetSchedule struct {
	Schedule schedule.Schedule
}

// SetTime re-bases the simulated clock.
type SetTime struct {
	At time.Time
}

func (Unlock) isCommand()      {}
func (ForceUnlock) isCommand() {}
func (Reset) isCommand()       {}
func (SetSchedule) isCommand() {}
func (SetTime) isCommand()     {}
