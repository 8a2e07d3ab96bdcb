package storage

import (
	"context"
	"log"
	"time"

	"github.com/kurb-simulator/peripheral/internal/device"
)

// EventLogger adapts the event repository to the bridge's EventSink.
// Audit writes are best effort: a failed insert is logged and the
// event is otherwise delivered normally.
type EventLogger struct {
	repo    *EventRepository
	timeout time.Duration
}

// NewEventLogger creates an audit sink over the given repository.
func NewEventLogger(repo *EventRepository) *EventLogger {
	return &EventLogger{repo: repo, timeout: 5 * time.Second}
}

// Record appends one emitted event to the audit log.
func (l *EventLogger) Record(ev device.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	rec := EventRecord{
		Tag:     byte(ev.Type),
		Name:    ev.Type.String(),
		SimTime: ev.At,
	}
	if ev.LockRelated() {
		state := int(ev.LockState)
		rec.LockState = &state
	}
	if ev.Type == device.EventBatteryTierChanged {
		tier := int(ev.Tier)
		rec.BatteryTier = &tier
	}

	if err := l.repo.Append(ctx, rec); err != nil {
		log.Printf("Failed to record event %s: %v", rec.Name, err)
	}
}
