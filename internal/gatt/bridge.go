package gatt

import (
	"errors"
	"log"
	"sync"

	"github.com/kurb-simulator/peripheral/internal/device"
)

// Notifier is the capability the transport layer supplies for pushing
// attribute values to connected peers. Delivery is fire-and-forget:
// the bridge attempts exactly one notification per event, in emission
// order, and leaves retry to the transport.
type Notifier interface {
	SendNotification(attrUUID string, payload []byte) error
}

// EventSink receives every emitted event for audit purposes. It must
// not block; failures are the sink's own concern.
type EventSink interface {
	Record(ev device.Event)
}

// Bridge translates between attribute-addressed byte payloads and the
// lock controller's typed surface. Inbound writes and battery ticks
// are serialized through a single mutex so the controller sees one
// sequential command stream.
type Bridge struct {
	mu       sync.Mutex
	core     *device.Core
	notifier Notifier
	sink     EventSink
}

// NewBridge wires the controller to a transport notifier. The sink
// may be nil when no audit trail is wanted.
func NewBridge(core *device.Core, notifier Notifier, sink EventSink) *Bridge {
	return &Bridge{core: core, notifier: notifier, sink: sink}
}

// Core exposes the underlying controller for read-only status surfaces.
func (b *Bridge) Core() *device.Core {
	return b.core
}

// HandleWrite decodes and applies an inbound attribute write. A write
// to an unknown attribute or with a malformed payload is logged and
// dropped; it never reaches the state machine and never surfaces an
// error to the peer.
func (b *Bridge) HandleWrite(attrUUID string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cmd, err := b.decode(attrUUID, payload)
	if err != nil {
		var de *DecodeError
		switch {
		case errors.As(err, &de):
			log.Printf("Dropping malformed write: %v", de)
		case errors.Is(err, ErrUnknownAttribute):
			log.Printf("Ignoring write to unknown attribute %s", attrUUID)
		default:
			log.Printf("Dropping write to %s: %v", attrUUID, err)
		}
		return
	}

	b.dispatch(b.core.Apply(cmd))
}

func (b *Bridge) decode(attrUUID string, payload []byte) (device.Command, error) {
	switch attrUUID {
	case LockCommandCharUUID:
		return decodeCommand(payload)
	case ScheduleCharUUID:
		s, err := decodeSchedule(payload)
		if err != nil {
			return nil, err
		}
		return device.SetSchedule{Schedule: s}, nil
	case TimeSyncCharUUID:
		at, err := decodeTimeSync(payload)
		if err != nil {
			return nil, err
		}
		return device.SetTime{At: at}, nil
	default:
		return nil, ErrUnknownAttribute
	}
}

// HandleRead returns the current value of a readable attribute. Reads
// never block and never fail: an unrecognized attribute reads as a
// single zero byte.
func (b *Bridge) HandleRead(attrUUID string) []byte {
	switch attrUUID {
	case LockStateCharUUID:
		return []byte{byte(b.core.State())}
	case BatteryCharUUID:
		return []byte{byte(b.core.Battery())}
	case ScheduleCharUUID:
		s, ok := b.core.Schedule()
		return encodeSchedule(s, ok)
	case NextUnlockCharUUID:
		out := make([]byte, len(nextUnlockPlaceholder))
		copy(out, nextUnlockPlaceholder)
		return out
	default:
		return []byte{0x00}
	}
}

// SetBattery feeds a battery level from the drain driver through the
// same serialized stream as writes, so tier-change events notify peers
// like any other event.
func (b *Bridge) SetBattery(percent int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dispatch(b.core.SetBattery(percent))
}

// dispatch records and notifies each event in order: every event goes
// out on the event characteristic, and lock-state transitions also
// refresh the lock-state characteristic.
func (b *Bridge) dispatch(events []device.Event) {
	for _, ev := range events {
		if b.sink != nil {
			b.sink.Record(ev)
		}

		b.notify(EventCharUUID, encodeEvent(ev))
		if ev.StateChanging() {
			b.notify(LockStateCharUUID, []byte{byte(ev.LockState)})
		}
	}
}

func (b *Bridge) notify(attrUUID string, payload []byte) {
	if b.notifier == nil {
		return
	}
	if err := b.notifier.SendNotification(attrUUID, payload); err != nil {
		log.Printf("Notification on %s failed: %v", attrUUID, err)
	}
}
