package gatt

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kurb-simulator/peripheral/internal/device"
	"github.com/kurb-simulator/peripheral/internal/schedule"
)

// ErrUnknownAttribute marks a write addressed to a characteristic the
// peripheral does not expose. It is logged and dropped, never surfaced
// to the peer.
var ErrUnknownAttribute = errors.New("unknown attribute")

// DecodeError reports a malformed payload on a known characteristic.
// Like ErrUnknownAttribute it is a local-recovery error: the write is
// dropped without touching device state.
type DecodeError struct {
	Attribute string
	Reason    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding write to %s: %s", e.Attribute, e.Reason)
}

func decodeErr(attr, format string, args ...any) error {
	return &DecodeError{Attribute: attr, Reason: fmt.Sprintf(format, args...)}
}

// decodeCommand parses a 1-byte lock command opcode.
func decodeCommand(payload []byte) (device.Command, error) {
	if len(payload) != 1 {
		return nil, decodeErr("lock-command", "expected 1 byte, got %d", len(payload))
	}

	switch payload[0] {
	case OpUnlock:
		return device.Unlock{}, nil
	case OpForceUnlock:
		return device.ForceUnlock{}, nil
	case OpReset:
		return device.Reset{}, nil
	default:
		return nil, decodeErr("lock-command", "unknown opcode 0x%02x", payload[0])
	}
}

// decodeSchedule parses a length-prefixed JSON schedule: one length
// byte followed by exactly that many JSON bytes.
func decodeSchedule(payload []byte) (schedule.Schedule, error) {
	var s schedule.Schedule

	if len(payload) < 2 {
		return s, decodeErr("schedule", "payload too short (%d bytes)", len(payload))
	}
	if int(payload[0]) != len(payload)-1 {
		return s, decodeErr("schedule", "length prefix %d does not match %d body bytes", payload[0], len(payload)-1)
	}
	if err := json.Unmarshal(payload[1:], &s); err != nil {
		return s, decodeErr("schedule", "invalid JSON: %v", err)
	}
	if s.DailyLimit.MaxUnlocks < 0 {
		return s, decodeErr("schedule", "negative daily limit %d", s.DailyLimit.MaxUnlocks)
	}
	for _, w := range s.Windows {
		if !validClockTime(w.Start) || !validClockTime(w.End) {
			return s, decodeErr("schedule", "invalid window %q-%q", w.Start, w.End)
		}
	}
	return s, nil
}

func validClockTime(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}

// encodeSchedule produces the read-side encoding: a single 0x00 byte
// when no schedule is configured, else length byte + JSON.
func encodeSchedule(s schedule.Schedule, configured bool) []byte {
	if !configured {
		return []byte{0x00}
	}

	raw, err := json.Marshal(s)
	if err != nil || len(raw) > 0xFF {
		// A schedule that cannot be represented reads as empty rather
		// than erroring; reads never fail in the peripheral role.
		return []byte{0x00}
	}

	out := make([]byte, 0, len(raw)+1)
	out = append(out, byte(len(raw)))
	return append(out, raw...)
}

// decodeTimeSync parses an 8-byte big-endian Unix-seconds timestamp.
func decodeTimeSync(payload []byte) (time.Time, error) {
	if len(payload) != 8 {
		return time.Time{}, decodeErr("time-sync", "expected 8 bytes, got %d", len(payload))
	}
	secs := binary.BigEndian.Uint64(payload)
	return time.Unix(int64(secs), 0).UTC(), nil
}

// EncodeTimeSync is the inverse of the time-sync write decoding,
// provided for transport clients and tests.
func EncodeTimeSync(t time.Time) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(t.Unix()))
	return out
}

// encodeEvent builds the event characteristic payload: the event tag,
// then the lock-state byte for lock-family events or the tier byte for
// battery events.
func encodeEvent(ev device.Event) []byte {
	if ev.LockRelated() {
		return []byte{byte(ev.Type), byte(ev.LockState)}
	}
	if ev.Type == device.EventBatteryTierChanged {
		return []byte{byte(ev.Type), byte(ev.Tier)}
	}
	return []byte{byte(ev.Type)}
}
