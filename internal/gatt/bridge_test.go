package gatt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurb-simulator/peripheral/internal/device"
)

// fakeNotifier records notifications in order.
type fakeNotifier struct {
	sent []notification
}

type notification struct {
	attr    string
	payload []byte
}

func (f *fakeNotifier) SendNotification(attrUUID string, payload []byte) error {
	f.sent = append(f.sent, notification{attr: attrUUID, payload: payload})
	return nil
}

// fakeSink counts audited events.
type fakeSink struct {
	events []device.Event
}

func (f *fakeSink) Record(ev device.Event) {
	f.events = append(f.events, ev)
}

func newTestBridge(t *testing.T) (*Bridge, *fakeNotifier, *fakeSink) {
	t.Helper()
	notifier := &fakeNotifier{}
	sink := &fakeSink{}
	core := device.NewCore(device.NewClock(), 100)
	bridge := NewBridge(core, notifier, sink)

	// Pin the simulated clock to a known daytime instant.
	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	bridge.HandleWrite(TimeSyncCharUUID, EncodeTimeSync(at))
	return bridge, notifier, sink
}

func TestUnlockWriteNotifiesEventAndState(t *testing.T) {
	bridge, notifier, sink := newTestBridge(t)

	bridge.HandleWrite(LockCommandCharUUID, []byte{OpUnlock})

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, EventCharUUID, notifier.sent[0].attr)
	assert.Equal(t, []byte{byte(device.EventUnlocked), byte(device.Unlocked)}, notifier.sent[0].payload)
	assert.Equal(t, LockStateCharUUID, notifier.sent[1].attr)
	assert.Equal(t, []byte{byte(device.Unlocked)}, notifier.sent[1].payload)

	require.Len(t, sink.events, 1)
	assert.Equal(t, device.EventUnlocked, sink.events[0].Type)
}

func TestDeniedUnlockNotifiesEventOnly(t *testing.T) {
	bridge, notifier, _ := newTestBridge(t)

	// Zero daily limit: every unlock is denied by quota.
	bridge.HandleWrite(ScheduleCharUUID, framed(`{"daily_limit":{"max_unlocks":0},"windows":[]}`))
	bridge.HandleWrite(LockCommandCharUUID, []byte{OpUnlock})

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, EventCharUUID, notifier.sent[0].attr)
	assert.Equal(t, []byte{byte(device.EventUnlockDenied), byte(device.Locked)}, notifier.sent[0].payload)
	assert.Equal(t, []byte{byte(device.Locked)}, bridge.HandleRead(LockStateCharUUID))
}

func TestMalformedWriteChangesNothing(t *testing.T) {
	bridge, notifier, sink := newTestBridge(t)

	before := bridge.HandleRead(LockStateCharUUID)

	bridge.HandleWrite(LockCommandCharUUID, []byte{})           // zero-length
	bridge.HandleWrite(LockCommandCharUUID, []byte{0x7F})       // unknown opcode
	bridge.HandleWrite(ScheduleCharUUID, []byte{0x09, 'x'})     // bad length prefix
	bridge.HandleWrite(TimeSyncCharUUID, []byte{0x01, 0x02})    // wrong width
	bridge.HandleWrite("deadbeef-0000-0000-0000-000000000000", []byte{0x01})

	assert.Equal(t, before, bridge.HandleRead(LockStateCharUUID))
	assert.Equal(t, []byte{100}, bridge.HandleRead(BatteryCharUUID))
	assert.Equal(t, 0, bridge.Core().UnlocksToday())
	assert.Empty(t, notifier.sent)
	assert.Empty(t, sink.events)
}

func TestScheduleWriteThenReadRoundTrips(t *testing.T) {
	bridge, _, _ := newTestBridge(t)

	payload := framed(`{"daily_limit":{"max_unlocks":2},"windows":[{"start":"09:00","end":"17:00"}]}`)
	bridge.HandleWrite(ScheduleCharUUID, payload)

	read := bridge.HandleRead(ScheduleCharUUID)
	got, err := decodeSchedule(read)
	require.NoError(t, err)

	want, err := decodeSchedule(payload)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadsNeverFail(t *testing.T) {
	bridge, _, _ := newTestBridge(t)

	assert.Equal(t, []byte{byte(device.Locked)}, bridge.HandleRead(LockStateCharUUID))
	assert.Equal(t, []byte{100}, bridge.HandleRead(BatteryCharUUID))
	assert.Equal(t, []byte{0x00}, bridge.HandleRead(ScheduleCharUUID))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, bridge.HandleRead(NextUnlockCharUUID))
	assert.Equal(t, []byte{0x00}, bridge.HandleRead("deadbeef-0000-0000-0000-000000000000"))
}

func TestBatteryTickNotifiesTierChange(t *testing.T) {
	bridge, notifier, sink := newTestBridge(t)

	bridge.SetBattery(50) // still normal, silent
	bridge.SetBattery(9)  // crosses into critical

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, EventCharUUID, notifier.sent[0].attr)
	assert.Equal(t, byte(device.EventBatteryTierChanged), notifier.sent[0].payload[0])

	require.Len(t, sink.events, 1)
	assert.Equal(t, []byte{9}, bridge.HandleRead(BatteryCharUUID))
}

func TestBridgeToleratesNilNotifierAndSink(t *testing.T) {
	core := device.NewCore(device.NewClock(), 100)
	bridge := NewBridge(core, nil, nil)

	bridge.HandleWrite(LockCommandCharUUID, []byte{OpForceUnlock})
	assert.Equal(t, device.Unlocked, core.State())
}
