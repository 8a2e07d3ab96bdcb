package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurb-simulator/peripheral/internal/battery"
	"github.com/kurb-simulator/peripheral/internal/schedule"
)

func simTime(day, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day+" "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

// newTestCore returns a core whose clock reads the given simulated time.
func newTestCore(t *testing.T, day, clock string) *Core {
	t.Helper()
	c := NewCore(NewClock(), 100)
	c.Apply(SetTime{At: simTime(day, clock)})
	return c
}

func alwaysOpen(limit int) schedule.Schedule {
	return schedule.Schedule{DailyLimit: schedule.DailyLimit{MaxUnlocks: limit}}
}

func TestInitialState(t *testing.T) {
	c := NewCore(NewClock(), 100)

	assert.Equal(t, Locked, c.State())
	assert.Equal(t, 100, c.Battery())
	assert.Equal(t, battery.TierNormal, c.Tier())

	_, ok := c.Schedule()
	assert.False(t, ok)
}

func TestUnlockIsIdempotent(t *testing.T) {
	c := newTestCore(t, "2026-08-25", "10:00")

	events := c.Apply(Unlock{})
	require.Len(t, events, 1)
	assert.Equal(t, EventUnlocked, events[0].Type)
	assert.Equal(t, Unlocked, c.State())

	// Second unlock while already open: no transition, no event.
	assert.Empty(t, c.Apply(Unlock{}))
	assert.Equal(t, Unlocked, c.State())
}

func TestQuotaExactlyN(t *testing.T) {
	c := newTestCore(t, "2026-08-25", "10:00")
	c.Apply(SetSchedule{Schedule: alwaysOpen(3)})

	for i := 0; i < 3; i++ {
		events := c.Apply(Unlock{})
		require.Len(t, events, 1, "unlock %d", i+1)
		require.Equal(t, EventUnlocked, events[0].Type, "unlock %d", i+1)
		c.Apply(Reset{})
	}

	events := c.Apply(Unlock{})
	require.Len(t, events, 1)
	assert.Equal(t, EventUnlockDenied, events[0].Type)
	assert.Equal(t, Locked, c.State())
	assert.Equal(t, 3, c.UnlocksToday())
}

func TestForceUnlockBypassesAndPreservesQuota(t *testing.T) {
	c := newTestCore(t, "2026-08-25", "02:00")
	c.Apply(SetSchedule{Schedule: schedule.Schedule{
		DailyLimit: schedule.DailyLimit{MaxUnlocks: 1},
		Windows:    []schedule.Window{{Start: "09:00", End: "17:00"}},
	}})

	// Outside the window, but force always succeeds.
	events := c.Apply(ForceUnlock{})
	require.Len(t, events, 1)
	assert.Equal(t, EventForceUnlocked, events[0].Type)
	assert.Equal(t, Unlocked, c.State())
	assert.Equal(t, 0, c.UnlocksToday())

	// The forced unlock did not consume quota: a normal unlock inside
	// the window still succeeds.
	c.Apply(Reset{})
	c.Apply(SetTime{At: simTime("2026-08-25", "10:00")})
	events = c.Apply(Unlock{})
	require.Len(t, events, 1)
	assert.Equal(t, EventUnlocked, events[0].Type)
}

func TestDayRolloverRestoresQuota(t *testing.T) {
	c := newTestCore(t, "2026-08-25", "10:00")
	c.Apply(SetSchedule{Schedule: alwaysOpen(1)})

	require.Equal(t, EventUnlocked, c.Apply(Unlock{})[0].Type)
	c.Apply(Reset{})
	require.Equal(t, EventUnlockDenied, c.Apply(Unlock{})[0].Type)

	c.Apply(SetTime{At: simTime("2026-08-26", "00:05")})
	events := c.Apply(Unlock{})
	require.Len(t, events, 1)
	assert.Equal(t, EventUnlocked, events[0].Type)
}

func TestScheduleScenario(t *testing.T) {
	// Daily limit 1, window 09:00-17:00.
	c := newTestCore(t, "2026-08-25", "10:00")
	c.Apply(SetSchedule{Schedule: schedule.Schedule{
		DailyLimit: schedule.DailyLimit{MaxUnlocks: 1},
		Windows:    []schedule.Window{{Start: "09:00", End: "17:00"}},
	}})

	// 10:00: unlock succeeds.
	events := c.Apply(Unlock{})
	require.Len(t, events, 1)
	assert.Equal(t, EventUnlocked, events[0].Type)
	assert.Equal(t, Unlocked, c.State())

	// 11:00: already unlocked, no-op.
	c.Apply(SetTime{At: simTime("2026-08-25", "11:00")})
	assert.Empty(t, c.Apply(Unlock{}))

	// Reset relocks and reports it.
	events = c.Apply(Reset{})
	require.Len(t, events, 1)
	assert.Equal(t, EventLocked, events[0].Type)
	assert.Equal(t, Locked, c.State())

	// 12:00: quota exhausted, denied, still locked.
	c.Apply(SetTime{At: simTime("2026-08-25", "12:00")})
	events = c.Apply(Unlock{})
	require.Len(t, events, 1)
	assert.Equal(t, EventUnlockDenied, events[0].Type)
	assert.Equal(t, Locked, c.State())
}

func TestUnlockDeniedOutsideWindow(t *testing.T) {
	c := newTestCore(t, "2026-08-25", "20:00")
	c.Apply(SetSchedule{Schedule: schedule.Schedule{
		DailyLimit: schedule.DailyLimit{MaxUnlocks: 5},
		Windows:    []schedule.Window{{Start: "09:00", End: "17:00"}},
	}})

	events := c.Apply(Unlock{})
	require.Len(t, events, 1)
	assert.Equal(t, EventUnlockDenied, events[0].Type)
	// Denials never consume quota.
	assert.Equal(t, 0, c.UnlocksToday())
}

func TestBatteryTierChangeEvents(t *testing.T) {
	c := NewCore(NewClock(), 100)

	// Within the same tier: silent.
	assert.Empty(t, c.SetBattery(50))

	events := c.SetBattery(20)
	require.Len(t, events, 1)
	assert.Equal(t, EventBatteryTierChanged, events[0].Type)
	assert.Equal(t, battery.TierLow, events[0].Tier)

	// Repeating the same level stays silent.
	assert.Empty(t, c.SetBattery(15))

	events = c.SetBattery(2)
	require.Len(t, events, 1)
	assert.Equal(t, battery.TierEmergency, events[0].Tier)
}

func TestSetBatteryClamps(t *testing.T) {
	c := NewCore(NewClock(), 100)

	c.SetBattery(-5)
	assert.Equal(t, 0, c.Battery())
	assert.Equal(t, battery.TierEmergency, c.Tier())

	c.SetBattery(250)
	assert.Equal(t, 100, c.Battery())
}
