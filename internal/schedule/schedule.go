// Package schedule evaluates unlock permissions against configured
// time windows and a daily unlock quota.
package schedule

import "time"

// Window is a time-of-day interval during which unlocking is permitted.
// Times are "15:04" strings in the device's simulated day.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DailyLimit caps the number of normal unlocks per calendar day.
type DailyLimit struct {
	MaxUnlocks int `json:"max_unlocks"`
}

// Schedule is the full access configuration. It is replaced wholesale
// on a schedule write; partial updates are not supported.
type Schedule struct {
	DailyLimit DailyLimit `json:"daily_limit"`
	Windows    []Window   `json:"windows"`
}

// Evaluator decides whether an unlock attempt is permitted. It owns
// the current schedule and the per-day unlock counter. Callers are
// responsible for serializing access (the controller runs commands one
// at a time).
type Evaluator struct {
	sched      Schedule
	configured bool

	// Unlock counter for the calendar day identified by day.
	day   string
	count int
}

// NewEvaluator returns an evaluator with no schedule configured.
// Without a schedule every unlock is permitted.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

const dayKeyFormat = "2006-01-02"

// IsWithinWindow reports whether now falls inside the union of the
// configured windows. An empty window set means no restriction.
func (e *Evaluator) IsWithinWindow(now time.Time) bool {
	if len(e.sched.Windows) == 0 {
		return true
	}

	current := now.Format("15:04")
	for _, w := range e.sched.Windows {
		if windowContains(w, current) {
			return true
		}
	}
	return false
}

// windowContains checks a single window, treating start > end as an
// overnight window that wraps midnight.
func windowContains(w Window, current string) bool {
	if w.Start > w.End {
		return current >= w.Start || current <= w.End
	}
	return current >= w.Start && current <= w.End
}

// HasQuota reports whether another unlock is allowed today. A
// configured limit of zero always denies; no schedule means no limit.
func (e *Evaluator) HasQuota(now time.Time) bool {
	if !e.configured {
		return true
	}
	return e.unlocksOn(now) < e.sched.DailyLimit.MaxUnlocks
}

// RecordUnlock counts a successful unlock against today's quota,
// rolling the counter to zero first if the day has changed.
func (e *Evaluator) RecordUnlock(now time.Time) {
	key := now.Format(dayKeyFormat)
	if key != e.day {
		e.day = key
		e.count = 0
	}
	e.count++
}

// UnlocksToday returns the number of quota-consuming unlocks recorded
// for the day containing now.
func (e *Evaluator) UnlocksToday(now time.Time) int {
	return e.unlocksOn(now)
}

func (e *Evaluator) unlocksOn(now time.Time) int {
	if now.Format(dayKeyFormat) != e.day {
		return 0
	}
	return e.count
}

// Replace swaps in a new schedule atomically. The unlock counter is
// deliberately left alone: changing the rules does not refund quota
// already spent today.
func (e *Evaluator) Replace(s Schedule) {
	e.sched = s
	e.configured = true
}

// Current returns the configured schedule. The bool is false until a
// schedule has been written.
func (e *Evaluator) Current() (Schedule, bool) {
	return e.sched, e.configured
}
