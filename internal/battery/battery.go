// Package battery classifies battery charge into discrete health tiers.
package battery

// Tier is a discrete battery-health classification derived from a
// percentage. The byte values are part of the event wire format.
type Tier byte

const (
	TierNormal    Tier = 0x00
	TierLow       Tier = 0x01
	TierCritical  Tier = 0x02
	TierEmergency Tier = 0x03
)

// String returns the human-readable tier name.
func (t Tier) String() string {
	switch t {
	case TierNormal:
		return "normal"
	case TierLow:
		return "low"
	case TierCritical:
		return "critical"
	case TierEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Classify maps a battery percentage to its health tier.
// Boundaries are inclusive: <=3 emergency, <=10 critical, <=20 low.
// Callers clamp to 0-100 before calling.
func Classify(percent int) Tier {
	switch {
	case percent <= 3:
		return TierEmergency
	case percent <= 10:
		return TierCritical
	case percent <= 20:
		return TierLow
	default:
		return TierNormal
	}
}
