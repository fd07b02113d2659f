package advice

import (
	"kisanmitra/internal/types"
)

// Classify reduces an AdviceSet to the coarse tier used for the send/skip
// decision. Only immediate and short-term items count; long-term items are
// informational.
//
// Rollup: two or more high-severity items -> critical; one -> high; any
// remaining item -> medium; empty -> low.
func Classify(set types.AdviceSet) types.SeverityTier {
	highCount := 0
	actionable := 0
	for _, item := range set.Items {
		if item.Horizon == types.HorizonLongTerm {
			continue
		}
		actionable++
		if item.Severity == types.SeverityHigh {
			highCount++
		}
	}

	switch {
	case highCount >= 2:
		return types.TierCritical
	case highCount >= 1:
		return types.TierHigh
	case actionable > 0:
		return types.TierMedium
	default:
		return types.TierLow
	}
}

// ShouldSendDailyUpdate is the daily digest gate: even when no rule raised
// the tier, extreme readings make the daily update worth sending. It looks
// only at the snapshot, independent of any AdviceSet.
//
// Unknown sentinel readings never satisfy a comparison.
func ShouldSendDailyUpdate(snap *types.WeatherSnapshot) bool {
	cur := snap.Current
	if cur.TemperatureC > HighTempC || cur.TemperatureC < LowTempC {
		return true
	}
	if cur.WindSpeedKph > StrongWindKph {
		return true
	}
	tmrw := snap.Tomorrow()
	if tmrw.RainfallMm > HeavyNextDayRain {
		return true
	}
	if tmrw.TempMaxC > HighTempC || tmrw.TempMinC < LowTempC {
		return true
	}
	return false
}

// ShouldNotify combines the tier rollup with the daily digest gate: the
// critical and high tiers always notify; anything lower notifies only when
// the digest gate fires.
func ShouldNotify(tier types.SeverityTier, snap *types.WeatherSnapshot) bool {
	if tier == types.TierCritical || tier == types.TierHigh {
		return true
	}
	return ShouldSendDailyUpdate(snap)
}
