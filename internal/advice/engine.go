// Package advice implements the farming advice engine: a fixed, ordered
// set of threshold rules evaluated against a WeatherSnapshot, plus the
// severity rollups used to decide whether an alert is worth sending.
//
// Every function in this package is pure: no I/O, no clock, no randomness.
// The same snapshot and crop list always produce the same AdviceSet, and
// item order equals rule evaluation order.
package advice

import (
	"kisanmitra/internal/types"
)

// Threshold constants. These values are carried over verbatim from the
// production rule set; changing any of them changes alerting behavior for
// every subscriber and needs product sign-off. See DESIGN.md for the note
// on making them per-region configurable.
const (
	HighTempC        = 35.0
	LowTempC         = 10.0
	HighHumidityPct  = 80.0
	LowHumidityPct   = 30.0
	StrongWindKph    = 15.0
	HeavyWeekRainMm  = 100.0
	LowWeekRainMm    = 10.0
	HighUVIndex      = 8.0
	HeavyNextDayRain = 20.0
	// rainWindowDays is the number of daily entries summed for the weekly
	// rainfall rules (fewer if the forecast is shorter).
	rainWindowDays = 7
)

// Message keys produced by the rule set. The i18n catalogs must cover every
// key listed here for every supported language; catalog validation checks
// this at startup.
const (
	KeyHighTemperature = "high_temperature"
	KeyLowTemperature  = "low_temperature"
	KeyHumidityDisease = "humidity_disease_risk"
	KeyDryAir          = "dry_air_irrigation"
	KeyStrongWind      = "strong_wind"
	KeyHeavyWeekRain   = "heavy_week_rain"
	KeyLowWeekRain     = "low_week_rain"
	KeyHighUV          = "high_uv"
)

// ComputeAdvice evaluates the full rule set against a snapshot and optional
// crop types. Rules are independent: each appends zero or one item and
// never short-circuits the others. Crop overlays run last, in the order the
// crops are listed; unknown crop names contribute nothing.
//
// All threshold comparisons are strict. Unknown sentinel readings never
// trigger a rule: a NaN comparison is false in both directions.
func ComputeAdvice(snap *types.WeatherSnapshot, cropTypes []string) types.AdviceSet {
	var set types.AdviceSet
	cur := snap.Current

	// Rule 1: temperature extremes.
	if cur.TemperatureC > HighTempC {
		set.Items = append(set.Items, types.AdviceItem{
			Horizon:    types.HorizonImmediate,
			Severity:   types.SeverityHigh,
			Kind:       types.KindWarning,
			MessageKey: KeyHighTemperature,
			Params:     map[string]any{"temperature_c": cur.TemperatureC},
		})
	}
	if cur.TemperatureC < LowTempC {
		set.Items = append(set.Items, types.AdviceItem{
			Horizon:    types.HorizonImmediate,
			Severity:   types.SeverityHigh,
			Kind:       types.KindWarning,
			MessageKey: KeyLowTemperature,
			Params:     map[string]any{"temperature_c": cur.TemperatureC},
		})
	}

	// Rule 2: humidity extremes.
	if cur.HumidityPct > HighHumidityPct {
		set.Items = append(set.Items, types.AdviceItem{
			Horizon:    types.HorizonImmediate,
			Severity:   types.SeverityMedium,
			Kind:       types.KindAdvisory,
			MessageKey: KeyHumidityDisease,
			Params:     map[string]any{"humidity_pct": cur.HumidityPct},
		})
	}
	if cur.HumidityPct < LowHumidityPct {
		set.Items = append(set.Items, types.AdviceItem{
			Horizon:    types.HorizonImmediate,
			Severity:   types.SeverityMedium,
			Kind:       types.KindAdvisory,
			MessageKey: KeyDryAir,
			Params:     map[string]any{"humidity_pct": cur.HumidityPct},
		})
	}

	// Rule 3: wind.
	if cur.WindSpeedKph > StrongWindKph {
		set.Items = append(set.Items, types.AdviceItem{
			Horizon:    types.HorizonImmediate,
			Severity:   types.SeverityHigh,
			Kind:       types.KindWarning,
			MessageKey: KeyStrongWind,
			Params:     map[string]any{"wind_kph": cur.WindSpeedKph},
		})
	}

	// Rule 4: weekly rainfall outlook.
	if total, known := weekRainfall(snap); known {
		if total > HeavyWeekRainMm {
			set.Items = append(set.Items, types.AdviceItem{
				Horizon:    types.HorizonShortTerm,
				Severity:   types.SeverityHigh,
				Kind:       types.KindWarning,
				MessageKey: KeyHeavyWeekRain,
				Params:     map[string]any{"rainfall_mm": total},
			})
		}
		if total < LowWeekRainMm {
			set.Items = append(set.Items, types.AdviceItem{
				Horizon:    types.HorizonShortTerm,
				Severity:   types.SeverityMedium,
				Kind:       types.KindAdvisory,
				MessageKey: KeyLowWeekRain,
				Params:     map[string]any{"rainfall_mm": total},
			})
		}
	}

	// Rule 5: UV index. Skipped entirely when the reading is unknown.
	if !types.IsUnknown(cur.UVIndex) && cur.UVIndex > HighUVIndex {
		set.Items = append(set.Items, types.AdviceItem{
			Horizon:    types.HorizonImmediate,
			Severity:   types.SeverityMedium,
			Kind:       types.KindAdvisory,
			MessageKey: KeyHighUV,
			Params:     map[string]any{"uv_index": cur.UVIndex},
		})
	}

	// Rule 6: crop-specific overlays.
	for _, crop := range cropTypes {
		set.Items = append(set.Items, cropOverlay(crop, snap)...)
	}

	return set
}

// weekRainfall sums forecast rainfall over daily[0..6] (fewer entries when
// the forecast is shorter). Days with an unknown rainfall reading are
// skipped; if no day has a known reading the rule is skipped entirely
// (known=false) rather than treated as zero rainfall.
func weekRainfall(snap *types.WeatherSnapshot) (total float64, known bool) {
	window := snap.Daily
	if len(window) > rainWindowDays {
		window = window[:rainWindowDays]
	}
	for _, day := range window {
		if types.IsUnknown(day.RainfallMm) {
			continue
		}
		total += day.RainfallMm
		known = true
	}
	return total, known
}
