package advice

import (
	"strings"

	"kisanmitra/internal/types"
)

// Crop overlay message keys.
const (
	KeyRiceStandingWater = "crop_rice_standing_water"
	KeyRiceDrainage      = "crop_rice_drainage"
	KeyWheatRustRisk     = "crop_wheat_rust_risk"
	KeyWheatHeatFilling  = "crop_wheat_heat_filling"
	KeyCottonHeatStress  = "crop_cotton_heat_stress"
	KeyCottonBollRot     = "crop_cotton_boll_rot"
	KeyTomatoFrostCover  = "crop_tomato_frost_cover"
	KeyTomatoBlightRisk  = "crop_tomato_blight_risk"
)

// cropRule pairs a snapshot predicate with the item it emits.
type cropRule struct {
	applies func(*types.WeatherSnapshot) bool
	item    types.AdviceItem
}

// cropRules is the per-crop overlay table. Each crop's rules are evaluated
// in listed order; each emits at most one item. Crops not present in the
// table produce no items, by design (an unrecognized crop is not an error).
var cropRules = map[string][]cropRule{
	"rice": {
		{
			applies: func(s *types.WeatherSnapshot) bool {
				total, known := weekRainfall(s)
				return known && total < LowWeekRainMm
			},
			item: types.AdviceItem{
				Horizon:    types.HorizonShortTerm,
				Severity:   types.SeverityMedium,
				Kind:       types.KindAdvisory,
				MessageKey: KeyRiceStandingWater,
			},
		},
		{
			applies: func(s *types.WeatherSnapshot) bool {
				total, known := weekRainfall(s)
				return known && total > HeavyWeekRainMm
			},
			item: types.AdviceItem{
				Horizon:    types.HorizonShortTerm,
				Severity:   types.SeverityMedium,
				Kind:       types.KindAdvisory,
				MessageKey: KeyRiceDrainage,
			},
		},
	},
	"wheat": {
		{
			applies: func(s *types.WeatherSnapshot) bool {
				return s.Current.HumidityPct > HighHumidityPct
			},
			item: types.AdviceItem{
				Horizon:    types.HorizonImmediate,
				Severity:   types.SeverityMedium,
				Kind:       types.KindAdvisory,
				MessageKey: KeyWheatRustRisk,
			},
		},
		{
			applies: func(s *types.WeatherSnapshot) bool {
				return s.Current.TemperatureC > HighTempC
			},
			item: types.AdviceItem{
				Horizon:    types.HorizonImmediate,
				Severity:   types.SeverityMedium,
				Kind:       types.KindAdvisory,
				MessageKey: KeyWheatHeatFilling,
			},
		},
	},
	"cotton": {
		{
			applies: func(s *types.WeatherSnapshot) bool {
				return s.Current.TemperatureC > HighTempC
			},
			item: types.AdviceItem{
				Horizon:    types.HorizonImmediate,
				Severity:   types.SeverityMedium,
				Kind:       types.KindAdvisory,
				MessageKey: KeyCottonHeatStress,
			},
		},
		{
			applies: func(s *types.WeatherSnapshot) bool {
				total, known := weekRainfall(s)
				return known && total > HeavyWeekRainMm
			},
			item: types.AdviceItem{
				Horizon:    types.HorizonShortTerm,
				Severity:   types.SeverityMedium,
				Kind:       types.KindAdvisory,
				MessageKey: KeyCottonBollRot,
			},
		},
	},
	"tomato": {
		{
			applies: func(s *types.WeatherSnapshot) bool {
				tmrw := s.Tomorrow()
				return !types.IsUnknown(tmrw.TempMinC) && tmrw.TempMinC < LowTempC
			},
			item: types.AdviceItem{
				Horizon:    types.HorizonImmediate,
				Severity:   types.SeverityMedium,
				Kind:       types.KindAdvisory,
				MessageKey: KeyTomatoFrostCover,
			},
		},
		{
			applies: func(s *types.WeatherSnapshot) bool {
				return s.Current.HumidityPct > HighHumidityPct
			},
			item: types.AdviceItem{
				Horizon:    types.HorizonImmediate,
				Severity:   types.SeverityMedium,
				Kind:       types.KindAdvisory,
				MessageKey: KeyTomatoBlightRisk,
			},
		},
	},
}

// CropMessageKeys lists every message key the crop overlay table can emit,
// for catalog validation.
func CropMessageKeys() []string {
	return []string{
		KeyRiceStandingWater, KeyRiceDrainage,
		KeyWheatRustRisk, KeyWheatHeatFilling,
		KeyCottonHeatStress, KeyCottonBollRot,
		KeyTomatoFrostCover, KeyTomatoBlightRisk,
	}
}

// cropOverlay evaluates the overlay rules for one crop. Crop names are
// matched case-insensitively.
func cropOverlay(crop string, snap *types.WeatherSnapshot) []types.AdviceItem {
	rules, ok := cropRules[strings.ToLower(strings.TrimSpace(crop))]
	if !ok {
		return nil
	}
	var items []types.AdviceItem
	for _, r := range rules {
		if r.applies(snap) {
			item := r.item
			item.Params = map[string]any{"crop": strings.ToLower(strings.TrimSpace(crop))}
			items = append(items, item)
		}
	}
	return items
}
