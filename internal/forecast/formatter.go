package forecast

import (
	"fmt"
	"time"

	"kisanmitra/internal/types"
)

// Formatter normalizes raw provider documents into WeatherSnapshots.
// It is side-effect free and performs no I/O.
type Formatter struct{}

// NewFormatter creates a Formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format converts a raw provider document into a WeatherSnapshot.
//
// Required fields: the current temperature and at least two daily entries
// (today + tomorrow). Their absence yields an AppError with code
// ErrCodeProviderMalformed. Optional readings (UV index, humidity, wind,
// feels-like) are substituted with the unknown sentinel rather than
// rejected, because advice rules must treat absence as "unknown".
func (f *Formatter) Format(doc *Document, district string) (*types.WeatherSnapshot, error) {
	if doc == nil || doc.Current == nil || doc.Daily == nil {
		return nil, types.NewAppError(types.ErrCodeProviderMalformed,
			"provider document missing current or daily block", nil)
	}
	if doc.Current.Temperature == nil {
		return nil, types.NewAppError(types.ErrCodeProviderMalformed,
			"provider document missing current temperature", nil)
	}
	if len(doc.Daily.Time) < 2 {
		return nil, types.NewAppError(types.ErrCodeProviderMalformed,
			fmt.Sprintf("provider document has %d daily entries, need at least 2", len(doc.Daily.Time)), nil)
	}

	currentTime, err := parseProviderTime(doc.Current.Time)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeProviderMalformed,
			fmt.Sprintf("unparseable current time %q", doc.Current.Time), err)
	}

	snap := &types.WeatherSnapshot{
		Location: types.Location{
			Latitude:  doc.Latitude,
			Longitude: doc.Longitude,
			District:  district,
		},
		Current: types.CurrentConditions{
			TemperatureC: *doc.Current.Temperature,
			FeelsLikeC:   optional(doc.Current.FeelsLike),
			HumidityPct:  optional(doc.Current.Humidity),
			WindSpeedKph: optional(doc.Current.WindSpeedKmh),
			UVIndex:      optional(doc.Current.UVIndex),
			Condition:    conditionFromCode(doc.Current.WeatherCode),
			TimestampUTC: currentTime,
		},
	}
	if types.IsUnknown(snap.Current.FeelsLikeC) {
		snap.Current.FeelsLikeC = snap.Current.TemperatureC
	}

	for i, day := range doc.Daily.Time {
		date, err := parseProviderDate(day)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeProviderMalformed,
				fmt.Sprintf("unparseable daily date %q at index %d", day, i), err)
		}
		snap.Daily = append(snap.Daily, types.DayForecast{
			Date:         date,
			TempMinC:     at(doc.Daily.TempMinC, i),
			TempMaxC:     at(doc.Daily.TempMaxC, i),
			HumidityPct:  at(doc.Daily.HumidityMean, i),
			RainfallMm:   at(doc.Daily.RainfallMm, i),
			WindSpeedKph: at(doc.Daily.WindMaxKmh, i),
			UVIndex:      at(doc.Daily.UVIndexMax, i),
			Condition:    conditionFromCodeAt(doc.Daily.WeatherCode, i),
		})
	}

	for _, a := range doc.Alerts {
		start, _ := parseProviderTime(a.Start)
		end, _ := parseProviderTime(a.End)
		snap.ProviderAlerts = append(snap.ProviderAlerts, types.ProviderAlert{
			Event:       a.Event,
			StartUTC:    start,
			EndUTC:      end,
			Description: a.Description,
		})
	}

	if err := snap.Validate(); err != nil {
		return nil, types.NewAppError(types.ErrCodeProviderMalformed, "snapshot invariant violated", err)
	}
	return snap, nil
}

// optional dereferences a pointer reading, substituting the unknown
// sentinel when the provider omitted it.
func optional(v *float64) float64 {
	if v == nil {
		return types.UnknownValue()
	}
	return *v
}

// at indexes a parallel daily array, returning the unknown sentinel when
// the array is shorter than the time axis.
func at(vals []float64, i int) float64 {
	if i >= len(vals) {
		return types.UnknownValue()
	}
	return vals[i]
}

// parseProviderTime accepts RFC3339 and the provider's minute-resolution
// variant ("2006-01-02T15:04").
func parseProviderTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseProviderDate parses a daily axis date ("2006-01-02").
func parseProviderDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// conditionFromCode maps WMO weather interpretation codes onto the coarse
// condition strings the composer renders.
func conditionFromCode(code *int) string {
	if code == nil {
		return "unknown"
	}
	return wmoCondition(*code)
}

func conditionFromCodeAt(codes []int, i int) string {
	if i >= len(codes) {
		return "unknown"
	}
	return wmoCondition(codes[i])
}

func wmoCondition(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code <= 3:
		return "cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "rain"
	case code <= 86:
		return "snow"
	case code <= 99:
		return "thunderstorm"
	default:
		return "unknown"
	}
}
