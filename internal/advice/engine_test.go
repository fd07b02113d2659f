package advice

import (
	"reflect"
	"testing"
	"time"

	"kisanmitra/internal/types"
)

// testSnapshot returns a nominal snapshot: nothing triggers any rule.
// Temp 25, humidity 50, wind 5, 7-day rain 40mm spread evenly, UV 4.
func testSnapshot() *types.WeatherSnapshot {
	base := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	snap := &types.WeatherSnapshot{
		Location: types.Location{Latitude: 17.38, Longitude: 78.48, District: "Hyderabad"},
		Current: types.CurrentConditions{
			TemperatureC: 25,
			FeelsLikeC:   26,
			HumidityPct:  50,
			WindSpeedKph: 5,
			UVIndex:      4,
			Condition:    "cloudy",
			TimestampUTC: base.Add(6 * time.Hour),
		},
	}
	for i := 0; i < 7; i++ {
		snap.Daily = append(snap.Daily, types.DayForecast{
			Date:         base.AddDate(0, 0, i),
			TempMinC:     18,
			TempMaxC:     30,
			HumidityPct:  55,
			RainfallMm:   40.0 / 7.0,
			WindSpeedKph: 8,
			UVIndex:      5,
			Condition:    "cloudy",
		})
	}
	return snap
}

func keysOf(set types.AdviceSet) []string {
	var keys []string
	for _, item := range set.Items {
		keys = append(keys, item.MessageKey)
	}
	return keys
}

func TestComputeAdvice_QuietDayProducesNothing(t *testing.T) {
	set := ComputeAdvice(testSnapshot(), nil)
	if len(set.Items) != 0 {
		t.Fatalf("expected empty advice set, got %v", keysOf(set))
	}
	if got := set.OverallSeverity(); got != types.SeverityLow {
		t.Errorf("expected overall severity low, got %s", got)
	}
}

func TestComputeAdvice_Deterministic(t *testing.T) {
	snap := testSnapshot()
	snap.Current.TemperatureC = 38
	snap.Current.HumidityPct = 85
	snap.Current.WindSpeedKph = 22

	first := ComputeAdvice(snap, []string{"wheat", "cotton"})
	for i := 0; i < 10; i++ {
		again := ComputeAdvice(snap, []string{"wheat", "cotton"})
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("advice set differs between identical calls:\nfirst: %v\nagain: %v",
				keysOf(first), keysOf(again))
		}
	}
}

func TestComputeAdvice_TemperatureBoundaries(t *testing.T) {
	cases := []struct {
		name string
		temp float64
		want []string
	}{
		{"exactly 35 does not trigger", 35.0, nil},
		{"just above 35 triggers high temp", 35.01, []string{KeyHighTemperature}},
		{"exactly 10 does not trigger", 10.0, nil},
		{"just below 10 triggers low temp", 9.99, []string{KeyLowTemperature}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := testSnapshot()
			snap.Current.TemperatureC = tc.temp
			got := keysOf(ComputeAdvice(snap, nil))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("temp %.2f: got %v, want %v", tc.temp, got, tc.want)
			}
		})
	}
}

func TestComputeAdvice_HumidityBoundaries(t *testing.T) {
	snap := testSnapshot()
	snap.Current.HumidityPct = 80.0
	if got := keysOf(ComputeAdvice(snap, nil)); got != nil {
		t.Errorf("humidity 80.0 must not trigger, got %v", got)
	}

	snap.Current.HumidityPct = 80.1
	set := ComputeAdvice(snap, nil)
	if got := keysOf(set); !reflect.DeepEqual(got, []string{KeyHumidityDisease}) {
		t.Errorf("humidity 80.1: got %v", got)
	}
	if set.Items[0].Severity != types.SeverityMedium || set.Items[0].Kind != types.KindAdvisory {
		t.Errorf("humidity advisory has wrong severity/kind: %+v", set.Items[0])
	}

	snap.Current.HumidityPct = 30.0
	if got := keysOf(ComputeAdvice(snap, nil)); got != nil {
		t.Errorf("humidity 30.0 must not trigger, got %v", got)
	}

	snap.Current.HumidityPct = 29.9
	if got := keysOf(ComputeAdvice(snap, nil)); !reflect.DeepEqual(got, []string{KeyDryAir}) {
		t.Errorf("humidity 29.9: got %v", got)
	}
}

func TestComputeAdvice_WindBoundary(t *testing.T) {
	snap := testSnapshot()
	snap.Current.WindSpeedKph = 15.0
	if got := keysOf(ComputeAdvice(snap, nil)); got != nil {
		t.Errorf("wind 15.0 must not trigger, got %v", got)
	}

	snap.Current.WindSpeedKph = 15.1
	set := ComputeAdvice(snap, nil)
	if got := keysOf(set); !reflect.DeepEqual(got, []string{KeyStrongWind}) {
		t.Errorf("wind 15.1: got %v", got)
	}
	if set.Items[0].Severity != types.SeverityHigh || set.Items[0].Horizon != types.HorizonImmediate {
		t.Errorf("wind warning has wrong severity/horizon: %+v", set.Items[0])
	}
}

func setWeekRain(snap *types.WeatherSnapshot, totalMm float64) {
	// Give the last day the remainder so the values sum to exactly totalMm;
	// accumulating totalMm/7 seven times drifts by an ulp past the threshold.
	perDay := totalMm / float64(len(snap.Daily))
	var sum float64
	for i := 0; i < len(snap.Daily)-1; i++ {
		snap.Daily[i].RainfallMm = perDay
		sum += perDay
	}
	snap.Daily[len(snap.Daily)-1].RainfallMm = totalMm - sum
}

func TestComputeAdvice_RainfallBoundaries(t *testing.T) {
	snap := testSnapshot()

	setWeekRain(snap, 100.0)
	if got := keysOf(ComputeAdvice(snap, nil)); got != nil {
		t.Errorf("weekly rain exactly 100 must not trigger, got %v", got)
	}

	setWeekRain(snap, 100.5)
	set := ComputeAdvice(snap, nil)
	if got := keysOf(set); !reflect.DeepEqual(got, []string{KeyHeavyWeekRain}) {
		t.Errorf("weekly rain 100.5: got %v", got)
	}
	item := set.Items[0]
	if item.Horizon != types.HorizonShortTerm || item.Severity != types.SeverityHigh || item.Kind != types.KindWarning {
		t.Errorf("heavy rain item has wrong shape: %+v", item)
	}

	setWeekRain(snap, 10.0)
	if got := keysOf(ComputeAdvice(snap, nil)); got != nil {
		t.Errorf("weekly rain exactly 10 must not trigger, got %v", got)
	}

	setWeekRain(snap, 9.5)
	if got := keysOf(ComputeAdvice(snap, nil)); !reflect.DeepEqual(got, []string{KeyLowWeekRain}) {
		t.Errorf("weekly rain 9.5: got %v", got)
	}
}

func TestComputeAdvice_HeavyRainScenario(t *testing.T) {
	// 120mm over the week, all else nominal: exactly one short-term
	// high-severity warning, overall severity high.
	snap := testSnapshot()
	setWeekRain(snap, 120)

	set := ComputeAdvice(snap, nil)
	if len(set.Items) != 1 {
		t.Fatalf("expected exactly 1 item, got %v", keysOf(set))
	}
	if set.Items[0].MessageKey != KeyHeavyWeekRain {
		t.Errorf("expected %s, got %s", KeyHeavyWeekRain, set.Items[0].MessageKey)
	}
	if got := set.OverallSeverity(); got != types.SeverityHigh {
		t.Errorf("expected overall severity high, got %s", got)
	}
}

func TestComputeAdvice_RainWindowIgnoresDaysPastSeven(t *testing.T) {
	snap := testSnapshot()
	setWeekRain(snap, 0)
	snap.Daily = append(snap.Daily, types.DayForecast{
		Date:       snap.Daily[6].Date.AddDate(0, 0, 1),
		RainfallMm: 500, // day 8 must not count toward the weekly sum
		TempMinC:   18, TempMaxC: 30,
	})

	got := keysOf(ComputeAdvice(snap, nil))
	if !reflect.DeepEqual(got, []string{KeyLowWeekRain}) {
		t.Errorf("day 8 rainfall leaked into the weekly window: got %v", got)
	}
}

func TestComputeAdvice_UVBoundaryAndUnknown(t *testing.T) {
	snap := testSnapshot()
	snap.Current.UVIndex = 8.0
	if got := keysOf(ComputeAdvice(snap, nil)); got != nil {
		t.Errorf("uv 8.0 must not trigger, got %v", got)
	}

	snap.Current.UVIndex = 8.5
	if got := keysOf(ComputeAdvice(snap, nil)); !reflect.DeepEqual(got, []string{KeyHighUV}) {
		t.Errorf("uv 8.5: got %v", got)
	}

	snap.Current.UVIndex = types.UnknownValue()
	if got := keysOf(ComputeAdvice(snap, nil)); got != nil {
		t.Errorf("unknown uv must skip the rule, got %v", got)
	}
}

func TestComputeAdvice_UnknownReadingsNeverTrigger(t *testing.T) {
	snap := testSnapshot()
	snap.Current.HumidityPct = types.UnknownValue()
	snap.Current.WindSpeedKph = types.UnknownValue()
	for i := range snap.Daily {
		snap.Daily[i].RainfallMm = types.UnknownValue()
	}

	if got := keysOf(ComputeAdvice(snap, nil)); got != nil {
		t.Errorf("unknown readings must not trigger any rule, got %v", got)
	}
}

func TestComputeAdvice_CropOverlays(t *testing.T) {
	snap := testSnapshot()
	snap.Current.TemperatureC = 36 // high temp + cotton/wheat heat overlays
	snap.Current.HumidityPct = 85 // humidity + wheat rust overlay

	set := ComputeAdvice(snap, []string{"wheat", "cotton"})
	want := []string{
		KeyHighTemperature,
		KeyHumidityDisease,
		KeyWheatRustRisk,
		KeyWheatHeatFilling,
		KeyCottonHeatStress,
	}
	if got := keysOf(set); !reflect.DeepEqual(got, want) {
		t.Errorf("crop overlay keys:\ngot  %v\nwant %v", got, want)
	}
}

func TestComputeAdvice_UnknownCropIsNotAnError(t *testing.T) {
	set := ComputeAdvice(testSnapshot(), []string{"dragonfruit"})
	if len(set.Items) != 0 {
		t.Errorf("unknown crop must contribute nothing, got %v", keysOf(set))
	}
}

func TestComputeAdvice_CropNameCaseInsensitive(t *testing.T) {
	snap := testSnapshot()
	snap.Current.TemperatureC = 36

	set := ComputeAdvice(snap, []string{"  Cotton "})
	found := false
	for _, item := range set.Items {
		if item.MessageKey == KeyCottonHeatStress {
			found = true
		}
	}
	if !found {
		t.Errorf("crop matching must trim and lowercase, got %v", keysOf(set))
	}
}

func TestComputeAdvice_TomatoFrostUsesTomorrowMin(t *testing.T) {
	snap := testSnapshot()
	snap.Daily[1].TempMinC = 8

	set := ComputeAdvice(snap, []string{"tomato"})
	if got := keysOf(set); !reflect.DeepEqual(got, []string{KeyTomatoFrostCover}) {
		t.Errorf("expected tomato frost cover, got %v", got)
	}
}

func TestComputeAdvice_RulesDoNotShortCircuit(t *testing.T) {
	// Every global rule fires at once; each appends independently.
	snap := testSnapshot()
	snap.Current.TemperatureC = 40
	snap.Current.HumidityPct = 90
	snap.Current.WindSpeedKph = 30
	snap.Current.UVIndex = 9
	setWeekRain(snap, 150)

	want := []string{
		KeyHighTemperature,
		KeyHumidityDisease,
		KeyStrongWind,
		KeyHeavyWeekRain,
		KeyHighUV,
	}
	if got := keysOf(ComputeAdvice(snap, nil)); !reflect.DeepEqual(got, want) {
		t.Errorf("rule evaluation order:\ngot  %v\nwant %v", got, want)
	}
}
