package i18n

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"kisanmitra/internal/advice"
	"kisanmitra/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func composerSnapshot() *types.WeatherSnapshot {
	base := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	return &types.WeatherSnapshot{
		Location: types.Location{Latitude: 17.38, Longitude: 78.48, District: "Warangal"},
		Current: types.CurrentConditions{
			TemperatureC: 31.5,
			HumidityPct:  60,
			WindSpeedKph: 10,
			UVIndex:      5,
			Condition:    "cloudy",
			TimestampUTC: base.Add(6 * time.Hour),
		},
		Daily: []types.DayForecast{
			{Date: base, TempMinC: 22, TempMaxC: 33, RainfallMm: 2},
			{Date: base.AddDate(0, 0, 1), TempMinC: 21, TempMaxC: 34, RainfallMm: 12.5},
		},
	}
}

func mustComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(DefaultCatalog(), testLogger())
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}
	return c
}

func TestDefaultCatalogIsComplete(t *testing.T) {
	if err := DefaultCatalog().Validate(); err != nil {
		t.Fatalf("built-in catalog has gaps: %v", err)
	}
}

func TestCatalogValidateRejectsGaps(t *testing.T) {
	catalog := DefaultCatalog()
	delete(catalog[types.LangTelugu], advice.KeyStrongWind)

	err := catalog.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing key")
	}
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeMissingTranslation {
		t.Errorf("expected %s, got %v", types.ErrCodeMissingTranslation, err)
	}

	catalog = DefaultCatalog()
	delete(catalog, types.LangHindi)
	if err := catalog.Validate(); err == nil {
		t.Error("expected validation error for missing language table")
	}
}

func TestCompose_EnglishBody(t *testing.T) {
	c := mustComposer(t)
	msg := c.Compose(composerSnapshot(), types.AdviceSet{}, types.LangEnglish)

	if !strings.Contains(msg.Title, "Warangal") {
		t.Errorf("title must carry the district, got %q", msg.Title)
	}
	if !strings.Contains(msg.Body, "31.5°C") {
		t.Errorf("body must carry the current temperature, got %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "21–34°C") {
		t.Errorf("body must carry tomorrow's range, got %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "12.5 mm") {
		t.Errorf("body must carry tomorrow's rainfall, got %q", msg.Body)
	}
}

func TestCompose_UnsupportedLanguageFallsBackToEnglish(t *testing.T) {
	c := mustComposer(t)
	snap := composerSnapshot()
	set := types.AdviceSet{}

	english := c.Compose(snap, set, types.LangEnglish)
	fallback := c.Compose(snap, set, types.LanguageCode("fr"))
	if fallback != english {
		t.Errorf("unsupported language must render identically to English:\nen: %+v\nfr: %+v",
			english, fallback)
	}
}

func TestCompose_SupportedLanguagesRenderLocalized(t *testing.T) {
	c := mustComposer(t)
	snap := composerSnapshot()

	hi := c.Compose(snap, types.AdviceSet{}, types.LangHindi)
	if !strings.Contains(hi.Title, "मौसम") {
		t.Errorf("hindi title not localized: %q", hi.Title)
	}
	if !strings.Contains(hi.Body, "बादल") {
		t.Errorf("hindi condition not localized: %q", hi.Body)
	}

	te := c.Compose(snap, types.AdviceSet{}, types.LangTelugu)
	if !strings.Contains(te.Title, "హెచ్చరిక") {
		t.Errorf("telugu title not localized: %q", te.Title)
	}
}

func TestCompose_RainClauseOmittedWhenZeroOrUnknown(t *testing.T) {
	c := mustComposer(t)

	snap := composerSnapshot()
	snap.Daily[1].RainfallMm = 0
	if body := c.Compose(snap, types.AdviceSet{}, types.LangEnglish).Body; strings.Contains(body, "rain") {
		t.Errorf("zero rainfall must omit the rain clause, got %q", body)
	}

	snap.Daily[1].RainfallMm = types.UnknownValue()
	if body := c.Compose(snap, types.AdviceSet{}, types.LangEnglish).Body; strings.Contains(body, "rain") {
		t.Errorf("unknown rainfall must omit the rain clause, got %q", body)
	}
}

func TestCompose_SingleHighestSeverityHeadline(t *testing.T) {
	c := mustComposer(t)
	set := types.AdviceSet{Items: []types.AdviceItem{
		{
			Horizon: types.HorizonImmediate, Severity: types.SeverityMedium,
			Kind: types.KindAdvisory, MessageKey: advice.KeyHumidityDisease,
			Params: map[string]any{"humidity_pct": 85.0},
		},
		{
			Horizon: types.HorizonImmediate, Severity: types.SeverityHigh,
			Kind: types.KindWarning, MessageKey: advice.KeyStrongWind,
			Params: map[string]any{"wind_kph": 22.0},
		},
		{
			Horizon: types.HorizonShortTerm, Severity: types.SeverityHigh,
			Kind: types.KindWarning, MessageKey: advice.KeyHeavyWeekRain,
			Params: map[string]any{"rainfall_mm": 120.0},
		},
	}}

	body := c.Compose(composerSnapshot(), set, types.LangEnglish).Body
	if !strings.Contains(body, "Strong wind (22 km/h)") {
		t.Errorf("headline must be the highest-severity immediate item, got %q", body)
	}
	if strings.Contains(body, "humidity") || strings.Contains(body, "Heavy rain") {
		t.Errorf("only one advice headline may render, got %q", body)
	}
}

func TestCompose_NoImmediateItemsNoHeadline(t *testing.T) {
	c := mustComposer(t)
	set := types.AdviceSet{Items: []types.AdviceItem{
		{
			Horizon: types.HorizonShortTerm, Severity: types.SeverityHigh,
			Kind: types.KindWarning, MessageKey: advice.KeyHeavyWeekRain,
			Params: map[string]any{"rainfall_mm": 120.0},
		},
	}}

	body := c.Compose(composerSnapshot(), set, types.LangEnglish).Body
	if strings.Contains(body, "Heavy rain") {
		t.Errorf("short-term items never become the headline, got %q", body)
	}
}

func TestCompose_MissingDistrictUsesYourArea(t *testing.T) {
	c := mustComposer(t)
	snap := composerSnapshot()
	snap.Location.District = ""

	title := c.Compose(snap, types.AdviceSet{}, types.LangEnglish).Title
	if !strings.Contains(title, "your area") {
		t.Errorf("empty district must render the generic area phrase, got %q", title)
	}
}

func TestCompose_UnknownReadingsRenderDash(t *testing.T) {
	c := mustComposer(t)
	snap := composerSnapshot()
	snap.Daily[1].TempMaxC = types.UnknownValue()

	body := c.Compose(snap, types.AdviceSet{}, types.LangEnglish).Body
	if !strings.Contains(body, "21––°C") {
		t.Errorf("unknown reading must render as a dash, got %q", body)
	}
}

func TestRender_UnknownKeyFallsBackToRawKey(t *testing.T) {
	c := mustComposer(t)
	if got := c.render(types.LangEnglish, "no_such_key", nil); got != "no_such_key" {
		t.Errorf("got %q, want the raw key", got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{31.0, "31"},
		{31.5, "31.5"},
		{31.55, "31.6"},
		{0, "0"},
		{types.UnknownValue(), "–"},
	}
	for _, tc := range cases {
		if got := formatNumber(tc.in); got != tc.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
