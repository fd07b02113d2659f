package i18n

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/template"

	"kisanmitra/internal/types"
)

// Composer renders snapshots and advice sets into localized messages.
// Compose never fails: composition falls back toward English and finally
// to raw keys rather than dropping an alert over a rendering problem.
type Composer struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewComposer validates the catalog and returns a Composer. Catalog gaps
// for supported languages are startup errors.
func NewComposer(catalog Catalog, logger *slog.Logger) (*Composer, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{catalog: catalog, logger: logger}, nil
}

// Compose renders the alert for one recipient language.
//
// The body carries, in order: current temperature and condition, tomorrow's
// min/max, tomorrow's expected rainfall (clause omitted when zero or
// unknown), and the single highest-severity immediate advice item. Only one
// advice headline is rendered even when several rules fired; surfacing one
// actionable tip per alert is deliberate.
//
// Unsupported language codes fall back to English silently.
func (c *Composer) Compose(snap *types.WeatherSnapshot, set types.AdviceSet, lang types.LanguageCode) types.Message {
	if !lang.Supported() {
		lang = types.LangEnglish
	}

	district := snap.Location.District
	if district == "" {
		district = c.render(lang, keyYourArea, nil)
	}

	title := c.render(lang, keyTitle, map[string]any{"district": district})

	var lines []string
	lines = append(lines, c.render(lang, keyCurrentLine, map[string]any{
		"temperature": formatNumber(snap.Current.TemperatureC),
		"condition":   localizeCondition(lang, snap.Current.Condition),
	}))

	tmrw := snap.Tomorrow()
	lines = append(lines, c.render(lang, keyTomorrowLine, map[string]any{
		"temp_min": formatNumber(tmrw.TempMinC),
		"temp_max": formatNumber(tmrw.TempMaxC),
	}))

	if !types.IsUnknown(tmrw.RainfallMm) && tmrw.RainfallMm > 0 {
		lines = append(lines, c.render(lang, keyRainClause, map[string]any{
			"rainfall": formatNumber(tmrw.RainfallMm),
		}))
	}

	if headline, ok := headlineItem(set); ok {
		lines = append(lines, c.render(lang, headline.MessageKey, formatParams(headline.Params)))
	}

	return types.Message{
		Title: title,
		Body:  strings.Join(lines, "\n"),
	}
}

// headlineItem selects the advice item surfaced in the alert body: the
// first immediate item carrying the highest severity among immediate items.
func headlineItem(set types.AdviceSet) (types.AdviceItem, bool) {
	immediate := set.ByHorizon(types.HorizonImmediate)
	if len(immediate) == 0 {
		return types.AdviceItem{}, false
	}
	best := immediate[0]
	for _, item := range immediate[1:] {
		if item.Severity.Rank() > best.Severity.Rank() {
			best = item
		}
	}
	return best, true
}

// render executes the catalog template for (lang, key). On a missing entry
// or template error it retries with English, then falls back to the raw
// key so a message is always produced.
func (c *Composer) render(lang types.LanguageCode, key string, params map[string]any) string {
	if out, err := c.tryRender(lang, key, params); err == nil {
		return out
	} else if lang != types.LangEnglish {
		c.logger.Warn("template render failed, falling back to english",
			"language", string(lang),
			"key", key,
			"error", err,
		)
		if out, err := c.tryRender(types.LangEnglish, key, params); err == nil {
			return out
		}
	}
	return key
}

func (c *Composer) tryRender(lang types.LanguageCode, key string, params map[string]any) (string, error) {
	table, ok := c.catalog[lang]
	if !ok {
		return "", fmt.Errorf("no catalog for language %q", lang)
	}
	raw, found := table[key]
	if !found {
		return "", fmt.Errorf("no entry for key %q in language %q", key, lang)
	}

	tmpl, err := template.New(key).Option("missingkey=zero").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", key, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, params); err != nil {
		return "", fmt.Errorf("executing template %q: %w", key, err)
	}
	return sb.String(), nil
}

// formatParams pre-formats numeric advice params so templates interpolate
// clean strings instead of raw float64 values.
func formatParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		if f, ok := v.(float64); ok {
			out[k] = formatNumber(f)
			continue
		}
		out[k] = v
	}
	return out
}

// formatNumber renders a reading with at most one decimal place, trimming
// a trailing ".0".
func formatNumber(v float64) string {
	if types.IsUnknown(v) {
		return "–"
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}
