// Package i18n renders advice sets and snapshots into localized alert
// messages. Template catalogs are plain data validated at startup: a
// missing translation for a supported language is a fatal configuration
// error, never a silent runtime fallback. Fallback to English happens only
// for genuinely unsupported language codes.
package i18n

import (
	"fmt"

	"kisanmitra/internal/advice"
	"kisanmitra/internal/types"
)

// Frame keys used by the composer itself, in addition to the advice
// message keys produced by the rule engine.
const (
	keyTitle        = "frame_title"
	keyCurrentLine  = "frame_current"
	keyTomorrowLine = "frame_tomorrow"
	keyRainClause   = "frame_rain"
	keyYourArea     = "frame_your_area"
)

// Catalog maps language -> message key -> text/template string.
type Catalog map[types.LanguageCode]map[string]string

// requiredKeys is the full key set every supported language must cover.
func requiredKeys() []string {
	keys := []string{
		keyTitle, keyCurrentLine, keyTomorrowLine, keyRainClause, keyYourArea,
		advice.KeyHighTemperature, advice.KeyLowTemperature,
		advice.KeyHumidityDisease, advice.KeyDryAir,
		advice.KeyStrongWind,
		advice.KeyHeavyWeekRain, advice.KeyLowWeekRain,
		advice.KeyHighUV,
	}
	return append(keys, advice.CropMessageKeys()...)
}

// Validate checks that every supported language has an entry for every
// required message key. Called once at startup; a gap here would otherwise
// surface as a degraded alert for a real farmer.
func (c Catalog) Validate() error {
	for _, lang := range types.SupportedLanguages() {
		table, ok := c[lang]
		if !ok {
			return types.NewAppError(types.ErrCodeMissingTranslation,
				fmt.Sprintf("catalog has no table for supported language %q", lang), nil)
		}
		for _, key := range requiredKeys() {
			if _, found := table[key]; !found {
				return types.NewAppError(types.ErrCodeMissingTranslation,
					fmt.Sprintf("catalog for %q is missing key %q", lang, key), nil)
			}
		}
	}
	return nil
}

// DefaultCatalog returns the built-in en/hi/te catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		types.LangEnglish: {
			keyTitle:        "Farm weather alert for {{.district}}",
			keyCurrentLine:  "Now: {{.temperature}}°C, {{.condition}}.",
			keyTomorrowLine: "Tomorrow: {{.temp_min}}–{{.temp_max}}°C.",
			keyRainClause:   "Expected rain tomorrow: {{.rainfall}} mm.",
			keyYourArea:     "your area",

			advice.KeyHighTemperature: "High temperature ({{.temperature_c}}°C): irrigate in the evening and provide shade for young plants.",
			advice.KeyLowTemperature:  "Low temperature ({{.temperature_c}}°C): protect crops from frost; cover seedlings overnight.",
			advice.KeyHumidityDisease: "High humidity ({{.humidity_pct}}%): watch for fungal disease; avoid evening irrigation.",
			advice.KeyDryAir:          "Dry air ({{.humidity_pct}}% humidity): increase irrigation frequency.",
			advice.KeyStrongWind:      "Strong wind ({{.wind_kph}} km/h): secure structures and protect seedlings.",
			advice.KeyHeavyWeekRain:   "Heavy rain expected this week ({{.rainfall_mm}} mm): check field drainage and delay harvest.",
			advice.KeyLowWeekRain:     "Little rain expected this week ({{.rainfall_mm}} mm): plan irrigation.",
			advice.KeyHighUV:          "Very high UV ({{.uv_index}}): use shade nets and avoid midday field work.",

			advice.KeyRiceStandingWater: "Rice: maintain standing water; schedule irrigation for the dry week ahead.",
			advice.KeyRiceDrainage:      "Rice: clear paddy drainage channels before the heavy rain.",
			advice.KeyWheatRustRisk:     "Wheat: humid conditions favor rust; scout leaves and ventilate stores.",
			advice.KeyWheatHeatFilling:  "Wheat: heat during grain filling; irrigate lightly in the evening.",
			advice.KeyCottonHeatStress:  "Cotton: heat stress likely; mulch rows and irrigate.",
			advice.KeyCottonBollRot:     "Cotton: prolonged wet spell raises boll rot risk; improve drainage.",
			advice.KeyTomatoFrostCover:  "Tomato: frost risk tomorrow night; cover rows.",
			advice.KeyTomatoBlightRisk:  "Tomato: humid weather favors blight; apply preventive spray.",
		},
		types.LangHindi: {
			keyTitle:        "{{.district}} के लिए खेती मौसम चेतावनी",
			keyCurrentLine:  "अभी: {{.temperature}}°C, {{.condition}}।",
			keyTomorrowLine: "कल: {{.temp_min}}–{{.temp_max}}°C।",
			keyRainClause:   "कल वर्षा की संभावना: {{.rainfall}} मिमी।",
			keyYourArea:     "आपके क्षेत्र",

			advice.KeyHighTemperature: "अधिक तापमान ({{.temperature_c}}°C): शाम को सिंचाई करें और पौधों को छाया दें।",
			advice.KeyLowTemperature:  "कम तापमान ({{.temperature_c}}°C): फसलों को पाले से बचाएं; रात में पौध ढकें।",
			advice.KeyHumidityDisease: "अधिक नमी ({{.humidity_pct}}%): फफूंद रोग का खतरा; शाम की सिंचाई न करें।",
			advice.KeyDryAir:          "शुष्क हवा ({{.humidity_pct}}% नमी): सिंचाई की आवृत्ति बढ़ाएं।",
			advice.KeyStrongWind:      "तेज हवा ({{.wind_kph}} किमी/घंटा): ढांचे मजबूत करें और पौध बचाएं।",
			advice.KeyHeavyWeekRain:   "इस सप्ताह भारी वर्षा ({{.rainfall_mm}} मिमी): जल निकासी जांचें, कटाई टालें।",
			advice.KeyLowWeekRain:     "इस सप्ताह कम वर्षा ({{.rainfall_mm}} मिमी): सिंचाई की योजना बनाएं।",
			advice.KeyHighUV:          "बहुत अधिक यूवी ({{.uv_index}}): छाया जाल लगाएं, दोपहर का काम टालें।",

			advice.KeyRiceStandingWater: "धान: खेत में पानी बनाए रखें; सूखे सप्ताह के लिए सिंचाई तय करें।",
			advice.KeyRiceDrainage:      "धान: भारी वर्षा से पहले जल निकासी नालियां साफ करें।",
			advice.KeyWheatRustRisk:     "गेहूं: नमी से रतुआ का खतरा; पत्तियों की जांच करें।",
			advice.KeyWheatHeatFilling:  "गेहूं: दाना भरते समय गर्मी; शाम को हल्की सिंचाई करें।",
			advice.KeyCottonHeatStress:  "कपास: गर्मी का तनाव संभव; पलवार करें और सिंचाई करें।",
			advice.KeyCottonBollRot:     "कपास: लंबी नमी से घेटा सड़न का खतरा; निकासी सुधारें।",
			advice.KeyTomatoFrostCover:  "टमाटर: कल रात पाले का खतरा; क्यारियां ढकें।",
			advice.KeyTomatoBlightRisk:  "टमाटर: नम मौसम से झुलसा का खतरा; बचाव छिड़काव करें।",
		},
		types.LangTelugu: {
			keyTitle:        "{{.district}} కోసం వ్యవసాయ వాతావరణ హెచ్చరిక",
			keyCurrentLine:  "ఇప్పుడు: {{.temperature}}°C, {{.condition}}.",
			keyTomorrowLine: "రేపు: {{.temp_min}}–{{.temp_max}}°C.",
			keyRainClause:   "రేపు వర్షం అంచనా: {{.rainfall}} మి.మీ.",
			keyYourArea:     "మీ ప్రాంతం",

			advice.KeyHighTemperature: "అధిక ఉష్ణోగ్రత ({{.temperature_c}}°C): సాయంత్రం నీరు పెట్టండి, మొక్కలకు నీడ ఇవ్వండి.",
			advice.KeyLowTemperature:  "తక్కువ ఉష్ణోగ్రత ({{.temperature_c}}°C): మంచు నుండి పంటలను కాపాడండి; రాత్రి నారు కప్పండి.",
			advice.KeyHumidityDisease: "అధిక తేమ ({{.humidity_pct}}%): శిలీంధ్ర వ్యాధుల ప్రమాదం; సాయంత్రం నీరు పెట్టవద్దు.",
			advice.KeyDryAir:          "పొడి గాలి ({{.humidity_pct}}% తేమ): నీటి తడుల సంఖ్య పెంచండి.",
			advice.KeyStrongWind:      "బలమైన గాలి ({{.wind_kph}} కి.మీ/గం): నిర్మాణాలను భద్రం చేయండి, నారును కాపాడండి.",
			advice.KeyHeavyWeekRain:   "ఈ వారం భారీ వర్షం ({{.rainfall_mm}} మి.మీ): కాలువలు సరిచూడండి, కోత వాయిదా వేయండి.",
			advice.KeyLowWeekRain:     "ఈ వారం తక్కువ వర్షం ({{.rainfall_mm}} మి.మీ): నీటి తడులు ప్రణాళిక చేయండి.",
			advice.KeyHighUV:          "చాలా అధిక UV ({{.uv_index}}): నీడ వలలు వాడండి, మధ్యాహ్న పని మానండి.",

			advice.KeyRiceStandingWater: "వరి: పొలంలో నీరు నిలిపి ఉంచండి; పొడి వారానికి తడులు ప్రణాళిక చేయండి.",
			advice.KeyRiceDrainage:      "వరి: భారీ వర్షానికి ముందు కాలువలు శుభ్రం చేయండి.",
			advice.KeyWheatRustRisk:     "గోధుమ: తేమతో తుప్పు తెగులు ప్రమాదం; ఆకులను పరిశీలించండి.",
			advice.KeyWheatHeatFilling:  "గోధుమ: గింజ కట్టే సమయంలో వేడి; సాయంత్రం తేలిక తడి ఇవ్వండి.",
			advice.KeyCottonHeatStress:  "పత్తి: వేడి ఒత్తిడి అవకాశం; మల్చింగ్ చేసి నీరు పెట్టండి.",
			advice.KeyCottonBollRot:     "పత్తి: సుదీర్ఘ తేమతో కాయ కుళ్లు ప్రమాదం; మురుగు నీటి పారుదల మెరుగుపరచండి.",
			advice.KeyTomatoFrostCover:  "టమాటా: రేపు రాత్రి మంచు ప్రమాదం; మొక్కలను కప్పండి.",
			advice.KeyTomatoBlightRisk:  "టమాటా: తేమ వాతావరణంతో ఎండు తెగులు ప్రమాదం; ముందుజాగ్రత్త పిచికారీ చేయండి.",
		},
	}
}

// conditionNames localizes the coarse condition strings produced by the
// formatter. Unmapped conditions render as-is.
var conditionNames = map[types.LanguageCode]map[string]string{
	types.LangHindi: {
		"clear":        "साफ आसमान",
		"cloudy":       "बादल",
		"fog":          "कोहरा",
		"drizzle":      "बूंदाबांदी",
		"rain":         "वर्षा",
		"snow":         "बर्फ",
		"thunderstorm": "आंधी-तूफान",
	},
	types.LangTelugu: {
		"clear":        "నిర్మలమైన ఆకాశం",
		"cloudy":       "మేఘావృతం",
		"fog":          "పొగమంచు",
		"drizzle":      "జల్లులు",
		"rain":         "వర్షం",
		"snow":         "మంచు",
		"thunderstorm": "ఉరుములతో వర్షం",
	},
}

// localizeCondition returns the localized condition name, falling back to
// the raw condition string.
func localizeCondition(lang types.LanguageCode, condition string) string {
	if table, ok := conditionNames[lang]; ok {
		if name, found := table[condition]; found {
			return name
		}
	}
	return condition
}
