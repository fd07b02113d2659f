// Package forecast retrieves raw forecast documents from the weather
// provider and normalizes them into the canonical WeatherSnapshot consumed
// by the advice engine. The advisory core depends only on the snapshot
// shape, never on the provider wire format defined here.
package forecast

// Document is the raw provider response (Open-Meteo style: a current block
// plus parallel daily arrays). Optional readings are pointers/absent slices
// so the formatter can distinguish "missing" from zero.
type Document struct {
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Current   *CurrentBlock `json:"current"`
	Daily     *DailyBlock   `json:"daily"`
	Alerts    []AlertBlock  `json:"alerts,omitempty"`
}

// CurrentBlock holds the point-in-time readings of a Document.
type CurrentBlock struct {
	Time         string   `json:"time"`
	Temperature  *float64 `json:"temperature_2m"`
	FeelsLike    *float64 `json:"apparent_temperature"`
	Humidity     *float64 `json:"relative_humidity_2m"`
	WindSpeedKmh *float64 `json:"wind_speed_10m"`
	UVIndex      *float64 `json:"uv_index"`
	WeatherCode  *int     `json:"weather_code"`
}

// DailyBlock holds the parallel per-day arrays of a Document. All slices
// are indexed by day; index 0 is today.
type DailyBlock struct {
	Time         []string  `json:"time"`
	TempMaxC     []float64 `json:"temperature_2m_max"`
	TempMinC     []float64 `json:"temperature_2m_min"`
	HumidityMean []float64 `json:"relative_humidity_2m_mean"`
	RainfallMm   []float64 `json:"precipitation_sum"`
	WindMaxKmh   []float64 `json:"wind_speed_10m_max"`
	UVIndexMax   []float64 `json:"uv_index_max"`
	WeatherCode  []int     `json:"weather_code"`
}

// AlertBlock is a severe weather alert issued by the provider.
type AlertBlock struct {
	Event       string `json:"event"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
}
