// Package types defines the canonical domain model for the kisanmitra
// weather-advisory service: normalized forecast snapshots, rule-generated
// advice, dispatch records, and the shared interfaces between the advisory
// core and its collaborators.
package types

import (
	"fmt"
	"math"
	"time"
)

// UnknownValue is the sentinel for optional numeric readings the provider
// did not supply (e.g. UV index). Rules treat unknown as "skip", never as
// zero.
func UnknownValue() float64 { return math.NaN() }

// IsUnknown reports whether a reading carries the unknown sentinel.
func IsUnknown(v float64) bool { return math.IsNaN(v) }

// Location is a geographic point, optionally tagged with a district name.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	District  string  `json:"district,omitempty"`
}

// CurrentConditions holds the point-in-time weather readings of a snapshot.
type CurrentConditions struct {
	TemperatureC float64   `json:"temperature_c"`
	FeelsLikeC   float64   `json:"feels_like_c"`
	HumidityPct  float64   `json:"humidity_percent"`
	WindSpeedKph float64   `json:"wind_speed_kph"`
	UVIndex      float64   `json:"uv_index"` // UnknownValue when absent
	Condition    string    `json:"condition"`
	TimestampUTC time.Time `json:"timestamp_utc"`
}

// DayForecast is a single entry in the daily forecast sequence.
// Index 0 of WeatherSnapshot.Daily is today.
type DayForecast struct {
	Date         time.Time `json:"date"`
	TempMinC     float64   `json:"temp_min_c"`
	TempMaxC     float64   `json:"temp_max_c"`
	HumidityPct  float64   `json:"humidity_percent"`
	RainfallMm   float64   `json:"rainfall_mm"`
	WindSpeedKph float64   `json:"wind_speed_kph"`
	UVIndex      float64   `json:"uv_index"`
	Condition    string    `json:"condition"`
}

// ProviderAlert is a pass-through severe weather alert issued by the
// upstream provider. The advisory core never generates these locally.
type ProviderAlert struct {
	Event       string    `json:"event"`
	StartUTC    time.Time `json:"start_utc"`
	EndUTC      time.Time `json:"end_utc"`
	Description string    `json:"description"`
}

// WeatherSnapshot is a normalized forecast read, decoupled from any
// provider wire format. It is constructed once per advisory request and
// immutable afterwards.
type WeatherSnapshot struct {
	Location       Location          `json:"location"`
	Current        CurrentConditions `json:"current"`
	Daily          []DayForecast     `json:"daily"`
	ProviderAlerts []ProviderAlert   `json:"provider_alerts,omitempty"`
}

// Validate checks the structural invariants of a snapshot: at least two
// daily entries (today + tomorrow), ascending dates with no gaps, and a
// current timestamp no later than today's forecast date.
func (s *WeatherSnapshot) Validate() error {
	if len(s.Daily) < 2 {
		return fmt.Errorf("snapshot requires at least 2 daily entries, got %d", len(s.Daily))
	}
	for i := 1; i < len(s.Daily); i++ {
		gap := s.Daily[i].Date.Sub(s.Daily[i-1].Date)
		if gap != 24*time.Hour {
			return fmt.Errorf("daily entries must be consecutive days: entry %d is %s after entry %d", i, gap, i-1)
		}
	}
	today := s.Daily[0].Date
	if s.Current.TimestampUTC.After(today.Add(24*time.Hour - time.Nanosecond)) {
		return fmt.Errorf("current timestamp %s is past the first forecast day %s",
			s.Current.TimestampUTC.Format(time.RFC3339), today.Format(time.RFC3339))
	}
	return nil
}

// Tomorrow returns the next-day forecast entry. Validate guarantees it
// exists on any snapshot accepted by the pipeline.
func (s *WeatherSnapshot) Tomorrow() DayForecast {
	return s.Daily[1]
}

// AdviceItem is one atomic, rule-generated farming recommendation.
// Message text is a template key plus parameters so localization happens
// at composition time, not at rule evaluation time.
type AdviceItem struct {
	Horizon    Horizon        `json:"horizon"`
	Severity   Severity       `json:"severity"`
	Kind       AdviceKind     `json:"kind"`
	MessageKey string         `json:"message_key"`
	Params     map[string]any `json:"params,omitempty"`
}

// AdviceSet is the ordered output of a rule evaluation pass. Order equals
// rule evaluation order, which keeps output stable for identical inputs.
type AdviceSet struct {
	Items []AdviceItem `json:"items"`
}

// ByHorizon returns the items matching the given horizon, preserving
// generation order.
func (a AdviceSet) ByHorizon(h Horizon) []AdviceItem {
	var out []AdviceItem
	for _, item := range a.Items {
		if item.Horizon == h {
			out = append(out, item)
		}
	}
	return out
}

// OverallSeverity is the maximum severity across immediate and short-term
// items. Long-term items are informational and never elevate it. An empty
// set reports low.
func (a AdviceSet) OverallSeverity() Severity {
	overall := SeverityLow
	for _, item := range a.Items {
		if item.Horizon == HorizonLongTerm {
			continue
		}
		overall = MaxSeverity(overall, item.Severity)
	}
	return overall
}

// Recipient is one subscribed farmer as supplied by the recipient source.
// Opt-in filtering happens upstream; the dispatcher processes every
// recipient it is handed.
type Recipient struct {
	ID                   string       `json:"id" validate:"required"`
	Location             Location     `json:"location"`
	PreferredLanguage    LanguageCode `json:"preferred_language"`
	CropTypes            []string     `json:"crop_types,omitempty"`
	Destination          string       `json:"destination"` // channel address, e.g. whatsapp:+91...
	NotificationsEnabled bool         `json:"notifications_enabled"`
}

// Message is a composed, localized alert ready for the notification channel.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SendResult is the channel's acknowledgement of a delivery attempt.
type SendResult struct {
	Success          bool   `json:"success"`
	ChannelMessageID string `json:"channel_message_id,omitempty"`
}

// AlertRecord captures the outcome for one recipient in one dispatch run.
// It is created by the recipient's own processing task and never mutated
// afterwards; no two tasks share a record.
type AlertRecord struct {
	ID            string           `json:"id"`
	RunID         string           `json:"run_id"`
	RecipientID   string           `json:"recipient_id"`
	Snapshot      *WeatherSnapshot `json:"snapshot,omitempty"`
	Advice        AdviceSet        `json:"advice"`
	Tier          SeverityTier     `json:"tier"`
	Language      LanguageCode     `json:"language"`
	Composed      *Message         `json:"composed,omitempty"`
	Decision      Decision         `json:"decision"`
	FailureReason FailureReason    `json:"failure_reason,omitempty"`
	ChannelMsgID  string           `json:"channel_message_id,omitempty"`
	TimestampUTC  time.Time        `json:"timestamp_utc"`
}
