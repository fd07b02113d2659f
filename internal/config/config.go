// Package config defines the service configuration for the kisanmitra
// alert dispatcher. Configuration is loaded once at process start and is
// immutable thereafter; components receive only the subsets they need
// instead of reading ambient environment state.
package config

import "time"

// Config is the top-level configuration struct, populated once during
// process initialization and never modified.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"kisanmitra-dispatcher"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Server   ServerConfig
	Database DatabaseConfig
	Provider ProviderConfig
	Channel  ChannelConfig
	Dispatch DispatchConfig
}

// ServerConfig holds the ops HTTP surface settings.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	// RunToken guards the manual POST /run trigger. Empty disables the
	// endpoint entirely.
	RunToken string `envconfig:"OPS_RUN_TOKEN"`
}

// DatabaseConfig holds alert-history persistence settings. An empty URL
// disables persistence and the dispatcher logs outcomes only.
type DatabaseConfig struct {
	URL      string `envconfig:"DATABASE_URL"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"4"`
}

// ProviderConfig holds weather-provider client settings.
type ProviderConfig struct {
	BaseURL      string        `envconfig:"WEATHER_BASE_URL" default:"https://api.open-meteo.com" validate:"url"`
	APIKey       string        `envconfig:"WEATHER_API_KEY"`
	Timeout      time.Duration `envconfig:"WEATHER_TIMEOUT" default:"10s" validate:"min=1s"`
	ForecastDays int           `envconfig:"WEATHER_FORECAST_DAYS" default:"7" validate:"min=2,max=8"`
}

// ChannelConfig holds notification channel (Twilio WhatsApp) settings.
type ChannelConfig struct {
	AccountSID string        `envconfig:"TWILIO_ACCOUNT_SID" validate:"required"`
	AuthToken  string        `envconfig:"TWILIO_AUTH_TOKEN" validate:"required"`
	FromNumber string        `envconfig:"TWILIO_FROM_NUMBER" validate:"required"`
	BaseURL    string        `envconfig:"TWILIO_BASE_URL" default:"https://api.twilio.com"`
	Timeout    time.Duration `envconfig:"CHANNEL_TIMEOUT" default:"15s" validate:"min=1s"`
}

// DispatchConfig tunes the dispatch run itself.
type DispatchConfig struct {
	// Schedule is a cron expression for the daily advisory run.
	Schedule string `envconfig:"DISPATCH_SCHEDULE" default:"0 6 * * *"`
	// Concurrency bounds the number of recipients processed in parallel.
	Concurrency int `envconfig:"DISPATCH_CONCURRENCY" default:"4" validate:"min=1,max=64"`
	// SendInterval is the minimum spacing between channel sends, shared
	// across workers, to stay under the vendor rate limit. Zero disables
	// the throttle.
	SendInterval time.Duration `envconfig:"DISPATCH_SEND_INTERVAL" default:"1s"`
}
