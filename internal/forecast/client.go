package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kisanmitra/internal/config"
	"kisanmitra/internal/external"
	"kisanmitra/internal/types"
)

// forecastPath is the provider's point-forecast endpoint.
const forecastPath = "/v1/forecast"

// currentVariables and dailyVariables are the reading sets requested from
// the provider. They must stay in sync with the Document field tags.
var (
	currentVariables = []string{
		"temperature_2m", "apparent_temperature", "relative_humidity_2m",
		"wind_speed_10m", "uv_index", "weather_code",
	}
	dailyVariables = []string{
		"temperature_2m_max", "temperature_2m_min", "relative_humidity_2m_mean",
		"precipitation_sum", "wind_speed_10m_max", "uv_index_max", "weather_code",
	}
)

// Client fetches raw forecast documents over HTTP through the shared
// BaseClient resilience layer.
type Client struct {
	base         *external.BaseClient
	baseURL      string
	apiKey       string
	forecastDays int
	timeout      time.Duration
	logger       *slog.Logger
}

// NewClient creates a provider client from the given configuration.
func NewClient(cfg config.ProviderConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	base := external.NewBaseClient(
		&http.Client{Timeout: cfg.Timeout},
		"weather-provider",
		external.DefaultRetryPolicy(),
		"kisanmitra/1.0",
	)
	return &Client{
		base:         base,
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		forecastDays: cfg.ForecastDays,
		timeout:      cfg.Timeout,
		logger:       logger,
	}
}

// NewClientWithBase creates a Client with a caller-provided BaseClient.
// Used by tests to disable retries or inject a fake sleep function.
func NewClientWithBase(base *external.BaseClient, cfg config.ProviderConfig, logger *slog.Logger) *Client {
	c := NewClient(cfg, logger)
	c.base = base
	return c
}

// GetForecast fetches the raw forecast document for a coordinate. Every
// call carries an explicit timeout; failures are mapped onto the provider
// error taxonomy so the dispatcher can record them without inspecting
// transport details.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", strings.Join(currentVariables, ","))
	q.Set("daily", strings.Join(dailyVariables, ","))
	q.Set("forecast_days", fmt.Sprintf("%d", c.forecastDays))
	q.Set("timezone", "UTC")
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+forecastPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "building forecast request", err)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, c.mapError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, types.NewAppErrorWithDetails(types.ErrCodeProviderUnavailable,
			fmt.Sprintf("provider returned %d", resp.StatusCode), nil,
			map[string]any{"body": string(body)})
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, types.NewAppError(types.ErrCodeProviderMalformed, "decoding provider response", err)
	}

	c.logger.DebugContext(ctx, "forecast fetched",
		"latitude", lat,
		"longitude", lon,
		"daily_entries", docDailyLen(&doc),
	)
	return &doc, nil
}

// mapError translates transport-level failures into provider AppErrors.
func (c *Client) mapError(ctx context.Context, err error) *types.AppError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return types.NewAppError(types.ErrCodeProviderTimeout, "forecast request timed out", err)
	}

	var ue *external.UpstreamError
	if errors.As(err, &ue) {
		if ue.RateLimited || ue.BreakerOpen {
			return types.NewAppError(types.ErrCodeProviderRateLimited, "provider rate limited or circuit open", err)
		}
		return types.NewAppError(types.ErrCodeProviderUnavailable, "provider unavailable", err)
	}
	return types.NewAppError(types.ErrCodeProviderUnavailable, "forecast request failed", err)
}

func docDailyLen(doc *Document) int {
	if doc.Daily == nil {
		return 0
	}
	return len(doc.Daily.Time)
}
