// Package notify implements the outbound notification channel. The
// dispatcher depends only on types.NotificationChannel; this package ships
// the production WhatsApp implementation over the Twilio Messages API.
package notify

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

// Compile-time assertion that TwilioChannel implements NotificationChannel.
var _ types.NotificationChannel = (*TwilioChannel)(nil)

// TwilioChannel sends WhatsApp messages through the Twilio REST API via
// the shared BaseClient resilience layer.
type TwilioChannel struct {
	base       *external.BaseClient
	baseURL    string
	accountSID string
	authToken  string
	from       string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewTwilioChannel creates the production WhatsApp channel.
func NewTwilioChannel(cfg config.ChannelConfig, logger *slog.Logger) *TwilioChannel {
	if logger == nil {
		logger = slog.Default()
	}
	base := external.NewBaseClient(
		&http.Client{Timeout: cfg.Timeout},
		"twilio",
		external.DefaultRetryPolicy(),
		"kisanmitra/1.0",
	)
	return &TwilioChannel{
		base:       base,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

// NewTwilioChannelWithBase creates a TwilioChannel with a caller-provided
// BaseClient, for tests.
func NewTwilioChannelWithBase(base *external.BaseClient, cfg config.ChannelConfig, logger *slog.Logger) *TwilioChannel {
	ch := NewTwilioChannel(cfg, logger)
	ch.base = base
	return ch
}

// twilioResponse is the subset of the Messages API response we read.
type twilioResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"` // error description on failure
}

// Send delivers a composed message to a WhatsApp destination. The title
// and body are joined into a single message; WhatsApp has no separate
// subject line. Failures are mapped to the channel error taxonomy.
func (c *TwilioChannel) Send(ctx context.Context, destination string, msg types.Message, lang types.LanguageCode) (types.SendResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("From", ensureWhatsAppPrefix(c.from))
	form.Set("To", ensureWhatsAppPrefix(destination))
	form.Set("Body", fmt.Sprintf("*%s*\n%s", msg.Title, msg.Body))

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return types.SendResult{}, types.NewAppError(types.ErrCodeInternalUnexpected, "building channel request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.base.Do(req)
	if err != nil {
		return types.SendResult{}, c.mapError(ctx, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var tr twilioResponse
	// Twilio error bodies are JSON too; decode best-effort either way.
	_ = json.Unmarshal(body, &tr)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.SendResult{}, types.NewAppErrorWithDetails(types.ErrCodeChannelSend,
			fmt.Sprintf("channel returned %d", resp.StatusCode), nil,
			map[string]any{"provider_message": tr.Message})
	}

	c.logger.InfoContext(ctx, "whatsapp message accepted",
		"channel_message_id", tr.SID,
		"status", tr.Status,
		"language", string(lang),
	)

	return types.SendResult{Success: true, ChannelMessageID: tr.SID}, nil
}

// mapError translates transport failures into channel AppErrors.
func (c *TwilioChannel) mapError(ctx context.Context, err error) *types.AppError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return types.NewAppError(types.ErrCodeChannelTimeout, "channel send timed out", err)
	}
	var ue *external.UpstreamError
	if errors.As(err, &ue) {
		return types.NewAppError(types.ErrCodeChannelSend, "channel unavailable", err)
	}
	return types.NewAppError(types.ErrCodeChannelSend, "channel send failed", err)
}

// ensureWhatsAppPrefix adds the "whatsapp:" address scheme Twilio expects
// when the configured value carries only the E.164 number.
func ensureWhatsAppPrefix(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
