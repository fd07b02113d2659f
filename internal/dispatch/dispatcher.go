// Package dispatch orchestrates advisory runs: for each subscribed
// recipient it fetches a snapshot, computes advice, classifies severity,
// decides send-or-skip, composes the localized message, and hands it to
// the notification channel, recording one AlertRecord per recipient.
//
// Recipients are processed independently with bounded concurrency. One
// recipient's failure never affects another; the only shared resources are
// the provider quota and the channel rate limit, respected via the
// concurrency bound and the send throttle.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"kisanmitra/internal/advice"
	"kisanmitra/internal/i18n"
	"kisanmitra/internal/types"
)

// MetricsRecorder receives dispatch telemetry. The observability package
// provides the Prometheus implementation; a nil recorder disables metrics.
type MetricsRecorder interface {
	RecordOutcome(decision types.Decision)
	RecordRun(duration time.Duration, recipients int)
}

// Config holds the dependencies and tuning for a Dispatcher.
type Config struct {
	Snapshots types.SnapshotSource
	Channel   types.NotificationChannel
	Composer  *i18n.Composer
	Store     types.AlertRecordStore // optional; nil disables persistence
	Metrics   MetricsRecorder        // optional
	Clock     types.Clock
	Logger    *slog.Logger

	// Concurrency bounds parallel recipient processing. Values < 1 mean 1.
	Concurrency int
	// SendInterval is the minimum spacing between channel sends across all
	// workers. Zero disables the throttle.
	SendInterval time.Duration
}

// Dispatcher runs advisory dispatches. It holds no per-run state; a single
// Dispatcher is safe for use by the cron schedule and the manual trigger.
type Dispatcher struct {
	snapshots    types.SnapshotSource
	channel      types.NotificationChannel
	composer     *i18n.Composer
	store        types.AlertRecordStore
	metrics      MetricsRecorder
	clock        types.Clock
	logger       *slog.Logger
	concurrency  int
	sendInterval time.Duration

	throttleMu sync.Mutex
	nextSendAt time.Time
}

// NewDispatcher creates a Dispatcher from the given configuration.
func NewDispatcher(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{
		snapshots:    cfg.Snapshots,
		channel:      cfg.Channel,
		composer:     cfg.Composer,
		store:        cfg.Store,
		metrics:      cfg.Metrics,
		clock:        clock,
		logger:       logger,
		concurrency:  concurrency,
		sendInterval: cfg.SendInterval,
	}
}

// RunResult summarizes one dispatch run.
type RunResult struct {
	RunID      string
	Records    []types.AlertRecord
	Sent       int
	Skipped    int
	Failed     int
	Elapsed    time.Duration
	Incomplete bool // true when cancellation stopped the run early
}

// DispatchTo processes every recipient and returns their AlertRecords.
//
// Cancellation is cooperative: once ctx is done no new recipient is
// started, but a send already in flight completes (abandoning it mid-send
// would leave delivery state ambiguous). Recipients never started produce
// no record and the result is marked incomplete.
func (d *Dispatcher) DispatchTo(ctx context.Context, recipients []types.Recipient) RunResult {
	runID := uuid.New().String()
	started := d.clock.Now()

	d.logger.InfoContext(ctx, "dispatch run starting",
		"run_id", runID,
		"recipients", len(recipients),
	)

	records := make([]*types.AlertRecord, len(recipients))
	var incomplete bool

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i, rcpt := range recipients {
		if gCtx.Err() != nil {
			incomplete = true
			break
		}
		g.Go(func() error {
			rec := d.processRecipient(gCtx, runID, rcpt)
			records[i] = rec
			d.record(gCtx, rec)
			// Recipient failures are recorded, never propagated: returning
			// an error here would cancel the sibling goroutines.
			return nil
		})
	}
	_ = g.Wait()

	result := RunResult{RunID: runID, Incomplete: incomplete}
	for _, rec := range records {
		if rec == nil {
			result.Incomplete = true
			continue
		}
		result.Records = append(result.Records, *rec)
		switch rec.Decision {
		case types.DecisionSent:
			result.Sent++
		case types.DecisionFailed:
			result.Failed++
		default:
			result.Skipped++
		}
	}
	result.Elapsed = d.clock.Now().Sub(started)

	if d.metrics != nil {
		d.metrics.RecordRun(result.Elapsed, len(result.Records))
	}

	d.logger.InfoContext(ctx, "dispatch run complete",
		"run_id", runID,
		"sent", result.Sent,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"elapsed", result.Elapsed.String(),
		"incomplete", result.Incomplete,
	)

	return result
}

// processRecipient walks one recipient through the state machine:
// pending -> snapshot-fetched -> advice-computed -> (skipped | sent | failed).
// It always returns a terminal AlertRecord and never panics the run.
func (d *Dispatcher) processRecipient(ctx context.Context, runID string, rcpt types.Recipient) *types.AlertRecord {
	rec := &types.AlertRecord{
		ID:           uuid.New().String(),
		RunID:        runID,
		RecipientID:  rcpt.ID,
		Language:     rcpt.PreferredLanguage,
		TimestampUTC: d.clock.Now(),
	}

	snap, err := d.snapshots.Snapshot(ctx, rcpt.Location)
	if err != nil {
		d.logger.WarnContext(ctx, "snapshot fetch failed",
			"run_id", runID,
			"recipient_id", rcpt.ID,
			"error", err,
		)
		rec.Decision = types.DecisionFailed
		rec.FailureReason = types.FailureProviderError
		return rec
	}
	rec.Snapshot = snap

	set := advice.ComputeAdvice(snap, rcpt.CropTypes)
	rec.Advice = set
	rec.Tier = advice.Classify(set)

	if !advice.ShouldNotify(rec.Tier, snap) {
		rec.Decision = types.DecisionSkippedLowSeverity
		return rec
	}

	if rcpt.Destination == "" {
		rec.Decision = types.DecisionSkippedNoChannel
		return rec
	}

	msg := d.composer.Compose(snap, set, rcpt.PreferredLanguage)
	rec.Composed = &msg

	d.waitForSendSlot(ctx)

	// The send runs on a detached context so an in-flight delivery is not
	// torn down by run cancellation; the channel's own timeout still
	// bounds it.
	sendCtx := context.WithoutCancel(ctx)
	res, err := d.channel.Send(sendCtx, rcpt.Destination, msg, rcpt.PreferredLanguage)
	if err != nil {
		d.logger.WarnContext(ctx, "channel send failed",
			"run_id", runID,
			"recipient_id", rcpt.ID,
			"error", err,
		)
		rec.Decision = types.DecisionFailed
		rec.FailureReason = types.FailureChannelError
		return rec
	}

	rec.Decision = types.DecisionSent
	rec.ChannelMsgID = res.ChannelMessageID
	return rec
}

// waitForSendSlot enforces the minimum spacing between channel sends.
// Slots are handed out in reservation order; a cancelled context releases
// the waiter immediately (the subsequent send still completes on its
// detached context).
func (d *Dispatcher) waitForSendSlot(ctx context.Context) {
	if d.sendInterval <= 0 {
		return
	}

	d.throttleMu.Lock()
	now := time.Now()
	wait := d.nextSendAt.Sub(now)
	if wait < 0 {
		wait = 0
	}
	d.nextSendAt = now.Add(wait + d.sendInterval)
	d.throttleMu.Unlock()

	if wait == 0 {
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// record persists the AlertRecord and updates metrics. Persistence
// failures are logged, not propagated: the outcome already happened.
func (d *Dispatcher) record(ctx context.Context, rec *types.AlertRecord) {
	if d.metrics != nil {
		d.metrics.RecordOutcome(rec.Decision)
	}
	if d.store == nil {
		return
	}
	if err := d.store.Insert(context.WithoutCancel(ctx), rec); err != nil {
		d.logger.ErrorContext(ctx, "failed to persist alert record",
			"record_id", rec.ID,
			"recipient_id", rec.RecipientID,
			"error", err,
		)
	}
}
