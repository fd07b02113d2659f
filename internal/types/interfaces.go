package types

import (
	"context"
	"time"
)

// SnapshotSource produces a normalized WeatherSnapshot for a location.
// The production implementation fetches from the weather provider and runs
// the formatter; tests substitute fixtures.
type SnapshotSource interface {
	Snapshot(ctx context.Context, loc Location) (*WeatherSnapshot, error)
}

// NotificationChannel is the abstract outbound transport (WhatsApp, SMS,
// push). The dispatcher never sees vendor specifics.
type NotificationChannel interface {
	// Send delivers a composed message to the destination address.
	// Implementations must honor ctx cancellation and deadlines.
	Send(ctx context.Context, destination string, msg Message, lang LanguageCode) (SendResult, error)
}

// RecipientSource supplies the subscribed recipients for a dispatch run.
// Opt-in/opt-out filtering is this collaborator's responsibility.
type RecipientSource interface {
	Active(ctx context.Context) ([]Recipient, error)
}

// AlertRecordStore persists dispatch outcomes for operational diagnosis.
// Records are insert-only.
type AlertRecordStore interface {
	Insert(ctx context.Context, rec *AlertRecord) error
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }
