package db

import (
	"context"

	"kisanmitra/internal/types"
)

// Compile-time assertion that RecipientStore implements types.RecipientSource.
var _ types.RecipientSource = (*RecipientStore)(nil)

// RecipientStore reads subscribed recipients from the recipients table.
// Opt-out filtering happens here, before the dispatcher ever sees the
// list: the dispatcher itself filters nothing.
//
// Schema:
//
//	CREATE TABLE recipients (
//	    id                    TEXT PRIMARY KEY,
//	    latitude              DOUBLE PRECISION NOT NULL,
//	    longitude             DOUBLE PRECISION NOT NULL,
//	    district              TEXT NOT NULL DEFAULT '',
//	    preferred_language    TEXT NOT NULL DEFAULT 'en',
//	    crop_types            TEXT[] NOT NULL DEFAULT '{}',
//	    destination           TEXT NOT NULL DEFAULT '',
//	    notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE
//	);
type RecipientStore struct {
	db DBTX
}

// NewRecipientStore creates a RecipientStore backed by the given connection.
func NewRecipientStore(db DBTX) *RecipientStore {
	return &RecipientStore{db: db}
}

// Active returns all recipients with notifications enabled.
func (s *RecipientStore) Active(ctx context.Context) ([]types.Recipient, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, latitude, longitude, district, preferred_language,
		        crop_types, destination, notifications_enabled
		 FROM recipients
		 WHERE notifications_enabled
		 ORDER BY id`,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "querying recipients", err)
	}
	defer rows.Close()

	var out []types.Recipient
	for rows.Next() {
		var r types.Recipient
		var lang string
		if err := rows.Scan(
			&r.ID, &r.Location.Latitude, &r.Location.Longitude, &r.Location.District,
			&lang, &r.CropTypes, &r.Destination, &r.NotificationsEnabled,
		); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "scanning recipient", err)
		}
		r.PreferredLanguage = types.LanguageCode(lang)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "iterating recipients", err)
	}
	return out, nil
}
