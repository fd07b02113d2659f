package db

import (
	"context"
	"encoding/json"

	"kisanmitra/internal/types"
)

// Compile-time assertion that AlertStore implements types.AlertRecordStore.
var _ types.AlertRecordStore = (*AlertStore)(nil)

// AlertStore persists one row per recipient per dispatch run into the
// alert_records table. Rows are insert-only; a record is never updated
// after its run produced it.
//
// Schema:
//
//	CREATE TABLE alert_records (
//	    id             UUID PRIMARY KEY,
//	    run_id         UUID NOT NULL,
//	    recipient_id   TEXT NOT NULL,
//	    decision       TEXT NOT NULL,
//	    failure_reason TEXT,
//	    tier           TEXT,
//	    language       TEXT,
//	    advice         JSONB,
//	    composed       JSONB,
//	    channel_msg_id TEXT,
//	    created_at     TIMESTAMPTZ NOT NULL
//	);
type AlertStore struct {
	db DBTX
}

// NewAlertStore creates an AlertStore backed by the given connection.
func NewAlertStore(db DBTX) *AlertStore {
	return &AlertStore{db: db}
}

// Insert writes a terminal AlertRecord. The inline snapshot is not
// persisted; the advice set and composed message are stored as JSONB for
// operational diagnosis.
func (s *AlertStore) Insert(ctx context.Context, rec *types.AlertRecord) error {
	adviceJSON, err := json.Marshal(rec.Advice)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "marshaling advice set", err)
	}

	var composedJSON []byte
	if rec.Composed != nil {
		composedJSON, err = json.Marshal(rec.Composed)
		if err != nil {
			return types.NewAppError(types.ErrCodeInternalDB, "marshaling composed message", err)
		}
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO alert_records
		 (id, run_id, recipient_id, decision, failure_reason, tier, language,
		  advice, composed, channel_msg_id, created_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''), $11)`,
		rec.ID,
		rec.RunID,
		rec.RecipientID,
		string(rec.Decision),
		string(rec.FailureReason),
		string(rec.Tier),
		string(rec.Language),
		adviceJSON,
		composedJSON,
		rec.ChannelMsgID,
		rec.TimestampUTC,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "inserting alert record", err)
	}
	return nil
}

// ListByRun returns the records of one dispatch run, oldest first. Used by
// the ops surface for run inspection.
func (s *AlertStore) ListByRun(ctx context.Context, runID string) ([]types.AlertRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, run_id, recipient_id, decision, COALESCE(failure_reason, ''),
		        tier, language, advice, composed, COALESCE(channel_msg_id, ''), created_at
		 FROM alert_records
		 WHERE run_id = $1
		 ORDER BY created_at ASC`,
		runID,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "querying alert records", err)
	}
	defer rows.Close()

	var out []types.AlertRecord
	for rows.Next() {
		var rec types.AlertRecord
		var adviceJSON, composedJSON []byte
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.RecipientID, &rec.Decision, &rec.FailureReason,
			&rec.Tier, &rec.Language, &adviceJSON, &composedJSON, &rec.ChannelMsgID,
			&rec.TimestampUTC,
		); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "scanning alert record", err)
		}
		if len(adviceJSON) > 0 {
			if err := json.Unmarshal(adviceJSON, &rec.Advice); err != nil {
				return nil, types.NewAppError(types.ErrCodeInternalDB, "unmarshaling advice set", err)
			}
		}
		if len(composedJSON) > 0 {
			var msg types.Message
			if err := json.Unmarshal(composedJSON, &msg); err != nil {
				return nil, types.NewAppError(types.ErrCodeInternalDB, "unmarshaling composed message", err)
			}
			rec.Composed = &msg
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "iterating alert records", err)
	}
	return out, nil
}
