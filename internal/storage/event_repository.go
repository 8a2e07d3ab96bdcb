package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EventRecord is one row of the event audit log. LockState and
// BatteryTier are nil when the event does not carry that field.
type EventRecord struct {
	ID          int64     `json:"id"`
	Tag         byte      `json:"tag"`
	Name        string    `json:"name"`
	LockState   *int      `json:"lock_state,omitempty"`
	BatteryTier *int      `json:"battery_tier,omitempty"`
	SimTime     time.Time `json:"sim_time"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// EventRepository persists and queries emitted lock events.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates an event repository over the given database.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append inserts one event row.
func (r *EventRepository) Append(ctx context.Context, rec EventRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lock_events (tag, name, lock_state, battery_tier, sim_time)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Tag, rec.Name, rec.LockState, rec.BatteryTier, rec.SimTime.UTC())
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// ListRecent returns up to limit events, newest first.
func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tag, name, lock_state, battery_tier, sim_time, recorded_at
		FROM lock_events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var records []EventRecord
	for rows.Next() {
		rec, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the total number of recorded events.
func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lock_events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}

func scanEvent(rows *sql.Rows) (EventRecord, error) {
	var (
		rec         EventRecord
		lockState   sql.NullInt64
		batteryTier sql.NullInt64
	)

	if err := rows.Scan(&rec.ID, &rec.Tag, &rec.Name, &lockState, &batteryTier, &rec.SimTime, &rec.RecordedAt); err != nil {
		return rec, fmt.Errorf("scanning event row: %w", err)
	}

	if lockState.Valid {
		v := int(lockState.Int64)
		rec.LockState = &v
	}
	if batteryTier.Valid {
		v := int(batteryTier.Int64)
		rec.BatteryTier = &v
	}

	return rec, nil
}
