package store

import (
	"context"
	"fmt"
	"time"

	"retailco/shopper/database"
)

// TelemetryRow is one telemetry event as stored in ClickHouse.
type TelemetryRow struct {
	EventID    string
	EventType  string
	CustomerID int64
	SessionID  string
	Timestamp  time.Time
	EventData  string
}

// TelemetryStore mirrors emitted telemetry into a ClickHouse table.
type TelemetryStore struct {
	DB *database.ClickHouseClient
}

func NewTelemetryStore(chClient *database.ClickHouseClient) *TelemetryStore {
	return &TelemetryStore{DB: chClient}
}

func (s *TelemetryStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS customer_events (
			event_id String,
			event_type LowCardinality(String),
			customer_id Int64,
			session_id String,
			timestamp DateTime64(3),
			event_data String
		) ENGINE = MergeTree
		ORDER BY (event_type, timestamp)
	`
	if err := s.DB.Conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create customer_events table: %w", err)
	}
	return nil
}

func (s *TelemetryStore) InsertTelemetryEvents(ctx context.Context, rows []TelemetryRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO customer_events (
			event_id, event_type, customer_id, session_id, timestamp, event_data
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}

	for _, row := range rows {
		err := batch.Append(
			row.EventID,
			row.EventType,
			row.CustomerID,
			row.SessionID,
			row.Timestamp,
			row.EventData,
		)
		if err != nil {
			batch.Abort()
			return fmt.Errorf("failed to append event %s to batch: %w", row.EventID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}
