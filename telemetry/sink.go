package telemetry

import (
	"context"
	"time"

	"github.com/tidwall/gjson"

	"retailco/shopper/models"
	"retailco/shopper/store"
	"retailco/shopper/utils"
)

// Sink delivers one event. Errors are reported to the emitter, which logs
// and drops them.
type Sink interface {
	Send(ctx context.Context, event models.TelemetryEvent) error
}

type EventAPI interface {
	LogEvent(ctx context.Context, event models.TelemetryEvent) error
}

// HTTPSink posts events to the event-ingestion service.
type HTTPSink struct {
	api EventAPI
}

func NewHTTPSink(api EventAPI) *HTTPSink {
	return &HTTPSink{api: api}
}

func (s *HTTPSink) Send(ctx context.Context, event models.TelemetryEvent) error {
	return s.api.LogEvent(ctx, event)
}

type RowWriter interface {
	InsertTelemetryEvents(ctx context.Context, rows []store.TelemetryRow) error
}

// ClickHouseSink writes events straight into the analytics warehouse.
type ClickHouseSink struct {
	rows RowWriter
	now  func() time.Time
}

func NewClickHouseSink(rows RowWriter) *ClickHouseSink {
	return &ClickHouseSink{rows: rows, now: time.Now}
}

func (s *ClickHouseSink) Send(ctx context.Context, event models.TelemetryEvent) error {
	row := store.TelemetryRow{
		EventID:    utils.NewEventID(),
		EventType:  gjson.Get(event.EventData, "event_type").String(),
		CustomerID: event.CustomerID,
		SessionID:  gjson.Get(event.EventData, "session_id").String(),
		Timestamp:  s.now().UTC(),
		EventData:  event.EventData,
	}
	return s.rows.InsertTelemetryEvents(ctx, []store.TelemetryRow{row})
}

// Discard drops every event.
type Discard struct{}

func (Discard) Send(context.Context, models.TelemetryEvent) error { return nil }
