package telemetry

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"retailco/shopper/models"
)

// Outcomes passed to Recorder.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Emitter accepts events without blocking on delivery.
type Emitter interface {
	Emit(event models.TelemetryEvent)
}

// Recorder observes delivery outcomes, e.g. for metrics.
type Recorder interface {
	TelemetryResult(result string)
}

type nopRecorder struct{}

func (nopRecorder) TelemetryResult(string) {}

// Queue hands events to a single background worker over a bounded channel.
// A full queue drops the event.
type Queue struct {
	sink   Sink
	log    logrus.FieldLogger
	rec    Recorder
	events chan models.TelemetryEvent

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewQueue(sink Sink, size int, log logrus.FieldLogger, rec Recorder) *Queue {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Queue{
		sink:   sink,
		log:    log,
		rec:    rec,
		events: make(chan models.TelemetryEvent, size),
		done:   make(chan struct{}),
	}
}

// Start runs the worker until Close. ctx is used for every delivery.
func (q *Queue) Start(ctx context.Context) {
	go func() {
		defer close(q.done)
		for event := range q.events {
			deliver(ctx, q.sink, event, q.log, q.rec)
		}
	}()
}

func (q *Queue) Emit(event models.TelemetryEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.rec.TelemetryResult(ResultDropped)
		return
	}
	select {
	case q.events <- event:
	default:
		q.log.WithField("customer_id", event.CustomerID).Warn("Telemetry queue full, dropping event")
		q.rec.TelemetryResult(ResultDropped)
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
// Start must have been called.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.events)
	q.mu.Unlock()
	<-q.done
}

// Inline delivers on the caller's goroutine. Used in tests and for
// deterministic single-step runs.
type Inline struct {
	sink Sink
	log  logrus.FieldLogger
	rec  Recorder
}

func NewInline(sink Sink, log logrus.FieldLogger, rec Recorder) *Inline {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Inline{sink: sink, log: log, rec: rec}
}

func (i *Inline) Emit(event models.TelemetryEvent) {
	deliver(context.Background(), i.sink, event, i.log, i.rec)
}

func deliver(ctx context.Context, sink Sink, event models.TelemetryEvent, log logrus.FieldLogger, rec Recorder) {
	if err := sink.Send(ctx, event); err != nil {
		log.WithError(err).WithField("customer_id", event.CustomerID).Warn("Error logging event")
		rec.TelemetryResult(ResultFailed)
		return
	}
	rec.TelemetryResult(ResultSent)
}
