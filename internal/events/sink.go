// Package events delivers fire-and-forget ledger event notifications to an
// analytics sink. Delivery failure must never fail the ledger operation that
// produced the event.
package events

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
)

// EventType identifies what happened to the ledger.
type EventType string

const (
	EventTransactionCreated EventType = "transaction.created"
	EventTransactionUpdated EventType = "transaction.updated"
	EventTransactionDeleted EventType = "transaction.deleted"
	EventTransactionsSynced EventType = "transactions.synced"
	EventBalanceReconciled  EventType = "balance.reconciled"
)

// Event is one ledger event notification.
type Event struct {
	Type       EventType
	OwnerID    uuid.UUID
	Count      int
	OccurredAt time.Time
}

// Sink receives ledger events.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

var _ Sink = (*LogSink)(nil)

// LogSink writes events to the structured log. Stands in for the analytics
// pipeline in environments without one.
type LogSink struct {
	Logger *logrus.Logger
}

func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{Logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, event Event) error {
	s.Logger.WithFields(logrus.Fields{
		"event":   string(event.Type),
		"ownerId": event.OwnerID.String(),
		"count":   event.Count,
	}).Info("LedgerEvent")
	return nil
}

// Notify publishes the event and only logs on failure. The caller's
// operation has already completed; a lost notification is acceptable,
// a failed ledger mutation is not.
func Notify(ctx context.Context, sink Sink, logger *logrus.Logger, event Event) {
	if sink == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := sink.Publish(ctx, event); err != nil && logger != nil {
		logger.WithError(err).WithField("event", string(event.Type)).Warn("EventSink.Publish failed")
	}
}
