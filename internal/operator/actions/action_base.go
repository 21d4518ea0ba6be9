package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/FBLACOMPBG2024/ledger-server/internal/bankfeed"
	"github.com/FBLACOMPBG2024/ledger-server/internal/events"
	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

// Deps carries everything an action may touch while it holds its owner's
// mutation slot.
type Deps struct {
	Storage *storage.Storage
	Feed    bankfeed.Client
	Events  events.Sink
	Logger  *logrus.Logger
}

// IAction is one ledger mutation. Perform runs with all other mutations for
// the same owner serialized behind it, so it may read the stored balance,
// mutate the transaction set, and persist the new balance without interleaving.
type IAction interface {
	Owner() uuid.UUID
	Perform(ctx context.Context, deps *Deps) error
}

// validateTransactionFields checks the shared add/edit field constraints.
// Validation failures are detected before any mutation.
func validateTransactionFields(name string, tags []string, occurredAt time.Time) error {
	if name == "" {
		return ledger.NewValidationError("name", "must not be empty")
	}
	for _, tag := range tags {
		if tag == "" {
			return ledger.NewValidationError("tags", "must not contain empty tags")
		}
	}
	if occurredAt.IsZero() {
		return ledger.NewValidationError("occurredAt", "must be set")
	}
	return nil
}
