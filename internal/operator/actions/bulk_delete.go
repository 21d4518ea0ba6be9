package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FBLACOMPBG2024/ledger-server/internal/events"
	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
)

// BulkDelete removes many transactions at once. Two modes:
//
//   - All: clear the owner's transaction set and set the balance to exactly
//     zero (the set is empty by construction, no recompute needed);
//   - IDs: delete the listed transactions, then fully recompute the balance
//     from the remaining set. Deltas are not tracked across multi-record
//     deletes.
type BulkDelete struct {
	OwnerID uuid.UUID
	All     bool
	IDs     []uuid.UUID

	// DeletedCount is set on success.
	DeletedCount int64
}

func (a *BulkDelete) Owner() uuid.UUID {
	return a.OwnerID
}

func (a *BulkDelete) Perform(ctx context.Context, deps *Deps) error {
	if a.All {
		return a.deleteAll(ctx, deps)
	}
	if len(a.IDs) == 0 {
		return ledger.NewValidationError("ids", "must not be empty unless deleting all")
	}
	return a.deleteByIDs(ctx, deps)
}

func (a *BulkDelete) deleteAll(ctx context.Context, deps *Deps) error {
	deleted, err := deps.Storage.Transactions.DeleteAll(ctx, a.OwnerID)
	if err != nil {
		return err
	}
	if err := deps.Storage.Balances.Set(ctx, a.OwnerID, decimal.Zero); err != nil {
		return fmt.Errorf("transactions cleared but balance persistence failed: %w", err)
	}

	a.DeletedCount = deleted
	events.Notify(ctx, deps.Events, deps.Logger, events.Event{
		Type:    events.EventTransactionDeleted,
		OwnerID: a.OwnerID,
		Count:   int(deleted),
	})
	return nil
}

func (a *BulkDelete) deleteByIDs(ctx context.Context, deps *Deps) error {
	deleted, err := deps.Storage.Transactions.DeleteMany(ctx, a.OwnerID, a.IDs)
	if errors.Is(err, ledger.ErrNotAuthorized) {
		// Rejected before anything was deleted.
		return err
	}

	// Whatever subset was committed stands, even when the caller aborted
	// mid-flight, so the recompute runs detached from the caller's
	// cancellation. The balance must reconcile with the set that exists now.
	recomputeCtx := context.WithoutCancel(ctx)
	total, sumErr := deps.Storage.Transactions.SumAmounts(recomputeCtx, a.OwnerID)
	if sumErr == nil {
		sumErr = deps.Storage.Balances.Set(recomputeCtx, a.OwnerID, total)
	}

	if err != nil {
		return err
	}
	if sumErr != nil {
		return fmt.Errorf("transactions deleted but balance recompute failed: %w", sumErr)
	}

	a.DeletedCount = deleted
	events.Notify(ctx, deps.Events, deps.Logger, events.Event{
		Type:    events.EventTransactionDeleted,
		OwnerID: a.OwnerID,
		Count:   int(deleted),
	})
	return nil
}
