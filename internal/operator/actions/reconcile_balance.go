package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FBLACOMPBG2024/ledger-server/internal/events"
)

// ReconcileBalance recomputes the owner's balance from the live transaction
// set and persists it. This is the recovery path for the accepted
// "transaction recorded, balance stale" state and is safe to re-trigger any
// number of times.
type ReconcileBalance struct {
	OwnerID uuid.UUID

	// Balance is the recomputed balance, set on success.
	Balance decimal.Decimal
	// WasInconsistent reports whether the stored balance differed from the
	// recomputed one.
	WasInconsistent bool
}

func (a *ReconcileBalance) Owner() uuid.UUID {
	return a.OwnerID
}

func (a *ReconcileBalance) Perform(ctx context.Context, deps *Deps) error {
	stored, err := deps.Storage.Balances.Get(ctx, a.OwnerID)
	if err != nil {
		return err
	}

	total, err := deps.Storage.Transactions.SumAmounts(ctx, a.OwnerID)
	if err != nil {
		return err
	}

	if !stored.Equal(total) {
		a.WasInconsistent = true
		if deps.Logger != nil {
			deps.Logger.WithField("ownerId", a.OwnerID.String()).
				WithField("stored", stored.String()).
				WithField("recomputed", total.String()).
				Warn("ReconcileBalance.stored balance diverged")
		}
	}

	if err := deps.Storage.Balances.Set(ctx, a.OwnerID, total); err != nil {
		return err
	}
	a.Balance = total

	events.Notify(ctx, deps.Events, deps.Logger, events.Event{
		Type:    events.EventBalanceReconciled,
		OwnerID: a.OwnerID,
	})
	return nil
}
