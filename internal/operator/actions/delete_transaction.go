package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/FBLACOMPBG2024/ledger-server/internal/events"
	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
)

// DeleteTransaction removes a single transaction and subtracts its amount
// from the owner's balance.
type DeleteTransaction struct {
	OwnerID       uuid.UUID
	TransactionID uuid.UUID
}

func (a *DeleteTransaction) Owner() uuid.UUID {
	return a.OwnerID
}

func (a *DeleteTransaction) Perform(ctx context.Context, deps *Deps) error {
	existing, err := deps.Storage.Transactions.FindByID(ctx, a.OwnerID, a.TransactionID)
	if err != nil {
		return err
	}

	if err := deps.Storage.Transactions.DeleteByID(ctx, a.OwnerID, a.TransactionID); err != nil {
		return err
	}

	balance, err := deps.Storage.Balances.Get(ctx, a.OwnerID)
	if err != nil {
		return fmt.Errorf("transaction %s deleted but balance read failed: %w", a.TransactionID, err)
	}
	newBalance := ledger.RemoveDelta(balance, existing.Amount)
	if err := deps.Storage.Balances.Set(ctx, a.OwnerID, newBalance); err != nil {
		return fmt.Errorf("transaction %s deleted but balance persistence failed: %w", a.TransactionID, err)
	}

	events.Notify(ctx, deps.Events, deps.Logger, events.Event{
		Type:    events.EventTransactionDeleted,
		OwnerID: a.OwnerID,
		Count:   1,
	})
	return nil
}
