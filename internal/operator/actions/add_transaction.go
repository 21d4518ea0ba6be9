package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FBLACOMPBG2024/ledger-server/internal/events"
	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

// AddTransaction records a manual transaction and applies its amount to the
// owner's balance.
type AddTransaction struct {
	OwnerID     uuid.UUID
	Amount      decimal.Decimal
	Tags        []string
	Name        string
	Description string
	OccurredAt  time.Time

	// Created is set on success.
	Created *storage.Transaction
}

func (a *AddTransaction) Owner() uuid.UUID {
	return a.OwnerID
}

func (a *AddTransaction) Perform(ctx context.Context, deps *Deps) error {
	if err := validateTransactionFields(a.Name, a.Tags, a.OccurredAt); err != nil {
		return err
	}

	id, err := deps.Storage.Transactions.Insert(ctx, &storage.TransactionCreate{
		OwnerID:     a.OwnerID,
		Amount:      a.Amount,
		Tags:        a.Tags,
		Name:        a.Name,
		Description: a.Description,
		OccurredAt:  a.OccurredAt,
		Source:      storage.SourceManual,
	})
	if err != nil {
		return err
	}

	balance, err := deps.Storage.Balances.Get(ctx, a.OwnerID)
	if err != nil {
		return fmt.Errorf("transaction %s recorded but balance read failed: %w", id, err)
	}
	newBalance := ledger.AddDelta(balance, a.Amount)
	if err := deps.Storage.Balances.Set(ctx, a.OwnerID, newBalance); err != nil {
		// The insert stands; the stored balance is stale until a
		// reconcile recomputes it.
		return fmt.Errorf("transaction %s recorded but balance persistence failed: %w", id, err)
	}

	created, err := deps.Storage.Transactions.FindByID(ctx, a.OwnerID, id)
	if err != nil {
		return err
	}
	a.Created = created

	events.Notify(ctx, deps.Events, deps.Logger, events.Event{
		Type:    events.EventTransactionCreated,
		OwnerID: a.OwnerID,
		Count:   1,
	})
	return nil
}
