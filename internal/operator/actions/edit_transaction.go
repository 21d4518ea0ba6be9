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

// EditTransaction amends a manual transaction. Nil fields are left unchanged.
// When the amount changes, the balance moves by exactly newAmount - oldAmount.
type EditTransaction struct {
	OwnerID       uuid.UUID
	TransactionID uuid.UUID
	Amount        *decimal.Decimal
	Tags          *[]string
	Name          *string
	Description   *string
	OccurredAt    *time.Time

	// Updated is set on success.
	Updated *storage.Transaction
}

func (a *EditTransaction) Owner() uuid.UUID {
	return a.OwnerID
}

func (a *EditTransaction) validate(existing *storage.Transaction) error {
	// Imported transactions are append-only: their amount came from the
	// bank feed and amending it would break re-sync semantics.
	if existing.Source == storage.SourceImported && a.Amount != nil {
		return ledger.NewValidationError("amount", "imported transactions cannot be amended")
	}
	if a.Name != nil && *a.Name == "" {
		return ledger.NewValidationError("name", "must not be empty")
	}
	if a.Tags != nil {
		for _, tag := range *a.Tags {
			if tag == "" {
				return ledger.NewValidationError("tags", "must not contain empty tags")
			}
		}
	}
	if a.OccurredAt != nil && a.OccurredAt.IsZero() {
		return ledger.NewValidationError("occurredAt", "must be set")
	}
	return nil
}

func (a *EditTransaction) Perform(ctx context.Context, deps *Deps) error {
	existing, err := deps.Storage.Transactions.FindByID(ctx, a.OwnerID, a.TransactionID)
	if err != nil {
		return err
	}

	if err := a.validate(existing); err != nil {
		return err
	}

	update := &storage.TransactionUpdate{
		Amount:      a.Amount,
		Tags:        a.Tags,
		Name:        a.Name,
		Description: a.Description,
		OccurredAt:  a.OccurredAt,
	}
	if err := deps.Storage.Transactions.Update(ctx, a.OwnerID, a.TransactionID, update); err != nil {
		return err
	}

	if a.Amount != nil {
		delta := ledger.EditDelta(existing.Amount, *a.Amount)
		if !delta.IsZero() {
			balance, err := deps.Storage.Balances.Get(ctx, a.OwnerID)
			if err != nil {
				return fmt.Errorf("transaction %s updated but balance read failed: %w", a.TransactionID, err)
			}
			if err := deps.Storage.Balances.Set(ctx, a.OwnerID, balance.Add(delta)); err != nil {
				return fmt.Errorf("transaction %s updated but balance persistence failed: %w", a.TransactionID, err)
			}
		}
	}

	updated, err := deps.Storage.Transactions.FindByID(ctx, a.OwnerID, a.TransactionID)
	if err != nil {
		return err
	}
	a.Updated = updated

	events.Notify(ctx, deps.Events, deps.Logger, events.Event{
		Type:    events.EventTransactionUpdated,
		OwnerID: a.OwnerID,
		Count:   1,
	})
	return nil
}
