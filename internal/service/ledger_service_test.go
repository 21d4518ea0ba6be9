package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

func newTestStorage() *storage.Storage {
	return storage.NewMemoryStorage()
}

func insertTx(t *testing.T, store *storage.Storage, ownerID uuid.UUID, amount string, occurredAt time.Time, tags ...string) uuid.UUID {
	t.Helper()
	id, err := store.Transactions.Insert(context.Background(), &storage.TransactionCreate{
		OwnerID:    ownerID,
		Amount:     decimal.RequireFromString(amount),
		Tags:       tags,
		Name:       "tx " + amount,
		OccurredAt: occurredAt,
		Source:     storage.SourceManual,
	})
	assert.NoError(t, err)
	return id
}

func TestGetBalance_DefaultsToZero(t *testing.T) {
	svc := NewLedgerService(newTestStorage())

	balance, err := svc.GetBalance(context.Background(), uuid.Must(uuid.NewV4()))
	assert.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestGetTransaction_OwnerScoped(t *testing.T) {
	store := newTestStorage()
	svc := NewLedgerService(store)
	ownerA := uuid.Must(uuid.NewV4())
	ownerB := uuid.Must(uuid.NewV4())
	id := insertTx(t, store, ownerA, "12.50", time.Now(), "food")

	tx, err := svc.GetTransaction(context.Background(), ownerA, id)
	assert.NoError(t, err)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, string(storage.SourceManual), tx.Source)

	_, err = svc.GetTransaction(context.Background(), ownerB, id)
	assert.ErrorIs(t, err, ledger.ErrNotAuthorized)

	_, err = svc.GetTransaction(context.Background(), ownerA, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestListTransactions_FiltersAndOrder(t *testing.T) {
	store := newTestStorage()
	svc := NewLedgerService(store)
	ownerID := uuid.Must(uuid.NewV4())

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	insertTx(t, store, ownerID, "10", base, "food")
	insertTx(t, store, ownerID, "20", base.AddDate(0, 0, 5), "rent")
	insertTx(t, store, ownerID, "30", base.AddDate(0, 0, 10), "food", "grocery")

	all, err := svc.ListTransactions(context.Background(), ownerID, nil)
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	// Most recent first.
	assert.True(t, all[0].Amount.Equal(decimal.NewFromInt(30)))
	assert.True(t, all[2].Amount.Equal(decimal.NewFromInt(10)))

	start := base.AddDate(0, 0, 3)
	ranged, err := svc.ListTransactions(context.Background(), ownerID, &TransactionQuery{StartDate: &start})
	assert.NoError(t, err)
	assert.Len(t, ranged, 2)

	tagged, err := svc.ListTransactions(context.Background(), ownerID, &TransactionQuery{Tags: []string{"food", "grocery"}})
	assert.NoError(t, err)
	assert.Len(t, tagged, 1)
	assert.True(t, tagged[0].Amount.Equal(decimal.NewFromInt(30)))

	limited, err := svc.ListTransactions(context.Background(), ownerID, &TransactionQuery{Limit: 2})
	assert.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListTransactions_LimitCapped(t *testing.T) {
	store := newTestStorage()
	svc := NewLedgerService(store)
	ownerID := uuid.Must(uuid.NewV4())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxLimit+10; i++ {
		insertTx(t, store, ownerID, "1", base.Add(time.Duration(i)*time.Hour))
	}

	rows, err := svc.ListTransactions(context.Background(), ownerID, &TransactionQuery{Limit: maxLimit + 10})
	assert.NoError(t, err)
	assert.Len(t, rows, maxLimit)

	defaulted, err := svc.ListTransactions(context.Background(), ownerID, nil)
	assert.NoError(t, err)
	assert.Len(t, defaulted, defaultLimit)
}

func TestVerifyBalance(t *testing.T) {
	store := newTestStorage()
	svc := NewLedgerService(store)
	ownerID := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	insertTx(t, store, ownerID, "-50", time.Now())
	insertTx(t, store, ownerID, "200", time.Now())
	assert.NoError(t, store.Balances.Set(ctx, ownerID, decimal.NewFromInt(150)))

	report, err := svc.VerifyBalance(ctx, ownerID)
	assert.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.True(t, report.Stored.Equal(report.Recomputed))

	assert.NoError(t, store.Balances.Set(ctx, ownerID, decimal.NewFromInt(999)))
	report, err = svc.VerifyBalance(ctx, ownerID)
	assert.ErrorIs(t, err, ledger.ErrBalanceInconsistent)
	assert.False(t, report.Consistent)
	assert.True(t, report.Recomputed.Equal(decimal.NewFromInt(150)))
}
