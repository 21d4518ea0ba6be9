package actions

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/FBLACOMPBG2024/ledger-server/internal/bankfeed"
	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
	"github.com/FBLACOMPBG2024/ledger-server/internal/logging"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

type stubFeed struct {
	feed []bankfeed.FeedTransaction
	err  error
}

func (s *stubFeed) FetchTransactions(ctx context.Context, linkedAccountCredential string) ([]bankfeed.FeedTransaction, error) {
	return s.feed, s.err
}

func newTestDeps() *Deps {
	return &Deps{
		Storage: storage.NewMemoryStorage(),
		Feed:    &stubFeed{},
		Logger:  logging.SetupLogging(),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func addTx(t *testing.T, deps *Deps, ownerID uuid.UUID, amount string) *storage.Transaction {
	t.Helper()
	action := &AddTransaction{
		OwnerID:    ownerID,
		Amount:     dec(amount),
		Name:       "tx " + amount,
		OccurredAt: time.Now(),
	}
	assert.NoError(t, action.Perform(context.Background(), deps))
	assert.NotNil(t, action.Created)
	return action.Created
}

// assertBalanced checks the core invariant: stored balance equals the sum of
// live transactions.
func assertBalanced(t *testing.T, deps *Deps, ownerID uuid.UUID, want string) {
	t.Helper()
	balance, err := deps.Storage.Balances.Get(context.Background(), ownerID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(dec(want)), "stored balance %s, want %s", balance, want)

	total, err := deps.Storage.Transactions.SumAmounts(context.Background(), ownerID)
	assert.NoError(t, err)
	assert.True(t, balance.Equal(total), "stored balance %s diverged from transaction sum %s", balance, total)
}

// -- AddTransaction --

func TestAddTransaction_AppliesDelta(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())

	created := addTx(t, deps, owner, "-50.25")
	assert.Equal(t, storage.SourceManual, created.Source)
	assert.Empty(t, created.ExternalID)
	assertBalanced(t, deps, owner, "-50.25")

	addTx(t, deps, owner, "200")
	assertBalanced(t, deps, owner, "149.75")
}

func TestAddTransaction_ValidationBeforeMutation(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())

	action := &AddTransaction{
		OwnerID:    owner,
		Amount:     dec("10"),
		Name:       "",
		OccurredAt: time.Now(),
	}
	err := action.Perform(context.Background(), deps)
	assert.True(t, ledger.IsValidation(err))

	// Nothing was written.
	txs, err := deps.Storage.Transactions.FindByOwner(context.Background(), owner, nil)
	assert.NoError(t, err)
	assert.Empty(t, txs)
	assertBalanced(t, deps, owner, "0")
}

// -- EditTransaction --

func TestEditTransaction_DeltaIsExactlyNewMinusOld(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())

	addTx(t, deps, owner, "-50")
	target := addTx(t, deps, owner, "200")
	addTx(t, deps, owner, "-30")
	assertBalanced(t, deps, owner, "120")

	newAmount := dec("150")
	action := &EditTransaction{
		OwnerID:       owner,
		TransactionID: target.ID,
		Amount:        &newAmount,
	}
	assert.NoError(t, action.Perform(context.Background(), deps))
	assert.True(t, action.Updated.Amount.Equal(newAmount))
	assertBalanced(t, deps, owner, "70")
}

func TestEditTransaction_NonAmountFieldsLeaveBalanceAlone(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())
	target := addTx(t, deps, owner, "42")

	newName := "renamed"
	newTags := []string{"food", "grocery"}
	action := &EditTransaction{
		OwnerID:       owner,
		TransactionID: target.ID,
		Name:          &newName,
		Tags:          &newTags,
	}
	assert.NoError(t, action.Perform(context.Background(), deps))
	assert.Equal(t, "renamed", action.Updated.Name)
	assert.Equal(t, newTags, action.Updated.Tags)
	assertBalanced(t, deps, owner, "42")
}

func TestEditTransaction_ImportedAmountRejected(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())

	sync := &SyncBank{OwnerID: owner, LinkedAccountCredential: "cred"}
	deps.Feed = &stubFeed{feed: []bankfeed.FeedTransaction{
		{ProviderRecordID: "E1", Amount: dec("-15"), Description: "Coffee", OccurredAt: time.Now()},
	}}
	assert.NoError(t, sync.Perform(context.Background(), deps))

	imported, err := deps.Storage.Transactions.FindByOwner(context.Background(), owner, nil)
	assert.NoError(t, err)
	assert.Len(t, imported, 1)

	newAmount := dec("-20")
	action := &EditTransaction{
		OwnerID:       owner,
		TransactionID: imported[0].ID,
		Amount:        &newAmount,
	}
	err = action.Perform(context.Background(), deps)
	assert.True(t, ledger.IsValidation(err))
	assertBalanced(t, deps, owner, "-15")

	// Tag edits on imported transactions are still allowed.
	newTags := []string{"dining"}
	retag := &EditTransaction{
		OwnerID:       owner,
		TransactionID: imported[0].ID,
		Tags:          &newTags,
	}
	assert.NoError(t, retag.Perform(context.Background(), deps))
}

func TestEditTransaction_CrossOwnerRejected(t *testing.T) {
	deps := newTestDeps()
	ownerA := uuid.Must(uuid.NewV4())
	ownerB := uuid.Must(uuid.NewV4())
	target := addTx(t, deps, ownerA, "10")

	newAmount := dec("99")
	action := &EditTransaction{
		OwnerID:       ownerB,
		TransactionID: target.ID,
		Amount:        &newAmount,
	}
	err := action.Perform(context.Background(), deps)
	assert.ErrorIs(t, err, ledger.ErrNotAuthorized)
	assertBalanced(t, deps, ownerA, "10")
}

// -- DeleteTransaction --

func TestDeleteTransaction_SubtractsAmount(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())

	target := addTx(t, deps, owner, "-50")
	addTx(t, deps, owner, "200")
	assertBalanced(t, deps, owner, "150")

	action := &DeleteTransaction{OwnerID: owner, TransactionID: target.ID}
	assert.NoError(t, action.Perform(context.Background(), deps))
	assertBalanced(t, deps, owner, "200")
}

func TestDeleteTransaction_CrossOwnerRejected(t *testing.T) {
	deps := newTestDeps()
	ownerA := uuid.Must(uuid.NewV4())
	ownerB := uuid.Must(uuid.NewV4())
	target := addTx(t, deps, ownerA, "10")

	action := &DeleteTransaction{OwnerID: ownerB, TransactionID: target.ID}
	assert.ErrorIs(t, action.Perform(context.Background(), deps), ledger.ErrNotAuthorized)

	action = &DeleteTransaction{OwnerID: ownerA, TransactionID: uuid.Must(uuid.NewV4())}
	assert.ErrorIs(t, action.Perform(context.Background(), deps), ledger.ErrNotFound)

	assertBalanced(t, deps, ownerA, "10")
}

// -- BulkDelete --

func TestBulkDelete_All_ResetsBalanceToZero(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())
	other := uuid.Must(uuid.NewV4())

	addTx(t, deps, owner, "-50")
	addTx(t, deps, owner, "200")
	addTx(t, deps, other, "77")

	action := &BulkDelete{OwnerID: owner, All: true}
	assert.NoError(t, action.Perform(context.Background(), deps))
	assert.Equal(t, int64(2), action.DeletedCount)

	txs, err := deps.Storage.Transactions.FindByOwner(context.Background(), owner, nil)
	assert.NoError(t, err)
	assert.Empty(t, txs)
	assertBalanced(t, deps, owner, "0")
	assertBalanced(t, deps, other, "77")
}

func TestBulkDelete_ByIDs_FullRecompute(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())

	tx1 := addTx(t, deps, owner, "-50")
	addTx(t, deps, owner, "200")
	tx3 := addTx(t, deps, owner, "-30")

	action := &BulkDelete{OwnerID: owner, IDs: []uuid.UUID{tx1.ID, tx3.ID}}
	assert.NoError(t, action.Perform(context.Background(), deps))
	assert.Equal(t, int64(2), action.DeletedCount)
	assertBalanced(t, deps, owner, "200")
}

func TestBulkDelete_EmptyIDListRejected(t *testing.T) {
	deps := newTestDeps()
	action := &BulkDelete{OwnerID: uuid.Must(uuid.NewV4())}
	assert.True(t, ledger.IsValidation(action.Perform(context.Background(), deps)))
}

func TestBulkDelete_ForeignIDRejectedBeforeDeleting(t *testing.T) {
	deps := newTestDeps()
	ownerA := uuid.Must(uuid.NewV4())
	ownerB := uuid.Must(uuid.NewV4())

	txA := addTx(t, deps, ownerA, "10")
	txB := addTx(t, deps, ownerB, "20")

	action := &BulkDelete{OwnerID: ownerA, IDs: []uuid.UUID{txA.ID, txB.ID}}
	assert.ErrorIs(t, action.Perform(context.Background(), deps), ledger.ErrNotAuthorized)
	assertBalanced(t, deps, ownerA, "10")
	assertBalanced(t, deps, ownerB, "20")
}

// -- SyncBank --

func feedRecord(id, amount string, occurredAt time.Time) bankfeed.FeedTransaction {
	return bankfeed.FeedTransaction{
		ProviderRecordID: id,
		Amount:           dec(amount),
		Description:      "feed " + id,
		Category:         "imported",
		OccurredAt:       occurredAt,
	}
}

func TestSyncBank_InsertsOnlyNewRecords(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())
	now := time.Now()

	deps.Feed = &stubFeed{feed: []bankfeed.FeedTransaction{
		feedRecord("E1", "-15", now),
		feedRecord("E2", "40", now),
	}}

	action := &SyncBank{OwnerID: owner, LinkedAccountCredential: "cred"}
	assert.NoError(t, action.Perform(context.Background(), deps))
	assert.Equal(t, 2, action.InsertedCount)
	assertBalanced(t, deps, owner, "25")

	txs, err := deps.Storage.Transactions.FindByOwner(context.Background(), owner, nil)
	assert.NoError(t, err)
	assert.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, storage.SourceImported, tx.Source)
		assert.NotEmpty(t, tx.ExternalID)
	}
}

func TestSyncBank_SecondRunIsIdempotent(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())
	now := time.Now()

	deps.Feed = &stubFeed{feed: []bankfeed.FeedTransaction{
		feedRecord("E1", "-15", now),
		feedRecord("E2", "40", now),
	}}

	first := &SyncBank{OwnerID: owner, LinkedAccountCredential: "cred"}
	assert.NoError(t, first.Perform(context.Background(), deps))
	assert.Equal(t, 2, first.InsertedCount)

	second := &SyncBank{OwnerID: owner, LinkedAccountCredential: "cred"}
	assert.NoError(t, second.Perform(context.Background(), deps))
	assert.Equal(t, 0, second.InsertedCount, "same feed again inserts nothing")

	txs, err := deps.Storage.Transactions.FindByOwner(context.Background(), owner, nil)
	assert.NoError(t, err)
	assert.Len(t, txs, 2)
	assertBalanced(t, deps, owner, "25")
}

func TestSyncBank_EmptyFeedIsNoop(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())
	addTx(t, deps, owner, "120")

	deps.Feed = &stubFeed{}
	action := &SyncBank{OwnerID: owner, LinkedAccountCredential: "cred"}
	assert.NoError(t, action.Perform(context.Background(), deps))
	assert.Equal(t, 0, action.InsertedCount)
	assertBalanced(t, deps, owner, "120")
}

func TestSyncBank_DuplicateIDsWithinFeedKeepFirst(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())
	now := time.Now()

	deps.Feed = &stubFeed{feed: []bankfeed.FeedTransaction{
		feedRecord("E1", "-15", now),
		feedRecord("E1", "-999", now),
	}}

	action := &SyncBank{OwnerID: owner, LinkedAccountCredential: "cred"}
	assert.NoError(t, action.Perform(context.Background(), deps))
	assert.Equal(t, 1, action.InsertedCount)
	assertBalanced(t, deps, owner, "-15")
}

func TestSyncBank_FeedFailureLeavesLedgerUntouched(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())
	addTx(t, deps, owner, "120")

	deps.Feed = &stubFeed{err: context.DeadlineExceeded}
	action := &SyncBank{OwnerID: owner, LinkedAccountCredential: "cred"}
	err := action.Perform(context.Background(), deps)
	assert.ErrorIs(t, err, ledger.ErrExternalSourceUnavailable)
	assertBalanced(t, deps, owner, "120")
}

// -- ReconcileBalance --

func TestReconcileBalance_RepairsStaleBalance(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())
	addTx(t, deps, owner, "-50")
	addTx(t, deps, owner, "200")

	// Simulate the "transaction recorded, balance stale" recoverable state.
	assert.NoError(t, deps.Storage.Balances.Set(context.Background(), owner, dec("999")))

	action := &ReconcileBalance{OwnerID: owner}
	assert.NoError(t, action.Perform(context.Background(), deps))
	assert.True(t, action.WasInconsistent)
	assert.True(t, action.Balance.Equal(dec("150")))
	assertBalanced(t, deps, owner, "150")

	// Re-triggering is idempotent.
	again := &ReconcileBalance{OwnerID: owner}
	assert.NoError(t, again.Perform(context.Background(), deps))
	assert.False(t, again.WasInconsistent)
	assertBalanced(t, deps, owner, "150")
}

// -- End-to-end scenario from the product walkthrough --

func TestScenario_ManualOpsThenSyncThenClear(t *testing.T) {
	deps := newTestDeps()
	owner := uuid.Must(uuid.NewV4())
	now := time.Now()

	// Owner has transactions [-50, +200, -30] -> balance 120.
	addTx(t, deps, owner, "-50")
	plus200 := addTx(t, deps, owner, "200")
	addTx(t, deps, owner, "-30")
	assertBalanced(t, deps, owner, "120")

	// Add -20 -> balance 100.
	addTx(t, deps, owner, "-20")
	assertBalanced(t, deps, owner, "100")

	// Edit the +200 to +150 -> balance 50.
	newAmount := dec("150")
	edit := &EditTransaction{OwnerID: owner, TransactionID: plus200.ID, Amount: &newAmount}
	assert.NoError(t, edit.Perform(context.Background(), deps))
	assertBalanced(t, deps, owner, "50")

	// E1 was imported earlier.
	deps.Feed = &stubFeed{feed: []bankfeed.FeedTransaction{feedRecord("E1", "0", now)}}
	priorSync := &SyncBank{OwnerID: owner, LinkedAccountCredential: "cred"}
	assert.NoError(t, priorSync.Perform(context.Background(), deps))
	assertBalanced(t, deps, owner, "50")

	// Feed returns E1 (already present) and new E2 (-15) -> only E2
	// inserted, balance 35.
	deps.Feed = &stubFeed{feed: []bankfeed.FeedTransaction{
		feedRecord("E1", "0", now),
		feedRecord("E2", "-15", now),
	}}
	sync := &SyncBank{OwnerID: owner, LinkedAccountCredential: "cred"}
	assert.NoError(t, sync.Perform(context.Background(), deps))
	assert.Equal(t, 1, sync.InsertedCount)
	assertBalanced(t, deps, owner, "35")

	// Bulk-delete all -> balance 0, zero transactions remain.
	clear := &BulkDelete{OwnerID: owner, All: true}
	assert.NoError(t, clear.Perform(context.Background(), deps))

	txs, err := deps.Storage.Transactions.FindByOwner(context.Background(), owner, nil)
	assert.NoError(t, err)
	assert.Empty(t, txs)
	assertBalanced(t, deps, owner, "0")
}
