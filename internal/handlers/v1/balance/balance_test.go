package balance

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/FBLACOMPBG2024/ledger-server/internal/logging"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
	"github.com/FBLACOMPBG2024/ledger-server/internal/service"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

func newTestAPI(t *testing.T) (humatest.TestAPI, *storage.Storage) {
	t.Helper()
	store := storage.NewMemoryStorage()
	delegator := operator.NewOperatorDelegator(&actions.Deps{
		Storage: store,
		Logger:  logging.SetupLogging(),
	}, 1)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	svc := service.NewService(store)

	_, api := humatest.New(t)
	NewGetBalanceHandler(svc.Ledger).Register(api)
	NewVerifyBalanceHandler(svc.Ledger).Register(api)
	NewReconcileBalanceHandler(delegator).Register(api)
	return api, store
}

func seedTransactions(t *testing.T, store *storage.Storage, ownerID uuid.UUID, amounts ...string) {
	t.Helper()
	for _, amount := range amounts {
		_, err := store.Transactions.Insert(context.Background(), &storage.TransactionCreate{
			OwnerID:    ownerID,
			Amount:     decimal.RequireFromString(amount),
			Name:       "tx " + amount,
			OccurredAt: time.Now(),
			Source:     storage.SourceManual,
		})
		assert.NoError(t, err)
	}
}

func TestHTTP_GetBalance_ZeroForNewOwner(t *testing.T) {
	api, _ := newTestAPI(t)
	ownerID := uuid.Must(uuid.NewV4())

	resp := api.Get("/v1/balance", "X-User-ID: "+ownerID.String())
	assert.Equal(t, http.StatusOK, resp.Code)

	var body GetBalanceResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "0", body.Balance)
}

func TestHTTP_GetBalance_MissingHeader(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Get("/v1/balance")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHTTP_VerifyBalance_ReportsDivergence(t *testing.T) {
	api, store := newTestAPI(t)
	ownerID := uuid.Must(uuid.NewV4())
	seedTransactions(t, store, ownerID, "-50", "200")
	assert.NoError(t, store.Balances.Set(context.Background(), ownerID, decimal.NewFromInt(999)))

	resp := api.Get("/v1/balance/verify", "X-User-ID: "+ownerID.String())
	assert.Equal(t, http.StatusOK, resp.Code)

	var body VerifyBalanceResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Consistent)
	assert.Equal(t, "999", body.Stored)
	assert.Equal(t, "150", body.Recomputed)
}

func TestHTTP_ReconcileBalance_Repairs(t *testing.T) {
	api, store := newTestAPI(t)
	ownerID := uuid.Must(uuid.NewV4())
	seedTransactions(t, store, ownerID, "-50", "200")
	assert.NoError(t, store.Balances.Set(context.Background(), ownerID, decimal.NewFromInt(999)))

	resp := api.Post("/v1/balance/reconcile", "X-User-ID: "+ownerID.String())
	assert.Equal(t, http.StatusOK, resp.Code)

	var body ReconcileBalanceResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.WasInconsistent)
	assert.Equal(t, "150", body.Balance)

	stored, err := store.Balances.Get(context.Background(), ownerID)
	assert.NoError(t, err)
	assert.True(t, stored.Equal(decimal.NewFromInt(150)))

	// Verify now agrees.
	resp = api.Get("/v1/balance/verify", "X-User-ID: "+ownerID.String())
	assert.Equal(t, http.StatusOK, resp.Code)
	var report VerifyBalanceResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.True(t, report.Consistent)
}
