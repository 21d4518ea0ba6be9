package balance

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/request"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
)

// ReconcileBalanceInput is the Huma input for a balance reconcile.
type ReconcileBalanceInput struct {
	request.Owner
}

// ReconcileBalanceResponseBody is the response body for a balance reconcile.
type ReconcileBalanceResponseBody struct {
	Balance         string `json:"balance" doc:"Recomputed decimal balance"`
	WasInconsistent bool   `json:"wasInconsistent" doc:"Whether the stored balance had diverged before the reconcile"`
}

// ReconcileBalanceOutput is the Huma output for a balance reconcile.
type ReconcileBalanceOutput struct {
	Body ReconcileBalanceResponseBody
}

// ledgerOperator enqueues a mutation and blocks for its outcome.
type ledgerOperator interface {
	Process(ctx context.Context, action actions.IAction) error
}

// ReconcileBalanceHandler handles POST /v1/balance/reconcile.
type ReconcileBalanceHandler struct {
	Operator ledgerOperator
}

// NewReconcileBalanceHandler creates a new ReconcileBalanceHandler.
func NewReconcileBalanceHandler(op ledgerOperator) *ReconcileBalanceHandler {
	return &ReconcileBalanceHandler{Operator: op}
}

// Register registers the reconcile endpoint with the Huma API.
func (h *ReconcileBalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "reconcile-balance",
		Method:      http.MethodPost,
		Path:        "/v1/balance/reconcile",
		Summary:     "Reconcile balance",
		Description: "Recomputes the balance from the transaction set and stores it. Safe to call repeatedly.",
		Tags:        []string{"Balance"},
	}, h.handle)
}

func (h *ReconcileBalanceHandler) handle(ctx context.Context, input *ReconcileBalanceInput) (*ReconcileBalanceOutput, error) {
	ownerID, err := input.OwnerID()
	if err != nil {
		return nil, err
	}

	action := &actions.ReconcileBalance{OwnerID: ownerID}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, request.Error("failed to reconcile balance", err)
	}

	return &ReconcileBalanceOutput{
		Body: ReconcileBalanceResponseBody{
			Balance:         action.Balance.String(),
			WasInconsistent: action.WasInconsistent,
		},
	}, nil
}
