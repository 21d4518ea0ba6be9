package balance

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/request"
)

// GetBalanceInput is the Huma input for reading the balance.
type GetBalanceInput struct {
	request.Owner
}

// GetBalanceResponseBody is the response body for reading the balance.
type GetBalanceResponseBody struct {
	Balance string `json:"balance" doc:"Decimal balance, sum of all transactions"`
}

// GetBalanceOutput is the Huma output for reading the balance.
type GetBalanceOutput struct {
	Body GetBalanceResponseBody
}

// balanceReader is the interface for reading the stored balance.
type balanceReader interface {
	GetBalance(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
}

// GetBalanceHandler handles GET /v1/balance.
type GetBalanceHandler struct {
	LedgerService balanceReader
}

// NewGetBalanceHandler creates a new GetBalanceHandler.
func NewGetBalanceHandler(svc balanceReader) *GetBalanceHandler {
	return &GetBalanceHandler{LedgerService: svc}
}

// Register registers the get balance endpoint with the Huma API.
func (h *GetBalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-balance",
		Method:      http.MethodGet,
		Path:        "/v1/balance",
		Summary:     "Get balance",
		Description: "Returns the owner's stored balance. Owners without transactions have a zero balance.",
		Tags:        []string{"Balance"},
	}, h.handle)
}

func (h *GetBalanceHandler) handle(ctx context.Context, input *GetBalanceInput) (*GetBalanceOutput, error) {
	ownerID, err := input.OwnerID()
	if err != nil {
		return nil, err
	}

	balance, err := h.LedgerService.GetBalance(ctx, ownerID)
	if err != nil {
		return nil, request.Error("failed to get balance", err)
	}

	return &GetBalanceOutput{
		Body: GetBalanceResponseBody{Balance: balance.String()},
	}, nil
}
