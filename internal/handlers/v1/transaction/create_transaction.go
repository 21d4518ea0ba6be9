package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/request"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Amount      string   `json:"amount" required:"true" doc:"Decimal amount, negative for spending"`
	Name        string   `json:"name" required:"true" minLength:"1" doc:"Name of the transaction"`
	Description string   `json:"description,omitempty" doc:"Free-form description"`
	Tags        []string `json:"tags,omitempty" doc:"Tags for filtering"`
	OccurredAt  string   `json:"occurredAt,omitempty" doc:"RFC3339 time, defaults to now"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	request.Owner
	Body CreateTransactionBody
}

// CreateTransactionResponseBody is the response body for creating a transaction.
type CreateTransactionResponseBody struct {
	Transaction Transaction `json:"transaction" doc:"The created transaction"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body CreateTransactionResponseBody
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	Operator ledgerOperator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(op ledgerOperator) *CreateTransactionHandler {
	return &CreateTransactionHandler{Operator: op}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Records a manual transaction and applies its amount to the balance.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the API input.
func parseCreateTransactionInput(input *CreateTransactionInput) (amount decimal.Decimal, occurredAt time.Time, err error) {
	amount, err = decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return decimal.Decimal{}, time.Time{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	if input.Body.OccurredAt != "" {
		occurredAt, err = time.Parse(time.RFC3339, input.Body.OccurredAt)
		if err != nil {
			return decimal.Decimal{}, time.Time{}, huma.NewError(http.StatusBadRequest, "invalid occurredAt", err)
		}
	} else {
		occurredAt = time.Now()
	}

	return amount, occurredAt, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	ownerID, err := input.OwnerID()
	if err != nil {
		return nil, err
	}
	amount, occurredAt, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	action := &actions.AddTransaction{
		OwnerID:     ownerID,
		Amount:      amount,
		Tags:        input.Body.Tags,
		Name:        input.Body.Name,
		Description: input.Body.Description,
		OccurredAt:  occurredAt,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, request.Error("failed to create transaction", err)
	}

	return &CreateTransactionOutput{
		Body: CreateTransactionResponseBody{Transaction: fromStorage(action.Created)},
	}, nil
}
