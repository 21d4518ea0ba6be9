package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/request"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
)

// UpdateTransactionBody is the request body for amending a transaction.
// Absent fields are left unchanged.
type UpdateTransactionBody struct {
	Amount      *string   `json:"amount,omitempty" doc:"New decimal amount, manual transactions only"`
	Name        *string   `json:"name,omitempty" doc:"New name"`
	Description *string   `json:"description,omitempty" doc:"New description"`
	Tags        *[]string `json:"tags,omitempty" doc:"Replacement tag set"`
	OccurredAt  *string   `json:"occurredAt,omitempty" doc:"New RFC3339 occurrence time"`
}

// UpdateTransactionInput is the Huma input for amending a transaction.
type UpdateTransactionInput struct {
	request.Owner
	ID   string `path:"id" doc:"Transaction UUID"`
	Body UpdateTransactionBody
}

// UpdateTransactionResponseBody is the response body for amending a transaction.
type UpdateTransactionResponseBody struct {
	Transaction Transaction `json:"transaction" doc:"The transaction after the update"`
}

// UpdateTransactionOutput is the Huma output for amending a transaction.
type UpdateTransactionOutput struct {
	Body UpdateTransactionResponseBody
}

// UpdateTransactionHandler handles PATCH /v1/transaction/{id}.
type UpdateTransactionHandler struct {
	Operator ledgerOperator
}

// NewUpdateTransactionHandler creates a new UpdateTransactionHandler.
func NewUpdateTransactionHandler(op ledgerOperator) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{Operator: op}
}

// Register registers the update transaction endpoint with the Huma API.
func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update transaction",
		Description: "Amends a transaction. An amount change moves the balance by the difference.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseUpdateTransactionInput parses and validates the API input.
func parseUpdateTransactionInput(input *UpdateTransactionInput) (id uuid.UUID, amount *decimal.Decimal, occurredAt *time.Time, err error) {
	id, err = uuid.FromString(input.ID)
	if err != nil {
		return uuid.Nil, nil, nil, huma.NewError(http.StatusBadRequest, "invalid transaction id", err)
	}

	if input.Body.Amount != nil {
		parsed, parseErr := decimal.NewFromString(*input.Body.Amount)
		if parseErr != nil {
			return uuid.Nil, nil, nil, huma.NewError(http.StatusBadRequest, "invalid amount", parseErr)
		}
		amount = &parsed
	}

	if input.Body.OccurredAt != nil {
		parsed, parseErr := time.Parse(time.RFC3339, *input.Body.OccurredAt)
		if parseErr != nil {
			return uuid.Nil, nil, nil, huma.NewError(http.StatusBadRequest, "invalid occurredAt", parseErr)
		}
		occurredAt = &parsed
	}

	return id, amount, occurredAt, nil
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	ownerID, err := input.OwnerID()
	if err != nil {
		return nil, err
	}
	id, amount, occurredAt, err := parseUpdateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	action := &actions.EditTransaction{
		OwnerID:       ownerID,
		TransactionID: id,
		Amount:        amount,
		Tags:          input.Body.Tags,
		Name:          input.Body.Name,
		Description:   input.Body.Description,
		OccurredAt:    occurredAt,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, request.Error("failed to update transaction", err)
	}

	return &UpdateTransactionOutput{
		Body: UpdateTransactionResponseBody{Transaction: fromStorage(action.Updated)},
	}, nil
}
