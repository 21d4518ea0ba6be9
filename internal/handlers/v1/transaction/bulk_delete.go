package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/request"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
)

// BulkDeleteBody is the request body for deleting many transactions at once.
// Either all or a non-empty ids list must be given.
type BulkDeleteBody struct {
	All bool     `json:"all,omitempty" doc:"Delete every transaction of the owner"`
	IDs []string `json:"ids,omitempty" doc:"Transaction UUIDs to delete"`
}

// BulkDeleteInput is the Huma input for bulk deletion.
type BulkDeleteInput struct {
	request.Owner
	Body BulkDeleteBody
}

// BulkDeleteResponseBody is the response body for bulk deletion.
type BulkDeleteResponseBody struct {
	DeletedCount int64 `json:"deletedCount" doc:"Number of transactions removed"`
}

// BulkDeleteOutput is the Huma output for bulk deletion.
type BulkDeleteOutput struct {
	Body BulkDeleteResponseBody
}

// BulkDeleteHandler handles POST /v1/transaction/bulk-delete.
type BulkDeleteHandler struct {
	Operator ledgerOperator
}

// NewBulkDeleteHandler creates a new BulkDeleteHandler.
func NewBulkDeleteHandler(op ledgerOperator) *BulkDeleteHandler {
	return &BulkDeleteHandler{Operator: op}
}

// Register registers the bulk delete endpoint with the Huma API.
func (h *BulkDeleteHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "bulk-delete-transactions",
		Method:      http.MethodPost,
		Path:        "/v1/transaction/bulk-delete",
		Summary:     "Bulk delete transactions",
		Description: "Removes the listed transactions, or all of them, and recomputes the balance.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseBulkDeleteInput parses and validates the API input.
func parseBulkDeleteInput(input *BulkDeleteInput) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(input.Body.IDs))
	for i, raw := range input.Body.IDs {
		id, err := uuid.FromString(raw)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid transaction id", err)
		}
		ids[i] = id
	}
	return ids, nil
}

func (h *BulkDeleteHandler) handle(ctx context.Context, input *BulkDeleteInput) (*BulkDeleteOutput, error) {
	ownerID, err := input.OwnerID()
	if err != nil {
		return nil, err
	}
	ids, err := parseBulkDeleteInput(input)
	if err != nil {
		return nil, err
	}

	action := &actions.BulkDelete{
		OwnerID: ownerID,
		All:     input.Body.All,
		IDs:     ids,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, request.Error("failed to bulk delete transactions", err)
	}

	return &BulkDeleteOutput{
		Body: BulkDeleteResponseBody{DeletedCount: action.DeletedCount},
	}, nil
}
