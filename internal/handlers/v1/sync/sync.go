package sync

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/request"
	"github.com/FBLACOMPBG2024/ledger-server/internal/logging"
	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
)

// SyncBody is the request body for a bank feed sync.
type SyncBody struct {
	LinkedAccountCredential string `json:"linkedAccountCredential" required:"true" minLength:"1" doc:"Credential for the owner's linked bank account"`
}

// SyncInput is the Huma input for a bank feed sync.
type SyncInput struct {
	request.Owner
	Body SyncBody
}

// SyncResponseBody is the response body for a bank feed sync.
type SyncResponseBody struct {
	InsertedCount int `json:"insertedCount" doc:"Number of new feed records imported"`
}

// SyncOutput is the Huma output for a bank feed sync.
type SyncOutput struct {
	Body SyncResponseBody
}

// ledgerOperator enqueues a mutation and blocks for its outcome.
type ledgerOperator interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Handler handles POST /v1/sync.
type Handler struct {
	Operator ledgerOperator
}

// NewHandler creates a new sync Handler.
func NewHandler(op ledgerOperator) *Handler {
	return &Handler{Operator: op}
}

// Register registers the sync endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "sync-bank",
		Method:      http.MethodPost,
		Path:        "/v1/sync",
		Summary:     "Sync bank feed",
		Description: "Fetches the owner's bank feed and imports records not seen before. Already imported records are skipped.",
		Tags:        []string{"Sync"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, input *SyncInput) (*SyncOutput, error) {
	ownerID, err := input.OwnerID()
	if err != nil {
		return nil, err
	}

	action := &actions.SyncBank{
		OwnerID:                 ownerID,
		LinkedAccountCredential: input.Body.LinkedAccountCredential,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, request.Error("failed to sync bank feed", err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("insertedCount", action.InsertedCount)
	}

	return &SyncOutput{
		Body: SyncResponseBody{InsertedCount: action.InsertedCount},
	}, nil
}
