package goal

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/request"
	"github.com/FBLACOMPBG2024/ledger-server/internal/service"
)

// GetGoalInput is the Huma input for fetching one goal.
type GetGoalInput struct {
	request.Owner
	ID string `path:"id" doc:"Goal UUID"`
}

// GetGoalResponseBody is the response body for fetching one goal.
type GetGoalResponseBody struct {
	Goal Goal `json:"goal"`
}

// GetGoalOutput is the Huma output for fetching one goal.
type GetGoalOutput struct {
	Body GetGoalResponseBody
}

// goalGetter is the interface for fetching a single goal.
type goalGetter interface {
	GetGoal(ctx context.Context, ownerID, id uuid.UUID) (*service.Goal, error)
}

// GetGoalHandler handles GET /v1/goal/{id}.
type GetGoalHandler struct {
	GoalService goalGetter
}

// NewGetGoalHandler creates a new GetGoalHandler.
func NewGetGoalHandler(svc goalGetter) *GetGoalHandler {
	return &GetGoalHandler{GoalService: svc}
}

// Register registers the get goal endpoint with the Huma API.
func (h *GetGoalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-goal",
		Method:      http.MethodGet,
		Path:        "/v1/goal/{id}",
		Summary:     "Get goal",
		Description: "Returns one of the owner's goals with progress against the current balance.",
		Tags:        []string{"Goals"},
	}, h.handle)
}

func (h *GetGoalHandler) handle(ctx context.Context, input *GetGoalInput) (*GetGoalOutput, error) {
	ownerID, err := input.OwnerID()
	if err != nil {
		return nil, err
	}
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid goal id", err)
	}

	g, err := h.GoalService.GetGoal(ctx, ownerID, id)
	if err != nil {
		return nil, request.Error("failed to get goal", err)
	}

	return &GetGoalOutput{
		Body: GetGoalResponseBody{Goal: fromService(*g)},
	}, nil
}
