package goal

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/request"
	"github.com/FBLACOMPBG2024/ledger-server/internal/service"
)

// ListGoalsInput is the Huma input for listing goals.
type ListGoalsInput struct {
	request.Owner
}

// ListGoalsResponseBody is the response body for listing goals.
type ListGoalsResponseBody struct {
	Goals []Goal `json:"goals" doc:"Goals, soonest target date first"`
}

// ListGoalsOutput is the Huma output for listing goals.
type ListGoalsOutput struct {
	Body ListGoalsResponseBody
}

// goalLister is the interface for listing goals.
type goalLister interface {
	ListGoals(ctx context.Context, ownerID uuid.UUID) ([]service.Goal, error)
}

// ListGoalsHandler handles GET /v1/goal.
type ListGoalsHandler struct {
	GoalService goalLister
}

// NewListGoalsHandler creates a new ListGoalsHandler.
func NewListGoalsHandler(svc goalLister) *ListGoalsHandler {
	return &ListGoalsHandler{GoalService: svc}
}

// Register registers the list goals endpoint with the Huma API.
func (h *ListGoalsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-goals",
		Method:      http.MethodGet,
		Path:        "/v1/goal",
		Summary:     "List goals",
		Description: "Returns the owner's goals with progress against the current balance.",
		Tags:        []string{"Goals"},
	}, h.handle)
}

func (h *ListGoalsHandler) handle(ctx context.Context, input *ListGoalsInput) (*ListGoalsOutput, error) {
	ownerID, err := input.OwnerID()
	if err != nil {
		return nil, err
	}

	goals, err := h.GoalService.ListGoals(ctx, ownerID)
	if err != nil {
		return nil, request.Error("failed to list goals", err)
	}

	resp := ListGoalsResponseBody{
		Goals: make([]Goal, len(goals)),
	}
	for i, g := range goals {
		resp.Goals[i] = fromService(g)
	}

	return &ListGoalsOutput{Body: resp}, nil
}
