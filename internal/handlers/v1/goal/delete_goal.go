package goal

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/request"
)

// DeleteGoalInput is the Huma input for deleting a goal.
type DeleteGoalInput struct {
	request.Owner
	ID string `path:"id" doc:"Goal UUID"`
}

// DeleteGoalOutput is the Huma output for deleting a goal.
type DeleteGoalOutput struct {
	Status int
}

// goalDeleter is the interface for deleting goals.
type goalDeleter interface {
	DeleteGoal(ctx context.Context, ownerID, id uuid.UUID) error
}

// DeleteGoalHandler handles DELETE /v1/goal/{id}.
type DeleteGoalHandler struct {
	GoalService goalDeleter
}

// NewDeleteGoalHandler creates a new DeleteGoalHandler.
func NewDeleteGoalHandler(svc goalDeleter) *DeleteGoalHandler {
	return &DeleteGoalHandler{GoalService: svc}
}

// Register registers the delete goal endpoint with the Huma API.
func (h *DeleteGoalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-goal",
		Method:        http.MethodDelete,
		Path:          "/v1/goal/{id}",
		Summary:       "Delete goal",
		Description:   "Removes one of the owner's goals.",
		Tags:          []string{"Goals"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteGoalHandler) handle(ctx context.Context, input *DeleteGoalInput) (*DeleteGoalOutput, error) {
	ownerID, err := input.OwnerID()
	if err != nil {
		return nil, err
	}
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid goal id", err)
	}

	if err := h.GoalService.DeleteGoal(ctx, ownerID, id); err != nil {
		return nil, request.Error("failed to delete goal", err)
	}

	return &DeleteGoalOutput{Status: http.StatusNoContent}, nil
}
