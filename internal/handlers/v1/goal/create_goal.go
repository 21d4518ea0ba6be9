package goal

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FBLACOMPBG2024/ledger-server/internal/handlers/v1/request"
	"github.com/FBLACOMPBG2024/ledger-server/internal/service"
)

// CreateGoalBody is the request body for creating a goal.
type CreateGoalBody struct {
	Name        string `json:"name" required:"true" minLength:"1" doc:"Name of the goal"`
	TargetValue string `json:"targetValue" required:"true" doc:"Decimal target amount, must be positive"`
	TargetDate  string `json:"targetDate,omitempty" doc:"RFC3339 target date"`
}

// CreateGoalInput is the Huma input for creating a goal.
type CreateGoalInput struct {
	request.Owner
	Body CreateGoalBody
}

// CreateGoalResponseBody is the response body for creating a goal.
type CreateGoalResponseBody struct {
	ID string `json:"id" doc:"UUID of the created goal"`
}

// CreateGoalOutput is the Huma output for creating a goal.
type CreateGoalOutput struct {
	Body CreateGoalResponseBody
}

// goalCreator is the interface for creating goals.
type goalCreator interface {
	CreateGoal(ctx context.Context, ownerID uuid.UUID, goal service.GoalCreate) (uuid.UUID, error)
}

// CreateGoalHandler handles POST /v1/goal.
type CreateGoalHandler struct {
	GoalService goalCreator
}

// NewCreateGoalHandler creates a new CreateGoalHandler.
func NewCreateGoalHandler(svc goalCreator) *CreateGoalHandler {
	return &CreateGoalHandler{GoalService: svc}
}

// Register registers the create goal endpoint with the Huma API.
func (h *CreateGoalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-goal",
		Method:        http.MethodPost,
		Path:          "/v1/goal",
		Summary:       "Create goal",
		Description:   "Creates a savings goal. Progress is derived from the balance on read.",
		Tags:          []string{"Goals"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateGoalInput parses and validates the API input.
func parseCreateGoalInput(input *CreateGoalInput) (targetValue decimal.Decimal, targetDate time.Time, err error) {
	targetValue, err = decimal.NewFromString(input.Body.TargetValue)
	if err != nil {
		return decimal.Decimal{}, time.Time{}, huma.NewError(http.StatusBadRequest, "invalid targetValue", err)
	}

	if input.Body.TargetDate != "" {
		targetDate, err = time.Parse(time.RFC3339, input.Body.TargetDate)
		if err != nil {
			return decimal.Decimal{}, time.Time{}, huma.NewError(http.StatusBadRequest, "invalid targetDate", err)
		}
	}

	return targetValue, targetDate, nil
}

func (h *CreateGoalHandler) handle(ctx context.Context, input *CreateGoalInput) (*CreateGoalOutput, error) {
	ownerID, err := input.OwnerID()
	if err != nil {
		return nil, err
	}
	targetValue, targetDate, err := parseCreateGoalInput(input)
	if err != nil {
		return nil, err
	}

	id, err := h.GoalService.CreateGoal(ctx, ownerID, service.GoalCreate{
		Name:        input.Body.Name,
		TargetValue: targetValue,
		TargetDate:  targetDate,
	})
	if err != nil {
		return nil, request.Error("failed to create goal", err)
	}

	return &CreateGoalOutput{
		Body: CreateGoalResponseBody{ID: id.String()},
	}, nil
}
