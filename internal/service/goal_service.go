package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

// GoalService handles savings goal business logic.
type GoalService struct {
	storage *storage.Storage
}

// NewGoalService creates a new GoalService.
func NewGoalService(store *storage.Storage) *GoalService {
	return &GoalService{storage: store}
}

// CreateGoal creates a new goal and returns its ID.
func (s *GoalService) CreateGoal(ctx context.Context, ownerID uuid.UUID, goal GoalCreate) (uuid.UUID, error) {
	if goal.Name == "" {
		return uuid.Nil, ledger.NewValidationError("name", "must not be empty")
	}
	if !goal.TargetValue.IsPositive() {
		return uuid.Nil, ledger.NewValidationError("targetValue", "must be greater than zero")
	}

	return s.storage.Goals.Insert(ctx, &storage.GoalCreate{
		OwnerID:     ownerID,
		Name:        goal.Name,
		TargetValue: goal.TargetValue,
		TargetDate:  goal.TargetDate,
	})
}

// GetGoal retrieves one of the owner's goals, with progress against the
// current balance.
func (s *GoalService) GetGoal(ctx context.Context, ownerID, id uuid.UUID) (*Goal, error) {
	row, err := s.storage.Goals.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	balance, err := s.storage.Balances.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	converted := goalFromStorage(row, balance)
	return &converted, nil
}

// ListGoals returns all of the owner's goals with progress computed against
// the current balance, soonest target date first.
func (s *GoalService) ListGoals(ctx context.Context, ownerID uuid.UUID) ([]Goal, error) {
	rows, err := s.storage.Goals.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	balance, err := s.storage.Balances.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	convertedGoals := make([]Goal, len(rows))
	for i, row := range rows {
		convertedGoals[i] = goalFromStorage(row, balance)
	}
	return convertedGoals, nil
}

// DeleteGoal removes one of the owner's goals.
func (s *GoalService) DeleteGoal(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.storage.Goals.DeleteByID(ctx, ownerID, id)
}

func goalFromStorage(row *storage.Goal, balance decimal.Decimal) Goal {
	return Goal{
		ID:          row.ID,
		Name:        row.Name,
		TargetValue: row.TargetValue,
		TargetDate:  row.TargetDate,
		Progress:    ledger.GoalProgress(balance, row.TargetValue),
		CreatedAt:   row.CreatedAt,
	}
}
