package storage

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Goal represents a savings goal. Progress against a goal is computed from
// the owner's balance on read, never stored.
type Goal struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	TargetValue decimal.Decimal
	TargetDate  time.Time
	CreatedAt   time.Time
}

// GoalCreate is the input for creating a new goal.
type GoalCreate struct {
	OwnerID     uuid.UUID
	Name        string
	TargetValue decimal.Decimal
	TargetDate  time.Time
}

// IGoalStore defines the interface for goal storage operations.
//
//go:generate mockery --name IGoalStore --output mock_IGoalStore.go
type IGoalStore interface {
	Insert(ctx context.Context, create *GoalCreate) (uuid.UUID, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Goal, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Goal, error)
	DeleteByID(ctx context.Context, ownerID, id uuid.UUID) error
}
