package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Goal represents a savings goal in the service layer. Progress is derived
// from the owner's current balance at read time.
type Goal struct {
	ID          uuid.UUID
	Name        string
	TargetValue decimal.Decimal
	TargetDate  time.Time
	// Progress is the balance-to-target ratio, clamped to [0, 1].
	Progress decimal.Decimal
	CreatedAt time.Time
}

// GoalCreate is the input for creating a new goal.
type GoalCreate struct {
	Name        string
	TargetValue decimal.Decimal
	TargetDate  time.Time
}
