package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID          uuid.UUID
	Amount      decimal.Decimal
	Tags        []string
	Name        string
	Description string
	OccurredAt  time.Time
	ExternalID  string
	Source      string
	CreatedAt   time.Time
}

// TransactionQuery narrows a transaction listing. Zero values mean
// unconstrained.
type TransactionQuery struct {
	StartDate *time.Time
	EndDate   *time.Time
	Tags      []string
	Limit     int
}

// BalanceReport is the outcome of checking the stored balance against the
// transaction set.
type BalanceReport struct {
	Stored     decimal.Decimal
	Recomputed decimal.Decimal
	Consistent bool
}
