package storage

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// IBalanceStore persists the single derived balance scalar per owner. The
// balance is always recomputable from the owner's transaction set; this store
// only caches the result of the last completed mutation.
//
//go:generate mockery --name IBalanceStore --output mock_IBalanceStore.go
type IBalanceStore interface {
	// Get returns the owner's stored balance. An owner with no stored
	// balance yet reads as zero, not as an error.
	Get(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
	Set(ctx context.Context, ownerID uuid.UUID, balance decimal.Decimal) error
}
