package storage

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Source distinguishes manually entered transactions from bank-feed imports.
type Source string

const (
	SourceManual   Source = "manual"
	SourceImported Source = "imported"
)

// Transaction represents one ledger entry.
type Transaction struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Amount      decimal.Decimal
	Tags        []string
	Name        string
	Description string
	OccurredAt  time.Time
	// ExternalID is the bank-feed record identifier, set only on imported
	// transactions. Unique per owner among imported records.
	ExternalID string
	Source     Source
	CreatedAt  time.Time
}

// TransactionCreate is the input for inserting a new transaction.
type TransactionCreate struct {
	OwnerID     uuid.UUID
	Amount      decimal.Decimal
	Tags        []string
	Name        string
	Description string
	OccurredAt  time.Time
	ExternalID  string
	Source      Source
}

// TransactionUpdate carries the fields of an edit. Nil fields are left unchanged.
type TransactionUpdate struct {
	Amount      *decimal.Decimal
	Tags        *[]string
	Name        *string
	Description *string
	OccurredAt  *time.Time
}

// TransactionFilter specifies filters for listing an owner's transactions.
// Tags requires every listed tag to be present on a matching transaction.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Tags      []string
	Limit     int
}

// ITransactionStore defines the interface for transaction storage operations.
// Every operation is scoped by owner: a record that exists under a different
// owner yields ledger.ErrNotAuthorized, a missing record ledger.ErrNotFound.
//
//go:generate mockery --name ITransactionStore --output mock_ITransactionStore.go
type ITransactionStore interface {
	Insert(ctx context.Context, create *TransactionCreate) (uuid.UUID, error)
	InsertMany(ctx context.Context, creates []*TransactionCreate) ([]uuid.UUID, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter *TransactionFilter) ([]*Transaction, error)
	// FindExternalIDs returns which of the candidate external ids already
	// exist for the owner, resolved in a single query.
	FindExternalIDs(ctx context.Context, ownerID uuid.UUID, externalIDs []string) (map[string]struct{}, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, update *TransactionUpdate) error
	DeleteByID(ctx context.Context, ownerID, id uuid.UUID) error
	DeleteMany(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int64, error)
	DeleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error)
	// SumAmounts computes the full-recompute balance for the owner.
	SumAmounts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
}
