package service

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// LedgerService handles the read side of the ledger: balances, listings, and
// consistency checks.
type LedgerService struct {
	storage *storage.Storage
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store *storage.Storage) *LedgerService {
	return &LedgerService{storage: store}
}

// GetBalance returns the stored balance for the owner. Owners with no
// recorded transactions have a zero balance.
func (s *LedgerService) GetBalance(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	return s.storage.Balances.Get(ctx, ownerID)
}

// GetTransaction retrieves one of the owner's transactions by id.
func (s *LedgerService) GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error) {
	row, err := s.storage.Transactions.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	converted := transactionFromStorage(row)
	return &converted, nil
}

// ListTransactions returns the owner's transactions, most recent first.
func (s *LedgerService) ListTransactions(ctx context.Context, ownerID uuid.UUID, query *TransactionQuery) ([]Transaction, error) {
	limit := defaultLimit
	filter := &storage.TransactionFilter{}
	if query != nil {
		if query.Limit > 0 {
			limit = query.Limit
		}
		filter.StartDate = query.StartDate
		filter.EndDate = query.EndDate
		filter.Tags = query.Tags
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	filter.Limit = limit

	rows, err := s.storage.Transactions.FindByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	convertedTransactions := make([]Transaction, len(rows))
	for i, row := range rows {
		convertedTransactions[i] = transactionFromStorage(row)
	}
	return convertedTransactions, nil
}

// VerifyBalance recomputes the owner's balance and compares it against the
// stored one. Returns ledger.ErrBalanceInconsistent when they diverge; the
// report carries both figures either way.
func (s *LedgerService) VerifyBalance(ctx context.Context, ownerID uuid.UUID) (*BalanceReport, error) {
	stored, err := s.storage.Balances.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	recomputed, err := s.storage.Transactions.SumAmounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	report := &BalanceReport{
		Stored:     stored,
		Recomputed: recomputed,
		Consistent: stored.Equal(recomputed),
	}
	if !report.Consistent {
		return report, ledger.ErrBalanceInconsistent
	}
	return report, nil
}

func transactionFromStorage(row *storage.Transaction) Transaction {
	return Transaction{
		ID:          row.ID,
		Amount:      row.Amount,
		Tags:        row.Tags,
		Name:        row.Name,
		Description: row.Description,
		OccurredAt:  row.OccurredAt,
		ExternalID:  row.ExternalID,
		Source:      string(row.Source),
		CreatedAt:   row.CreatedAt,
	}
}
