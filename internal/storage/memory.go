package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
)

// In-memory store implementations. They honor the same ownership and error
// contracts as the Mongo stores and back tests and local development.

var _ ITransactionStore = (*MemoryTransactionStore)(nil)

type MemoryTransactionStore struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*Transaction
}

func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{transactions: make(map[uuid.UUID]*Transaction)}
}

func newTransaction(id uuid.UUID, create *TransactionCreate, now time.Time) *Transaction {
	return &Transaction{
		ID:          id,
		OwnerID:     create.OwnerID,
		Amount:      create.Amount,
		Tags:        append([]string(nil), create.Tags...),
		Name:        create.Name,
		Description: create.Description,
		OccurredAt:  create.OccurredAt,
		ExternalID:  create.ExternalID,
		Source:      create.Source,
		CreatedAt:   now,
	}
}

func copyTransaction(tx *Transaction) *Transaction {
	out := *tx
	out.Tags = append([]string(nil), tx.Tags...)
	return &out
}

func (s *MemoryTransactionStore) Insert(ctx context.Context, create *TransactionCreate) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.Must(uuid.NewV4())
	s.transactions[id] = newTransaction(id, create, time.Now().UTC())
	return id, nil
}

func (s *MemoryTransactionStore) InsertMany(ctx context.Context, creates []*TransactionCreate) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	ids := make([]uuid.UUID, len(creates))
	for i, create := range creates {
		ids[i] = uuid.Must(uuid.NewV4())
		s.transactions[ids[i]] = newTransaction(ids[i], create, now)
	}
	return ids, nil
}

func (s *MemoryTransactionStore) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	if tx.OwnerID != ownerID {
		return nil, ledger.ErrNotAuthorized
	}
	return copyTransaction(tx), nil
}

func matchesFilter(tx *Transaction, filter *TransactionFilter) bool {
	if filter == nil {
		return true
	}
	if filter.StartDate != nil && tx.OccurredAt.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && tx.OccurredAt.After(*filter.EndDate) {
		return false
	}
	for _, want := range filter.Tags {
		found := false
		for _, tag := range tx.Tags {
			if tag == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *MemoryTransactionStore) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter *TransactionFilter) ([]*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Transaction
	for _, tx := range s.transactions {
		if tx.OwnerID != ownerID || !matchesFilter(tx, filter) {
			continue
		}
		result = append(result, copyTransaction(tx))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OccurredAt.Equal(result[j].OccurredAt) {
			return result[i].OccurredAt.After(result[j].OccurredAt)
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter != nil && filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *MemoryTransactionStore) FindExternalIDs(ctx context.Context, ownerID uuid.UUID, externalIDs []string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make(map[string]struct{}, len(externalIDs))
	for _, externalID := range externalIDs {
		candidates[externalID] = struct{}{}
	}

	existing := make(map[string]struct{})
	for _, tx := range s.transactions {
		if tx.OwnerID != ownerID || tx.ExternalID == "" {
			continue
		}
		if _, ok := candidates[tx.ExternalID]; ok {
			existing[tx.ExternalID] = struct{}{}
		}
	}
	return existing, nil
}

func (s *MemoryTransactionStore) Update(ctx context.Context, ownerID, id uuid.UUID, update *TransactionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok {
		return ledger.ErrNotFound
	}
	if tx.OwnerID != ownerID {
		return ledger.ErrNotAuthorized
	}

	if update.Amount != nil {
		tx.Amount = *update.Amount
	}
	if update.Tags != nil {
		tx.Tags = append([]string(nil), *update.Tags...)
	}
	if update.Name != nil {
		tx.Name = *update.Name
	}
	if update.Description != nil {
		tx.Description = *update.Description
	}
	if update.OccurredAt != nil {
		tx.OccurredAt = *update.OccurredAt
	}
	return nil
}

func (s *MemoryTransactionStore) DeleteByID(ctx context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok {
		return ledger.ErrNotFound
	}
	if tx.OwnerID != ownerID {
		return ledger.ErrNotAuthorized
	}
	delete(s.transactions, id)
	return nil
}

func (s *MemoryTransactionStore) DeleteMany(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if tx, ok := s.transactions[id]; ok && tx.OwnerID != ownerID {
			return 0, ledger.ErrNotAuthorized
		}
	}

	var deleted int64
	for _, id := range ids {
		if _, ok := s.transactions[id]; ok {
			delete(s.transactions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryTransactionStore) DeleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, tx := range s.transactions {
		if tx.OwnerID == ownerID {
			delete(s.transactions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryTransactionStore) SumAmounts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, tx := range s.transactions {
		if tx.OwnerID == ownerID {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}

var _ IBalanceStore = (*MemoryBalanceStore)(nil)

type MemoryBalanceStore struct {
	mu       sync.RWMutex
	balances map[uuid.UUID]decimal.Decimal
}

func NewMemoryBalanceStore() *MemoryBalanceStore {
	return &MemoryBalanceStore{balances: make(map[uuid.UUID]decimal.Decimal)}
}

func (s *MemoryBalanceStore) Get(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balance, ok := s.balances[ownerID]
	if !ok {
		return decimal.Zero, nil
	}
	return balance, nil
}

func (s *MemoryBalanceStore) Set(ctx context.Context, ownerID uuid.UUID, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balances[ownerID] = balance
	return nil
}

var _ IGoalStore = (*MemoryGoalStore)(nil)

type MemoryGoalStore struct {
	mu    sync.RWMutex
	goals map[uuid.UUID]*Goal
}

func NewMemoryGoalStore() *MemoryGoalStore {
	return &MemoryGoalStore{goals: make(map[uuid.UUID]*Goal)}
}

func (s *MemoryGoalStore) Insert(ctx context.Context, create *GoalCreate) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.Must(uuid.NewV4())
	s.goals[id] = &Goal{
		ID:          id,
		OwnerID:     create.OwnerID,
		Name:        create.Name,
		TargetValue: create.TargetValue,
		TargetDate:  create.TargetDate,
		CreatedAt:   time.Now().UTC(),
	}
	return id, nil
}

func (s *MemoryGoalStore) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goal, ok := s.goals[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	if goal.OwnerID != ownerID {
		return nil, ledger.ErrNotAuthorized
	}
	out := *goal
	return &out, nil
}

func (s *MemoryGoalStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Goal
	for _, goal := range s.goals {
		if goal.OwnerID == ownerID {
			out := *goal
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TargetDate.Before(result[j].TargetDate)
	})
	return result, nil
}

func (s *MemoryGoalStore) DeleteByID(ctx context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[id]
	if !ok {
		return ledger.ErrNotFound
	}
	if goal.OwnerID != ownerID {
		return ledger.ErrNotAuthorized
	}
	delete(s.goals, id)
	return nil
}
