package service

import (
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

// Service holds all read-side business logic services. Mutations go through
// the operator instead so they serialize per owner.
type Service struct {
	Ledger *LedgerService
	Goal   *GoalService
}

// NewService creates a new Service with the given storage.
func NewService(store *storage.Storage) *Service {
	return &Service{
		Ledger: NewLedgerService(store),
		Goal:   NewGoalService(store),
	}
}
