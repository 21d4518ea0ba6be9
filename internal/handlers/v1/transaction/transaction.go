package transaction

import (
	"context"
	"time"

	"github.com/FBLACOMPBG2024/ledger-server/internal/operator/actions"
	"github.com/FBLACOMPBG2024/ledger-server/internal/service"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string   `json:"id" doc:"Transaction UUID"`
	Amount      string   `json:"amount" doc:"Decimal amount, negative for spending"`
	Tags        []string `json:"tags,omitempty" doc:"Tags for filtering"`
	Name        string   `json:"name" doc:"Name of the transaction"`
	Description string   `json:"description,omitempty" doc:"Free-form description"`
	OccurredAt  string   `json:"occurredAt" doc:"RFC3339 time the transaction occurred"`
	ExternalID  string   `json:"externalId,omitempty" doc:"Bank feed record id, imported transactions only"`
	Source      string   `json:"source" enum:"manual,imported" doc:"Origin of the record"`
	CreatedAt   string   `json:"createdAt" doc:"RFC3339 record creation time"`
}

// ledgerOperator enqueues a mutation and blocks for its outcome.
type ledgerOperator interface {
	Process(ctx context.Context, action actions.IAction) error
}

func fromStorage(row *storage.Transaction) Transaction {
	return Transaction{
		ID:          row.ID.String(),
		Amount:      row.Amount.String(),
		Tags:        row.Tags,
		Name:        row.Name,
		Description: row.Description,
		OccurredAt:  row.OccurredAt.Format(time.RFC3339),
		ExternalID:  row.ExternalID,
		Source:      string(row.Source),
		CreatedAt:   row.CreatedAt.Format(time.RFC3339),
	}
}

func fromService(tx service.Transaction) Transaction {
	return Transaction{
		ID:          tx.ID.String(),
		Amount:      tx.Amount.String(),
		Tags:        tx.Tags,
		Name:        tx.Name,
		Description: tx.Description,
		OccurredAt:  tx.OccurredAt.Format(time.RFC3339),
		ExternalID:  tx.ExternalID,
		Source:      tx.Source,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}
