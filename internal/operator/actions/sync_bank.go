package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/FBLACOMPBG2024/ledger-server/internal/bankfeed"
	"github.com/FBLACOMPBG2024/ledger-server/internal/events"
	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
	"github.com/FBLACOMPBG2024/ledger-server/internal/storage"
)

// SyncBank reconciles the external bank feed into the ledger. Strictly
// additive: records whose external id is already present for the owner are
// skipped, nothing is modified or deleted, and an empty feed leaves the
// ledger and balance untouched.
type SyncBank struct {
	OwnerID                 uuid.UUID
	LinkedAccountCredential string

	// InsertedCount is set on success.
	InsertedCount int
}

func (a *SyncBank) Owner() uuid.UUID {
	return a.OwnerID
}

func (a *SyncBank) Perform(ctx context.Context, deps *Deps) error {
	feed, err := deps.Feed.FetchTransactions(ctx, a.LinkedAccountCredential)
	if err != nil {
		return ledger.ExternalSourceError(err)
	}
	if len(feed) == 0 {
		return nil
	}

	candidates := mapFeedTransactions(deps, a.OwnerID, feed)
	if len(candidates) == 0 {
		return nil
	}

	externalIDs := make([]string, len(candidates))
	for i, candidate := range candidates {
		externalIDs[i] = candidate.ExternalID
	}

	// One batched lookup over the whole candidate set; per-record queries
	// would make sync cost linear in feed size.
	existing, err := deps.Storage.Transactions.FindExternalIDs(ctx, a.OwnerID, externalIDs)
	if err != nil {
		return err
	}

	var newRecords []*storage.TransactionCreate
	for _, candidate := range candidates {
		if _, ok := existing[candidate.ExternalID]; ok {
			continue
		}
		newRecords = append(newRecords, candidate)
	}
	if len(newRecords) == 0 {
		return nil
	}

	if _, err := deps.Storage.Transactions.InsertMany(ctx, newRecords); err != nil {
		return err
	}

	// Bulk insert: full recompute, never accumulated deltas.
	total, err := deps.Storage.Transactions.SumAmounts(ctx, a.OwnerID)
	if err != nil {
		return fmt.Errorf("feed records inserted but balance recompute failed: %w", err)
	}
	if err := deps.Storage.Balances.Set(ctx, a.OwnerID, total); err != nil {
		return fmt.Errorf("feed records inserted but balance persistence failed: %w", err)
	}

	a.InsertedCount = len(newRecords)
	events.Notify(ctx, deps.Events, deps.Logger, events.Event{
		Type:    events.EventTransactionsSynced,
		OwnerID: a.OwnerID,
		Count:   a.InsertedCount,
	})
	return nil
}

// mapFeedTransactions converts provider records to the internal shape,
// keeping only the first occurrence of each external id (a feed repeating
// an id within itself is a provider anomaly).
func mapFeedTransactions(deps *Deps, ownerID uuid.UUID, feed []bankfeed.FeedTransaction) []*storage.TransactionCreate {
	seen := make(map[string]struct{}, len(feed))
	var candidates []*storage.TransactionCreate
	for _, record := range feed {
		if record.ProviderRecordID == "" {
			if deps.Logger != nil {
				deps.Logger.WithField("description", record.Description).
					Warn("SyncBank.skipping feed record without provider id")
			}
			continue
		}
		if _, ok := seen[record.ProviderRecordID]; ok {
			continue
		}
		seen[record.ProviderRecordID] = struct{}{}

		name := record.Description
		if name == "" {
			name = "Imported transaction"
		}
		var tags []string
		if record.Category != "" {
			tags = []string{record.Category}
		}

		candidates = append(candidates, &storage.TransactionCreate{
			OwnerID:    ownerID,
			Amount:     record.Amount,
			Tags:       tags,
			Name:       name,
			OccurredAt: record.OccurredAt,
			ExternalID: record.ProviderRecordID,
			Source:     storage.SourceImported,
		})
	}
	return candidates
}
