package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FBLACOMPBG2024/ledger-server/internal/config"
)

// Storage aggregates the per-entity stores behind their interfaces so the
// backing implementation can be swapped without changing callers.
type Storage struct {
	Client       *mongo.Client
	Transactions ITransactionStore
	Balances     IBalanceStore
	Goals        IGoalStore
}

// NewStorage connects to MongoDB and returns a Storage backed by it.
func NewStorage(ctx context.Context, env *config.Config) (*Storage, error) {
	client, err := ConnectToMongoDB(ctx, env.MongoURI())
	if err != nil {
		return nil, err
	}

	db := client.Database(env.MongoDB)
	return &Storage{
		Client:       client,
		Transactions: NewMongoTransactionStore(db),
		Balances:     NewMongoBalanceStore(db),
		Goals:        NewMongoGoalStore(db),
	}, nil
}

// NewMemoryStorage returns a Storage backed entirely by in-memory stores.
// Used by tests and local development without a database.
func NewMemoryStorage() *Storage {
	return &Storage{
		Transactions: NewMemoryTransactionStore(),
		Balances:     NewMemoryBalanceStore(),
		Goals:        NewMemoryGoalStore(),
	}
}

// ConnectToMongoDB establishes and verifies a connection to MongoDB.
func ConnectToMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// Disconnect closes the underlying client, if any.
func (s *Storage) Disconnect(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	if err := s.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}
