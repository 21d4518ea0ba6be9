package storage

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
)

const BalancesCollection = "balances"

var _ IBalanceStore = (*MongoBalanceStore)(nil)

// MongoBalanceStore keeps one balance document per owner, keyed by owner id.
type MongoBalanceStore struct {
	collection *mongo.Collection
}

func NewMongoBalanceStore(db *mongo.Database) *MongoBalanceStore {
	return &MongoBalanceStore{collection: db.Collection(BalancesCollection)}
}

type balanceDoc struct {
	OwnerID   string               `bson:"_id"`
	Balance   primitive.Decimal128 `bson:"balance"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (s *MongoBalanceStore) Get(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	var doc balanceDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": ownerID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Decimal{}, ledger.StoreError(err)
	}
	balance, err := fromDecimal128(doc.Balance)
	if err != nil {
		return decimal.Decimal{}, ledger.StoreError(err)
	}
	return balance, nil
}

func (s *MongoBalanceStore) Set(ctx context.Context, ownerID uuid.UUID, balance decimal.Decimal) error {
	b128, err := toDecimal128(balance)
	if err != nil {
		return ledger.StoreError(err)
	}
	_, err = s.collection.UpdateOne(ctx,
		bson.M{"_id": ownerID.String()},
		bson.M{"$set": bson.M{"balance": b128, "updatedAt": time.Now().UTC()}},
		options.Update().SetUpsert(true))
	if err != nil {
		return ledger.StoreError(err)
	}
	return nil
}
