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

const TransactionsCollection = "transactions"

var _ ITransactionStore = (*MongoTransactionStore)(nil)

// MongoTransactionStore implements ITransactionStore on a MongoDB collection.
type MongoTransactionStore struct {
	collection *mongo.Collection
}

func NewMongoTransactionStore(db *mongo.Database) *MongoTransactionStore {
	return &MongoTransactionStore{collection: db.Collection(TransactionsCollection)}
}

type transactionDoc struct {
	ID          string               `bson:"_id"`
	OwnerID     string               `bson:"ownerId"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Tags        []string             `bson:"tags"`
	Name        string               `bson:"name"`
	Description string               `bson:"description,omitempty"`
	OccurredAt  time.Time            `bson:"occurredAt"`
	ExternalID  string               `bson:"externalId,omitempty"`
	Source      string               `bson:"source"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

func newTransactionDoc(id uuid.UUID, create *TransactionCreate, now time.Time) (*transactionDoc, error) {
	amount, err := toDecimal128(create.Amount)
	if err != nil {
		return nil, err
	}
	return &transactionDoc{
		ID:          id.String(),
		OwnerID:     create.OwnerID.String(),
		Amount:      amount,
		Tags:        create.Tags,
		Name:        create.Name,
		Description: create.Description,
		OccurredAt:  create.OccurredAt,
		ExternalID:  create.ExternalID,
		Source:      string(create.Source),
		CreatedAt:   now,
	}, nil
}

func docToTransaction(doc *transactionDoc) (*Transaction, error) {
	id, err := uuid.FromString(doc.ID)
	if err != nil {
		return nil, err
	}
	ownerID, err := uuid.FromString(doc.OwnerID)
	if err != nil {
		return nil, err
	}
	amount, err := fromDecimal128(doc.Amount)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		ID:          id,
		OwnerID:     ownerID,
		Amount:      amount,
		Tags:        doc.Tags,
		Name:        doc.Name,
		Description: doc.Description,
		OccurredAt:  doc.OccurredAt,
		ExternalID:  doc.ExternalID,
		Source:      Source(doc.Source),
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// Insert creates a new transaction and returns its generated ID.
func (s *MongoTransactionStore) Insert(ctx context.Context, create *TransactionCreate) (uuid.UUID, error) {
	id := uuid.Must(uuid.NewV4())
	doc, err := newTransactionDoc(id, create, time.Now().UTC())
	if err != nil {
		return uuid.Nil, ledger.StoreError(err)
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return uuid.Nil, ledger.StoreError(err)
	}
	return id, nil
}

// InsertMany inserts a batch of transactions and returns their generated IDs.
func (s *MongoTransactionStore) InsertMany(ctx context.Context, creates []*TransactionCreate) ([]uuid.UUID, error) {
	if len(creates) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	ids := make([]uuid.UUID, len(creates))
	docs := make([]interface{}, len(creates))
	for i, create := range creates {
		ids[i] = uuid.Must(uuid.NewV4())
		doc, err := newTransactionDoc(ids[i], create, now)
		if err != nil {
			return nil, ledger.StoreError(err)
		}
		docs[i] = doc
	}

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return nil, ledger.StoreError(err)
	}
	return ids, nil
}

// FindByID loads a transaction and re-verifies ownership. A record held by a
// different owner is reported as not authorized, never silently skipped.
func (s *MongoTransactionStore) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Transaction, error) {
	var doc transactionDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, ledger.StoreError(err)
	}
	if doc.OwnerID != ownerID.String() {
		return nil, ledger.ErrNotAuthorized
	}
	return docToTransaction(&doc)
}

// FindByOwner lists the owner's transactions matching the filter,
// most recent first.
func (s *MongoTransactionStore) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter *TransactionFilter) ([]*Transaction, error) {
	query := bson.M{"ownerId": ownerID.String()}
	if filter != nil {
		occurredAt := bson.M{}
		if filter.StartDate != nil {
			occurredAt["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			occurredAt["$lte"] = *filter.EndDate
		}
		if len(occurredAt) > 0 {
			query["occurredAt"] = occurredAt
		}
		if len(filter.Tags) > 0 {
			query["tags"] = bson.M{"$all": filter.Tags}
		}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "occurredAt", Value: -1}, {Key: "createdAt", Value: -1}})
	if filter != nil && filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
	}

	cursor, err := s.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, ledger.StoreError(err)
	}
	defer cursor.Close(ctx)

	var result []*Transaction
	for cursor.Next(ctx) {
		var doc transactionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, ledger.StoreError(err)
		}
		tx, err := docToTransaction(&doc)
		if err != nil {
			return nil, ledger.StoreError(err)
		}
		result = append(result, tx)
	}
	if err := cursor.Err(); err != nil {
		return nil, ledger.StoreError(err)
	}
	return result, nil
}

// FindExternalIDs resolves which candidate external ids already exist for the
// owner in one $in query. This is the bank-sync dedup primitive; per-record
// lookups would make sync cost linear in feed size.
func (s *MongoTransactionStore) FindExternalIDs(ctx context.Context, ownerID uuid.UUID, externalIDs []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(externalIDs) == 0 {
		return existing, nil
	}

	query := bson.M{
		"ownerId":    ownerID.String(),
		"externalId": bson.M{"$in": externalIDs},
	}
	projection := options.Find().SetProjection(bson.M{"externalId": 1})

	cursor, err := s.collection.Find(ctx, query, projection)
	if err != nil {
		return nil, ledger.StoreError(err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ExternalID string `bson:"externalId"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, ledger.StoreError(err)
		}
		existing[doc.ExternalID] = struct{}{}
	}
	if err := cursor.Err(); err != nil {
		return nil, ledger.StoreError(err)
	}
	return existing, nil
}

// Update applies the non-nil fields of update to the owner's transaction.
func (s *MongoTransactionStore) Update(ctx context.Context, ownerID, id uuid.UUID, update *TransactionUpdate) error {
	// Classifies not-found vs not-authorized before mutating.
	if _, err := s.FindByID(ctx, ownerID, id); err != nil {
		return err
	}

	set := bson.M{}
	if update.Amount != nil {
		amount, err := toDecimal128(*update.Amount)
		if err != nil {
			return ledger.StoreError(err)
		}
		set["amount"] = amount
	}
	if update.Tags != nil {
		set["tags"] = *update.Tags
	}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.OccurredAt != nil {
		set["occurredAt"] = *update.OccurredAt
	}
	if len(set) == 0 {
		return nil
	}

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id.String(), "ownerId": ownerID.String()},
		bson.M{"$set": set})
	if err != nil {
		return ledger.StoreError(err)
	}
	if result.MatchedCount == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// DeleteByID deletes the owner's transaction.
func (s *MongoTransactionStore) DeleteByID(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.FindByID(ctx, ownerID, id); err != nil {
		return err
	}
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id.String(), "ownerId": ownerID.String()})
	if err != nil {
		return ledger.StoreError(err)
	}
	if result.DeletedCount == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// DeleteMany deletes the given ids for the owner and returns the number
// deleted. If any id belongs to a different owner the whole operation is
// rejected. Ids that no longer exist are tolerated so retries stay idempotent.
func (s *MongoTransactionStore) DeleteMany(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	ownerCheck := options.Find().SetProjection(bson.M{"ownerId": 1})
	cursor, err := s.collection.Find(ctx, bson.M{"_id": bson.M{"$in": idStrings}}, ownerCheck)
	if err != nil {
		return 0, ledger.StoreError(err)
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var doc struct {
			OwnerID string `bson:"ownerId"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return 0, ledger.StoreError(err)
		}
		if doc.OwnerID != ownerID.String() {
			return 0, ledger.ErrNotAuthorized
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, ledger.StoreError(err)
	}

	result, err := s.collection.DeleteMany(ctx, bson.M{
		"_id":     bson.M{"$in": idStrings},
		"ownerId": ownerID.String(),
	})
	if err != nil {
		return 0, ledger.StoreError(err)
	}
	return result.DeletedCount, nil
}

// DeleteAll clears the owner's entire transaction set.
func (s *MongoTransactionStore) DeleteAll(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{"ownerId": ownerID.String()})
	if err != nil {
		return 0, ledger.StoreError(err)
	}
	return result.DeletedCount, nil
}

// SumAmounts computes the owner's balance from scratch with a server-side
// aggregation over Decimal128 amounts.
func (s *MongoTransactionStore) SumAmounts(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ownerId": ownerID.String()}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return decimal.Decimal{}, ledger.StoreError(err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return decimal.Decimal{}, ledger.StoreError(err)
		}
		// No transactions at all.
		return decimal.Zero, nil
	}

	var doc struct {
		Total primitive.Decimal128 `bson:"total"`
	}
	if err := cursor.Decode(&doc); err != nil {
		return decimal.Decimal{}, ledger.StoreError(err)
	}
	total, err := fromDecimal128(doc.Total)
	if err != nil {
		return decimal.Decimal{}, ledger.StoreError(err)
	}
	return total, nil
}
