package storage

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
)

const GoalsCollection = "goals"

var _ IGoalStore = (*MongoGoalStore)(nil)

// MongoGoalStore implements IGoalStore on a MongoDB collection.
type MongoGoalStore struct {
	collection *mongo.Collection
}

func NewMongoGoalStore(db *mongo.Database) *MongoGoalStore {
	return &MongoGoalStore{collection: db.Collection(GoalsCollection)}
}

type goalDoc struct {
	ID          string               `bson:"_id"`
	OwnerID     string               `bson:"ownerId"`
	Name        string               `bson:"name"`
	TargetValue primitive.Decimal128 `bson:"targetValue"`
	TargetDate  time.Time            `bson:"targetDate"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

func docToGoal(doc *goalDoc) (*Goal, error) {
	id, err := uuid.FromString(doc.ID)
	if err != nil {
		return nil, err
	}
	ownerID, err := uuid.FromString(doc.OwnerID)
	if err != nil {
		return nil, err
	}
	target, err := fromDecimal128(doc.TargetValue)
	if err != nil {
		return nil, err
	}
	return &Goal{
		ID:          id,
		OwnerID:     ownerID,
		Name:        doc.Name,
		TargetValue: target,
		TargetDate:  doc.TargetDate,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

func (s *MongoGoalStore) Insert(ctx context.Context, create *GoalCreate) (uuid.UUID, error) {
	target, err := toDecimal128(create.TargetValue)
	if err != nil {
		return uuid.Nil, ledger.StoreError(err)
	}
	id := uuid.Must(uuid.NewV4())
	doc := &goalDoc{
		ID:          id.String(),
		OwnerID:     create.OwnerID.String(),
		Name:        create.Name,
		TargetValue: target,
		TargetDate:  create.TargetDate,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return uuid.Nil, ledger.StoreError(err)
	}
	return id, nil
}

func (s *MongoGoalStore) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Goal, error) {
	var doc goalDoc
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
	return docToGoal(&doc)
}

func (s *MongoGoalStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Goal, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "targetDate", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"ownerId": ownerID.String()}, findOptions)
	if err != nil {
		return nil, ledger.StoreError(err)
	}
	defer cursor.Close(ctx)

	var result []*Goal
	for cursor.Next(ctx) {
		var doc goalDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, ledger.StoreError(err)
		}
		goal, err := docToGoal(&doc)
		if err != nil {
			return nil, ledger.StoreError(err)
		}
		result = append(result, goal)
	}
	if err := cursor.Err(); err != nil {
		return nil, ledger.StoreError(err)
	}
	return result, nil
}

func (s *MongoGoalStore) DeleteByID(ctx context.Context, ownerID, id uuid.UUID) error {
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
