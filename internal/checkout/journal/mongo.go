package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tastybites/ordering/internal/checkout/domain"
)

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type mongoJournal struct {
	collection *mongo.Collection
}

func NewMongoJournal(db *mongo.Database) Journal {
	return &mongoJournal{
		collection: db.Collection("submissions"),
	}
}

func (m *mongoJournal) Begin(ctx context.Context, rec *Record) error {
	now := time.Now()
	rec.Status = domain.SubmissionSubmitting
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert submission record: %w", err)
	}
	return nil
}

func (m *mongoJournal) Complete(ctx context.Context, token string, status domain.SubmissionStatus, orderID int64, reason string) error {
	filter := bson.M{"_id": token}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"order_id":   orderID,
			"reason":     reason,
			"updated_at": time.Now(),
		},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update submission record: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (m *mongoJournal) Find(ctx context.Context, token string) (*Record, error) {
	var rec Record

	err := m.collection.FindOne(ctx, bson.M{"_id": token}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find submission record: %w", err)
	}

	return &rec, nil
}
