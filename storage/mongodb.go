package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/textbin/textbin/models"
)

// MongoStore implements PasteStore using MongoDB
type MongoStore struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection
}

// NewMongoStore creates a new MongoDB storage backend
func NewMongoStore(url, dbName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	database := client.Database(dbName)
	collection := database.Collection("pastes")

	store := &MongoStore{
		client:     client,
		database:   database,
		collection: collection,
	}

	if err := store.createIndexes(); err != nil {
		return nil, err
	}

	return store, nil
}

// createIndexes creates necessary indexes for the collection. expires_at is
// a plain index, not a TTL index: expired pastes must stay queryable for
// metadata until the cleanup sweep removes them.
func (m *MongoStore) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expiresAtIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "expires_at", Value: 1}},
	}
	createdAtIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		expiresAtIndex,
		createdAtIndex,
	})

	return err
}

// Get retrieves a paste by its ID. Expired pastes are returned as-is; the
// service layer decides whether access is denied.
func (m *MongoStore) Get(id string) (*models.Paste, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var paste models.Paste
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&paste)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		return nil, err
	}

	return &paste, nil
}

// Insert saves a new paste. The unique _id index is the authoritative
// backstop for ID collisions.
func (m *MongoStore) Insert(paste *models.Paste) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.collection.InsertOne(ctx, paste)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateID
	}
	return err
}

// IncrementViewCount atomically increments the view count via $inc and
// returns the post-increment count
func (m *MongoStore) IncrementViewCount(id string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var updated models.Paste
	err := m.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc":         bson.M{"view_count": 1},
			"$currentDate": bson.M{"updated_at": true},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrNotFound
		}
		return 0, err
	}

	return updated.ViewCount, nil
}

// Delete removes a paste and reports whether it was present
func (m *MongoStore) Delete(id string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// expiryFilter matches pastes past their deadline or at/over their view quota
func expiryFilter(now time.Time) bson.M {
	return bson.M{
		"$or": bson.A{
			bson.M{"expires_at": bson.M{"$ne": nil, "$lte": now}},
			bson.M{
				"max_views": bson.M{"$ne": nil},
				"$expr":     bson.M{"$gte": bson.A{"$view_count", "$max_views"}},
			},
		},
	}
}

// DeleteExpired removes all pastes matching the expiry predicate
func (m *MongoStore) DeleteExpired(now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := m.collection.DeleteMany(ctx, expiryFilter(now))
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Count returns the total number of stored pastes
func (m *MongoStore) Count() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return m.collection.CountDocuments(ctx, bson.M{})
}

// CountActive returns the number of pastes not matching the expiry predicate
func (m *MongoStore) CountActive(now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return m.collection.CountDocuments(ctx, bson.M{"$nor": bson.A{expiryFilter(now)}})
}

// Close closes the MongoDB connection
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return m.client.Disconnect(ctx)
}
