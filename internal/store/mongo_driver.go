package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

const mongoTimeout = 10 * time.Second

// mongoDriver is the remote backend, one Mongo collection per record kind.
// The record's id doubles as the Mongo _id so lookups stay single-key.
type mongoDriver struct {
	db *mongo.Database
}

// NewMongoDriver wraps an already-connected database.
func NewMongoDriver(db *mongo.Database) Driver {
	return &mongoDriver{db: db}
}

func (d *mongoDriver) Name() string { return "mongo" }

func (d *mongoDriver) Insert(ctx context.Context, collection string, rec ports.Record) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	doc := bson.M{}
	for k, v := range rec {
		doc[k] = v
	}
	doc["_id"] = rec["id"]

	if _, err := d.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo insert %s: %w", collection, err)
	}
	return nil
}

func (d *mongoDriver) Get(ctx context.Context, collection, id string) (ports.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var doc bson.M
	err := d.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mongo get %s/%s: %w", collection, id, err)
	}
	return normalizeDoc(doc), nil
}

func (d *mongoDriver) List(ctx context.Context, collection string, filter map[string]any) ([]ports.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	query := bson.M{}
	for field, value := range filter {
		query[field] = value
	}

	cursor, err := d.db.Collection(collection).Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var recs []ports.Record
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo decode %s: %w", collection, err)
		}
		recs = append(recs, normalizeDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor %s: %w", collection, err)
	}
	return recs, nil
}

func (d *mongoDriver) Replace(ctx context.Context, collection, id string, rec ports.Record) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	doc := bson.M{}
	for k, v := range rec {
		doc[k] = v
	}
	doc["_id"] = id

	res, err := d.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("mongo replace %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (d *mongoDriver) Delete(ctx context.Context, collection, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	res, err := d.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("mongo delete %s/%s: %w", collection, id, err)
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes creates the lookup indexes the portal's filtered reads use.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	byCollection := map[string][]mongo.IndexModel{
		ports.CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "studentId", Value: 1}}},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		ports.CollectionEvents: {
			{Keys: bson.D{{Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "campus", Value: 1}}},
		},
		ports.CollectionRegistrations: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "eventId", Value: 1}}},
		},
		ports.CollectionAttendance: {
			{Keys: bson.D{{Key: "studentId", Value: 1}}},
		},
	}

	for collection, indexes := range byCollection {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure indexes %s: %w", collection, err)
		}
	}
	return nil
}

// normalizeDoc converts a decoded bson document into the plain map form the
// rest of the store works with: _id dropped (id is carried as a field) and
// bson array/number types folded to their json equivalents.
func normalizeDoc(doc bson.M) ports.Record {
	rec := ports.Record{}
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		rec[k] = normalizeValue(v)
	}
	return rec
}

func normalizeValue(v any) any {
	switch n := v.(type) {
	case primitive.A:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = normalizeValue(item)
		}
		return out
	case bson.M:
		out := map[string]any{}
		for k, item := range n {
			out[k] = normalizeValue(item)
		}
		return out
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return v
	}
}
