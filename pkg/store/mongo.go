package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo defaults.
const (
	DefaultDatabase   = "okplanar"
	DefaultCollection = "results"
)

// MongoStore keeps records in a MongoDB collection, one document per
// record with the record ID as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri, pings the server and makes sure the
// (run_id, index) index exists. Empty database or collection names fall
// back to the defaults.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(database).Collection(collection)
	if _, err := coll.Indexes().CreateOne(connectCtx, runIndex()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create run index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	_, err := s.coll.ReplaceOne(ctx, idFilter(rec.ID), rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, idFilter(id)).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", id, err)
	}
	return &rec, nil
}

func (s *MongoStore) Run(ctx context.Context, runID string) ([]*Record, error) {
	cur, err := s.coll.Find(ctx, runFilter(runID), options.Find().SetSort(indexSort()))
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	out := []*Record{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func idFilter(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func runFilter(runID string) bson.D {
	return bson.D{{Key: "run_id", Value: runID}}
}

func indexSort() bson.D {
	return bson.D{{Key: "index", Value: 1}}
}

func runIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "index", Value: 1}},
		Options: options.Index().SetName("run_id_index"),
	}
}

var _ Store = (*MongoStore)(nil)
