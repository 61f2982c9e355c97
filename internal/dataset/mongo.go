package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/smartfactory/sensorstats/internal/domain"
)

// MongoSource reads records from a MongoDB collection holding one reading
// per document (timestamp, location, sensor, value fields). Documents are
// normalized through the same helpers as CSV rows.
type MongoSource struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoConnection(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = client.Ping(ctx, readpref.Primary())

	return client, nil
}

func NewMongoSource(client *mongo.Client, database, collection string) (*MongoSource, error) {
	coll := client.Database(database).Collection(collection)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: 1}},
	})

	return &MongoSource{client: client, collection: coll}, nil
}

func (s *MongoSource) Name() string {
	return "mongodb:" + s.collection.Name()
}

// readingDoc keeps value untyped so that non-numeric documents coerce to a
// missing value instead of failing the whole load.
type readingDoc struct {
	Timestamp time.Time `bson:"timestamp"`
	Location  string    `bson:"location"`
	Sensor    string    `bson:"sensor"`
	Value     any       `bson:"value"`
}

func (s *MongoSource) Fetch(ctx context.Context) ([]domain.Record, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %v", domain.ErrDataLoad, s.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	var records []domain.Record
	dropped := 0
	for cursor.Next(ctx) {
		var doc readingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrDataLoad, s.collection.Name(), err)
		}
		if doc.Timestamp.IsZero() {
			dropped++
			continue
		}
		records = append(records, domain.Record{
			Timestamp: doc.Timestamp.UTC(),
			Location:  domain.NormalizeLabel(doc.Location),
			Sensor:    domain.NormalizeLabel(doc.Sensor),
			Value:     coerceValue(doc.Value),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating %s: %v", domain.ErrDataLoad, s.collection.Name(), err)
	}

	if dropped > 0 {
		log.Printf("Dropped %d documents without timestamps from %s", dropped, s.collection.Name())
	}
	return records, nil
}

// Modified uses the newest stored timestamp as the freshness marker, so
// appending readings triggers a reload on the next check.
func (s *MongoSource) Modified(ctx context.Context) (time.Time, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	var doc readingDoc
	err := s.collection.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("finding newest reading in %s: %w", s.collection.Name(), err)
	}
	return doc.Timestamp.UTC(), nil
}

func (s *MongoSource) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func coerceValue(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return nil
	}
	return &f
}
