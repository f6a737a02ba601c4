package sink

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/gliffydb/pkg/errors"
)

// MongoSink upserts documents into a collection keyed by name.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Record is the stored form of a document.
type Record struct {
	Name      string    `bson:"_id"`
	Document  string    `bson:"document"`
	Size      int       `bson:"size"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewRecord builds the record stored for a document.
func NewRecord(name string, data []byte, now time.Time) Record {
	return Record{Name: name, Document: string(data), Size: len(data), UpdatedAt: now.UTC()}
}

// DialMongo connects to uri and uses database.collection, falling back to
// the default names when they are empty.
func DialMongo(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo sink needs a connection URI")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongo")
	}
	return &MongoSink{client: client, collection: client.Database(database).Collection(collection)}, nil
}

// Write implements Sink and returns "<database>.<collection>/<name>".
func (s *MongoSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	name, err := documentName(name)
	if err != nil {
		return "", err
	}
	rec := NewRecord(name, data, time.Now())
	opts := options.Replace().SetUpsert(true)
	err = RetryWithBackoff(ctx, func() error {
		_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": rec.Name}, rec, opts)
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			return Retryable(err)
		}
		return err
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "mongo upsert %s", name)
	}
	return s.collection.Database().Name() + "." + s.collection.Name() + "/" + name, nil
}

// Close disconnects the client.
func (s *MongoSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Sink = (*MongoSink)(nil)
