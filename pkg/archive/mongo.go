package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sdjayna/penplot/pkg/errors"
)

// MongoOptions configures [NewMongoStore].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps entries as documents:
//
//	{_id: <uuid>, name, svg, config, created_at, size}
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

type mongoDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	SVG       string    `bson:"svg"`
	Config    string    `bson:"config"`
	CreatedAt time.Time `bson:"created_at"`
	Size      int       `bson:"size"`
}

// NewMongoStore connects, pings the primary and ensures an index on
// (name, created_at).
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "create archive index")
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

// Save inserts e under a fresh UUID.
func (s *MongoStore) Save(ctx context.Context, e Entry) (Record, error) {
	if err := e.validate(); err != nil {
		return Record{}, err
	}
	config, err := e.configJSON()
	if err != nil {
		return Record{}, err
	}
	doc := mongoDoc{
		ID:        uuid.NewString(),
		Name:      e.Name,
		SVG:       string(e.SVG),
		Config:    config,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		Size:      len(e.SVG),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeNetwork, err, "insert archive entry")
	}
	return s.record(doc), nil
}

// List returns the entries for name, newest first.
func (s *MongoStore) List(ctx context.Context, name string) ([]Record, error) {
	if err := errors.ValidateOutputName(name); err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"svg": 0})
	cur, err := s.coll.Find(ctx, bson.M{"name": name}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query archive")
	}
	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read archive")
	}
	records := make([]Record, len(docs))
	for i, d := range docs {
		records[i] = s.record(d)
	}
	return records, nil
}

// SVG returns the stored document with the given id.
func (s *MongoStore) SVG(ctx context.Context, id string) ([]byte, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "archive entry %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read archive entry")
	}
	return []byte(doc.SVG), nil
}

// Close disconnects from the server.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) record(d mongoDoc) Record {
	return Record{
		ID:        d.ID,
		Name:      d.Name,
		Location:  fmt.Sprintf("mongodb:%s.%s/%s", s.coll.Database().Name(), s.coll.Name(), d.ID),
		CreatedAt: d.CreatedAt,
		Size:      d.Size,
	}
}

var _ Store = (*MongoStore)(nil)
