package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	errs "github.com/matzehuels/ringplace/pkg/errors"
)

// MongoOptions configures [NewMongoStore].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string

	// Timeout bounds server selection. Zero uses 10 seconds.
	Timeout time.Duration
}

// MongoStore keeps plans in a MongoDB collection with a unique index on
// name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects, pings the primary and ensures the name index.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Database == "" {
		opts.Database = "ringplace"
	}
	if opts.Collection == "" {
		opts.Collection = "plans"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(opts.Timeout))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnavailable, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeUnavailable, err, "ping mongodb")
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create name index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, p *Plan) error {
	if err := validate(p); err != nil {
		return err
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"name": p.Name, "_id": bson.M{"$ne": p.ID}}); err != nil {
		return fmt.Errorf("evict plan %q: %w", p.Name, err)
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Plan, error) {
	return s.findOne(ctx, bson.M{"_id": id}, id)
}

func (s *MongoStore) GetByName(ctx context.Context, name string) (*Plan, error) {
	return s.findOne(ctx, bson.M{"name": name}, name)
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M, ref string) (*Plan, error) {
	var p Plan
	err := s.coll.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("find plan: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Plan, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "name", Value: 1},
	}))
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	var plans []*Plan
	if err := cur.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	return plans, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
