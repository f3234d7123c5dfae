package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/observability"
)

const (
	// DefaultDatabase is used when no database name is configured.
	DefaultDatabase = "archgraph"

	// RunsCollection holds archived runs.
	RunsCollection = "runs"
)

// MongoStore archives runs in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewMongoStore connects to the MongoDB deployment at uri, verifies the
// connection and ensures the collection indexes exist.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "ping mongodb")
	}

	s := &MongoStore{
		client: client,
		runs:   client.Database(database).Collection(RunsCollection),
	}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.runs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "graph_hash", Value: 1}}},
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStore, err, "create indexes")
	}
	return nil
}

// Save upserts run by id.
func (s *MongoStore) Save(ctx context.Context, run *Run) error {
	start := time.Now()
	_, err := s.runs.ReplaceOne(ctx, bson.M{"_id": run.ID}, run, options.Replace().SetUpsert(true))
	if err != nil {
		err = apperrors.Wrap(apperrors.ErrCodeStore, err, "save run %s", run.ID)
	}
	observability.Store().OnSave(ctx, run.ID, time.Since(start), err)
	return err
}

// Get retrieves a run by id.
func (s *MongoStore) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "get run %s", id)
	}
	return &run, nil
}

// List returns the newest runs first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit))).
		SetProjection(summaryProjection)

	cur, err := s.runs.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "list runs")
	}
	defer cur.Close(ctx)

	summaries := []Summary{}
	if err := cur.All(ctx, &summaries); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "decode runs")
	}
	return summaries, nil
}

// summaryProjection shapes a Run document into a Summary server-side.
var summaryProjection = bson.D{
	{Key: "created_at", Value: 1},
	{Key: "graph_hash", Value: 1},
	{Key: "modules", Value: bson.M{"$size": "$graph.nodes"}},
	{Key: "valid", Value: "$validation.valid"},
}

// Prune removes runs created before cutoff and returns how many were removed.
func (s *MongoStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.runs.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeStore, err, "prune runs")
	}
	return int(res.DeletedCount), nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
