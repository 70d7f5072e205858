package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"robot-maze-server/maze"
)

const mongoTimeout = 10 * time.Second

// mongoLayout is the stored document. The layout name doubles as _id.
type mongoLayout struct {
	ID          string    `bson:"_id"`
	maze.Layout `bson:",inline"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per layout in a collection.
type MongoStore struct {
	client *mongo.Client // nil when built from a collection
	col    *mongo.Collection
}

// ConnectMongo connects to uri and uses database/collection.
func ConnectMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, col: client.Database(database).Collection(collection)}, nil
}

// NewMongoStore uses an existing collection. Close does not disconnect it.
func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

func (s *MongoStore) Save(ctx context.Context, l *maze.Layout) error {
	if err := validateLayout(l); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	doc := mongoLayout{ID: l.Name, Layout: *l, UpdatedAt: time.Now().UTC()}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": l.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save layout %q: %w", l.Name, err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (*maze.Layout, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	var doc mongoLayout
	if err := s.col.FindOne(ctx, bson.M{"_id": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load layout %q: %w", name, err)
	}
	return &doc.Layout, nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.ID
	}
	return names, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return fmt.Errorf("delete layout %q: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
