package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore wraps the Mongo client and the collections the service uses
type MongoStore struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Users        *mongo.Collection
		Debates      *mongo.Collection
		Participants *mongo.Collection
		Arguments    *mongo.Collection
		Results      *mongo.Collection
		Counters     *mongo.Collection
	}
}

// extractDBName parses the database name from the URI, defaulting to "debatehub"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "debatehub"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:]
	}
	return "debatehub"
}

// Connect establishes a connection to MongoDB and prepares collection
// handles and indexes.
func Connect(uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := &MongoStore{
		Client:   client,
		Database: client.Database(extractDBName(uri)),
	}
	db := store.Database
	store.Collections.Users = db.Collection("users")
	store.Collections.Debates = db.Collection("debates")
	store.Collections.Participants = db.Collection("debate_participants")
	store.Collections.Arguments = db.Collection("debate_arguments")
	store.Collections.Results = db.Collection("debate_results")
	store.Collections.Counters = db.Collection("counters")

	if err := store.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ensureIndexes creates the uniqueness constraints the lifecycle depends on:
// one result per debate, one (user, side) row per debate, unique user emails.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := s.Collections.Results.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "debateId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("failed to create result index: %w", err)
	}

	_, err = s.Collections.Participants.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "debateId", Value: 1},
			{Key: "userId", Value: 1},
			{Key: "side", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create participant index: %w", err)
	}

	_, err = s.Collections.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user index: %w", err)
	}
	return nil
}

// Close disconnects the underlying client
func (s *MongoStore) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
