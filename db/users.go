package db

import (
	"context"

	"debatehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateUser stores a new account
func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.Collections.Users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return models.ConflictError("email already registered")
	}
	if err != nil {
		return models.PersistenceError(err)
	}
	return nil
}

// GetUserByEmail looks up an account by email
func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.Collections.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, models.NotFoundError("user not found: %s", email)
	}
	if err != nil {
		return nil, models.PersistenceError(err)
	}
	return &user, nil
}

// GetUserByID looks up an account by id
func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.Collections.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, models.NotFoundError("user not found: %s", id)
	}
	if err != nil {
		return nil, models.PersistenceError(err)
	}
	return &user, nil
}
