package db

import (
	"context"
	"time"

	"debatehub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertDebate stores a new debate record
func (s *MongoStore) InsertDebate(ctx context.Context, debate *models.Debate) error {
	if _, err := s.Collections.Debates.InsertOne(ctx, debate); err != nil {
		return models.PersistenceError(err)
	}
	return nil
}

// GetDebate fetches a debate by id
func (s *MongoStore) GetDebate(ctx context.Context, id string) (*models.Debate, error) {
	var debate models.Debate
	err := s.Collections.Debates.FindOne(ctx, bson.M{"_id": id}).Decode(&debate)
	if err == mongo.ErrNoDocuments {
		return nil, models.NotFoundError("debate not found: %s", id)
	}
	if err != nil {
		return nil, models.PersistenceError(err)
	}
	return &debate, nil
}

// ListDebates returns all debates, newest first
func (s *MongoStore) ListDebates(ctx context.Context) ([]models.Debate, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.Collections.Debates.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, models.PersistenceError(err)
	}
	var debates []models.Debate
	if err := cursor.All(ctx, &debates); err != nil {
		return nil, models.PersistenceError(err)
	}
	return debates, nil
}

// UpdateDebateStatus moves a debate from one status to the next. The filter
// includes the expected current status so the lifecycle can never run
// backwards, whichever caller wins the race.
func (s *MongoStore) UpdateDebateStatus(ctx context.Context, id string, from, to models.Status, at time.Time) error {
	if !from.CanAdvanceTo(to) {
		return models.ConflictError("cannot move debate from %s to %s", from, to)
	}

	set := bson.M{"status": to}
	switch to {
	case models.StatusActive:
		set["startedAt"] = at
	case models.StatusCompleted:
		set["completedAt"] = at
	}

	res, err := s.Collections.Debates.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set})
	if err != nil {
		return models.PersistenceError(err)
	}
	if res.MatchedCount == 0 {
		if _, getErr := s.GetDebate(ctx, id); getErr != nil {
			return getErr
		}
		return models.ConflictError("debate is no longer %s", from)
	}
	return nil
}

// InsertParticipant adds a user to a debate side
func (s *MongoStore) InsertParticipant(ctx context.Context, participant *models.Participant) error {
	_, err := s.Collections.Participants.InsertOne(ctx, participant)
	if mongo.IsDuplicateKeyError(err) {
		return models.ConflictError("already joined side %s", participant.Side)
	}
	if err != nil {
		return models.PersistenceError(err)
	}
	return nil
}

// ListParticipants returns the roster of a debate
func (s *MongoStore) ListParticipants(ctx context.Context, debateID string) ([]models.Participant, error) {
	cursor, err := s.Collections.Participants.Find(ctx, bson.M{"debateId": debateID})
	if err != nil {
		return nil, models.PersistenceError(err)
	}
	var participants []models.Participant
	if err := cursor.All(ctx, &participants); err != nil {
		return nil, models.PersistenceError(err)
	}
	return participants, nil
}

// NextArgumentOrdinal bumps the per-debate, per-side counter and returns the
// new value. Assigning ordinals here instead of from a client-side count
// keeps the sequence gapless under concurrent submitters.
func (s *MongoStore) NextArgumentOrdinal(ctx context.Context, debateID string, side models.Side) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	err := s.Collections.Counters.FindOneAndUpdate(ctx,
		bson.M{"_id": debateID + ":" + string(side)},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts).Decode(&counter)
	if err != nil {
		return 0, models.PersistenceError(err)
	}
	return counter.Seq, nil
}

// InsertArgument appends an argument row
func (s *MongoStore) InsertArgument(ctx context.Context, argument *models.Argument) error {
	if _, err := s.Collections.Arguments.InsertOne(ctx, argument); err != nil {
		return models.PersistenceError(err)
	}
	return nil
}

// ListArguments returns a debate's arguments in creation order
func (s *MongoStore) ListArguments(ctx context.Context, debateID string) ([]models.Argument, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := s.Collections.Arguments.Find(ctx, bson.M{"debateId": debateID}, opts)
	if err != nil {
		return nil, models.PersistenceError(err)
	}
	var arguments []models.Argument
	if err := cursor.All(ctx, &arguments); err != nil {
		return nil, models.PersistenceError(err)
	}
	return arguments, nil
}

// InsertResult stores the verdict. The unique index on debateId guarantees
// at most one result per debate even if two evaluations race.
func (s *MongoStore) InsertResult(ctx context.Context, result *models.Result) error {
	_, err := s.Collections.Results.InsertOne(ctx, result)
	if mongo.IsDuplicateKeyError(err) {
		return models.ConflictError("debate already evaluated")
	}
	if err != nil {
		return models.PersistenceError(err)
	}
	return nil
}

// GetResult fetches the verdict for a debate, if any
func (s *MongoStore) GetResult(ctx context.Context, debateID string) (*models.Result, error) {
	var result models.Result
	err := s.Collections.Results.FindOne(ctx, bson.M{"debateId": debateID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, models.NotFoundError("no result for debate: %s", debateID)
	}
	if err != nil {
		return nil, models.PersistenceError(err)
	}
	return &result, nil
}
