package db

import (
	"context"
	"time"

	"debatehub/models"
)

// Store is the persistence surface the services depend on. MongoStore is the
// production implementation; tests supply in-memory fakes.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	InsertDebate(ctx context.Context, debate *models.Debate) error
	GetDebate(ctx context.Context, id string) (*models.Debate, error)
	ListDebates(ctx context.Context) ([]models.Debate, error)
	// UpdateDebateStatus advances the lifecycle only when the stored status
	// still equals from, so concurrent writers cannot move it backwards.
	UpdateDebateStatus(ctx context.Context, id string, from, to models.Status, at time.Time) error

	InsertParticipant(ctx context.Context, participant *models.Participant) error
	ListParticipants(ctx context.Context, debateID string) ([]models.Participant, error)

	// NextArgumentOrdinal atomically increments and returns the per-side
	// argument counter for a debate.
	NextArgumentOrdinal(ctx context.Context, debateID string, side models.Side) (int, error)
	InsertArgument(ctx context.Context, argument *models.Argument) error
	ListArguments(ctx context.Context, debateID string) ([]models.Argument, error)

	InsertResult(ctx context.Context, result *models.Result) error
	GetResult(ctx context.Context, debateID string) (*models.Result, error)
}
