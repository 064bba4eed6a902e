package services

import (
	"context"
	"fmt"
	"time"

	"debatehub/db"
	"debatehub/internal/notify"
	"debatehub/models"
	"debatehub/utils"

	"github.com/google/uuid"
)

// Evaluator packages a debate's arguments into a transcript, asks the judge
// for a verdict, and records the result exactly once.
type Evaluator struct {
	store        db.Store
	judge        Judge
	publisher    notify.Publisher
	sessions     *SessionManager
	minArguments int
}

func NewEvaluator(store db.Store, judge Judge, publisher notify.Publisher, sessions *SessionManager, minArguments int) *Evaluator {
	return &Evaluator{
		store:        store,
		judge:        judge,
		publisher:    publisher,
		sessions:     sessions,
		minArguments: minArguments,
	}
}

// Evaluate runs the full judging flow for a debate on behalf of a
// participant. Nothing is written until the verdict is in hand: the result
// insert is the first mutation, so any earlier failure leaves the debate
// untouched.
func (e *Evaluator) Evaluate(ctx context.Context, debateID, userID string) (*models.Result, error) {
	if debateID == "" {
		return nil, models.ValidationError("debate ID is required")
	}

	debate, err := e.store.GetDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}

	participants, err := e.store.ListParticipants(ctx, debateID)
	if err != nil {
		return nil, err
	}
	isParticipant := false
	for _, p := range participants {
		if p.UserID == userID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		return nil, models.AuthorizationError("you are not authorized to evaluate this debate")
	}

	if debate.Status == models.StatusCompleted {
		return nil, models.ConflictError("debate already evaluated")
	}

	arguments, err := e.store.ListArguments(ctx, debateID)
	if err != nil {
		return nil, err
	}

	// The cap on a debate, when set, replaces the configured minimum as the
	// evaluation gate.
	required := e.minArguments
	if debate.MaxArguments > 0 {
		required = debate.MaxArguments
	}
	if len(arguments) < required {
		return nil, models.ValidationError("at least %d arguments are required before evaluation", required)
	}

	transcript := Transcript{
		DebateID:    debateID,
		Topic:       debate.Topic,
		Description: debate.Description,
		SideAName:   debate.SideAName,
		SideBName:   debate.SideBName,
	}
	for _, arg := range arguments {
		if arg.Side == models.SideA {
			transcript.SideAArguments = append(transcript.SideAArguments, arg.Content)
		} else {
			transcript.SideBArguments = append(transcript.SideBArguments, arg.Content)
		}
	}

	verdict, err := e.judge.EvaluateTranscript(ctx, transcript)
	if err != nil {
		return nil, err
	}

	verifiedAt := time.Now().UTC()
	hash, err := utils.VerificationHash(utils.ResultFingerprint{
		DebateID:   debateID,
		Topic:      debate.Topic,
		Timestamp:  verifiedAt.Format(time.RFC3339Nano),
		SideAScore: verdict.SideAScore,
		SideBScore: verdict.SideBScore,
		Winner:     string(verdict.Winner),
		Reasoning:  verdict.Reasoning,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint verdict: %w", err)
	}

	result := &models.Result{
		ID:                   uuid.NewString(),
		DebateID:             debateID,
		SideAScore:           verdict.SideAScore,
		SideBScore:           verdict.SideBScore,
		SideALogicScore:      verdict.SideALogicScore,
		SideAEvidenceScore:   verdict.SideAEvidenceScore,
		SideAPersuasionScore: verdict.SideAPersuasionScore,
		SideBLogicScore:      verdict.SideBLogicScore,
		SideBEvidenceScore:   verdict.SideBEvidenceScore,
		SideBPersuasionScore: verdict.SideBPersuasionScore,
		Winner:               verdict.Winner,
		Reasoning:            verdict.Reasoning,
		VerificationHash:     hash,
		VerifiedAt:           verifiedAt,
		CreatedAt:            verifiedAt,
	}
	if err := e.store.InsertResult(ctx, result); err != nil {
		return nil, err
	}
	e.publisher.PublishChange(notify.Change(notify.TableResults, debateID))

	// The result row is the authoritative completion signal; a failure here
	// still reads as completed wherever the debate state is assembled.
	err = e.store.UpdateDebateStatus(ctx, debateID, debate.Status, models.StatusCompleted, time.Now())
	if err != nil && !models.IsKind(err, models.KindConflict) {
		return nil, err
	}
	e.sessions.StopClocks(debateID)
	e.publisher.PublishChange(notify.Change(notify.TableDebates, debateID))

	return result, nil
}
