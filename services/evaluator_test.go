package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"debatehub/internal/notify"
	"debatehub/models"
	"debatehub/utils"
)

// fakeJudge returns a fixed verdict, or an error when set
type fakeJudge struct {
	verdict Verdict
	err     error
	calls   int
}

func (j *fakeJudge) EvaluateTranscript(_ context.Context, _ Transcript) (*Verdict, error) {
	j.calls++
	if j.err != nil {
		return nil, j.err
	}
	v := j.verdict
	return &v, nil
}

func winningVerdict() Verdict {
	return Verdict{
		SideAScore:           72,
		SideBScore:           61,
		SideALogicScore:      70,
		SideAEvidenceScore:   75,
		SideAPersuasionScore: 71,
		SideBLogicScore:      60,
		SideBEvidenceScore:   58,
		SideBPersuasionScore: 65,
		Winner:               models.WinnerA,
		Reasoning:            "Side A presented stronger evidence.",
	}
}

// setupEvaluatedDebate creates an active offline debate with four arguments
func setupEvaluatedDebate(t *testing.T, store *fakeStore, m *SessionManager) *models.Debate {
	t.Helper()
	debate, err := m.CreateDebate(context.Background(), "user-1", "Nuclear energy", "", "", "", models.ModeOffline, 0)
	if err != nil {
		t.Fatalf("CreateDebate failed: %v", err)
	}
	if err := m.StartOffline(context.Background(), debate.ID, "user-1"); err != nil {
		t.Fatalf("StartOffline failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := m.SubmitArgument(context.Background(), debate.ID, "user-1", "argument"); err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
	}
	return debate
}

func TestEvaluateRequiresDebateID(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	e := NewEvaluator(store, &fakeJudge{}, notify.NopPublisher{}, m, 4)

	_, err := e.Evaluate(context.Background(), "", "user-1")
	if !models.IsKind(err, models.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEvaluateRejectsNonParticipant(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	judge := &fakeJudge{verdict: winningVerdict()}
	e := NewEvaluator(store, judge, notify.NopPublisher{}, m, 4)

	debate := setupEvaluatedDebate(t, store, m)
	_, err := e.Evaluate(context.Background(), debate.ID, "stranger")
	if !models.IsKind(err, models.KindAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if judge.calls != 0 {
		t.Fatal("judge should not be called for an unauthorized request")
	}
	if _, err := store.GetResult(context.Background(), debate.ID); !models.IsKind(err, models.KindNotFound) {
		t.Fatal("no result should be stored")
	}
}

func TestEvaluateRequiresEnoughArguments(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	e := NewEvaluator(store, &fakeJudge{verdict: winningVerdict()}, notify.NopPublisher{}, m, 4)

	debate, err := m.CreateDebate(context.Background(), "user-1", "topic", "", "", "", models.ModeOffline, 0)
	if err != nil {
		t.Fatalf("CreateDebate failed: %v", err)
	}
	if err := m.StartOffline(context.Background(), debate.ID, "user-1"); err != nil {
		t.Fatalf("StartOffline failed: %v", err)
	}
	if _, err := m.SubmitArgument(context.Background(), debate.ID, "user-1", "only one"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err = e.Evaluate(context.Background(), debate.ID, "user-1")
	if !models.IsKind(err, models.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "4") {
		t.Fatalf("error should name the required count, got %q", err.Error())
	}
}

func TestEvaluateHonoursDebateArgumentCap(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	e := NewEvaluator(store, &fakeJudge{verdict: winningVerdict()}, notify.NopPublisher{}, m, 2)

	debate, err := m.CreateDebate(context.Background(), "user-1", "topic", "", "", "", models.ModeOffline, 6)
	if err != nil {
		t.Fatalf("CreateDebate failed: %v", err)
	}
	if err := m.StartOffline(context.Background(), debate.ID, "user-1"); err != nil {
		t.Fatalf("StartOffline failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := m.SubmitArgument(context.Background(), debate.ID, "user-1", "argument"); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	// Four arguments beat the configured minimum of two, but the debate's own
	// cap of six is the gate.
	_, err = e.Evaluate(context.Background(), debate.ID, "user-1")
	if !models.IsKind(err, models.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEvaluateJudgeFailureLeavesDebateUntouched(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	judge := &fakeJudge{err: models.EvaluationServiceError(errors.New("backend down"))}
	e := NewEvaluator(store, judge, notify.NopPublisher{}, m, 4)

	debate := setupEvaluatedDebate(t, store, m)
	_, err := e.Evaluate(context.Background(), debate.ID, "user-1")
	if !models.IsKind(err, models.KindEvaluationService) {
		t.Fatalf("expected evaluation service error, got %v", err)
	}

	stored, _ := store.GetDebate(context.Background(), debate.ID)
	if stored.Status != models.StatusActive {
		t.Fatalf("debate should stay active after judge failure, got %s", stored.Status)
	}
	if _, err := store.GetResult(context.Background(), debate.ID); !models.IsKind(err, models.KindNotFound) {
		t.Fatal("no result should be stored after judge failure")
	}
}

func TestEvaluateStoresResultAndCompletes(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	judge := &fakeJudge{verdict: winningVerdict()}
	e := NewEvaluator(store, judge, notify.NopPublisher{}, m, 4)

	debate := setupEvaluatedDebate(t, store, m)
	result, err := e.Evaluate(context.Background(), debate.ID, "user-1")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if result.Winner != models.WinnerA {
		t.Fatalf("expected winner a, got %s", result.Winner)
	}
	if result.SideAScore != 72 || result.SideBScore != 61 {
		t.Fatalf("unexpected scores: %.1f / %.1f", result.SideAScore, result.SideBScore)
	}

	stored, _ := store.GetDebate(context.Background(), debate.ID)
	if stored.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", stored.Status)
	}
	if m.Snapshot(debate.ID) != nil {
		t.Fatal("clocks should be stopped after evaluation")
	}

	// The stored hash is reproducible from the stored fields
	expected, err := utils.VerificationHash(utils.ResultFingerprint{
		DebateID:   debate.ID,
		Topic:      debate.Topic,
		Timestamp:  result.VerifiedAt.Format(time.RFC3339Nano),
		SideAScore: result.SideAScore,
		SideBScore: result.SideBScore,
		Winner:     string(result.Winner),
		Reasoning:  result.Reasoning,
	})
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if result.VerificationHash != expected {
		t.Fatalf("hash mismatch: stored %s, recomputed %s", result.VerificationHash, expected)
	}
	if !strings.HasPrefix(result.VerificationHash, "0x") {
		t.Fatalf("hash should carry the 0x prefix: %s", result.VerificationHash)
	}
}

func TestEvaluateTwiceConflicts(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store)
	judge := &fakeJudge{verdict: winningVerdict()}
	e := NewEvaluator(store, judge, notify.NopPublisher{}, m, 4)

	debate := setupEvaluatedDebate(t, store, m)
	if _, err := e.Evaluate(context.Background(), debate.ID, "user-1"); err != nil {
		t.Fatalf("first Evaluate failed: %v", err)
	}

	_, err := e.Evaluate(context.Background(), debate.ID, "user-1")
	if !models.IsKind(err, models.KindConflict) {
		t.Fatalf("second Evaluate should conflict, got %v", err)
	}
	if judge.calls != 1 {
		t.Fatalf("judge should run once, ran %d times", judge.calls)
	}
}
