package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"debatehub/db"
	"debatehub/internal/notify"
	"debatehub/models"

	"github.com/google/uuid"
)

// TurnState is a point-in-time snapshot of an offline debate's clocks
type TurnState struct {
	CurrentTurn      models.Side `json:"currentTurn"`
	TurnSecondsLeft  int         `json:"turnSecondsLeft"`
	TotalSecondsLeft int         `json:"totalSecondsLeft"`
	TimerActive      bool        `json:"timerActive"`
}

// session is the live turn state for one active offline debate
type session struct {
	currentTurn models.Side
	turnLeft    int
	totalLeft   int
	timerActive bool
}

// SessionManager owns the debate lifecycle: joins, starts, argument
// submission, manual ends, and the offline turn clocks. One instance per
// process; per-debate state is guarded by the manager mutex.
type SessionManager struct {
	store        db.Store
	publisher    notify.Publisher
	turnSeconds  int
	totalSeconds int

	mutex    sync.Mutex
	sessions map[string]*session
}

func NewSessionManager(store db.Store, publisher notify.Publisher, turnSeconds, totalSeconds int) *SessionManager {
	return &SessionManager{
		store:        store,
		publisher:    publisher,
		turnSeconds:  turnSeconds,
		totalSeconds: totalSeconds,
		sessions:     make(map[string]*session),
	}
}

// Run drives the 1 Hz countdown until ctx is cancelled
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// CreateDebate validates and stores a new debate in waiting state
func (m *SessionManager) CreateDebate(ctx context.Context, userID, topic, description, sideAName, sideBName string, mode models.Mode, maxArguments int) (*models.Debate, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, models.ValidationError("topic is required")
	}
	if mode != models.ModeOnline && mode != models.ModeOffline {
		return nil, models.ValidationError("mode must be online or offline")
	}
	if sideAName == "" {
		sideAName = "Side A"
	}
	if sideBName == "" {
		sideBName = "Side B"
	}

	debate := &models.Debate{
		ID:           uuid.NewString(),
		Topic:        strings.TrimSpace(topic),
		Description:  description,
		SideAName:    sideAName,
		SideBName:    sideBName,
		Mode:         mode,
		Status:       models.StatusWaiting,
		CreatedBy:    userID,
		MaxArguments: maxArguments,
		CreatedAt:    time.Now(),
	}
	if err := m.store.InsertDebate(ctx, debate); err != nil {
		return nil, err
	}
	m.publisher.PublishChange(notify.Change(notify.TableDebates, debate.ID))
	return debate, nil
}

// JoinSide places a user on a side. In online mode a user may hold only one
// side and each side only one user; in offline mode the same user may take
// both. Completing the roster activates the debate.
func (m *SessionManager) JoinSide(ctx context.Context, debateID, userID string, side models.Side) error {
	if !side.Valid() {
		return models.ValidationError("side must be a or b")
	}
	debate, err := m.store.GetDebate(ctx, debateID)
	if err != nil {
		return err
	}
	if debate.Status == models.StatusCompleted {
		return models.ConflictError("debate already completed")
	}

	participants, err := m.store.ListParticipants(ctx, debateID)
	if err != nil {
		return err
	}
	for _, p := range participants {
		if debate.Mode == models.ModeOnline && p.UserID == userID {
			return models.ConflictError("you already joined this debate")
		}
		if p.Side == side {
			if debate.Mode == models.ModeOnline || p.UserID == userID {
				return models.ConflictError("side %s is already taken", side)
			}
		}
	}

	participant := &models.Participant{
		ID:       uuid.NewString(),
		DebateID: debateID,
		UserID:   userID,
		Side:     side,
		JoinedAt: time.Now(),
	}
	if err := m.store.InsertParticipant(ctx, participant); err != nil {
		return err
	}
	m.publisher.PublishChange(notify.Change(notify.TableParticipants, debateID))

	// Activate once both sides are present
	sides := map[models.Side]bool{side: true}
	for _, p := range participants {
		sides[p.Side] = true
	}
	if debate.Status == models.StatusWaiting && sides[models.SideA] && sides[models.SideB] {
		return m.activate(ctx, debate)
	}
	return nil
}

// StartOffline lets the sole user of an offline debate claim both sides and
// begin. Already-claimed sides are skipped, so a retry is harmless.
func (m *SessionManager) StartOffline(ctx context.Context, debateID, userID string) error {
	debate, err := m.store.GetDebate(ctx, debateID)
	if err != nil {
		return err
	}
	if debate.Mode != models.ModeOffline {
		return models.ValidationError("only offline debates can be started this way")
	}
	if debate.Status == models.StatusCompleted {
		return models.ConflictError("debate already completed")
	}

	participants, err := m.store.ListParticipants(ctx, debateID)
	if err != nil {
		return err
	}
	taken := make(map[models.Side]bool)
	for _, p := range participants {
		if p.UserID == userID {
			taken[p.Side] = true
		}
	}
	for _, side := range []models.Side{models.SideA, models.SideB} {
		if taken[side] {
			continue
		}
		participant := &models.Participant{
			ID:       uuid.NewString(),
			DebateID: debateID,
			UserID:   userID,
			Side:     side,
			JoinedAt: time.Now(),
		}
		if err := m.store.InsertParticipant(ctx, participant); err != nil {
			return err
		}
	}
	m.publisher.PublishChange(notify.Change(notify.TableParticipants, debateID))

	if debate.Status == models.StatusWaiting {
		return m.activate(ctx, debate)
	}
	return nil
}

// activate flips waiting -> active and, for offline debates, starts the
// turn clocks with side A to speak first.
func (m *SessionManager) activate(ctx context.Context, debate *models.Debate) error {
	err := m.store.UpdateDebateStatus(ctx, debate.ID, models.StatusWaiting, models.StatusActive, time.Now())
	if err != nil {
		return err
	}
	if debate.Mode == models.ModeOffline {
		m.mutex.Lock()
		m.sessions[debate.ID] = &session{
			currentTurn: models.SideA,
			turnLeft:    m.turnSeconds,
			totalLeft:   m.totalSeconds,
			timerActive: true,
		}
		m.mutex.Unlock()
	}
	m.publisher.PublishChange(notify.Change(notify.TableDebates, debate.ID))
	return nil
}

// SubmitArgument appends an argument for the submitting side. Online mode
// uses the author's joined side; offline mode uses the current turn and then
// alternates it.
func (m *SessionManager) SubmitArgument(ctx context.Context, debateID, userID, content string) (*models.Argument, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.ValidationError("argument content cannot be empty")
	}

	debate, err := m.store.GetDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	switch debate.Status {
	case models.StatusWaiting:
		return nil, models.ValidationError("debate has not started yet")
	case models.StatusCompleted:
		return nil, models.ConflictError("debate already completed")
	}

	participants, err := m.store.ListParticipants(ctx, debateID)
	if err != nil {
		return nil, err
	}
	var userSides []models.Side
	for _, p := range participants {
		if p.UserID == userID {
			userSides = append(userSides, p.Side)
		}
	}
	if len(userSides) == 0 {
		return nil, models.AuthorizationError("you are not a participant in this debate")
	}

	var side models.Side
	if debate.Mode == models.ModeOnline {
		side = userSides[0]
	} else {
		m.mutex.Lock()
		side = m.ensureSessionLocked(debate).currentTurn
		m.mutex.Unlock()
	}

	ordinal, err := m.store.NextArgumentOrdinal(ctx, debateID, side)
	if err != nil {
		return nil, err
	}
	argument := &models.Argument{
		ID:        uuid.NewString(),
		DebateID:  debateID,
		UserID:    userID,
		Side:      side,
		Ordinal:   ordinal,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := m.store.InsertArgument(ctx, argument); err != nil {
		return nil, err
	}

	if debate.Mode == models.ModeOffline {
		m.mutex.Lock()
		sess := m.ensureSessionLocked(debate)
		sess.currentTurn = sess.currentTurn.Opposite()
		sess.turnLeft = m.turnSeconds
		sess.timerActive = true
		m.mutex.Unlock()
	}

	m.publisher.PublishChange(notify.Change(notify.TableArguments, debateID))
	return argument, nil
}

// EndDebate marks a debate completed on behalf of a participant. Clients may
// warn when the turn clock is still running, but the server never refuses a
// manual end for that reason.
func (m *SessionManager) EndDebate(ctx context.Context, debateID, userID string) error {
	if _, err := m.requireParticipant(ctx, debateID, userID); err != nil {
		return err
	}
	err := m.store.UpdateDebateStatus(ctx, debateID, models.StatusActive, models.StatusCompleted, time.Now())
	if err != nil {
		return err
	}
	m.StopClocks(debateID)
	m.publisher.PublishChange(notify.Change(notify.TableDebates, debateID))
	return nil
}

// StopClocks drops the live session for a debate, if any
func (m *SessionManager) StopClocks(debateID string) {
	m.mutex.Lock()
	delete(m.sessions, debateID)
	m.mutex.Unlock()
}

// Snapshot returns the live turn state for a debate, or nil when no clock
// is running (online debates, completed debates, restarted process).
func (m *SessionManager) Snapshot(debateID string) *TurnState {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	sess, exists := m.sessions[debateID]
	if !exists {
		return nil
	}
	return &TurnState{
		CurrentTurn:      sess.currentTurn,
		TurnSecondsLeft:  sess.turnLeft,
		TotalSecondsLeft: sess.totalLeft,
		TimerActive:      sess.timerActive,
	}
}

// requireParticipant returns the user's sides or an authorization error
func (m *SessionManager) requireParticipant(ctx context.Context, debateID, userID string) ([]models.Side, error) {
	participants, err := m.store.ListParticipants(ctx, debateID)
	if err != nil {
		return nil, err
	}
	var sides []models.Side
	for _, p := range participants {
		if p.UserID == userID {
			sides = append(sides, p.Side)
		}
	}
	if len(sides) == 0 {
		return nil, models.AuthorizationError("you are not a participant in this debate")
	}
	return sides, nil
}

// ensureSessionLocked returns the live session for an offline debate,
// recreating it with fresh clocks after a process restart. Caller holds the
// manager mutex.
func (m *SessionManager) ensureSessionLocked(debate *models.Debate) *session {
	sess, exists := m.sessions[debate.ID]
	if !exists {
		sess = &session{
			currentTurn: models.SideA,
			turnLeft:    m.turnSeconds,
			totalLeft:   m.totalSeconds,
			timerActive: true,
		}
		m.sessions[debate.ID] = sess
	}
	return sess
}

// tick advances every running clock by one second. A per-argument expiry
// forces the turn to switch; total-time expiry completes the debate. Events
// and store writes happen after the lock is released, so slow publishers or
// a slow store never stall the clocks.
func (m *SessionManager) tick() {
	var expired, switched []string

	m.mutex.Lock()
	for debateID, sess := range m.sessions {
		if !sess.timerActive {
			continue
		}
		sess.totalLeft--
		sess.turnLeft--
		if sess.totalLeft <= 0 {
			expired = append(expired, debateID)
			continue
		}
		if sess.turnLeft <= 0 {
			sess.currentTurn = sess.currentTurn.Opposite()
			sess.turnLeft = m.turnSeconds
			switched = append(switched, debateID)
		}
	}
	m.mutex.Unlock()

	for _, debateID := range switched {
		m.publisher.PublishChange(notify.Change(notify.TableDebates, debateID))
	}
	// An expired session stays registered until its status update lands, so
	// a transient store failure is retried on the next tick.
	for _, debateID := range expired {
		m.completeExpired(debateID)
	}
}

// completeExpired finishes a debate whose total time ran out
func (m *SessionManager) completeExpired(debateID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := m.store.UpdateDebateStatus(ctx, debateID, models.StatusActive, models.StatusCompleted, time.Now())
	if err != nil && !models.IsKind(err, models.KindConflict) {
		log.Printf("failed to complete expired debate %s: %v", debateID, err)
		return
	}
	m.StopClocks(debateID)
	m.publisher.PublishChange(notify.Change(notify.TableDebates, debateID))
}
