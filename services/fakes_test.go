package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"debatehub/models"
)

var errTransient = errors.New("store temporarily unavailable")

// fakeStore is an in-memory Store used by the service tests
type fakeStore struct {
	mutex        sync.Mutex
	users        map[string]*models.User
	debates      map[string]*models.Debate
	participants []models.Participant
	arguments    []models.Argument
	results      map[string]*models.Result
	counters     map[string]int

	// statusUpdateFailures makes the next N UpdateDebateStatus calls fail
	statusUpdateFailures int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*models.User),
		debates:  make(map[string]*models.Debate),
		results:  make(map[string]*models.Result),
		counters: make(map[string]int),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return models.ConflictError("email already registered")
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.NotFoundError("user not found")
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, models.NotFoundError("user not found")
}

func (f *fakeStore) InsertDebate(_ context.Context, debate *models.Debate) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	copied := *debate
	f.debates[debate.ID] = &copied
	return nil
}

func (f *fakeStore) GetDebate(_ context.Context, id string) (*models.Debate, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	debate, ok := f.debates[id]
	if !ok {
		return nil, models.NotFoundError("debate not found")
	}
	copied := *debate
	return &copied, nil
}

func (f *fakeStore) ListDebates(_ context.Context) ([]models.Debate, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	var out []models.Debate
	for _, d := range f.debates {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateDebateStatus(_ context.Context, id string, from, to models.Status, at time.Time) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.statusUpdateFailures > 0 {
		f.statusUpdateFailures--
		return models.PersistenceError(errTransient)
	}
	debate, ok := f.debates[id]
	if !ok {
		return models.NotFoundError("debate not found")
	}
	if !from.CanAdvanceTo(to) || debate.Status != from {
		return models.ConflictError("debate is not in %s state", from)
	}
	debate.Status = to
	switch to {
	case models.StatusActive:
		t := at
		debate.StartedAt = &t
	case models.StatusCompleted:
		t := at
		debate.CompletedAt = &t
	}
	return nil
}

func (f *fakeStore) InsertParticipant(_ context.Context, participant *models.Participant) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.participants = append(f.participants, *participant)
	return nil
}

func (f *fakeStore) ListParticipants(_ context.Context, debateID string) ([]models.Participant, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	var out []models.Participant
	for _, p := range f.participants {
		if p.DebateID == debateID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) NextArgumentOrdinal(_ context.Context, debateID string, side models.Side) (int, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	key := debateID + ":" + string(side)
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeStore) InsertArgument(_ context.Context, argument *models.Argument) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.arguments = append(f.arguments, *argument)
	return nil
}

func (f *fakeStore) ListArguments(_ context.Context, debateID string) ([]models.Argument, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	var out []models.Argument
	for _, a := range f.arguments {
		if a.DebateID == debateID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertResult(_ context.Context, result *models.Result) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, exists := f.results[result.DebateID]; exists {
		return models.ConflictError("debate already evaluated")
	}
	f.results[result.DebateID] = result
	return nil
}

func (f *fakeStore) GetResult(_ context.Context, debateID string) (*models.Result, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	result, ok := f.results[debateID]
	if !ok {
		return nil, models.NotFoundError("result not found")
	}
	return result, nil
}
