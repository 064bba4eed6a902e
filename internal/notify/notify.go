package notify

import (
	"time"
)

// Event describes a row-level change to one of the debate tables. Clients
// receiving an event re-fetch the debate's full state; the event itself
// carries no patch data, so delivery order does not matter.
type Event struct {
	Type      string `json:"type"`
	Table     string `json:"table"`
	DebateID  string `json:"debateId"`
	Timestamp int64  `json:"timestamp"`
}

// Tables that emit change events
const (
	TableDebates      = "debates"
	TableParticipants = "debate_participants"
	TableArguments    = "debate_arguments"
	TableResults      = "debate_results"
)

// Publisher delivers change events to subscribed clients
type Publisher interface {
	PublishChange(event Event)
}

// Change builds a change event for a table and debate
func Change(table, debateID string) Event {
	return Event{
		Type:      "change",
		Table:     table,
		DebateID:  debateID,
		Timestamp: time.Now().Unix(),
	}
}

// NopPublisher discards events; used when no hub is wired (tests)
type NopPublisher struct{}

func (NopPublisher) PublishChange(Event) {}
