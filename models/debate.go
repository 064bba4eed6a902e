package models

import (
	"time"
)

// Mode determines how a debate is conducted
type Mode string

const (
	ModeOnline  Mode = "online"  // two users, one per side
	ModeOffline Mode = "offline" // one user drives both sides with a turn clock
)

// Status is the debate lifecycle state
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// CanAdvanceTo reports whether the lifecycle may move from s to next.
// Transitions only run forward; completed is terminal.
func (s Status) CanAdvanceTo(next Status) bool {
	switch s {
	case StatusWaiting:
		return next == StatusActive
	case StatusActive:
		return next == StatusCompleted
	default:
		return false
	}
}

// Side identifies one of the two debating positions
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Valid reports whether s is one of the two known sides
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

// Debate defines a single debate record
type Debate struct {
	ID           string     `bson:"_id" json:"id"`
	Topic        string     `bson:"topic" json:"topic"`
	Description  string     `bson:"description,omitempty" json:"description,omitempty"`
	SideAName    string     `bson:"sideAName" json:"sideAName"`
	SideBName    string     `bson:"sideBName" json:"sideBName"`
	Mode         Mode       `bson:"mode" json:"mode"`
	Status       Status     `bson:"status" json:"status"`
	CreatedBy    string     `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	MaxArguments int        `bson:"maxArguments,omitempty" json:"maxArguments,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	StartedAt    *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt  *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// Participant links a user to a debate side
type Participant struct {
	ID       string    `bson:"_id" json:"id"`
	DebateID string    `bson:"debateId" json:"debateId"`
	UserID   string    `bson:"userId" json:"userId"`
	Side     Side      `bson:"side" json:"side"`
	JoinedAt time.Time `bson:"joinedAt" json:"joinedAt"`
}

// Argument is one submission for a side. Immutable once created.
type Argument struct {
	ID        string    `bson:"_id" json:"id"`
	DebateID  string    `bson:"debateId" json:"debateId"`
	UserID    string    `bson:"userId" json:"userId"`
	Side      Side      `bson:"side" json:"side"`
	Ordinal   int       `bson:"ordinal" json:"ordinal"` // sequential per side, storage-assigned
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Winner indicator for a result
type Winner string

const (
	WinnerA   Winner = "a"
	WinnerB   Winner = "b"
	WinnerTie Winner = "tie"
)

// Valid reports whether w is a recognised winner tag
func (w Winner) Valid() bool {
	return w == WinnerA || w == WinnerB || w == WinnerTie
}

// Result holds the judge's verdict for a debate. One per debate, never mutated.
type Result struct {
	ID                   string    `bson:"_id" json:"id"`
	DebateID             string    `bson:"debateId" json:"debateId"`
	SideAScore           float64   `bson:"sideAScore" json:"sideAScore"`
	SideBScore           float64   `bson:"sideBScore" json:"sideBScore"`
	SideALogicScore      float64   `bson:"sideALogicScore" json:"sideALogicScore"`
	SideAEvidenceScore   float64   `bson:"sideAEvidenceScore" json:"sideAEvidenceScore"`
	SideAPersuasionScore float64   `bson:"sideAPersuasionScore" json:"sideAPersuasionScore"`
	SideBLogicScore      float64   `bson:"sideBLogicScore" json:"sideBLogicScore"`
	SideBEvidenceScore   float64   `bson:"sideBEvidenceScore" json:"sideBEvidenceScore"`
	SideBPersuasionScore float64   `bson:"sideBPersuasionScore" json:"sideBPersuasionScore"`
	Winner               Winner    `bson:"winner" json:"winner"`
	Reasoning            string    `bson:"reasoning" json:"reasoning"`
	VerificationHash     string    `bson:"verificationHash" json:"verificationHash"`
	VerifiedAt           time.Time `bson:"verifiedAt" json:"verifiedAt"`
	CreatedAt            time.Time `bson:"createdAt" json:"createdAt"`
}
