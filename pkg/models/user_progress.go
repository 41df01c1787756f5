package models

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// Status is the learning status of a single vocabulary item
type Status int

const (
	// StatusNew means the item has never been reviewed
	StatusNew Status = iota
	// StatusInProgress means the item is climbing the interval ladder
	StatusInProgress
	// StatusMastered means the item has left the ladder
	StatusMastered
)

// Wire names are shared with progress documents written by earlier clients.
const (
	statusNewName        = "NotLearned"
	statusInProgressName = "Learning"
	statusMasteredName   = "Mastered"
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return statusNewName
	case StatusInProgress:
		return statusInProgressName
	case StatusMastered:
		return statusMasteredName
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusNew, StatusInProgress, StatusMastered:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("invalid status %d", int(s))
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case statusNewName, "New":
		*s = StatusNew
	case statusInProgressName, "InProgress":
		*s = StatusInProgress
	case statusMasteredName:
		*s = StatusMastered
	default:
		return fmt.Errorf("unknown status %q", string(text))
	}
	return nil
}

// LearningState tracks a learner's progress with one vocabulary item.
// NextReviewDate is set only while Status is StatusInProgress.
type LearningState struct {
	Status         Status      `json:"status"`
	Stage          int         `json:"stage"`
	NextReviewDate *civil.Date `json:"nextReviewDate"`
}

// NewState returns the state implied for an item with no recorded progress
func NewState() LearningState {
	return LearningState{Status: StatusNew}
}

// Equal compares two states by value
func (s LearningState) Equal(other LearningState) bool {
	if s.Status != other.Status || s.Stage != other.Stage {
		return false
	}
	if s.NextReviewDate == nil || other.NextReviewDate == nil {
		return s.NextReviewDate == nil && other.NextReviewDate == nil
	}
	return *s.NextReviewDate == *other.NextReviewDate
}

// Clone returns a copy with its own date
func (s LearningState) Clone() LearningState {
	if s.NextReviewDate != nil {
		d := *s.NextReviewDate
		s.NextReviewDate = &d
	}
	return s
}

// IsDue reports whether the item should be reviewed on the given day
func (s LearningState) IsDue(today civil.Date) bool {
	if s.Status != StatusInProgress || s.NextReviewDate == nil {
		return false
	}
	return !s.NextReviewDate.After(today)
}

// ProgressMap is the full itemId -> LearningState document
type ProgressMap map[string]LearningState

// EffectiveState returns the recorded state or the implicit New state
func (p ProgressMap) EffectiveState(id string) LearningState {
	if state, ok := p[id]; ok {
		return state
	}
	return NewState()
}

// Clone returns a copy that shares no dates with the receiver
func (p ProgressMap) Clone() ProgressMap {
	out := make(ProgressMap, len(p))
	for id, state := range p {
		out[id] = state.Clone()
	}
	return out
}
