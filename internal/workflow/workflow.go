// Package workflow maps publish actions to content statuses.
package workflow

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for workflow operations.
var (
	ErrUnknownAction = errors.New("unknown publish action")
	ErrUnknownStatus = errors.New("unknown publish status")
	ErrEmptyID       = errors.New("content id cannot be empty")
)

// Status is the publication state of a content item.
type Status string

// Publication states.
const (
	StatusDraft     Status = "draft"
	StatusInReview  Status = "in_review"
	StatusPublished Status = "published"
)

// ActionType names a publish action.
type ActionType string

// Publish actions.
const (
	ActionSubmitForReview ActionType = "submit_for_review"
	ActionApprove         ActionType = "approve"
	ActionReject          ActionType = "reject"
	ActionPublish         ActionType = "publish"
	ActionUnpublish       ActionType = "unpublish"
)

var targets = map[ActionType]Status{
	ActionSubmitForReview: StatusInReview,
	ActionApprove:         StatusPublished,
	ActionPublish:         StatusPublished,
	ActionReject:          StatusDraft,
	ActionUnpublish:       StatusDraft,
}

// Action is a publish action with its optional review details.
type Action struct {
	Type       ActionType `json:"type"`
	Comment    string     `json:"comment,omitempty"`
	ReviewedBy string     `json:"reviewedBy,omitempty"`
}

// Transition records the outcome of applying an action.
type Transition struct {
	ID        string    `json:"id"`
	From      Status    `json:"from"`
	Status    Status    `json:"status"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Workflow applies publish actions.
type Workflow struct {
	now func() time.Time
}

// New creates a Workflow using now as its clock; nil means time.Now.
func New(now func() time.Time) *Workflow {
	if now == nil {
		now = time.Now
	}
	return &Workflow{now: now}
}

// Apply returns the transition for action on item id. The target status
// depends on the action only; an empty current status counts as draft.
func (w *Workflow) Apply(id string, current Status, action Action) (Transition, error) {
	if id == "" {
		return Transition{}, ErrEmptyID
	}
	if current == "" {
		current = StatusDraft
	}
	if !current.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrUnknownStatus, current)
	}
	next, ok := targets[action.Type]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}
	return Transition{
		ID:        id,
		From:      current,
		Status:    next,
		Action:    action,
		Timestamp: w.now().UTC(),
	}, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusPublished:
		return true
	}
	return false
}
