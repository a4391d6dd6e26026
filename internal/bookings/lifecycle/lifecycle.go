// Package lifecycle holds the allowed moves between booking fulfillment
// states and between partner assignment states.
package lifecycle

import (
	"fmt"

	"github.com/jayant413/contrashutter-backend/pkg/model"
)

// TransitionError reports a move the table does not allow.
type TransitionError struct {
	Kind string
	From string
	To   string
}

func (e *TransitionError) Error() string {
	from := e.From
	if from == "" {
		from = "none"
	}
	return fmt.Sprintf("illegal %s transition from %q to %q", e.Kind, from, e.To)
}

const (
	KindStatus     = "status"
	KindAssignment = "assignment"
)

// Table is keyed by current state, then requested state. The empty string
// stands for "no state yet".
type Table struct {
	strict     bool
	status     map[string]map[string]bool
	assignment map[string]map[string]bool
}

// NewTable returns the default table. A permissive table accepts every move
// whose target is a known state.
func NewTable(strict bool) *Table {
	return &Table{
		strict: strict,
		status: map[string]map[string]bool{
			"":                            set(model.StatusBooked, model.StatusCancelled),
			model.StatusBooked:            set(model.StatusBooked, model.StatusInProgress, model.StatusCancelled),
			model.StatusInProgress:        set(model.StatusInProgress, model.StatusDeliverablesReady, model.StatusCancelled),
			model.StatusDeliverablesReady: set(model.StatusDeliverablesReady, model.StatusCompleted, model.StatusCancelled),
			model.StatusCompleted:         set(model.StatusCompleted, model.StatusCancelled),
			model.StatusCancelled:         set(model.StatusCancelled),
		},
		assignment: map[string]map[string]bool{
			"":                        set(model.AssignmentRequested),
			model.AssignmentRequested: set(model.AssignmentRequested, model.AssignmentAccepted, model.AssignmentRejected),
			model.AssignmentAccepted:  set(model.AssignmentAccepted, model.AssignmentCompleted, model.AssignmentRejected),
			model.AssignmentRejected:  set(model.AssignmentRequested),
			model.AssignmentCompleted: set(model.AssignmentCompleted),
		},
	}
}

func (t *Table) Strict() bool {
	return t.strict
}

func (t *Table) CheckStatus(current, next string) error {
	return t.check(KindStatus, t.status, current, next)
}

func (t *Table) CheckAssignment(current, next string) error {
	return t.check(KindAssignment, t.assignment, current, next)
}

func (t *Table) check(kind string, moves map[string]map[string]bool, current, next string) error {
	if _, known := moves[next]; !known || next == "" {
		return &TransitionError{Kind: kind, From: current, To: next}
	}
	if !t.strict {
		return nil
	}
	if !moves[current][next] {
		return &TransitionError{Kind: kind, From: current, To: next}
	}
	return nil
}

func set(states ...string) map[string]bool {
	m := make(map[string]bool, len(states))
	for _, s := range states {
		m[s] = true
	}
	return m
}
