package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayant413/contrashutter-backend/pkg/model"
)

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name    string
		strict  bool
		from    string
		to      string
		wantErr bool
	}{
		{"permissive allows skipping ahead", false, model.StatusBooked, model.StatusCompleted, false},
		{"permissive allows going back", false, model.StatusCompleted, model.StatusBooked, false},
		{"permissive rejects unknown state", false, model.StatusBooked, "Shipped", true},
		{"strict allows next step", true, model.StatusBooked, model.StatusInProgress, false},
		{"strict allows repeat", true, model.StatusInProgress, model.StatusInProgress, false},
		{"strict allows cancel from anywhere", true, model.StatusDeliverablesReady, model.StatusCancelled, false},
		{"strict rejects skipping ahead", true, model.StatusBooked, model.StatusCompleted, true},
		{"strict rejects leaving cancelled", true, model.StatusCancelled, model.StatusBooked, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTable(tt.strict).CheckStatus(tt.from, tt.to)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var te *TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, KindStatus, te.Kind)
			assert.Equal(t, tt.from, te.From)
			assert.Equal(t, tt.to, te.To)
		})
	}
}

func TestCheckAssignment(t *testing.T) {
	strict := NewTable(true)

	assert.NoError(t, strict.CheckAssignment("", model.AssignmentRequested))
	assert.NoError(t, strict.CheckAssignment(model.AssignmentRequested, model.AssignmentAccepted))
	assert.NoError(t, strict.CheckAssignment(model.AssignmentRequested, model.AssignmentRejected))
	assert.NoError(t, strict.CheckAssignment(model.AssignmentAccepted, model.AssignmentCompleted))
	assert.NoError(t, strict.CheckAssignment(model.AssignmentRejected, model.AssignmentRequested))
	assert.Error(t, strict.CheckAssignment("", model.AssignmentAccepted))
	assert.Error(t, strict.CheckAssignment(model.AssignmentRequested, model.AssignmentCompleted))

	permissive := NewTable(false)
	assert.NoError(t, permissive.CheckAssignment("", model.AssignmentAccepted))
	assert.Error(t, permissive.CheckAssignment("", "Maybe"))
}

func TestTransitionError_Message(t *testing.T) {
	err := &TransitionError{Kind: KindStatus, To: model.StatusCompleted}
	assert.Equal(t, `illegal status transition from "none" to "Completed"`, err.Error())
}
