package validation

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_CustomTags(t *testing.T) {
	v := New(logger.Discard())

	tests := []struct {
		name      string
		input     any
		wantField string
	}{
		{
			name:  "valid ticket",
			input: &model.SupportTicket{Subject: "Album delay", Message: "Where is my album?", Priority: model.PriorityHigh, UserID: "6650f0c1a2b3c4d5e6f70809"},
		},
		{
			name:      "bad priority",
			input:     &model.SupportTicket{Subject: "s", Message: "m", Priority: "Urgent", UserID: "6650f0c1a2b3c4d5e6f70809"},
			wantField: "priority",
		},
		{
			name:      "bad object id",
			input:     &model.SupportTicket{Subject: "s", Message: "m", Priority: model.PriorityLow, UserID: "42"},
			wantField: "userId",
		},
		{
			name:      "bad form component",
			input:     &model.Form{FormTitle: "Wedding", EventType: "6650f0c1a2b3c4d5e6f70809", Fields: []model.FormField{{Name: "n", Label: "l", Type: "text", Component: "checkbox"}}},
			wantField: "component",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
		})
	}
}

func TestVar(t *testing.T) {
	v := New(logger.Discard())

	assert.NoError(t, v.Var("status", model.StatusDeliverablesReady, "booking_status"))
	assert.NoError(t, v.Var("assignedStatus", model.AssignmentRejected, "assigned_status"))

	err := v.Var("status", "Shipped", "booking_status")
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "status", verrs[0].Field)
	assert.Contains(t, verrs[0].Message, "Deliverables Ready")
}

func TestValidationErrors_AppError(t *testing.T) {
	errs := ValidationErrors{{Field: "name", Message: "name is required"}}
	appErr := errs.AppError()

	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
	assert.Equal(t, "name is required", appErr.Details["name"])
}
