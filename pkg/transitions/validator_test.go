package transitions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukex/caseflow/pkg/models"
)

func TestValidator_IsAllowed(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name    string
		from    models.CaseStatus
		to      models.CaseStatus
		allowed bool
	}{
		{name: "new to assigned", from: models.CaseStatusNew, to: models.CaseStatusAssigned, allowed: true},
		{name: "new to in progress", from: models.CaseStatusNew, to: models.CaseStatusInProgress, allowed: true},
		{name: "new to escalated", from: models.CaseStatusNew, to: models.CaseStatusEscalated, allowed: true},
		{name: "new to resolved is skipping", from: models.CaseStatusNew, to: models.CaseStatusResolved, allowed: false},
		{name: "in progress to resolved", from: models.CaseStatusInProgress, to: models.CaseStatusResolved, allowed: true},
		{name: "pending review back to in progress", from: models.CaseStatusPendingReview, to: models.CaseStatusInProgress, allowed: true},
		{name: "resolved to closed", from: models.CaseStatusResolved, to: models.CaseStatusClosed, allowed: true},
		{name: "resolved to reopened", from: models.CaseStatusResolved, to: models.CaseStatusReopened, allowed: true},
		{name: "closed to reopened", from: models.CaseStatusClosed, to: models.CaseStatusReopened, allowed: true},
		{name: "closed to in progress is forbidden", from: models.CaseStatusClosed, to: models.CaseStatusInProgress, allowed: false},
		{name: "closed to assigned is forbidden", from: models.CaseStatusClosed, to: models.CaseStatusAssigned, allowed: false},
		{name: "reopened to assigned", from: models.CaseStatusReopened, to: models.CaseStatusAssigned, allowed: true},
		{name: "same status is a no-op", from: models.CaseStatusOnHold, to: models.CaseStatusOnHold, allowed: true},
		{name: "on hold to in progress", from: models.CaseStatusOnHold, to: models.CaseStatusInProgress, allowed: true},
		{name: "on hold to resolved is forbidden", from: models.CaseStatusOnHold, to: models.CaseStatusResolved, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, validator.IsAllowed(tt.from, tt.to))
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	validator := NewValidator()

	assert.NoError(t, validator.Validate(models.CaseStatusNew, models.CaseStatusAssigned))

	err := validator.Validate(models.CaseStatusClosed, models.CaseStatusInProgress)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "Closed -> InProgress")
}

func TestValidator_KnownStatus(t *testing.T) {
	validator := NewValidator()

	assert.True(t, validator.KnownStatus(models.CaseStatusNew))
	assert.True(t, validator.KnownStatus(models.CaseStatusClosed))
	assert.False(t, validator.KnownStatus(models.CaseStatus("Archived")))
}
