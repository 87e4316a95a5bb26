package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCasePriority_StepUp(t *testing.T) {
	tests := []struct {
		name     string
		priority CasePriority
		steps    int
		expected CasePriority
	}{
		{name: "low steps to medium", priority: CasePriorityLow, steps: 1, expected: CasePriorityMedium},
		{name: "medium steps to high", priority: CasePriorityMedium, steps: 1, expected: CasePriorityHigh},
		{name: "high steps to critical", priority: CasePriorityHigh, steps: 1, expected: CasePriorityCritical},
		{name: "critical is clamped", priority: CasePriorityCritical, steps: 1, expected: CasePriorityCritical},
		{name: "multi-step clamps at critical", priority: CasePriorityLow, steps: 10, expected: CasePriorityCritical},
		{name: "zero steps is identity", priority: CasePriorityMedium, steps: 0, expected: CasePriorityMedium},
		{name: "unknown priority unchanged", priority: CasePriority("Urgent"), steps: 1, expected: CasePriority("Urgent")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.priority.StepUp(tt.steps))
		})
	}
}

func TestCasePriority_Rank(t *testing.T) {
	assert.Equal(t, 0, CasePriorityLow.Rank())
	assert.Equal(t, 3, CasePriorityCritical.Rank())
	assert.Equal(t, -1, CasePriority("Urgent").Rank())
}

func TestCaseSnapshot_Field(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	snapshot := &CaseSnapshot{
		ID:        "case-1",
		Status:    CaseStatusNew,
		Priority:  CasePriorityHigh,
		Assignee:  "alex",
		CreatedAt: createdAt,
		Fields: map[string]any{
			"category": "billing",
		},
	}

	value, ok := snapshot.Field("status")
	assert.True(t, ok)
	assert.Equal(t, "New", value)

	value, ok = snapshot.Field("category")
	assert.True(t, ok)
	assert.Equal(t, "billing", value)

	value, ok = snapshot.Field("createdAt")
	assert.True(t, ok)
	assert.Equal(t, createdAt, value)

	_, ok = snapshot.Field("missing")
	assert.False(t, ok)
}

func TestCaseUpdate_Apply(t *testing.T) {
	modified := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	snapshot := &CaseSnapshot{
		ID:       "case-1",
		Status:   CaseStatusNew,
		Priority: CasePriorityLow,
	}

	update := CaseUpdate{
		"status":       CaseStatusAssigned,
		"priority":     "High",
		"assignee":     "alex",
		"lastModified": modified,
		"region":       "emea",
	}
	update.Apply(snapshot)

	assert.Equal(t, CaseStatusAssigned, snapshot.Status)
	assert.Equal(t, CasePriorityHigh, snapshot.Priority)
	assert.Equal(t, "alex", snapshot.Assignee)
	assert.Equal(t, modified, snapshot.LastModified)
	assert.Equal(t, "emea", snapshot.Fields["region"])

	// A lastModified value that is not a time.Time is ignored.
	CaseUpdate{"lastModified": "yesterday"}.Apply(snapshot)
	assert.Equal(t, modified, snapshot.LastModified)
}

func TestProcessResult_Failed(t *testing.T) {
	result := &ProcessResult{
		RuleResults: []RuleResult{
			{RuleID: "r1", Success: true},
			{RuleID: "r2", Success: false},
		},
	}
	assert.True(t, result.Failed())

	result = &ProcessResult{
		RuleResults: []RuleResult{{RuleID: "r1", Success: true}},
	}
	assert.False(t, result.Failed())

	assert.False(t, (&ProcessResult{}).Failed())
}
