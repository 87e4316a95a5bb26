package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dukex/caseflow/pkg/models"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		data     map[string]any
		expected string
	}{
		{
			name:     "substitutes known placeholders",
			input:    "Case {caseId} is {status}",
			data:     map[string]any{"caseId": "case-1", "status": "New"},
			expected: "Case case-1 is New",
		},
		{
			name:     "unresolved placeholder left verbatim",
			input:    "Hello {name}, case {caseId}",
			data:     map[string]any{"caseId": "case-1"},
			expected: "Hello {name}, case case-1",
		},
		{
			name:     "non-string values formatted",
			input:    "{count} open cases",
			data:     map[string]any{"count": 4},
			expected: "4 open cases",
		},
		{
			name:     "no placeholders",
			input:    "plain text",
			data:     map[string]any{"caseId": "case-1"},
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.input, tt.data))
		})
	}
}

func TestRenderWithCase(t *testing.T) {
	snapshot := &models.CaseSnapshot{
		ID:        "case-9",
		Status:    models.CaseStatusEscalated,
		Priority:  models.CasePriorityCritical,
		Assignee:  "sam",
		CreatedAt: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		Fields: map[string]any{
			"customer": "Acme",
		},
	}
	execCtx := &models.ExecutionContext{
		ID:          "exec-1234",
		TriggerType: models.TriggerPriorityEscalation,
		TriggerData: map[string]any{
			"ageHours": 26,
		},
	}

	rendered := RenderWithCase(
		"Case {caseId} ({customer}) is {priority}, open {ageHours}h, execution {executionId}",
		snapshot, execCtx)

	assert.Equal(t, "Case case-9 (Acme) is Critical, open 26h, execution exec-1234", rendered)
}

func TestRenderWithCase_TriggerDataWins(t *testing.T) {
	snapshot := &models.CaseSnapshot{
		ID: "case-9",
		Fields: map[string]any{
			"customer": "Acme",
		},
	}
	execCtx := &models.ExecutionContext{
		TriggerData: map[string]any{
			"customer": "Globex",
		},
	}

	assert.Equal(t, "Globex", RenderWithCase("{customer}", snapshot, execCtx))
}

func TestRenderWithCase_NilInputs(t *testing.T) {
	assert.Equal(t, "{caseId}", RenderWithCase("{caseId}", nil, nil))
}
