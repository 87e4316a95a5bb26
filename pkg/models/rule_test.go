package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondition_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name             string
		payload          string
		expectedOperator string
		expectedValue    any
	}{
		{
			name:             "literal string is equality shorthand",
			payload:          `"High"`,
			expectedOperator: "equals",
			expectedValue:    "High",
		},
		{
			name:             "literal number is equality shorthand",
			payload:          `3`,
			expectedOperator: "equals",
			expectedValue:    float64(3),
		},
		{
			name:             "explicit operator object",
			payload:          `{"operator": "greater_than", "value": 5}`,
			expectedOperator: "greater_than",
			expectedValue:    float64(5),
		},
		{
			name:             "in operator with list",
			payload:          `{"operator": "in", "value": ["High", "Critical"]}`,
			expectedOperator: "in",
			expectedValue:    []any{"High", "Critical"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var condition Condition

			require.NoError(t, json.Unmarshal([]byte(tt.payload), &condition))
			assert.Equal(t, tt.expectedOperator, condition.Operator)
			assert.Equal(t, tt.expectedValue, condition.Value)
		})
	}
}

func TestCondition_UnmarshalJSON_ConditionMap(t *testing.T) {
	payload := `{
		"priority": "High",
		"age_hours": {"operator": "greater_than", "value": 24}
	}`

	var conditions map[string]Condition

	require.NoError(t, json.Unmarshal([]byte(payload), &conditions))
	require.Len(t, conditions, 2)
	assert.Equal(t, "equals", conditions["priority"].Operator)
	assert.Equal(t, "High", conditions["priority"].Value)
	assert.Equal(t, "greater_than", conditions["age_hours"].Operator)
}
