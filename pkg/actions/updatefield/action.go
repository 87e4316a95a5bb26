// Package updatefield implements the update_field action handler.
package updatefield

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
)

var (
	// ErrMissingField is returned when the action parameters name no field.
	ErrMissingField = errors.New("update_field requires a 'field' parameter")

	// ErrNotNumeric is returned when an arithmetic operator is applied to a
	// non-numeric current or operand value.
	ErrNotNumeric = errors.New("arithmetic field update requires numeric values")
)

// Supported field update operators. Without an operator the field is
// overwritten.
const (
	OperatorAdd      = "add"
	OperatorSubtract = "subtract"
	OperatorMultiply = "multiply"
	OperatorAppend   = "append"
	OperatorPrepend  = "prepend"
)

// Action applies an optional operator between a case field's current value
// and the action's operand, then persists the result.
type Action struct {
	Field    string
	Value    any
	Operator string

	cases persistence.CaseStore
}

func NewAction(params map[string]any, cases persistence.CaseStore) (*Action, error) {
	field, _ := params["field"].(string)
	if field == "" {
		return nil, ErrMissingField
	}

	operator, _ := params["operator"].(string)

	return &Action{
		Field:    field,
		Value:    params["value"],
		Operator: operator,
		cases:    cases,
	}, nil
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, snapshot *models.CaseSnapshot) (*models.ActionResult, error) {
	current, _ := snapshot.Field(a.Field)

	newValue, err := apply(a.Operator, current, a.Value)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	err = a.cases.UpdateCase(ctx, snapshot.ID, models.CaseUpdate{
		a.Field:        newValue,
		"lastModified": now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist field update: %w", err)
	}

	if snapshot.Fields == nil {
		snapshot.Fields = map[string]any{}
	}

	snapshot.Fields[a.Field] = newValue
	snapshot.LastModified = now

	execCtx.Logger.InfoContext(ctx, "Case field updated",
		"action_type", models.ActionUpdateField, "field", a.Field)

	return &models.ActionResult{
		ActionType: models.ActionUpdateField,
		Success:    true,
		OldValue:   current,
		NewValue:   newValue,
		Output: map[string]any{
			"field": a.Field,
		},
	}, nil
}

func apply(operator string, current, operand any) (any, error) {
	switch operator {
	case "":
		return operand, nil
	case OperatorAdd:
		return arithmetic(current, operand, func(a, b float64) float64 { return a + b })
	case OperatorSubtract:
		return arithmetic(current, operand, func(a, b float64) float64 { return a - b })
	case OperatorMultiply:
		return arithmetic(current, operand, func(a, b float64) float64 { return a * b })
	case OperatorAppend:
		return stringify(current) + stringify(operand), nil
	case OperatorPrepend:
		return stringify(operand) + stringify(current), nil
	default:
		return nil, fmt.Errorf("unknown field update operator '%s'", operator)
	}
}

func arithmetic(current, operand any, op func(a, b float64) float64) (any, error) {
	left, okL := toFloat(current)

	right, okR := toFloat(operand)
	if !okL || !okR {
		return nil, ErrNotNumeric
	}

	return op(left, right), nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func stringify(value any) string {
	if value == nil {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}
