// Package conditions evaluates rule condition clauses against case fields.
package conditions

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dukex/caseflow/pkg/models"
)

// Supported condition operators. An unknown operator evaluates to false
// (fail closed) and is reported as a rule-definition warning.
const (
	OperatorEquals      = "equals"
	OperatorNotEquals   = "not_equals"
	OperatorContains    = "contains"
	OperatorGreaterThan = "greater_than"
	OperatorLessThan    = "less_than"
	OperatorIn          = "in"
	OperatorNotIn       = "not_in"
)

type Evaluator struct {
	logger *slog.Logger
}

func NewEvaluator(logger *slog.Logger) *Evaluator {
	return &Evaluator{
		logger: logger.With("module", "condition_evaluator"),
	}
}

// Evaluate applies one condition clause to a field value.
func (e *Evaluator) Evaluate(fieldValue any, condition models.Condition) bool {
	switch condition.Operator {
	case OperatorEquals, "":
		return looseEquals(fieldValue, condition.Value)
	case OperatorNotEquals:
		return !looseEquals(fieldValue, condition.Value)
	case OperatorContains:
		return strings.Contains(
			strings.ToLower(stringify(fieldValue)),
			strings.ToLower(stringify(condition.Value)),
		)
	case OperatorGreaterThan:
		left, right, ok := numericPair(fieldValue, condition.Value)

		return ok && left > right
	case OperatorLessThan:
		left, right, ok := numericPair(fieldValue, condition.Value)

		return ok && left < right
	case OperatorIn:
		return memberOf(fieldValue, condition.Value)
	case OperatorNotIn:
		return !memberOf(fieldValue, condition.Value)
	default:
		e.logger.Warn("Unknown condition operator, failing closed",
			"operator", condition.Operator)

		return false
	}
}

// EvaluateAll is the conjunction over all condition entries. An empty
// condition map is vacuously true.
func (e *Evaluator) EvaluateAll(conditions map[string]models.Condition, snapshot *models.CaseSnapshot) bool {
	for field, condition := range conditions {
		fieldValue, _ := snapshot.Field(field)
		if !e.Evaluate(fieldValue, condition) {
			return false
		}
	}

	return true
}

// looseEquals compares across the value types JSON decoding produces:
// "2" == 2 and 2 == 2.0 both hold.
func looseEquals(left, right any) bool {
	if left == nil || right == nil {
		return left == right
	}

	if l, r, ok := numericPair(left, right); ok {
		return l == r
	}

	return stringify(left) == stringify(right)
}

func memberOf(value any, set any) bool {
	members, ok := set.([]any)
	if !ok {
		return false
	}

	for _, member := range members {
		if looseEquals(value, member) {
			return true
		}
	}

	return false
}

func numericPair(left, right any) (float64, float64, bool) {
	l, okL := toFloat(left)
	r, okR := toFloat(right)

	return l, r, okL && okR
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)

		return parsed, err == nil
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
