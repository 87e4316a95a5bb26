// Package template renders message and comment templates against case data.
package template

import (
	"fmt"
	"regexp"

	"github.com/dukex/caseflow/pkg/models"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_.]+)\}`)

// Render substitutes {fieldName} placeholders with values from the given
// data map. Unresolved placeholders are left verbatim, not treated as an
// error.
func Render(input string, data map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[1 : len(match)-1]

		value, ok := data[name]
		if !ok {
			return match
		}

		if s, ok := value.(string); ok {
			return s
		}

		return fmt.Sprintf("%v", value)
	})
}

// RenderWithCase renders a template against the union of case-snapshot
// fields and execution context data. Context entries win on key collision
// so trigger data can override stale snapshot values.
func RenderWithCase(input string, snapshot *models.CaseSnapshot, execCtx *models.ExecutionContext) string {
	data := map[string]any{}

	if snapshot != nil {
		data["caseId"] = snapshot.ID
		data["status"] = string(snapshot.Status)
		data["priority"] = string(snapshot.Priority)
		data["assignee"] = snapshot.Assignee
		data["createdAt"] = snapshot.CreatedAt.Format("2006-01-02 15:04")

		for name, value := range snapshot.Fields {
			data[name] = value
		}
	}

	if execCtx != nil {
		data["executionId"] = execCtx.ID
		data["triggerType"] = string(execCtx.TriggerType)

		for name, value := range execCtx.TriggerData {
			data[name] = value
		}
	}

	return Render(input, data)
}
