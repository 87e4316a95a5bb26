package models

import (
	"log/slog"
	"time"
)

// SystemActor is the audit identity recorded for automated executions.
const SystemActor = "System"

// ExecutionResult is the terminal outcome of one action execution.
type ExecutionResult string

const (
	ExecutionSuccess ExecutionResult = "Success"
	ExecutionFailed  ExecutionResult = "Failed"
)

// ExecutionRecord is an immutable audit entry for one action's outcome.
// Records are append-only and never mutated.
type ExecutionRecord struct {
	ID         string          `json:"id"`
	CaseID     string          `json:"case_id"`
	RuleID     string          `json:"rule_id"`
	ActionType ActionType      `json:"action_type"`
	OldValue   string          `json:"old_value,omitempty"`
	NewValue   string          `json:"new_value,omitempty"`
	ExecutedAt time.Time       `json:"executed_at"`
	ExecutedBy string          `json:"executed_by"`
	Result     ExecutionResult `json:"result"`
	Notes      string          `json:"notes,omitempty"`
}

// ActionResult captures the outcome of a single action handler.
type ActionResult struct {
	ActionType ActionType     `json:"action_type"`
	Success    bool           `json:"success"`
	OldValue   any            `json:"old_value,omitempty"`
	NewValue   any            `json:"new_value,omitempty"`
	Error      string         `json:"error,omitempty"`
	Output     map[string]any `json:"output,omitempty"`
}

// RuleResult aggregates the action outcomes of one rule. Success is true
// only when every action succeeded; a failed action does not stop siblings.
type RuleResult struct {
	RuleID        string         `json:"rule_id"`
	RuleName      string         `json:"rule_name"`
	Success       bool           `json:"success"`
	ActionResults []ActionResult `json:"action_results"`
	Error         string         `json:"error,omitempty"`
}

// ProcessResult is the structured outcome of one engine invocation. The
// engine reports partial failure here instead of returning an error.
type ProcessResult struct {
	CaseID         string       `json:"case_id"`
	TriggerType    TriggerType  `json:"trigger_type"`
	ProcessedRules int          `json:"processed_rules"`
	RuleResults    []RuleResult `json:"rule_results"`
	Error          string       `json:"error,omitempty"`
}

// Failed reports whether any rule in the invocation had a failing action.
func (r *ProcessResult) Failed() bool {
	for _, rule := range r.RuleResults {
		if !rule.Success {
			return true
		}
	}

	return false
}

// ExecutionContext carries per-invocation data into action handlers and
// template rendering.
type ExecutionContext struct {
	ID          string         `json:"id"`
	CaseID      string         `json:"case_id"`
	TriggerType TriggerType    `json:"trigger_type"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
	Logger      *slog.Logger   `json:"-"`
}

// WithLogger returns a copy of the context bound to the given logger.
func (c *ExecutionContext) WithLogger(logger *slog.Logger) *ExecutionContext {
	clone := *c
	clone.Logger = logger

	return &clone
}
