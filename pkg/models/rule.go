package models

import (
	"encoding/json"
	"time"
)

// TriggerType selects which events a rule listens to.
type TriggerType string

const (
	TriggerCaseCreated          TriggerType = "case_created"
	TriggerCaseUpdated          TriggerType = "case_updated"
	TriggerStatusChange         TriggerType = "status_change"
	TriggerAssignment           TriggerType = "assignment"
	TriggerResponseTimeExceeded TriggerType = "response_time_exceeded"
	TriggerPriorityEscalation   TriggerType = "priority_escalation"
	TriggerCriticalEscalation   TriggerType = "critical_escalation"
)

// ActionType identifies one automated effect a rule can apply.
type ActionType string

const (
	ActionChangeStatus     ActionType = "change_status"
	ActionAssignCase       ActionType = "assign_case"
	ActionSendNotification ActionType = "send_notification"
	ActionEscalateCase     ActionType = "escalate_case"
	ActionAddComment       ActionType = "add_comment"
	ActionUpdateField      ActionType = "update_field"
	ActionScheduleFollowup ActionType = "schedule_followup"
)

// Condition is one clause of a rule's condition map. A bare literal in the
// stored JSON is shorthand for an equality check.
type Condition struct {
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	var expr struct {
		Operator string `json:"operator"`
		Value    any    `json:"value"`
	}

	if err := json.Unmarshal(data, &expr); err == nil && expr.Operator != "" {
		c.Operator = expr.Operator
		c.Value = expr.Value

		return nil
	}

	var literal any
	if err := json.Unmarshal(data, &literal); err != nil {
		return err
	}

	c.Operator = "equals"
	c.Value = literal

	return nil
}

// Action is one effect in a rule's ordered action sequence. Actions are
// data, not code: parameters are interpreted by the matching handler.
type Action struct {
	Type       ActionType     `json:"type"       validate:"required"`
	Parameters map[string]any `json:"parameters"`
}

// WorkflowRule is a stored automation definition: trigger + conditions +
// ordered actions + priority. Rules are loaded read-only by the engine.
type WorkflowRule struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"          validate:"required,min=3"`
	TriggerType  TriggerType          `json:"trigger_type"  validate:"required"`
	Conditions   map[string]Condition `json:"conditions"`
	Actions      []Action             `json:"actions"       validate:"required,min=1,dive"`
	Priority     int                  `json:"priority"`
	Enabled      bool                 `json:"enabled"`
	CreatedAt    time.Time            `json:"created_at"`
	LastModified time.Time            `json:"last_modified"`
	CreatedBy    string               `json:"created_by"`
}

// RuleRow is the raw tabular representation of a rule as stored in the
// backing store, with conditions and actions still JSON-encoded.
type RuleRow struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	TriggerType    string    `json:"trigger_type"`
	ConditionsJSON string    `json:"conditions_json"`
	ActionsJSON    string    `json:"actions_json"`
	Priority       int       `json:"priority"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"created_at"`
	LastModified   time.Time `json:"last_modified"`
	CreatedBy      string    `json:"created_by"`
}
