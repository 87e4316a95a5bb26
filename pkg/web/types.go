package web

import (
	"github.com/dukex/caseflow/pkg/models"
)

// CreateRuleRequest is the JSON body for creating a workflow rule.
type CreateRuleRequest struct {
	Name        string                      `json:"name"         validate:"required,min=3"`
	TriggerType string                      `json:"trigger_type" validate:"required"`
	Conditions  map[string]models.Condition `json:"conditions"`
	Actions     []models.Action             `json:"actions"      validate:"required,min=1,dive"`
	Priority    int                         `json:"priority"`
	Enabled     bool                        `json:"enabled"`
	CreatedBy   string                      `json:"created_by"`
}

// UpdateRuleRequest is the JSON body for partially updating a rule. Absent
// fields are left unchanged.
type UpdateRuleRequest struct {
	Name        *string                     `json:"name"`
	TriggerType *string                     `json:"trigger_type"`
	Conditions  map[string]models.Condition `json:"conditions"`
	Actions     []models.Action             `json:"actions"`
	Priority    *int                        `json:"priority"`
	Enabled     *bool                       `json:"enabled"`
}
