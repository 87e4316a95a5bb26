package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/rules"
)

// CreateRuleRequest represents the request to create a new workflow rule.
type CreateRuleRequest struct {
	Name        string                      `validate:"required,min=3"`
	TriggerType string                      `validate:"required"`
	Conditions  map[string]models.Condition ``
	Actions     []models.Action             `validate:"required,min=1,dive"`
	Priority    int                         ``
	Enabled     bool                        ``
	CreatedBy   string                      ``
}

// UpdateRuleRequest represents the request to update an existing rule.
// Nil pointer fields are left unchanged.
type UpdateRuleRequest struct {
	Name        *string
	TriggerType *string
	Conditions  map[string]models.Condition
	Actions     []models.Action
	Priority    *int
	Enabled     *bool
}

var knownTriggerTypes = map[models.TriggerType]struct{}{
	models.TriggerCaseCreated:          {},
	models.TriggerCaseUpdated:          {},
	models.TriggerStatusChange:         {},
	models.TriggerAssignment:           {},
	models.TriggerResponseTimeExceeded: {},
	models.TriggerPriorityEscalation:   {},
	models.TriggerCriticalEscalation:   {},
}

// Rule handles rule management business operations. Every write invalidates
// the rule cache before returning, so the next engine invocation sees the
// change.
type Rule struct {
	source     persistence.RuleSource
	repository *rules.Repository
	validator  *validator.Validate
	logger     *slog.Logger
}

// NewRule creates a new rule service.
func NewRule(source persistence.RuleSource, repository *rules.Repository, logger *slog.Logger) *Rule {
	return &Rule{
		source:     source,
		repository: repository,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger.With("module", "rule_service"),
	}
}

// CreateRule validates and persists a new rule definition.
func (s *Rule) CreateRule(ctx context.Context, req *CreateRuleRequest) (*models.WorkflowRule, error) {
	if req == nil {
		return nil, ErrRuleNil
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("CreateRule", "invalid_rule", err.Error(), ErrInvalidRequest)
	}

	if len(req.Actions) == 0 {
		return nil, ErrActionsRequired
	}

	if _, ok := knownTriggerTypes[models.TriggerType(req.TriggerType)]; !ok {
		return nil, NewValidationError("CreateRule", "unknown_trigger",
			fmt.Sprintf("trigger type %q is not supported", req.TriggerType), ErrUnknownTriggerType)
	}

	now := time.Now().UTC()
	row := models.RuleRow{
		ID:           uuid.New().String(),
		Name:         req.Name,
		TriggerType:  req.TriggerType,
		Priority:     req.Priority,
		Enabled:      req.Enabled,
		CreatedAt:    now,
		LastModified: now,
		CreatedBy:    req.CreatedBy,
	}

	var err error
	if row.ConditionsJSON, row.ActionsJSON, err = encodePayloads(req.Conditions, req.Actions); err != nil {
		return nil, err
	}

	// Round-trip through the row parser so a definition the engine would
	// reject never reaches the store.
	rule, err := rules.ParseRow(row)
	if err != nil {
		return nil, NewValidationError("CreateRule", "invalid_rule", err.Error(), ErrInvalidRequest)
	}

	if err := s.source.SaveRow(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	s.repository.Invalidate()
	s.logger.Info("Rule created", "rule_id", rule.ID, "rule_name", rule.Name)

	return rule, nil
}

// GetRule returns one rule by ID.
func (s *Rule) GetRule(ctx context.Context, id string) (*models.WorkflowRule, error) {
	row, err := s.findRow(ctx, id)
	if err != nil {
		return nil, err
	}

	return rules.ParseRow(*row)
}

// ListRules returns all stored rules, enabled or not, in row order.
func (s *Rule) ListRules(ctx context.Context) ([]*models.WorkflowRule, error) {
	rows, err := s.source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	list := make([]*models.WorkflowRule, 0, len(rows))

	for _, row := range rows {
		rule, err := rules.ParseRow(row)
		if err != nil {
			s.logger.Warn("Skipping invalid rule definition", "rule_id", row.ID, "error", err)

			continue
		}

		list = append(list, rule)
	}

	return list, nil
}

// UpdateRule applies a partial update to an existing rule.
func (s *Rule) UpdateRule(ctx context.Context, id string, req *UpdateRuleRequest) (*models.WorkflowRule, error) {
	if req == nil {
		return nil, ErrRuleNil
	}

	row, err := s.findRow(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		row.Name = *req.Name
	}

	if req.TriggerType != nil {
		if _, ok := knownTriggerTypes[models.TriggerType(*req.TriggerType)]; !ok {
			return nil, NewValidationError("UpdateRule", "unknown_trigger",
				fmt.Sprintf("trigger type %q is not supported", *req.TriggerType), ErrUnknownTriggerType)
		}

		row.TriggerType = *req.TriggerType
	}

	if req.Conditions != nil || req.Actions != nil {
		conditions := req.Conditions
		actions := req.Actions

		if conditions == nil {
			if current, err := rules.ParseRow(*row); err == nil {
				conditions = current.Conditions
			}
		}

		if actions == nil {
			if current, err := rules.ParseRow(*row); err == nil {
				actions = current.Actions
			}
		}

		if row.ConditionsJSON, row.ActionsJSON, err = encodePayloads(conditions, actions); err != nil {
			return nil, err
		}
	}

	if req.Priority != nil {
		row.Priority = *req.Priority
	}

	if req.Enabled != nil {
		row.Enabled = *req.Enabled
	}

	row.LastModified = time.Now().UTC()

	rule, err := rules.ParseRow(*row)
	if err != nil {
		return nil, NewValidationError("UpdateRule", "invalid_rule", err.Error(), ErrInvalidRequest)
	}

	if err := s.validator.Struct(rule); err != nil {
		return nil, NewValidationError("UpdateRule", "invalid_rule", err.Error(), ErrInvalidRequest)
	}

	if err := s.source.SaveRow(ctx, *row); err != nil {
		return nil, fmt.Errorf("failed to save rule: %w", err)
	}

	s.repository.Invalidate()
	s.logger.Info("Rule updated", "rule_id", rule.ID, "rule_name", rule.Name)

	return rule, nil
}

// DeleteRule removes a rule from the store.
func (s *Rule) DeleteRule(ctx context.Context, id string) error {
	if err := s.source.DeleteRow(ctx, id); err != nil {
		return err
	}

	s.repository.Invalidate()
	s.logger.Info("Rule deleted", "rule_id", id)

	return nil
}

func (s *Rule) findRow(ctx context.Context, id string) (*models.RuleRow, error) {
	rows, err := s.source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	for i := range rows {
		if rows[i].ID == id {
			return &rows[i], nil
		}
	}

	return nil, persistence.NewStoreError("findRow", id, persistence.ErrRuleNotFound)
}

func encodePayloads(conditions map[string]models.Condition, actions []models.Action) (string, string, error) {
	if conditions == nil {
		conditions = map[string]models.Condition{}
	}

	conditionsJSON, err := json.Marshal(conditions)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode conditions: %w", err)
	}

	actionsJSON, err := json.Marshal(actions)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode actions: %w", err)
	}

	return string(conditionsJSON), string(actionsJSON), nil
}
