// Package changestatus implements the change_status action handler.
package changestatus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/transitions"
)

// ErrMissingNewStatus is returned when the action parameters carry no
// target status.
var ErrMissingNewStatus = errors.New("change_status requires a 'newStatus' parameter")

// Action moves a case to a new status after validating the transition
// against the lifecycle graph. Re-applying the current status is a no-op,
// not an error, so the handler stays idempotent under retry.
type Action struct {
	NewStatus models.CaseStatus
	Reason    string

	cases     persistence.CaseStore
	validator *transitions.Validator
}

func NewAction(params map[string]any, cases persistence.CaseStore, validator *transitions.Validator) (*Action, error) {
	newStatus, _ := params["newStatus"].(string)
	if newStatus == "" {
		return nil, ErrMissingNewStatus
	}

	reason, _ := params["reason"].(string)

	return &Action{
		NewStatus: models.CaseStatus(newStatus),
		Reason:    reason,
		cases:     cases,
		validator: validator,
	}, nil
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, snapshot *models.CaseSnapshot) (*models.ActionResult, error) {
	logger := execCtx.Logger.With("action_type", models.ActionChangeStatus, "new_status", a.NewStatus)

	oldStatus := snapshot.Status
	if oldStatus == a.NewStatus {
		logger.InfoContext(ctx, "Case already in target status, skipping write")

		return &models.ActionResult{
			ActionType: models.ActionChangeStatus,
			Success:    true,
			OldValue:   string(oldStatus),
			NewValue:   string(a.NewStatus),
		}, nil
	}

	if err := a.validator.Validate(oldStatus, a.NewStatus); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	update := models.CaseUpdate{
		"status":       string(a.NewStatus),
		"lastModified": now,
	}
	if a.Reason != "" {
		update["statusReason"] = a.Reason
	}

	if err := a.cases.UpdateCase(ctx, snapshot.ID, update); err != nil {
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}

	snapshot.Status = a.NewStatus
	snapshot.LastModified = now

	logger.InfoContext(ctx, "Case status changed", "old_status", oldStatus)

	return &models.ActionResult{
		ActionType: models.ActionChangeStatus,
		Success:    true,
		OldValue:   string(oldStatus),
		NewValue:   string(a.NewStatus),
	}, nil
}
