// Package assigncase implements the assign_case action handler.
package assigncase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/protocol"
)

// ErrNoAssignee is returned when neither a literal assignee nor a resolver
// produced a target.
var ErrNoAssignee = errors.New("assign_case could not resolve a target assignee")

// Action reassigns a case. The target comes from a literal 'assignee'
// parameter, or from the pluggable assignment resolver when the parameter
// is absent.
type Action struct {
	Assignee string

	cases    persistence.CaseStore
	resolver protocol.AssignmentResolver
}

func NewAction(params map[string]any, cases persistence.CaseStore, resolver protocol.AssignmentResolver) (*Action, error) {
	assignee, _ := params["assignee"].(string)

	return &Action{
		Assignee: assignee,
		cases:    cases,
		resolver: resolver,
	}, nil
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, snapshot *models.CaseSnapshot) (*models.ActionResult, error) {
	logger := execCtx.Logger.With("action_type", models.ActionAssignCase)

	target := a.Assignee

	if target == "" && a.resolver != nil {
		resolved, err := a.resolver(ctx, snapshot)
		if err != nil {
			return nil, fmt.Errorf("assignment resolver failed: %w", err)
		}

		target = resolved
	}

	if target == "" {
		return nil, ErrNoAssignee
	}

	oldAssignee := snapshot.Assignee
	if oldAssignee == target {
		return &models.ActionResult{
			ActionType: models.ActionAssignCase,
			Success:    true,
			OldValue:   oldAssignee,
			NewValue:   target,
		}, nil
	}

	now := time.Now().UTC()

	err := a.cases.UpdateCase(ctx, snapshot.ID, models.CaseUpdate{
		"assignee":     target,
		"assignedAt":   now,
		"lastModified": now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist assignment: %w", err)
	}

	snapshot.Assignee = target
	snapshot.LastModified = now

	logger.InfoContext(ctx, "Case reassigned", "old_assignee", oldAssignee, "assignee", target)

	return &models.ActionResult{
		ActionType: models.ActionAssignCase,
		Success:    true,
		OldValue:   oldAssignee,
		NewValue:   target,
	}, nil
}
