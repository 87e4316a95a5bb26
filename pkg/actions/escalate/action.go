// Package escalate implements the escalate_case action handler.
package escalate

import (
	"context"
	"fmt"
	"time"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/protocol"
	"github.com/dukex/caseflow/pkg/template"
)

// Action steps a case's priority up the fixed ladder, clamped at Critical.
// A case already at the top of the ladder is a successful no-op so repeated
// sweeps stay idempotent.
type Action struct {
	EscalationLevel int
	Reason          string
	EscalationTo    string

	cases    persistence.CaseStore
	notifier protocol.Notifier
}

func NewAction(params map[string]any, cases persistence.CaseStore, notifier protocol.Notifier) (*Action, error) {
	level := 1
	if raw, ok := params["escalationLevel"].(float64); ok && raw >= 1 {
		level = int(raw)
	}

	reason, _ := params["reason"].(string)
	escalationTo, _ := params["escalationTo"].(string)

	return &Action{
		EscalationLevel: level,
		Reason:          reason,
		EscalationTo:    escalationTo,
		cases:           cases,
		notifier:        notifier,
	}, nil
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, snapshot *models.CaseSnapshot) (*models.ActionResult, error) {
	logger := execCtx.Logger.With("action_type", models.ActionEscalateCase)

	oldPriority := snapshot.Priority

	newPriority := oldPriority.StepUp(a.EscalationLevel)
	if newPriority == oldPriority {
		logger.InfoContext(ctx, "Case priority already at ceiling, skipping write",
			"priority", oldPriority)

		return &models.ActionResult{
			ActionType: models.ActionEscalateCase,
			Success:    true,
			OldValue:   string(oldPriority),
			NewValue:   string(newPriority),
		}, nil
	}

	now := time.Now().UTC()

	update := models.CaseUpdate{
		"priority":     string(newPriority),
		"escalatedAt":  now,
		"lastModified": now,
	}
	if a.Reason != "" {
		update["escalationReason"] = a.Reason
	}

	if err := a.cases.UpdateCase(ctx, snapshot.ID, update); err != nil {
		return nil, fmt.Errorf("failed to persist escalation: %w", err)
	}

	snapshot.Priority = newPriority
	snapshot.LastModified = now

	logger.InfoContext(ctx, "Case escalated",
		"old_priority", oldPriority, "priority", newPriority)

	result := &models.ActionResult{
		ActionType: models.ActionEscalateCase,
		Success:    true,
		OldValue:   string(oldPriority),
		NewValue:   string(newPriority),
	}

	if a.EscalationTo != "" && a.notifier != nil {
		message := template.RenderWithCase(
			"Case {caseId} escalated from "+string(oldPriority)+" to {priority}",
			snapshot, &execCtx)

		if err := a.notifier.Send(ctx, a.EscalationTo, message, defaultEscalationChannel); err != nil {
			// The escalation itself is already persisted: record the
			// notification failure without failing the action.
			logger.WarnContext(ctx, "Escalation notification failed",
				"recipient", a.EscalationTo, "error", err)

			result.Output = map[string]any{
				"notificationError": err.Error(),
			}
		}
	}

	return result, nil
}

const defaultEscalationChannel = "email"
