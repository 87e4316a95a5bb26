// Package followup implements the schedule_followup action handler.
package followup

import (
	"context"
	"fmt"
	"time"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/protocol"
)

const defaultFollowupDays = 3

// Action hands a follow-up record to the external scheduling collaborator.
// This is a hand-off, not an immediate effect: the collaborator owns when
// the follow-up fires.
type Action struct {
	FollowupType string
	Assignee     string
	AfterDays    int

	scheduler protocol.FollowupScheduler
}

func NewAction(params map[string]any, scheduler protocol.FollowupScheduler) (*Action, error) {
	followupType, _ := params["followupType"].(string)
	if followupType == "" {
		followupType = "check_in"
	}

	assignee, _ := params["assignee"].(string)

	afterDays := defaultFollowupDays
	if raw, ok := params["afterDays"].(float64); ok && raw >= 1 {
		afterDays = int(raw)
	}

	return &Action{
		FollowupType: followupType,
		Assignee:     assignee,
		AfterDays:    afterDays,
		scheduler:    scheduler,
	}, nil
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, snapshot *models.CaseSnapshot) (*models.ActionResult, error) {
	assignee := a.Assignee
	if assignee == "" {
		assignee = snapshot.Assignee
	}

	record := models.FollowupRecord{
		CaseID:       snapshot.ID,
		FollowupDate: time.Now().UTC().AddDate(0, 0, a.AfterDays),
		FollowupType: a.FollowupType,
		Assignee:     assignee,
	}

	if err := a.scheduler.ScheduleFollowup(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to schedule follow-up: %w", err)
	}

	execCtx.Logger.InfoContext(ctx, "Follow-up scheduled",
		"action_type", models.ActionScheduleFollowup,
		"followup_type", a.FollowupType,
		"followup_date", record.FollowupDate)

	return &models.ActionResult{
		ActionType: models.ActionScheduleFollowup,
		Success:    true,
		NewValue:   record.FollowupDate.Format(time.RFC3339),
		Output: map[string]any{
			"followup_type": record.FollowupType,
			"assignee":      record.Assignee,
		},
	}, nil
}
