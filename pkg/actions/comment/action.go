// Package comment implements the add_comment action handler.
package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/template"
)

// ErrMissingComment is returned when the action parameters carry no
// comment text.
var ErrMissingComment = errors.New("add_comment requires a 'comment' parameter")

// Action appends a system-authored comment to the case's comment log.
type Action struct {
	Comment string

	cases persistence.CaseStore
}

func NewAction(params map[string]any, cases persistence.CaseStore) (*Action, error) {
	text, _ := params["comment"].(string)
	if text == "" {
		return nil, ErrMissingComment
	}

	return &Action{
		Comment: text,
		cases:   cases,
	}, nil
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, snapshot *models.CaseSnapshot) (*models.ActionResult, error) {
	body := template.RenderWithCase(a.Comment, snapshot, &execCtx)

	record := models.CommentRecord{
		CaseID:    snapshot.ID,
		Author:    models.SystemActor,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := a.cases.AppendComment(ctx, snapshot.ID, record); err != nil {
		return nil, fmt.Errorf("failed to append comment: %w", err)
	}

	execCtx.Logger.InfoContext(ctx, "Comment added to case",
		"action_type", models.ActionAddComment)

	return &models.ActionResult{
		ActionType: models.ActionAddComment,
		Success:    true,
		NewValue:   body,
	}, nil
}
