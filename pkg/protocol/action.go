// Package protocol defines the interfaces and contracts between the
// workflow engine and its pluggable action handlers and external
// collaborators.
package protocol

import (
	"context"

	"github.com/dukex/caseflow/pkg/models"
)

// Action is one configured handler instance, bound to the parameters of a
// rule's action entry. Execute must capture handler failure in the returned
// result or error; it never mutates the case on a validation failure.
type Action interface {
	Execute(ctx context.Context, execCtx models.ExecutionContext, snapshot *models.CaseSnapshot) (*models.ActionResult, error)
}

// ActionFactory creates Action instances from a rule's action parameters.
type ActionFactory interface {
	Create(params map[string]any) (Action, error)
	ID() string
}
