// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukex/caseflow/pkg/actions/assigncase"
	"github.com/dukex/caseflow/pkg/actions/changestatus"
	"github.com/dukex/caseflow/pkg/actions/comment"
	"github.com/dukex/caseflow/pkg/actions/escalate"
	"github.com/dukex/caseflow/pkg/actions/followup"
	"github.com/dukex/caseflow/pkg/actions/notify"
	"github.com/dukex/caseflow/pkg/actions/updatefield"
	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	"github.com/dukex/caseflow/pkg/protocol"
	"github.com/dukex/caseflow/pkg/registry"
	"github.com/dukex/caseflow/pkg/retry"
	"github.com/dukex/caseflow/pkg/transitions"
)

const (
	notifyRetryAttempts = 3
	notifyRetryBase     = 500 * time.Millisecond
)

// followupScheduler adapts the follow-up store to the scheduling collaborator
// the follow-up action expects.
type followupScheduler struct {
	store persistence.FollowupStore
}

func (s followupScheduler) ScheduleFollowup(ctx context.Context, record models.FollowupRecord) error {
	return s.store.Schedule(ctx, record)
}

// NewRegistry builds the action registry with every native action handler
// bound to its collaborators.
func NewRegistry(
	logger *slog.Logger,
	store persistence.Persistence,
	notifier protocol.Notifier,
	resolver protocol.AssignmentResolver,
) *registry.Registry {
	reg := registry.NewRegistry(logger)

	cases := store.CaseStore()
	validator := transitions.NewValidator()

	reg.RegisterAction(changestatus.NewFactory(cases, validator))
	reg.RegisterAction(assigncase.NewFactory(cases, resolver))
	reg.RegisterAction(notify.NewFactory(notifier, retry.Exponential(notifyRetryAttempts, notifyRetryBase)))
	reg.RegisterAction(escalate.NewFactory(cases, notifier))
	reg.RegisterAction(comment.NewFactory(cases))
	reg.RegisterAction(updatefield.NewFactory(cases))
	reg.RegisterAction(followup.NewFactory(followupScheduler{store: store.FollowupStore()}))

	return reg
}
