package protocol

import (
	"context"

	"github.com/dukex/caseflow/pkg/models"
)

// Notifier dispatches one message to one recipient over one channel.
// Implementations own transport concerns; the engine only sees the outcome.
type Notifier interface {
	Send(ctx context.Context, recipient, message, channel string) error
}

// FollowupScheduler receives follow-up hand-offs. Scheduling is not an
// immediate effect: the collaborator decides when and how to act on it.
type FollowupScheduler interface {
	ScheduleFollowup(ctx context.Context, followup models.FollowupRecord) error
}

// AssignmentResolver picks a target assignee for a case when the assign
// action carries no literal assignee. Round-robin and workload-based
// strategies plug in here.
type AssignmentResolver func(ctx context.Context, snapshot *models.CaseSnapshot) (string, error)

// StaticAssignmentResolver always resolves to the configured fallback.
func StaticAssignmentResolver(fallback string) AssignmentResolver {
	return func(context.Context, *models.CaseSnapshot) (string, error) {
		return fallback, nil
	}
}
