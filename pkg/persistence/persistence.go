// Package persistence provides the data storage abstraction layer for rule
// rows, case snapshots, execution history, and follow-ups.
package persistence

import (
	"context"

	"github.com/dukex/caseflow/pkg/models"
)

// RuleSource exposes the tabular rule store. Conditions and actions travel
// as JSON-encoded payloads inside the row; parsing is the rule repository's
// concern, not the store's.
type RuleSource interface {
	Rows(ctx context.Context) ([]models.RuleRow, error)
	SaveRow(ctx context.Context, row models.RuleRow) error
	DeleteRow(ctx context.Context, id string) error
}

// CaseStore is the externally-synchronized case table. The engine holds no
// locks; serializing writes per case id (or detecting stale writes) is the
// store's responsibility.
type CaseStore interface {
	ReadCase(ctx context.Context, id string) (*models.CaseSnapshot, error)
	UpdateCase(ctx context.Context, id string, fields models.CaseUpdate) error
	AppendComment(ctx context.Context, id string, comment models.CommentRecord) error
	ListActiveCases(ctx context.Context) ([]*models.CaseSnapshot, error)
	ListCasesEligibleForEscalation(ctx context.Context) ([]*models.CaseSnapshot, error)
}

// ExecutionHistory is the append-only audit trail of rule executions.
type ExecutionHistory interface {
	Append(ctx context.Context, record *models.ExecutionRecord) error
	History(ctx context.Context, caseID string, limit int) ([]*models.ExecutionRecord, error)
}

// FollowupStore records scheduled follow-ups for later pickup.
type FollowupStore interface {
	Schedule(ctx context.Context, followup models.FollowupRecord) error
	Pending(ctx context.Context, caseID string) ([]models.FollowupRecord, error)
}

// Persistence bundles the repositories of one backing store.
type Persistence interface {
	RuleSource() RuleSource
	CaseStore() CaseStore
	ExecutionHistory() ExecutionHistory
	FollowupStore() FollowupStore

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
