package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
)

// DefaultCacheTTL bounds how long a loaded rule set may be served without
// re-reading the backing store.
const DefaultCacheTTL = 10 * time.Minute

// Repository loads enabled workflow rules from the tabular store, parses
// the JSON-encoded condition and action payloads, and caches the result.
// The cache is the only mutable shared state; writes to rule definitions
// must call Invalidate before reporting success.
type Repository struct {
	source persistence.RuleSource
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	cached   []*models.WorkflowRule
	cachedAt time.Time
}

func NewRepository(source persistence.RuleSource, logger *slog.Logger) *Repository {
	return &Repository{
		source: source,
		logger: logger.With("module", "rule_repository"),
		ttl:    DefaultCacheTTL,
		now:    time.Now,
	}
}

// WithTTL overrides the cache TTL. Used by tests and short-lived tooling.
func (r *Repository) WithTTL(ttl time.Duration) *Repository {
	r.ttl = ttl

	return r
}

// Load returns the enabled rules in row order. A malformed rule is not
// fatal: it is skipped with a warning and loading continues.
func (r *Repository) Load(ctx context.Context) ([]*models.WorkflowRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && r.now().Sub(r.cachedAt) < r.ttl {
		return r.cached, nil
	}

	rows, err := r.source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule rows: %w", err)
	}

	loaded := make([]*models.WorkflowRule, 0, len(rows))

	for _, row := range rows {
		if !row.Enabled {
			continue
		}

		rule, err := ParseRow(row)
		if err != nil {
			r.logger.Warn("Skipping invalid rule definition",
				"rule_id", row.ID, "rule_name", row.Name, "error", err)

			continue
		}

		loaded = append(loaded, rule)
	}

	r.cached = loaded
	r.cachedAt = r.now()

	r.logger.Debug("Rule cache refreshed", "rules", len(loaded), "rows", len(rows))

	return loaded, nil
}

// Invalidate forces the next Load to bypass the cache. Called synchronously
// after any rule create, update, or delete.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cached = nil
	r.cachedAt = time.Time{}
}

// ParseRow converts one raw rule row into a WorkflowRule, validating the
// JSON payloads against their schemas.
func ParseRow(row models.RuleRow) (*models.WorkflowRule, error) {
	conditionsJSON := row.ConditionsJSON
	if conditionsJSON == "" {
		conditionsJSON = "{}"
	}

	if err := validateConditionsPayload(conditionsJSON); err != nil {
		return nil, &DefinitionError{RuleID: row.ID, Err: err}
	}

	if err := validateActionsPayload(row.ActionsJSON); err != nil {
		return nil, &DefinitionError{RuleID: row.ID, Err: err}
	}

	var conditions map[string]models.Condition
	if err := json.Unmarshal([]byte(conditionsJSON), &conditions); err != nil {
		return nil, &DefinitionError{RuleID: row.ID, Err: fmt.Errorf("%w: %v", ErrMalformedConditions, err)}
	}

	var actions []models.Action
	if err := json.Unmarshal([]byte(row.ActionsJSON), &actions); err != nil {
		return nil, &DefinitionError{RuleID: row.ID, Err: fmt.Errorf("%w: %v", ErrMalformedActions, err)}
	}

	if len(actions) == 0 {
		return nil, &DefinitionError{RuleID: row.ID, Err: ErrEmptyActions}
	}

	return &models.WorkflowRule{
		ID:           row.ID,
		Name:         row.Name,
		TriggerType:  models.TriggerType(row.TriggerType),
		Conditions:   conditions,
		Actions:      actions,
		Priority:     row.Priority,
		Enabled:      row.Enabled,
		CreatedAt:    row.CreatedAt,
		LastModified: row.LastModified,
		CreatedBy:    row.CreatedBy,
	}, nil
}
