package rules

import (
	"context"
	"sort"

	"github.com/dukex/caseflow/pkg/conditions"
	"github.com/dukex/caseflow/pkg/models"
)

// Selector picks the rules applicable to one trigger event, ordered by
// descending priority. Ties preserve row order: the sort is stable so the
// tie-break is deterministic.
type Selector struct {
	repository *Repository
	evaluator  *conditions.Evaluator
}

func NewSelector(repository *Repository, evaluator *conditions.Evaluator) *Selector {
	return &Selector{
		repository: repository,
		evaluator:  evaluator,
	}
}

// Select filters the loaded rules to those matching the trigger type whose
// conditions all hold against the case snapshot.
func (s *Selector) Select(ctx context.Context, triggerType models.TriggerType, snapshot *models.CaseSnapshot) ([]*models.WorkflowRule, error) {
	loaded, err := s.repository.Load(ctx)
	if err != nil {
		return nil, err
	}

	matching := make([]*models.WorkflowRule, 0, len(loaded))

	for _, rule := range loaded {
		if rule.TriggerType != triggerType {
			continue
		}

		if !s.evaluator.EvaluateAll(rule.Conditions, snapshot) {
			continue
		}

		matching = append(matching, rule)
	}

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Priority > matching[j].Priority
	})

	return matching, nil
}
