package file

import (
	"context"
	"sort"

	"github.com/dukex/caseflow/pkg/models"
)

const rulesDir = "rules"

// RuleSource stores one rule row per JSON document.
type RuleSource struct {
	persistence *Persistence
}

// Rows returns all rule rows ordered by creation time, oldest first, so
// tie-breaks on priority stay deterministic across loads.
func (s *RuleSource) Rows(_ context.Context) ([]models.RuleRow, error) {
	s.persistence.mu.Lock()
	defer s.persistence.mu.Unlock()

	ids, err := s.persistence.listIDs(rulesDir)
	if err != nil {
		return nil, err
	}

	rows := make([]models.RuleRow, 0, len(ids))

	for _, id := range ids {
		var row models.RuleRow

		found, err := s.persistence.readDocument(rulesDir, id, &row)
		if err != nil {
			return nil, err
		}

		if found {
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})

	return rows, nil
}

func (s *RuleSource) SaveRow(_ context.Context, row models.RuleRow) error {
	s.persistence.mu.Lock()
	defer s.persistence.mu.Unlock()

	return s.persistence.writeDocument(rulesDir, row.ID, row)
}

func (s *RuleSource) DeleteRow(_ context.Context, id string) error {
	s.persistence.mu.Lock()
	defer s.persistence.mu.Unlock()

	return s.persistence.deleteDocument(rulesDir, id)
}
