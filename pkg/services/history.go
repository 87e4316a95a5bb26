package services

import (
	"context"
	"fmt"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
)

const defaultHistoryLimit = 100

// History answers audit trail queries.
type History struct {
	history persistence.ExecutionHistory
}

// NewHistory creates a new history service.
func NewHistory(history persistence.ExecutionHistory) *History {
	return &History{history: history}
}

// CaseHistory returns the newest execution records for one case. A zero or
// negative limit falls back to the default page size.
func (s *History) CaseHistory(ctx context.Context, caseID string, limit int) ([]*models.ExecutionRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	records, err := s.history.History(ctx, caseID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read execution history: %w", err)
	}

	return records, nil
}
