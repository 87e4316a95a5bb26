package file

import (
	"context"
	"sort"

	"github.com/dukex/caseflow/pkg/models"
)

const historyDir = "history"

// ExecutionHistory keeps the append-only audit trail, one document per
// case holding that case's records in execution order.
type ExecutionHistory struct {
	persistence *Persistence
}

func (h *ExecutionHistory) Append(_ context.Context, record *models.ExecutionRecord) error {
	h.persistence.mu.Lock()
	defer h.persistence.mu.Unlock()

	var records []*models.ExecutionRecord
	if _, err := h.persistence.readDocument(historyDir, record.CaseID, &records); err != nil {
		return err
	}

	records = append(records, record)

	return h.persistence.writeDocument(historyDir, record.CaseID, records)
}

// History returns records newest first. An empty caseID scans every case;
// limit <= 0 means no limit.
func (h *ExecutionHistory) History(_ context.Context, caseID string, limit int) ([]*models.ExecutionRecord, error) {
	h.persistence.mu.Lock()
	defer h.persistence.mu.Unlock()

	caseIDs := []string{caseID}

	if caseID == "" {
		ids, err := h.persistence.listIDs(historyDir)
		if err != nil {
			return nil, err
		}

		caseIDs = ids
	}

	var all []*models.ExecutionRecord

	for _, id := range caseIDs {
		var records []*models.ExecutionRecord
		if _, err := h.persistence.readDocument(historyDir, id, &records); err != nil {
			return nil, err
		}

		all = append(all, records...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ExecutedAt.After(all[j].ExecutedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	return all, nil
}
