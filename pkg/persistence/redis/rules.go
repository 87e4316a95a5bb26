package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	goredis "github.com/redis/go-redis/v9"
)

// RuleSource stores rule rows as JSON values in one hash keyed by rule ID.
type RuleSource struct {
	client *goredis.Client
}

func (s *RuleSource) Rows(ctx context.Context) ([]models.RuleRow, error) {
	values, err := s.client.HGetAll(ctx, rulesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read rule rows: %w", err)
	}

	rows := make([]models.RuleRow, 0, len(values))

	for id, value := range values {
		var row models.RuleRow
		if err := json.Unmarshal([]byte(value), &row); err != nil {
			return nil, fmt.Errorf("corrupt rule row %s: %w", id, err)
		}

		rows = append(rows, row)
	}

	// HGetAll ordering is unspecified; keep row order stable by creation
	// time so priority tie-breaks stay deterministic.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})

	return rows, nil
}

func (s *RuleSource) SaveRow(ctx context.Context, row models.RuleRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}

	return s.client.HSet(ctx, rulesKey, row.ID, data).Err()
}

func (s *RuleSource) DeleteRow(ctx context.Context, id string) error {
	removed, err := s.client.HDel(ctx, rulesKey, id).Result()
	if err != nil {
		return err
	}

	if removed == 0 {
		return persistence.NewStoreError("DeleteRow", id, persistence.ErrRuleNotFound)
	}

	return nil
}
