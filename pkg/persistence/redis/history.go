package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dukex/caseflow/pkg/models"
	goredis "github.com/redis/go-redis/v9"
)

// ExecutionHistory keeps the append-only audit trail in per-case lists,
// newest first, plus one global list for cross-case queries.
type ExecutionHistory struct {
	client *goredis.Client
}

func (h *ExecutionHistory) Append(ctx context.Context, record *models.ExecutionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	_, err = h.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, historyKeyPrefix+record.CaseID, data)
		pipe.LPush(ctx, historyAllKey, data)

		return nil
	})

	return err
}

func (h *ExecutionHistory) History(ctx context.Context, caseID string, limit int) ([]*models.ExecutionRecord, error) {
	key := historyAllKey
	if caseID != "" {
		key = historyKeyPrefix + caseID
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	values, err := h.client.LRange(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*models.ExecutionRecord, 0, len(values))

	for _, value := range values {
		var record models.ExecutionRecord
		if err := json.Unmarshal([]byte(value), &record); err != nil {
			return nil, fmt.Errorf("corrupt execution record: %w", err)
		}

		records = append(records, &record)
	}

	return records, nil
}
