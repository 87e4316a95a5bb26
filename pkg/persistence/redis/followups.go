package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dukex/caseflow/pkg/models"
	goredis "github.com/redis/go-redis/v9"
)

// FollowupStore records scheduled follow-ups in per-case lists.
type FollowupStore struct {
	client *goredis.Client
}

func (f *FollowupStore) Schedule(ctx context.Context, followup models.FollowupRecord) error {
	data, err := json.Marshal(followup)
	if err != nil {
		return err
	}

	return f.client.RPush(ctx, followupKeyPrefix+followup.CaseID, data).Err()
}

func (f *FollowupStore) Pending(ctx context.Context, caseID string) ([]models.FollowupRecord, error) {
	values, err := f.client.LRange(ctx, followupKeyPrefix+caseID, 0, -1).Result()
	if err != nil && err != goredis.Nil {
		return nil, err
	}

	followups := make([]models.FollowupRecord, 0, len(values))

	for _, value := range values {
		var followup models.FollowupRecord
		if err := json.Unmarshal([]byte(value), &followup); err != nil {
			return nil, fmt.Errorf("corrupt follow-up record: %w", err)
		}

		followups = append(followups, followup)
	}

	return followups, nil
}
