package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
	goredis "github.com/redis/go-redis/v9"
)

// CaseStore stores case snapshots as JSON values in one hash keyed by case
// ID. Partial updates go through a WATCH transaction so concurrent sweeps
// and event-triggered invocations cannot clobber each other's writes.
type CaseStore struct {
	client *goredis.Client
}

func (s *CaseStore) ReadCase(ctx context.Context, id string) (*models.CaseSnapshot, error) {
	value, err := s.client.HGet(ctx, casesKey, id).Result()
	if err == goredis.Nil {
		return nil, persistence.NewStoreError("ReadCase", id, persistence.ErrCaseNotFound)
	}

	if err != nil {
		return nil, err
	}

	var snapshot models.CaseSnapshot
	if err := json.Unmarshal([]byte(value), &snapshot); err != nil {
		return nil, fmt.Errorf("corrupt case %s: %w", id, err)
	}

	return &snapshot, nil
}

// SaveCase writes a full snapshot.
func (s *CaseStore) SaveCase(ctx context.Context, snapshot *models.CaseSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return s.client.HSet(ctx, casesKey, snapshot.ID, data).Err()
}

func (s *CaseStore) UpdateCase(ctx context.Context, id string, fields models.CaseUpdate) error {
	update := func(tx *goredis.Tx) error {
		value, err := tx.HGet(ctx, casesKey, id).Result()
		if err == goredis.Nil {
			return persistence.NewStoreError("UpdateCase", id, persistence.ErrCaseNotFound)
		}

		if err != nil {
			return err
		}

		var snapshot models.CaseSnapshot
		if err := json.Unmarshal([]byte(value), &snapshot); err != nil {
			return fmt.Errorf("corrupt case %s: %w", id, err)
		}

		fields.Apply(&snapshot)

		data, err := json.Marshal(&snapshot)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, casesKey, id, data)

			return nil
		})

		return err
	}

	err := s.client.Watch(ctx, update, casesKey)
	if err == goredis.TxFailedErr {
		return persistence.NewStoreError("UpdateCase", id, persistence.ErrStaleWrite)
	}

	return err
}

func (s *CaseStore) AppendComment(ctx context.Context, id string, comment models.CommentRecord) error {
	if _, err := s.ReadCase(ctx, id); err != nil {
		return err
	}

	data, err := json.Marshal(comment)
	if err != nil {
		return err
	}

	return s.client.RPush(ctx, commentsKeyPrefix+id, data).Err()
}

func (s *CaseStore) ListActiveCases(ctx context.Context) ([]*models.CaseSnapshot, error) {
	return s.list(ctx, func(snapshot *models.CaseSnapshot) bool {
		return snapshot.Status != models.CaseStatusResolved &&
			snapshot.Status != models.CaseStatusClosed
	})
}

func (s *CaseStore) ListCasesEligibleForEscalation(ctx context.Context) ([]*models.CaseSnapshot, error) {
	return s.list(ctx, func(snapshot *models.CaseSnapshot) bool {
		switch snapshot.Status {
		case models.CaseStatusResolved, models.CaseStatusClosed, models.CaseStatusOnHold:
			return false
		default:
			return true
		}
	})
}

func (s *CaseStore) list(ctx context.Context, keep func(*models.CaseSnapshot) bool) ([]*models.CaseSnapshot, error) {
	values, err := s.client.HGetAll(ctx, casesKey).Result()
	if err != nil {
		return nil, err
	}

	snapshots := make([]*models.CaseSnapshot, 0, len(values))

	for id, value := range values {
		var snapshot models.CaseSnapshot
		if err := json.Unmarshal([]byte(value), &snapshot); err != nil {
			return nil, fmt.Errorf("corrupt case %s: %w", id, err)
		}

		if keep(&snapshot) {
			snapshots = append(snapshots, &snapshot)
		}
	}

	return snapshots, nil
}
