// Package redis provides Redis-backed persistence for rule rows, cases,
// execution history, and follow-ups.
package redis

import (
	"context"
	"strings"

	"github.com/dukex/caseflow/pkg/persistence"
	goredis "github.com/redis/go-redis/v9"
)

const (
	rulesKey          = "caseflow:rules"
	casesKey          = "caseflow:cases"
	commentsKeyPrefix = "caseflow:comments:"
	historyKeyPrefix  = "caseflow:history:"
	historyAllKey     = "caseflow:history"
	followupKeyPrefix = "caseflow:followups:"
)

// Persistence implements the persistence.Persistence interface on top of a
// Redis instance. Rule rows and cases live in hashes; history, comments,
// and follow-ups in per-case lists.
type Persistence struct {
	client *goredis.Client

	rules     *RuleSource
	cases     *CaseStore
	history   *ExecutionHistory
	followups *FollowupStore
}

// NewPersistence connects to the Redis instance at the given URL
// (redis://host:port/db).
func NewPersistence(url string) (*Persistence, error) {
	options, err := goredis.ParseURL(normalizeURL(url))
	if err != nil {
		return nil, err
	}

	p := &Persistence{client: goredis.NewClient(options)}
	p.rules = &RuleSource{client: p.client}
	p.cases = &CaseStore{client: p.client}
	p.history = &ExecutionHistory{client: p.client}
	p.followups = &FollowupStore{client: p.client}

	return p, nil
}

func (p *Persistence) RuleSource() persistence.RuleSource {
	return p.rules
}

func (p *Persistence) CaseStore() persistence.CaseStore {
	return p.cases
}

func (p *Persistence) ExecutionHistory() persistence.ExecutionHistory {
	return p.history
}

func (p *Persistence) FollowupStore() persistence.FollowupStore {
	return p.followups
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}

func normalizeURL(url string) string {
	if strings.Contains(url, "://") {
		return url
	}

	return "redis://" + url
}
