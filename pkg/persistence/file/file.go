// Package file provides file-based persistence for rule rows, cases,
// execution history, and follow-ups. Each record is one JSON document under
// the store root, which keeps the tabular layout inspectable and diffable.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dukex/caseflow/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the
// file system.
type Persistence struct {
	root string

	// One writer at a time per store keeps partial-file reads out of the
	// picture; per-case serialization is coarse but correct.
	mu sync.Mutex

	rules     *RuleSource
	cases     *CaseStore
	history   *ExecutionHistory
	followups *FollowupStore
}

func NewPersistence(root string) *Persistence {
	cleanRoot := strings.TrimPrefix(root, "file://")

	p := &Persistence{root: cleanRoot}
	p.rules = &RuleSource{persistence: p}
	p.cases = &CaseStore{persistence: p}
	p.history = &ExecutionHistory{persistence: p}
	p.followups = &FollowupStore{persistence: p}

	return p
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

// HealthCheck verifies the store root exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For file-based persistence there is
// nothing to clean up.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

func (p *Persistence) dir(name string) (string, error) {
	path := filepath.Join(p.root, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create store directory %s: %w", path, err)
	}

	return path, nil
}

func (p *Persistence) readDocument(dir, id string, out any) (bool, error) {
	path, err := p.dir(dir)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(filepath.Join(path, id+".json"))
	if os.IsNotExist(err) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("corrupt document %s/%s: %w", dir, id, err)
	}

	return true, nil
}

func (p *Persistence) writeDocument(dir, id string, value any) error {
	path, err := p.dir(dir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(path, id+".json"), data, 0o644)
}

func (p *Persistence) deleteDocument(dir, id string) error {
	path, err := p.dir(dir)
	if err != nil {
		return err
	}

	err = os.Remove(filepath.Join(path, id+".json"))
	if os.IsNotExist(err) {
		return persistence.ErrRuleNotFound
	}

	return err
}

func (p *Persistence) listIDs(dir string) ([]string, error) {
	path, err := p.dir(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}

	return ids, nil
}
