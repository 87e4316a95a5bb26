package file

import (
	"context"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/dukex/caseflow/pkg/persistence"
)

const (
	casesDir    = "cases"
	commentsDir = "comments"
)

// CaseStore stores one case snapshot per JSON document, with the comment
// log in a sibling document. Writes are serialized store-wide, which is
// the file backend's answer to the per-case write serialization the engine
// expects from its case store.
type CaseStore struct {
	persistence *Persistence
}

func (s *CaseStore) ReadCase(_ context.Context, id string) (*models.CaseSnapshot, error) {
	s.persistence.mu.Lock()
	defer s.persistence.mu.Unlock()

	return s.readCaseLocked(id)
}

func (s *CaseStore) readCaseLocked(id string) (*models.CaseSnapshot, error) {
	var snapshot models.CaseSnapshot

	found, err := s.persistence.readDocument(casesDir, id, &snapshot)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, persistence.NewStoreError("ReadCase", id, persistence.ErrCaseNotFound)
	}

	return &snapshot, nil
}

// SaveCase writes a full snapshot. Used by tooling and tests to seed the
// store; the engine itself only issues partial updates.
func (s *CaseStore) SaveCase(_ context.Context, snapshot *models.CaseSnapshot) error {
	s.persistence.mu.Lock()
	defer s.persistence.mu.Unlock()

	return s.persistence.writeDocument(casesDir, snapshot.ID, snapshot)
}

func (s *CaseStore) UpdateCase(_ context.Context, id string, fields models.CaseUpdate) error {
	s.persistence.mu.Lock()
	defer s.persistence.mu.Unlock()

	snapshot, err := s.readCaseLocked(id)
	if err != nil {
		return err
	}

	fields.Apply(snapshot)

	return s.persistence.writeDocument(casesDir, id, snapshot)
}

func (s *CaseStore) AppendComment(_ context.Context, id string, comment models.CommentRecord) error {
	s.persistence.mu.Lock()
	defer s.persistence.mu.Unlock()

	if _, err := s.readCaseLocked(id); err != nil {
		return err
	}

	var comments []models.CommentRecord
	if _, err := s.persistence.readDocument(commentsDir, id, &comments); err != nil {
		return err
	}

	comments = append(comments, comment)

	return s.persistence.writeDocument(commentsDir, id, comments)
}

// Comments returns the comment log for one case.
func (s *CaseStore) Comments(_ context.Context, id string) ([]models.CommentRecord, error) {
	s.persistence.mu.Lock()
	defer s.persistence.mu.Unlock()

	var comments []models.CommentRecord
	if _, err := s.persistence.readDocument(commentsDir, id, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}

// ListActiveCases returns every case still in flight: anything not yet
// Resolved or Closed.
func (s *CaseStore) ListActiveCases(ctx context.Context) ([]*models.CaseSnapshot, error) {
	return s.list(ctx, func(snapshot *models.CaseSnapshot) bool {
		return snapshot.Status != models.CaseStatusResolved &&
			snapshot.Status != models.CaseStatusClosed
	})
}

// ListCasesEligibleForEscalation returns open cases the daily sweep should
// consider. Priority filtering against age thresholds is the sweep's
// concern, not the store's.
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

func (s *CaseStore) list(_ context.Context, keep func(*models.CaseSnapshot) bool) ([]*models.CaseSnapshot, error) {
	s.persistence.mu.Lock()
	defer s.persistence.mu.Unlock()

	ids, err := s.persistence.listIDs(casesDir)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*models.CaseSnapshot, 0, len(ids))

	for _, id := range ids {
		snapshot, err := s.readCaseLocked(id)
		if err != nil {
			return nil, err
		}

		if keep(snapshot) {
			snapshots = append(snapshots, snapshot)
		}
	}

	return snapshots, nil
}
