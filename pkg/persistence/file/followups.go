package file

import (
	"context"

	"github.com/dukex/caseflow/pkg/models"
)

const followupsDir = "followups"

// FollowupStore records scheduled follow-ups, one document per case.
type FollowupStore struct {
	persistence *Persistence
}

func (f *FollowupStore) Schedule(_ context.Context, followup models.FollowupRecord) error {
	f.persistence.mu.Lock()
	defer f.persistence.mu.Unlock()

	var followups []models.FollowupRecord
	if _, err := f.persistence.readDocument(followupsDir, followup.CaseID, &followups); err != nil {
		return err
	}

	followups = append(followups, followup)

	return f.persistence.writeDocument(followupsDir, followup.CaseID, followups)
}

func (f *FollowupStore) Pending(_ context.Context, caseID string) ([]models.FollowupRecord, error) {
	f.persistence.mu.Lock()
	defer f.persistence.mu.Unlock()

	var followups []models.FollowupRecord
	if _, err := f.persistence.readDocument(followupsDir, caseID, &followups); err != nil {
		return nil, err
	}

	return followups, nil
}
