package comment

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dukex/caseflow/pkg/mocks"
	"github.com/dukex/caseflow/pkg/models"
)

func execContext() models.ExecutionContext {
	return models.ExecutionContext{ID: "exec-test", CaseID: "case-1", Logger: slog.Default()}
}

func TestNewAction_RequiresComment(t *testing.T) {
	_, err := NewAction(map[string]any{}, &mocks.MockCaseStore{})
	assert.ErrorIs(t, err, ErrMissingComment)
}

func TestAction_Execute_AppendsSystemComment(t *testing.T) {
	cases := &mocks.MockCaseStore{}
	cases.On("AppendComment", mock.Anything, "case-1", mock.MatchedBy(func(record models.CommentRecord) bool {
		return record.Author == models.SystemActor && record.Body == "Case case-1 was auto-triaged"
	})).Return(nil)

	action, err := NewAction(map[string]any{"comment": "Case {caseId} was auto-triaged"}, cases)
	require.NoError(t, err)

	snapshot := &models.CaseSnapshot{ID: "case-1", Status: models.CaseStatusNew}

	result, err := action.Execute(context.Background(), execContext(), snapshot)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Case case-1 was auto-triaged", result.NewValue)

	cases.AssertExpectations(t)
}

func TestAction_Execute_StoreFailure(t *testing.T) {
	cases := &mocks.MockCaseStore{}
	cases.On("AppendComment", mock.Anything, "case-1", mock.Anything).
		Return(errors.New("disk full"))

	action, err := NewAction(map[string]any{"comment": "hello"}, cases)
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), execContext(), &models.CaseSnapshot{ID: "case-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to append comment")
}
