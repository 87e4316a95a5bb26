package assigncase

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
	"github.com/dukex/caseflow/pkg/protocol"
)

func execContext() models.ExecutionContext {
	return models.ExecutionContext{ID: "exec-test", CaseID: "case-1", Logger: slog.Default()}
}

func TestAction_Execute_LiteralAssignee(t *testing.T) {
	cases := &mocks.MockCaseStore{}
	cases.On("UpdateCase", mock.Anything, "case-1", mock.MatchedBy(func(fields models.CaseUpdate) bool {
		return fields["assignee"] == "taylor"
	})).Return(nil)

	action, err := NewAction(map[string]any{"assignee": "taylor"}, cases, nil)
	require.NoError(t, err)

	snapshot := &models.CaseSnapshot{ID: "case-1", Assignee: "alex"}

	result, err := action.Execute(context.Background(), execContext(), snapshot)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "alex", result.OldValue)
	assert.Equal(t, "taylor", result.NewValue)
	assert.Equal(t, "taylor", snapshot.Assignee)

	cases.AssertExpectations(t)
}

func TestAction_Execute_ResolverFallback(t *testing.T) {
	cases := &mocks.MockCaseStore{}
	cases.On("UpdateCase", mock.Anything, "case-1", mock.Anything).Return(nil)

	resolver := protocol.StaticAssignmentResolver("support-queue")

	action, err := NewAction(map[string]any{}, cases, resolver)
	require.NoError(t, err)

	snapshot := &models.CaseSnapshot{ID: "case-1"}

	result, err := action.Execute(context.Background(), execContext(), snapshot)
	require.NoError(t, err)
	assert.Equal(t, "support-queue", result.NewValue)
}

func TestAction_Execute_ResolverError(t *testing.T) {
	resolver := protocol.AssignmentResolver(func(context.Context, *models.CaseSnapshot) (string, error) {
		return "", errors.New("no agents available")
	})

	action, err := NewAction(map[string]any{}, &mocks.MockCaseStore{}, resolver)
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), execContext(), &models.CaseSnapshot{ID: "case-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assignment resolver failed")
}

func TestAction_Execute_NoTarget(t *testing.T) {
	action, err := NewAction(map[string]any{}, &mocks.MockCaseStore{}, nil)
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), execContext(), &models.CaseSnapshot{ID: "case-1"})
	assert.ErrorIs(t, err, ErrNoAssignee)
}

func TestAction_Execute_SameAssigneeIsNoOp(t *testing.T) {
	cases := &mocks.MockCaseStore{}

	action, err := NewAction(map[string]any{"assignee": "alex"}, cases, nil)
	require.NoError(t, err)

	snapshot := &models.CaseSnapshot{ID: "case-1", Assignee: "alex"}

	result, err := action.Execute(context.Background(), execContext(), snapshot)
	require.NoError(t, err)
	assert.True(t, result.Success)
	cases.AssertNotCalled(t, "UpdateCase", mock.Anything, mock.Anything, mock.Anything)
}
