package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dukex/caseflow/pkg/mocks"
	"github.com/dukex/caseflow/pkg/models"
)

func TestHistory_CaseHistory(t *testing.T) {
	records := []*models.ExecutionRecord{
		{ID: "exec-1", CaseID: "case-1", Result: models.ExecutionSuccess},
	}

	history := &mocks.MockExecutionHistory{}
	history.On("History", mock.Anything, "case-1", 25).Return(records, nil)

	service := NewHistory(history)

	got, err := service.CaseHistory(context.Background(), "case-1", 25)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	history.AssertExpectations(t)
}

func TestHistory_CaseHistory_DefaultLimit(t *testing.T) {
	history := &mocks.MockExecutionHistory{}
	history.On("History", mock.Anything, "case-1", defaultHistoryLimit).
		Return([]*models.ExecutionRecord{}, nil)

	service := NewHistory(history)

	_, err := service.CaseHistory(context.Background(), "case-1", 0)
	require.NoError(t, err)

	history.AssertExpectations(t)
}

func TestHistory_CaseHistory_StoreFailure(t *testing.T) {
	history := &mocks.MockExecutionHistory{}
	history.On("History", mock.Anything, "case-1", mock.Anything).
		Return(nil, errors.New("store offline"))

	service := NewHistory(history)

	_, err := service.CaseHistory(context.Background(), "case-1", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read execution history")
}
