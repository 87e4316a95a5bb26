// Package mocks provides mock implementations of caseflow interfaces for
// testing.
package mocks

import (
	"context"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockRuleSource is a mock implementation of persistence.RuleSource interface.
type MockRuleSource struct {
	mock.Mock
}

func (m *MockRuleSource) Rows(ctx context.Context) ([]models.RuleRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.RuleRow), args.Error(1)
}

func (m *MockRuleSource) SaveRow(ctx context.Context, row models.RuleRow) error {
	args := m.Called(ctx, row)

	return args.Error(0)
}

func (m *MockRuleSource) DeleteRow(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockCaseStore is a mock implementation of persistence.CaseStore interface.
type MockCaseStore struct {
	mock.Mock
}

func (m *MockCaseStore) ReadCase(ctx context.Context, id string) (*models.CaseSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.CaseSnapshot), args.Error(1)
}

func (m *MockCaseStore) UpdateCase(ctx context.Context, id string, fields models.CaseUpdate) error {
	args := m.Called(ctx, id, fields)

	return args.Error(0)
}

func (m *MockCaseStore) AppendComment(ctx context.Context, id string, comment models.CommentRecord) error {
	args := m.Called(ctx, id, comment)

	return args.Error(0)
}

func (m *MockCaseStore) ListActiveCases(ctx context.Context) ([]*models.CaseSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.CaseSnapshot), args.Error(1)
}

func (m *MockCaseStore) ListCasesEligibleForEscalation(ctx context.Context) ([]*models.CaseSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.CaseSnapshot), args.Error(1)
}

// MockExecutionHistory is a mock implementation of persistence.ExecutionHistory interface.
type MockExecutionHistory struct {
	mock.Mock
}

func (m *MockExecutionHistory) Append(ctx context.Context, record *models.ExecutionRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *MockExecutionHistory) History(ctx context.Context, caseID string, limit int) ([]*models.ExecutionRecord, error) {
	args := m.Called(ctx, caseID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.ExecutionRecord), args.Error(1)
}

// MockFollowupStore is a mock implementation of persistence.FollowupStore interface.
type MockFollowupStore struct {
	mock.Mock
}

func (m *MockFollowupStore) Schedule(ctx context.Context, followup models.FollowupRecord) error {
	args := m.Called(ctx, followup)

	return args.Error(0)
}

func (m *MockFollowupStore) Pending(ctx context.Context, caseID string) ([]models.FollowupRecord, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.FollowupRecord), args.Error(1)
}
