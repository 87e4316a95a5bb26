package mocks

import (
	"context"

	"github.com/dukex/caseflow/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of protocol.Notifier interface.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, recipient, message, channel string) error {
	args := m.Called(ctx, recipient, message, channel)

	return args.Error(0)
}

// MockFollowupScheduler is a mock implementation of protocol.FollowupScheduler interface.
type MockFollowupScheduler struct {
	mock.Mock
}

func (m *MockFollowupScheduler) ScheduleFollowup(ctx context.Context, followup models.FollowupRecord) error {
	args := m.Called(ctx, followup)

	return args.Error(0)
}
