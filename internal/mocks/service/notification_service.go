package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNotificationService is a mock of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

// NewMockNotificationService creates a mock and asserts its expectations on cleanup.
func NewMockNotificationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotificationService {
	m := &MockNotificationService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationService) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, []string, error) {
	args := m.Called(ctx, tokens, title, body, data)

	var invalid []string
	if v := args.Get(2); v != nil {
		invalid = v.([]string)
	}

	return args.Int(0), args.Int(1), invalid, args.Error(3)
}

func (m *MockNotificationService) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	args := m.Called(ctx, token, title, body, data)

	return args.Error(0)
}
