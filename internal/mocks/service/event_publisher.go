// Package service holds testify mocks of the domain service interfaces.
package service

import (
	"context"
	"sync"

	"citysim/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock of service.EventPublisher that also records
// every published event.
type MockEventPublisher struct {
	mock.Mock

	mu     sync.Mutex
	events []*service.GameEvent
}

// NewMockEventPublisher creates a mock that accepts any event unless the test
// sets its own expectations first.
func NewMockEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// AcceptAll makes every publish succeed.
func (m *MockEventPublisher) AcceptAll() *MockEventPublisher {
	m.On("PublishGameEvent", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Close").Return(nil).Maybe()

	return m
}

func (m *MockEventPublisher) PublishGameEvent(ctx context.Context, event *service.GameEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}

// Events returns the events published so far.
func (m *MockEventPublisher) Events() []*service.GameEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*service.GameEvent(nil), m.events...)
}

// EventsOfType filters Events by type.
func (m *MockEventPublisher) EventsOfType(eventType service.GameEventType) []*service.GameEvent {
	var out []*service.GameEvent
	for _, e := range m.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}

	return out
}
