package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"prompt-gateway/internal/prompt"
)

// MockAdapter is a mock implementation of Adapter using testify/mock.
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAdapter) Dialect() prompt.Dialect {
	args := m.Called()
	return args.Get(0).(prompt.Dialect)
}

func (m *MockAdapter) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockAdapter) Send(ctx context.Context, content string, spec prompt.Spec) (string, error) {
	args := m.Called(ctx, content, spec)
	return args.String(0), args.Error(1)
}
