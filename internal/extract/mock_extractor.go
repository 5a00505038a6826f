package extract

import (
	"github.com/stretchr/testify/mock"
)

// MockExtractor is a mock implementation of Extractor using testify/mock.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(filename string, content []byte) (string, error) {
	args := m.Called(filename, content)
	return args.String(0), args.Error(1)
}
