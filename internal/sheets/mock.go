package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/vledger/internal/model"
	"github.com/Veraticus/vledger/internal/service"
)

// MockWriter records Write calls for tests.
type MockWriter struct {
	WriteFunc  func(ctx context.Context, result *model.ClassificationResult) error
	LastResult *model.ClassificationResult
	WriteCalls int
	mu         sync.Mutex
}

var _ service.ResultWriter = (*MockWriter)(nil)

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write records the call and delegates to WriteFunc when set.
func (m *MockWriter) Write(ctx context.Context, result *model.ClassificationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCalls++
	m.LastResult = result

	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, result)
	}
	return nil
}

// Calls returns how many times Write was called.
func (m *MockWriter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.WriteCalls
}

// SetWriteError makes every following Write call fail with err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, *model.ClassificationResult) error {
		return err
	}
}
