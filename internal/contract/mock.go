package contract

import (
	"context"

	"github.com/rusalad/rusalad/schema"
	"github.com/stretchr/testify/mock"
)

// MockRunSource is a mock implementation of RunSource for testing.
type MockRunSource struct {
	mock.Mock
}

var _ RunSource = &MockRunSource{} // Compile-time check

// Latest implements the RunSource interface.
func (m *MockRunSource) Latest(ctx context.Context) (int, error) {
	ret := m.Called(ctx)
	return ret.Int(0), ret.Error(1)
}

// Previous implements the RunSource interface.
func (m *MockRunSource) Previous(ctx context.Context, runID int) (int, bool, error) {
	ret := m.Called(ctx, runID)
	return ret.Int(0), ret.Bool(1), ret.Error(2)
}

// Load implements the RunSource interface.
func (m *MockRunSource) Load(ctx context.Context, runID int) (schema.RunReport, error) {
	ret := m.Called(ctx, runID)
	report, _ := ret.Get(0).(schema.RunReport)
	return report, ret.Error(1)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	MockRunSource
}

var _ RunStore = &MockRunStore{} // Compile-time check

// Put implements the RunStore interface.
func (m *MockRunStore) Put(ctx context.Context, report schema.RunReport) error {
	ret := m.Called(ctx, report)
	return ret.Error(0)
}

// ListRuns implements the RunStore interface.
func (m *MockRunStore) ListRuns(ctx context.Context, limit int) ([]schema.StoredRun, error) {
	ret := m.Called(ctx, limit)
	runs, _ := ret.Get(0).([]schema.StoredRun)
	return runs, ret.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.StoreStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.StoreStatus)
	return status, ret.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(RunStore)
	return store
}
