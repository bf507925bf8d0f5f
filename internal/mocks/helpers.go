package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockProviderForTest creates a new mock chain Provider for testing
func NewMockProviderForTest(t *testing.T) *MockProvider {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockProvider(ctrl)
}

// NewMockWalletProviderForTest creates a new mock wallet Provider for testing
func NewMockWalletProviderForTest(t *testing.T) *MockWalletProvider {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockWalletProvider(ctrl)
}
