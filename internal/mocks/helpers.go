package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockBudgetSourceForTest creates a new mock BudgetSource for testing
func NewMockBudgetSourceForTest(t *testing.T) *MockBudgetSource {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockBudgetSource(ctrl)
}
