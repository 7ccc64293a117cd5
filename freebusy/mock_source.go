package freebusy

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gatherkit/scheduling/availability"
	"github.com/gatherkit/scheduling/interval"
)

// MockSource implements the Source interface for testing
type MockSource struct {
	mock.Mock
}

// FreeBusy implements the Source interface
func (m *MockSource) FreeBusy(ctx context.Context, participantID string, window interval.Interval) ([]availability.BusyPeriod, error) {
	args := m.Called(ctx, participantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]availability.BusyPeriod), args.Error(1)
}
