package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherkit/scheduling/interval"
)

func at(hour, min int) time.Time {
	return time.Date(2024, 1, 15, hour, min, 0, 0, time.UTC)
}

func busy(participantID string, start, end time.Time) BusyPeriod {
	return BusyPeriod{
		ParticipantID: participantID,
		Interval:      interval.Interval{Start: start, End: end},
	}
}

func TestComputeAvailability_Validation(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		request  Request
		wantType ErrorType
	}{
		{
			name: "window end before start",
			request: Request{
				WindowStart:  at(11, 0),
				WindowEnd:    at(9, 0),
				SlotDuration: DefaultSlotDuration,
			},
			wantType: ErrInvalidWindow,
		},
		{
			name: "window end equals start",
			request: Request{
				WindowStart:  at(9, 0),
				WindowEnd:    at(9, 0),
				SlotDuration: DefaultSlotDuration,
			},
			wantType: ErrInvalidWindow,
		},
		{
			name: "zero slot duration",
			request: Request{
				WindowStart: at(9, 0),
				WindowEnd:   at(11, 0),
			},
			wantType: ErrInvalidSlotDuration,
		},
		{
			name: "negative slot duration",
			request: Request{
				WindowStart:  at(9, 0),
				WindowEnd:    at(11, 0),
				SlotDuration: -time.Minute,
			},
			wantType: ErrInvalidSlotDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := engine.ComputeAvailability(tt.request)
			assert.Nil(t, slots)

			var availErr *Error
			require.ErrorAs(t, err, &availErr)
			assert.Equal(t, tt.wantType, availErr.Type)
		})
	}
}

func TestComputeAvailability_TilesWindow(t *testing.T) {
	engine := NewEngine()

	req := Request{
		WindowStart:  at(9, 0),
		WindowEnd:    at(13, 0),
		SlotDuration: DefaultSlotDuration,
	}
	slots, err := engine.ComputeAvailability(req)
	require.NoError(t, err)
	require.Len(t, slots, 8)

	assert.True(t, slots[0].Start.Equal(req.WindowStart))
	assert.True(t, slots[len(slots)-1].End.Equal(req.WindowEnd))
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i].Start.Equal(slots[i-1].End), "slot %d must start where slot %d ends", i, i-1)
	}
	for _, slot := range slots {
		assert.Equal(t, DefaultSlotDuration, slot.Duration())
	}
}

func TestComputeAvailability_TruncatesFinalSlot(t *testing.T) {
	engine := NewEngine()

	// 90-minute window with 40-minute slots: 40, 40, 10.
	slots, err := engine.ComputeAvailability(Request{
		WindowStart:  at(9, 0),
		WindowEnd:    at(10, 30),
		SlotDuration: 40 * time.Minute,
	})
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.Equal(t, 40*time.Minute, slots[0].Duration())
	assert.Equal(t, 40*time.Minute, slots[1].Duration())
	assert.Equal(t, 10*time.Minute, slots[2].Duration())
	assert.True(t, slots[2].End.Equal(at(10, 30)), "final slot must end exactly at the window end")
}

func TestComputeAvailability_NoBusyData(t *testing.T) {
	engine := NewEngine()

	slots, err := engine.ComputeAvailability(Request{
		WindowStart:  at(9, 0),
		WindowEnd:    at(11, 0),
		SlotDuration: DefaultSlotDuration,
	})
	require.NoError(t, err)
	require.Len(t, slots, 4)

	// No participant shared calendar data: assume free, not busy.
	for _, slot := range slots {
		assert.True(t, slot.Available, "slot %s should be available", slot.Interval)
	}
}

func TestComputeAvailability_ConjunctiveGroup(t *testing.T) {
	engine := NewEngine()

	// Two participants: A busy 09:30-10:00, B busy 10:00-10:30. The group is
	// only free when everyone is.
	slots, err := engine.ComputeAvailability(Request{
		WindowStart:  at(9, 0),
		WindowEnd:    at(11, 0),
		SlotDuration: DefaultSlotDuration,
		BusyPeriods: map[string][]BusyPeriod{
			"alice": {busy("alice", at(9, 30), at(10, 0))},
			"bob":   {busy("bob", at(10, 0), at(10, 30))},
		},
	})
	require.NoError(t, err)
	require.Len(t, slots, 4)

	assert.True(t, slots[0].Available, "09:00-09:30")
	assert.False(t, slots[1].Available, "09:30-10:00 blocked by alice")
	assert.False(t, slots[2].Available, "10:00-10:30 blocked by bob")
	assert.True(t, slots[3].Available, "10:30-11:00")
}

func TestComputeAvailability_OverlapBoundaries(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name          string
		busyStart     time.Time
		busyEnd       time.Time
		wantAvailable bool
	}{
		{
			name:          "busy period inside the slot blocks it",
			busyStart:     at(10, 0),
			busyEnd:       at(10, 15),
			wantAvailable: false,
		},
		{
			name:          "busy period starting at slot end does not block",
			busyStart:     at(10, 30),
			busyEnd:       at(11, 0),
			wantAvailable: true,
		},
		{
			name:          "busy period ending at slot start does not block",
			busyStart:     at(9, 30),
			busyEnd:       at(10, 0),
			wantAvailable: true,
		},
		{
			name:          "busy period containing the slot blocks it",
			busyStart:     at(9, 0),
			busyEnd:       at(12, 0),
			wantAvailable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := engine.ComputeAvailability(Request{
				WindowStart:  at(10, 0),
				WindowEnd:    at(10, 30),
				SlotDuration: DefaultSlotDuration,
				BusyPeriods: map[string][]BusyPeriod{
					"alice": {busy("alice", tt.busyStart, tt.busyEnd)},
				},
			})
			require.NoError(t, err)
			require.Len(t, slots, 1)
			assert.Equal(t, tt.wantAvailable, slots[0].Available)
		})
	}
}

func TestComputeAvailability_Idempotent(t *testing.T) {
	engine := NewEngine()

	req := Request{
		WindowStart:  at(9, 0),
		WindowEnd:    at(12, 0),
		SlotDuration: DefaultSlotDuration,
		BusyPeriods: map[string][]BusyPeriod{
			"alice": {busy("alice", at(9, 45), at(10, 45))},
			"bob":   {busy("bob", at(11, 0), at(11, 30))},
		},
	}

	first, err := engine.ComputeAvailability(req)
	require.NoError(t, err)
	second, err := engine.ComputeAvailability(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeAvailability_ParticipantWithoutPeriods(t *testing.T) {
	engine := NewEngine()

	// A participant present in the map with no busy periods never blocks.
	slots, err := engine.ComputeAvailability(Request{
		WindowStart:  at(9, 0),
		WindowEnd:    at(10, 0),
		SlotDuration: DefaultSlotDuration,
		BusyPeriods: map[string][]BusyPeriod{
			"alice": nil,
			"bob":   {},
		},
	})
	require.NoError(t, err)
	for _, slot := range slots {
		assert.True(t, slot.Available)
	}
}
