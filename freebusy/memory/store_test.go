package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherkit/scheduling/availability"
	"github.com/gatherkit/scheduling/freebusy"
	"github.com/gatherkit/scheduling/interval"
)

func ivl(t *testing.T, startHour, endHour int) interval.Interval {
	t.Helper()
	out, err := interval.New(
		time.Date(2024, 1, 15, startHour, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, endHour, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return out
}

func TestStore_AddParticipant(t *testing.T) {
	store := New()

	aliceID := store.AddParticipant("Alice")
	bobID := store.AddParticipant("Bob")
	assert.NotEqual(t, aliceID, bobID)

	name, ok := store.ParticipantName(aliceID)
	require.True(t, ok)
	assert.Equal(t, "Alice", name)

	_, ok = store.ParticipantName("missing")
	assert.False(t, ok)
}

func TestStore_FreeBusy(t *testing.T) {
	store := New()
	aliceID := store.AddParticipant("Alice")

	// Out of order on purpose; FreeBusy must sort by start.
	require.NoError(t, store.AddBusyPeriod(aliceID, ivl(t, 14, 15)))
	require.NoError(t, store.AddBusyPeriod(aliceID, ivl(t, 9, 10)))
	require.NoError(t, store.AddBusyPeriod(aliceID, ivl(t, 20, 22)))

	window := ivl(t, 8, 18)
	periods, err := store.FreeBusy(context.Background(), aliceID, window)
	require.NoError(t, err)
	require.Len(t, periods, 2, "periods outside the window are filtered out")

	assert.True(t, periods[0].Start.Before(periods[1].Start))
	for _, p := range periods {
		assert.Equal(t, aliceID, p.ParticipantID)
		assert.True(t, p.Overlaps(window))
	}
}

func TestStore_FreeBusy_UnknownParticipant(t *testing.T) {
	store := New()
	_, err := store.FreeBusy(context.Background(), "nobody", ivl(t, 9, 17))
	require.Error(t, err)
}

func TestStore_AddBusyPeriod_UnknownParticipant(t *testing.T) {
	store := New()
	err := store.AddBusyPeriod("nobody", ivl(t, 9, 10))
	require.Error(t, err)
}

func TestStore_NoConflicts(t *testing.T) {
	store := New()
	id := store.AddParticipant("Alice")

	periods, err := store.FreeBusy(context.Background(), id, ivl(t, 9, 17))
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestStore_ImplementsSource(t *testing.T) {
	var _ freebusy.Source = New()

	store := New()
	aliceID := store.AddParticipant("Alice")
	require.NoError(t, store.AddBusyPeriod(aliceID, ivl(t, 9, 10)))

	collector := freebusy.NewCollector(store, nil)
	req, results, err := collector.Collect(context.Background(), []string{aliceID}, ivl(t, 8, 12), availability.DefaultSlotDuration)
	require.NoError(t, err)
	assert.True(t, results[aliceID].IsOk())

	slots, err := availability.NewEngine().ComputeAvailability(req)
	require.NoError(t, err)
	require.Len(t, slots, 8)
	assert.True(t, slots[0].Available, "08:00-08:30")
	assert.False(t, slots[2].Available, "09:00-09:30 busy")
	assert.False(t, slots[3].Available, "09:30-10:00 busy")
	assert.True(t, slots[4].Available, "10:00-10:30")
}
