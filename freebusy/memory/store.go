// memory based implementation for testing purposes
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gatherkit/scheduling/availability"
	"github.com/gatherkit/scheduling/interval"
)

// Store implements the freebusy.Source interface using in-memory maps
type Store struct {
	mu    sync.RWMutex
	names map[string]string                    // key: participantID
	busy  map[string][]availability.BusyPeriod // key: participantID
}

// New creates a new in-memory free/busy store
func New() *Store {
	return &Store{
		names: make(map[string]string),
		busy:  make(map[string][]availability.BusyPeriod),
	}
}

// AddParticipant registers a participant and returns their generated ID.
func (s *Store) AddParticipant(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.names[id] = name
	return id
}

// ParticipantName returns the display name for a participant ID.
func (s *Store) ParticipantName(participantID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.names[participantID]
	return name, ok
}

// AddBusyPeriod records a busy interval for a known participant.
func (s *Store) AddBusyPeriod(participantID string, ivl interval.Interval) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[participantID]; !ok {
		return fmt.Errorf("unknown participant %q", participantID)
	}
	s.busy[participantID] = append(s.busy[participantID], availability.BusyPeriod{
		ParticipantID: participantID,
		Interval:      ivl,
	})
	return nil
}

// FreeBusy implements the freebusy.Source interface. It returns the
// participant's busy periods overlapping the window, sorted by start time.
// Unknown participants return an error; a known participant with no
// conflicts returns nil.
func (s *Store) FreeBusy(_ context.Context, participantID string, window interval.Interval) ([]availability.BusyPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.names[participantID]; !ok {
		return nil, fmt.Errorf("unknown participant %q", participantID)
	}

	var periods []availability.BusyPeriod
	for _, p := range s.busy[participantID] {
		if p.Overlaps(window) {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Start.Before(periods[j].Start)
	})
	return periods, nil
}
