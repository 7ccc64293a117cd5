package availability

import (
	"fmt"
	"time"

	"github.com/gatherkit/scheduling/interval"
)

// Error types
type ErrorType string

const (
	ErrInvalidWindow       ErrorType = "invalid_window"
	ErrInvalidSlotDuration ErrorType = "invalid_slot_duration"
)

// Error represents an availability computation error
type Error struct {
	Type    ErrorType
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// DefaultSlotDuration is the slot granularity used by the scheduling UI when
// the caller does not pick one.
const DefaultSlotDuration = 30 * time.Minute

// BusyPeriod is one interval during which a participant is known to be
// unavailable. Busy periods come from an external calendar provider and are
// never mutated by this package.
type BusyPeriod struct {
	ParticipantID string
	interval.Interval
}

// Slot is one fixed-duration subdivision of a requested window, labeled with
// whether every participant is free during it. Slots are derived values and
// are recomputed on every request, never persisted.
type Slot struct {
	interval.Interval
	Available bool
}

// Request describes one availability computation: the candidate window, the
// slot granularity, and each participant's busy periods keyed by participant
// ID. An empty BusyPeriods map means no participant has shared calendar data;
// the grid then reports every slot as available (absence of data is treated
// as free, not busy).
type Request struct {
	WindowStart  time.Time
	WindowEnd    time.Time
	SlotDuration time.Duration
	BusyPeriods  map[string][]BusyPeriod
}

// Validate checks the request invariants without computing anything.
func (r Request) Validate() error {
	if !r.WindowStart.Before(r.WindowEnd) {
		return &Error{
			Type:    ErrInvalidWindow,
			Message: fmt.Sprintf("window end %s must be after window start %s", r.WindowEnd.Format(time.RFC3339), r.WindowStart.Format(time.RFC3339)),
		}
	}
	if r.SlotDuration <= 0 {
		return &Error{
			Type:    ErrInvalidSlotDuration,
			Message: fmt.Sprintf("slot duration must be positive, got %s", r.SlotDuration),
		}
	}
	return nil
}
