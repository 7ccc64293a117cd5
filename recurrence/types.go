// Package recurrence expands a base event occurrence under a recurrence rule
// into the concrete sequence of occurrences and their reminder firing
// instants. Expansion is lazy: a rule that never terminates is consumed
// through an iterator, never materialized into a slice.
package recurrence

import (
	"fmt"
	"time"
)

// Error types
type ErrorType string

const (
	ErrInvalidRecurrence ErrorType = "invalid_recurrence"
)

// Error represents a recurrence validation error
type Error struct {
	Type    ErrorType
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Frequency is the base period of a recurrence rule.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return fmt.Sprintf("frequency(%d)", int(f))
	}
}

// Rule describes how an event repeats. Exactly one termination mode must be
// set: Count > 0, Until non-nil, or Forever true. Weekdays is only consulted
// when Frequency is Weekly, where it must be non-empty; for other frequencies
// it is ignored.
type Rule struct {
	Frequency Frequency
	Interval  int // every Interval-th period; must be positive

	// Weekdays selects which days within each interval-week produce an
	// occurrence. Weekly only.
	Weekdays []time.Weekday

	// Termination. Count includes the base occurrence; Until is inclusive,
	// an occurrence starting exactly at Until is produced.
	Count   int
	Until   *time.Time
	Forever bool
}

// Validate checks the rule invariants.
func (r Rule) Validate() error {
	if r.Frequency < Daily || r.Frequency > Yearly {
		return &Error{Type: ErrInvalidRecurrence, Message: fmt.Sprintf("unknown frequency %d", int(r.Frequency))}
	}
	if r.Interval <= 0 {
		return &Error{Type: ErrInvalidRecurrence, Message: fmt.Sprintf("interval must be positive, got %d", r.Interval)}
	}
	if r.Frequency == Weekly && len(r.Weekdays) == 0 {
		return &Error{Type: ErrInvalidRecurrence, Message: "weekly rule requires at least one weekday"}
	}
	for _, wd := range r.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return &Error{Type: ErrInvalidRecurrence, Message: fmt.Sprintf("invalid weekday %d", int(wd))}
		}
	}

	modes := 0
	if r.Count > 0 {
		modes++
	}
	if r.Until != nil {
		modes++
	}
	if r.Forever {
		modes++
	}
	if modes == 0 {
		return &Error{Type: ErrInvalidRecurrence, Message: "no termination mode set (count, until, or forever)"}
	}
	if modes > 1 {
		return &Error{Type: ErrInvalidRecurrence, Message: "multiple termination modes set"}
	}
	return nil
}

// ReminderRule fires a reminder OffsetMinutes before each occurrence starts.
// An event may carry several reminder rules; duplicate offsets collapse into
// one reminder rather than firing twice.
type ReminderRule struct {
	OffsetMinutes int
}

// Occurrence is one concrete instance of a (possibly recurring) event as a
// half-open [Start, End) pair. Every occurrence of one event has the same
// duration.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (o Occurrence) Duration() time.Duration {
	return o.End.Sub(o.Start)
}

// ScheduledOccurrence pairs an occurrence with its reminder firing instants,
// in ascending firing order (largest offset first).
type ScheduledOccurrence struct {
	Occurrence
	Reminders []time.Time
}
