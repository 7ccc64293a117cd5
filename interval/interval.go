// Package interval provides the half-open time interval primitive shared by
// the availability and free/busy packages.
package interval

import (
	"fmt"
	"time"
)

// Interval is a half-open time range [Start, End) on absolute UTC instants.
// Construct with New to guarantee the Start < End invariant; a zero Interval
// is not valid.
type Interval struct {
	Start time.Time
	End   time.Time
}

// New creates an Interval normalized to UTC. It returns an error when
// start >= end, so a successfully constructed Interval always has positive
// duration.
func New(start, end time.Time) (Interval, error) {
	start = start.UTC()
	end = end.UTC()
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("interval start %s must be before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether the two half-open intervals intersect:
// a.Start < b.End AND a.End > b.Start. Touching endpoints do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Contains reports whether t falls inside the interval. The start instant is
// included, the end instant is not.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
