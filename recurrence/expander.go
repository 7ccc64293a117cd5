package recurrence

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// Expansion is a lazy cursor over the occurrence sequence of one expanded
// rule. It is not safe for concurrent use; it is restartable only by calling
// Expand again with the same inputs, which always yields the same sequence
// from the start.
type Expansion struct {
	next     rrule.Next
	duration time.Duration
	offsets  []time.Duration
}

// Expand turns a base occurrence plus a rule into the sequence of concrete
// occurrences, each paired with its reminder firing instants. The base
// occurrence counts as the first element of the sequence.
//
// Validation is fail-fast: an invalid rule, a base with End not after Start,
// or a negative reminder offset returns an *Error of type ErrInvalidRecurrence
// before any expansion happens.
//
// For a rule whose anchor day does not exist in a later period (a monthly
// rule anchored on day 31 reaching a 30-day month), that period produces no
// occurrence; the day is skipped, not clamped.
func Expand(base Occurrence, rule Rule, reminders []ReminderRule) (*Expansion, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if !base.Start.Before(base.End) {
		return nil, &Error{
			Type:    ErrInvalidRecurrence,
			Message: fmt.Sprintf("base occurrence end %s must be after start %s", base.End.Format(time.RFC3339), base.Start.Format(time.RFC3339)),
		}
	}

	offsets, err := reminderOffsets(reminders)
	if err != nil {
		return nil, err
	}

	r, err := rrule.NewRRule(ruleOption(base, rule))
	if err != nil {
		return nil, &Error{Type: ErrInvalidRecurrence, Message: err.Error()}
	}

	return &Expansion{
		next:     r.Iterator(),
		duration: base.End.Sub(base.Start),
		offsets:  offsets,
	}, nil
}

// ruleOption maps a validated Rule onto rrule-go options anchored at the
// base occurrence's start.
func ruleOption(base Occurrence, rule Rule) rrule.ROption {
	opt := rrule.ROption{
		Freq:     frequencyToRRule(rule.Frequency),
		Interval: rule.Interval,
		Dtstart:  base.Start.UTC(),
	}
	if rule.Frequency == Weekly {
		weekdays := append([]time.Weekday(nil), rule.Weekdays...)
		sort.Slice(weekdays, func(i, j int) bool { return weekdays[i] < weekdays[j] })
		for _, wd := range weekdays {
			opt.Byweekday = append(opt.Byweekday, weekdayToRRule(wd))
		}
	}
	if rule.Count > 0 {
		opt.Count = rule.Count
	}
	if rule.Until != nil {
		opt.Until = rule.Until.UTC()
	}
	return opt
}

func frequencyToRRule(f Frequency) rrule.Frequency {
	switch f {
	case Daily:
		return rrule.DAILY
	case Weekly:
		return rrule.WEEKLY
	case Monthly:
		return rrule.MONTHLY
	default:
		return rrule.YEARLY
	}
}

func weekdayToRRule(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}

// reminderOffsets validates, deduplicates, and orders reminder offsets so the
// derived firing instants come out in ascending time order.
func reminderOffsets(reminders []ReminderRule) ([]time.Duration, error) {
	seen := make(map[int]struct{}, len(reminders))
	offsets := make([]time.Duration, 0, len(reminders))
	for _, rem := range reminders {
		if rem.OffsetMinutes < 0 {
			return nil, &Error{
				Type:    ErrInvalidRecurrence,
				Message: fmt.Sprintf("reminder offset must be non-negative, got %d", rem.OffsetMinutes),
			}
		}
		if _, dup := seen[rem.OffsetMinutes]; dup {
			continue
		}
		seen[rem.OffsetMinutes] = struct{}{}
		offsets = append(offsets, time.Duration(rem.OffsetMinutes)*time.Minute)
	}
	// Largest offset fires earliest.
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] > offsets[j] })
	return offsets, nil
}

// Next returns the next occurrence in the sequence, or ok=false when the
// rule's termination condition has been reached. A Forever rule never
// reports false; callers bound consumption with Take or Within.
func (x *Expansion) Next() (ScheduledOccurrence, bool) {
	start, ok := x.next()
	if !ok {
		return ScheduledOccurrence{}, false
	}

	occ := Occurrence{Start: start, End: start.Add(x.duration)}
	var reminders []time.Time
	if len(x.offsets) > 0 {
		reminders = make([]time.Time, len(x.offsets))
		for i, offset := range x.offsets {
			reminders[i] = start.Add(-offset)
		}
	}
	return ScheduledOccurrence{Occurrence: occ, Reminders: reminders}, true
}

// Take consumes and returns up to n occurrences.
func (x *Expansion) Take(n int) []ScheduledOccurrence {
	out := make([]ScheduledOccurrence, 0, n)
	for len(out) < n {
		occ, ok := x.Next()
		if !ok {
			break
		}
		out = append(out, occ)
	}
	return out
}

// Within consumes and returns every remaining occurrence starting at or
// before horizon. The first occurrence past the horizon is discarded.
func (x *Expansion) Within(horizon time.Time) []ScheduledOccurrence {
	var out []ScheduledOccurrence
	for {
		occ, ok := x.Next()
		if !ok || occ.Start.After(horizon) {
			break
		}
		out = append(out, occ)
	}
	return out
}
