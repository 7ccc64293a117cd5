// Package freebusy is the boundary through which callers obtain the
// per-participant busy periods consumed by the availability engine. It parses
// calendar-provider free/busy responses, builds the CalDAV free-busy-query
// REPORT body, and aggregates many participants into one availability
// request. The availability engine itself never performs I/O; everything
// here resolves before the engine runs.
package freebusy

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/gatherkit/scheduling/availability"
	"github.com/gatherkit/scheduling/interval"
)

const periodTimeLayout = "20060102T150405Z"

// ParseCalendar extracts the busy periods for one participant from a
// calendar containing VFREEBUSY components, as returned by a provider's
// free/busy query. FREEBUSY periods typed BUSY, BUSY-UNAVAILABLE, or
// BUSY-TENTATIVE all count as busy; FREE periods are skipped. Tentative
// slots block the group: a maybe-conflict is still a conflict for
// scheduling purposes.
func ParseCalendar(cal *ical.Calendar, participantID string) ([]availability.BusyPeriod, error) {
	var periods []availability.BusyPeriod
	for _, child := range cal.Children {
		if child.Name != ical.CompFreeBusy {
			continue
		}
		p, err := ParseComponent(child, participantID)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p...)
	}
	return periods, nil
}

// ParseComponent extracts busy periods from a single VFREEBUSY component.
func ParseComponent(comp *ical.Component, participantID string) ([]availability.BusyPeriod, error) {
	if comp.Name != ical.CompFreeBusy {
		return nil, fmt.Errorf("expected %s component, got %s", ical.CompFreeBusy, comp.Name)
	}

	var periods []availability.BusyPeriod
	for _, prop := range comp.Props.Values(ical.PropFreeBusy) {
		if !busyType(prop.Params.Get(ical.ParamFreeBusyType)) {
			continue
		}
		for _, raw := range strings.Split(prop.Value, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			ivl, err := parsePeriod(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse FREEBUSY period %q: %w", raw, err)
			}
			periods = append(periods, availability.BusyPeriod{
				ParticipantID: participantID,
				Interval:      ivl,
			})
		}
	}
	return periods, nil
}

// busyType reports whether an FBTYPE parameter value counts as busy.
// An absent parameter defaults to BUSY per RFC 5545.
func busyType(fbtype string) bool {
	switch strings.ToUpper(fbtype) {
	case "", "BUSY", "BUSY-UNAVAILABLE", "BUSY-TENTATIVE":
		return true
	default:
		return false
	}
}

// parsePeriod parses an iCalendar PERIOD value: either "start/end" with two
// UTC timestamps, or "start/duration" with an ISO 8601 duration.
func parsePeriod(raw string) (interval.Interval, error) {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return interval.Interval{}, fmt.Errorf("period must contain '/'")
	}

	start, err := time.Parse(periodTimeLayout, parts[0])
	if err != nil {
		return interval.Interval{}, fmt.Errorf("invalid period start: %w", err)
	}

	var end time.Time
	if strings.HasPrefix(parts[1], "P") || strings.HasPrefix(parts[1], "+P") {
		duration, err := parseICalDuration(strings.TrimPrefix(parts[1], "+"))
		if err != nil {
			return interval.Interval{}, err
		}
		end = start.Add(duration)
	} else {
		end, err = time.Parse(periodTimeLayout, parts[1])
		if err != nil {
			return interval.Interval{}, fmt.Errorf("invalid period end: %w", err)
		}
	}

	return interval.New(start, end)
}

// parseICalDuration parses the subset of RFC 5545 DURATION values that occur
// in free/busy periods: PnW, PnD, and PTnHnMnS combinations. Negative
// durations never occur in periods and are rejected.
func parseICalDuration(raw string) (time.Duration, error) {
	rest, ok := strings.CutPrefix(raw, "P")
	if !ok {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}

	var total time.Duration
	inTime := false
	value := 0
	digits := false
	parts := 0

	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			value = value*10 + int(r-'0')
			digits = true
		case r == 'T':
			if inTime {
				return 0, fmt.Errorf("invalid duration %q", raw)
			}
			inTime = true
		default:
			if !digits {
				return 0, fmt.Errorf("invalid duration %q", raw)
			}
			var unit time.Duration
			switch {
			case r == 'W' && !inTime:
				unit = 7 * 24 * time.Hour
			case r == 'D' && !inTime:
				unit = 24 * time.Hour
			case r == 'H' && inTime:
				unit = time.Hour
			case r == 'M' && inTime:
				unit = time.Minute
			case r == 'S' && inTime:
				unit = time.Second
			default:
				return 0, fmt.Errorf("invalid duration unit %q in %q", string(r), raw)
			}
			total += time.Duration(value) * unit
			value = 0
			digits = false
			parts++
		}
	}
	if digits {
		return 0, fmt.Errorf("trailing number without unit in duration %q", raw)
	}
	if parts == 0 {
		return 0, fmt.Errorf("empty duration %q", raw)
	}
	return total, nil
}

// FormatPeriods renders busy periods back into a FREEBUSY property value,
// e.g. for serving a provider-style response in tests and fixtures.
func FormatPeriods(periods []availability.BusyPeriod) string {
	values := make([]string, len(periods))
	for i, p := range periods {
		values[i] = p.Start.UTC().Format(periodTimeLayout) + "/" + p.End.UTC().Format(periodTimeLayout)
	}
	return strings.Join(values, ",")
}
