package recurrence

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

const untilLayout = "20060102T150405Z"

// RRuleString renders the rule as an iCalendar RRULE property value
// (without the "RRULE:" prefix), e.g. "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE".
func (r Rule) RRuleString() (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	parts := []string{"FREQ=" + icalFrequency(r.Frequency)}
	if r.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", r.Interval))
	}
	if r.Frequency == Weekly {
		weekdays := append([]time.Weekday(nil), r.Weekdays...)
		sort.Slice(weekdays, func(i, j int) bool { return weekdays[i] < weekdays[j] })
		tags := make([]string, len(weekdays))
		for i, wd := range weekdays {
			tags[i] = icalWeekday(wd)
		}
		parts = append(parts, "BYDAY="+strings.Join(tags, ","))
	}
	switch {
	case r.Count > 0:
		parts = append(parts, fmt.Sprintf("COUNT=%d", r.Count))
	case r.Until != nil:
		parts = append(parts, "UNTIL="+r.Until.UTC().Format(untilLayout))
	}
	return strings.Join(parts, ";"), nil
}

// ParseRRule parses an iCalendar RRULE property value into a Rule. Rules
// without COUNT or UNTIL come back with Forever set. Parts this package does
// not model (BYMONTHDAY, BYSETPOS, …) are rejected rather than ignored so a
// round-trip never silently changes meaning.
func ParseRRule(value string) (Rule, error) {
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return Rule{}, &Error{Type: ErrInvalidRecurrence, Message: fmt.Sprintf("malformed RRULE %q: %v", value, err)}
	}

	var rule Rule
	switch opt.Freq {
	case rrule.DAILY:
		rule.Frequency = Daily
	case rrule.WEEKLY:
		rule.Frequency = Weekly
	case rrule.MONTHLY:
		rule.Frequency = Monthly
	case rrule.YEARLY:
		rule.Frequency = Yearly
	default:
		return Rule{}, &Error{Type: ErrInvalidRecurrence, Message: fmt.Sprintf("unsupported frequency in RRULE %q", value)}
	}

	rule.Interval = opt.Interval
	if rule.Interval == 0 {
		rule.Interval = 1
	}

	for _, wd := range opt.Byweekday {
		rule.Weekdays = append(rule.Weekdays, timeWeekday(wd))
	}
	if rule.Frequency != Weekly && len(rule.Weekdays) > 0 {
		return Rule{}, &Error{Type: ErrInvalidRecurrence, Message: fmt.Sprintf("BYDAY is only supported with FREQ=WEEKLY in RRULE %q", value)}
	}

	if len(opt.Bymonthday) > 0 || len(opt.Byyearday) > 0 || len(opt.Bysetpos) > 0 ||
		len(opt.Bymonth) > 0 || len(opt.Byweekno) > 0 ||
		len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 {
		return Rule{}, &Error{Type: ErrInvalidRecurrence, Message: fmt.Sprintf("unsupported RRULE part in %q", value)}
	}

	switch {
	case opt.Count > 0:
		rule.Count = opt.Count
	case !opt.Until.IsZero():
		until := opt.Until.UTC()
		rule.Until = &until
	default:
		rule.Forever = true
	}

	if err := rule.Validate(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

// RuleFromComponent extracts the base occurrence and recurrence rule from a
// VEVENT component. Events without an RRULE property return ok=false; the
// caller then treats the event as a single occurrence.
func RuleFromComponent(comp *ical.Component) (base Occurrence, rule Rule, ok bool, err error) {
	rruleProp := comp.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil || rruleProp.Value == "" {
		return Occurrence{}, Rule{}, false, nil
	}

	start, err := comp.Props.DateTime(ical.PropDateTimeStart, nil)
	if err != nil {
		return Occurrence{}, Rule{}, false, fmt.Errorf("failed to read DTSTART: %w", err)
	}
	end, err := comp.Props.DateTime(ical.PropDateTimeEnd, nil)
	if err != nil {
		// Fall back to DURATION when DTEND is absent.
		durationProp := comp.Props.Get(ical.PropDuration)
		if durationProp == nil {
			return Occurrence{}, Rule{}, false, fmt.Errorf("failed to read DTEND: %w", err)
		}
		duration, derr := durationProp.Duration()
		if derr != nil {
			return Occurrence{}, Rule{}, false, fmt.Errorf("failed to read DURATION: %w", derr)
		}
		end = start.Add(duration)
	}

	rule, err = ParseRRule(rruleProp.Value)
	if err != nil {
		return Occurrence{}, Rule{}, false, err
	}
	return Occurrence{Start: start.UTC(), End: end.UTC()}, rule, true, nil
}

// SetRuleOnComponent writes the rule as an RRULE property on a VEVENT
// component, replacing any existing one.
func SetRuleOnComponent(comp *ical.Component, rule Rule) error {
	value, err := rule.RRuleString()
	if err != nil {
		return err
	}
	prop := ical.NewProp(ical.PropRecurrenceRule)
	prop.Value = value
	comp.Props.Set(prop)
	return nil
}

func icalFrequency(f Frequency) string {
	switch f {
	case Daily:
		return "DAILY"
	case Weekly:
		return "WEEKLY"
	case Monthly:
		return "MONTHLY"
	default:
		return "YEARLY"
	}
}

func icalWeekday(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return "MO"
	case time.Tuesday:
		return "TU"
	case time.Wednesday:
		return "WE"
	case time.Thursday:
		return "TH"
	case time.Friday:
		return "FR"
	case time.Saturday:
		return "SA"
	default:
		return "SU"
	}
}

func timeWeekday(wd rrule.Weekday) time.Weekday {
	switch wd.Day() {
	case 0:
		return time.Monday
	case 1:
		return time.Tuesday
	case 2:
		return time.Wednesday
	case 3:
		return time.Thursday
	case 4:
		return time.Friday
	case 5:
		return time.Saturday
	default:
		return time.Sunday
	}
}
