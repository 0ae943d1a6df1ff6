// Package schedule expands bill and expense templates into concrete due
// dates. It is a pure date-rules library: no storage, no wall clock. The
// reference date for "next due" queries is always an explicit argument.
//
// All dates are calendar dates at midnight UTC; comparisons never involve
// time-of-day or timezone offsets.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/GusDawn123/aura-budget/internal/core"
)

var (
	// ErrInvalidTemplate signals a template whose first due date is missing
	// or unparseable. Callers decide whether to skip or surface it.
	ErrInvalidTemplate = errors.New("invalid schedule template")

	// ErrUnknownFrequency signals a required frequency that is absent or not
	// one of the recognized values. Expansion fails soft: occurrences
	// collected before the bad frequency was consulted are still returned.
	ErrUnknownFrequency = errors.New("unknown frequency")
)

// maxOccurrences bounds open-ended recurring iteration. It must never bind
// for realistic frequencies and month spans; reaching it stops expansion
// silently to preserve forward progress of the rest of the view.
const maxOccurrences = 1000

// Stepper advances a due date cursor by one period.
type Stepper interface {
	Step(d time.Time) time.Time
}

// StepperFunc adapts a plain function to the Stepper interface.
type StepperFunc func(d time.Time) time.Time

func (f StepperFunc) Step(d time.Time) time.Time { return f(d) }

// steppers maps each frequency to its period advance. Calendar-unit steps
// (monthly, every_3_months, yearly) clamp to the last day of the target
// month rather than overflowing: a bill due Jan 31 lands on Feb 29, not
// Mar 2, and never skips a month.
var steppers = map[core.Frequency]Stepper{
	core.Weekly:           StepperFunc(func(d time.Time) time.Time { return d.AddDate(0, 0, 7) }),
	core.EveryTwoWeeks:    StepperFunc(func(d time.Time) time.Time { return d.AddDate(0, 0, 14) }),
	core.Monthly:          StepperFunc(func(d time.Time) time.Time { return addMonthsClamped(d, 1) }),
	core.EveryThreeMonths: StepperFunc(func(d time.Time) time.Time { return addMonthsClamped(d, 3) }),
	core.Yearly:           StepperFunc(func(d time.Time) time.Time { return addMonthsClamped(d, 12) }),
}

// addMonthsClamped advances d by the given number of months, capping the
// day at the target month's length instead of letting it roll into the
// following month.
func addMonthsClamped(d time.Time, months int) time.Time {
	year, month, day := d.Date()
	total := int(month) - 1 + months
	year += total / 12
	month = time.Month(total%12 + 1)
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StepperFor returns the period advance for a frequency, or
// ErrUnknownFrequency if the frequency is not recognized.
func StepperFor(f core.Frequency) (Stepper, error) {
	s, ok := steppers[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrequency, f)
	}
	return s, nil
}

// Month identifies one calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a yyyy-MM month key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing the given date.
func MonthOf(d time.Time) Month {
	return Month{Year: d.Year(), Month: d.Month()}
}

// String renders the month as its yyyy-MM key.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start returns the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

// Contains reports whether d falls inside the month window, inclusive on
// both ends.
func (m Month) Contains(d time.Time) bool {
	return !d.Before(m.Start()) && !d.After(m.End())
}

// occurrenceBound returns how many occurrences a template may produce over
// its whole lifetime: PlanCountTotal for payment plans, the safety cap
// otherwise. The bound is global, not per queried month, so the Nth
// occurrence is the same date no matter which month is being expanded.
func occurrenceBound(tpl core.ScheduleTemplate) int {
	if tpl.ScheduleType == core.PaymentPlan {
		return tpl.PlanCountTotal
	}
	return maxOccurrences
}

// OccurrencesInMonth expands a template into every due date that falls
// inside the given month, in ascending order. An empty result is valid and
// means nothing is due that month.
//
// The caller is expected to have filtered inactive templates already;
// IsActive is not consulted here.
func OccurrencesInMonth(tpl core.ScheduleTemplate, m Month) ([]time.Time, error) {
	if tpl.FirstDueDate.IsZero() {
		return nil, fmt.Errorf("%w: template %q has no first due date", ErrInvalidTemplate, tpl.ID)
	}
	first := truncateToDay(tpl.FirstDueDate)

	if tpl.ScheduleType == core.OneTime {
		if m.Contains(first) {
			return []time.Time{first}, nil
		}
		return nil, nil
	}

	if tpl.ScheduleType != core.Recurring && tpl.ScheduleType != core.PaymentPlan {
		return nil, fmt.Errorf("%w: template %q has schedule type %q", ErrInvalidTemplate, tpl.ID, tpl.ScheduleType)
	}

	step, stepErr := StepperFor(tpl.Frequency)

	var due []time.Time
	cursor := first
	bound := occurrenceBound(tpl)
	monthEnd := m.End()

	for count := 0; !cursor.After(monthEnd) && count < bound; count++ {
		if !cursor.Before(m.Start()) {
			due = append(due, cursor)
		}
		if count+1 >= bound {
			break
		}
		if stepErr != nil {
			// Unknown frequency stops expansion; occurrences already
			// collected are still returned (fail-soft).
			return due, stepErr
		}
		cursor = step.Step(cursor)
	}

	return due, nil
}

// NextUnpaidOccurrence walks a template's occurrences forward from its
// first due date and returns the first one on or after today that has no
// matching payment record. A one-time template's due date is returned even
// when it is in the past: "next unpaid" can be overdue.
//
// Records need not be pre-filtered; entries for other templates are
// ignored by TemplateID. The boolean is false when every occurrence within
// the template's lifetime bound is paid or the schedule is exhausted.
func NextUnpaidOccurrence(tpl core.ScheduleTemplate, records []core.PaymentRecord, today time.Time) (time.Time, bool, error) {
	if tpl.FirstDueDate.IsZero() {
		return time.Time{}, false, fmt.Errorf("%w: template %q has no first due date", ErrInvalidTemplate, tpl.ID)
	}
	first := truncateToDay(tpl.FirstDueDate)
	today = truncateToDay(today)
	paid := newPaidSet(tpl.ID, records)

	if tpl.ScheduleType == core.OneTime {
		if paid.contains(first) {
			return time.Time{}, false, nil
		}
		return first, true, nil
	}

	if tpl.ScheduleType != core.Recurring && tpl.ScheduleType != core.PaymentPlan {
		return time.Time{}, false, fmt.Errorf("%w: template %q has schedule type %q", ErrInvalidTemplate, tpl.ID, tpl.ScheduleType)
	}

	step, stepErr := StepperFor(tpl.Frequency)
	if stepErr != nil {
		// Mirrors the month expansion: an unrecognized frequency yields
		// "no next occurrence" rather than an error.
		return time.Time{}, false, nil
	}

	cursor := first
	bound := occurrenceBound(tpl)

	for count := 0; count < bound; count++ {
		if !cursor.Before(today) && !paid.contains(cursor) {
			return cursor, true, nil
		}
		if count+1 >= bound {
			break
		}
		cursor = step.Step(cursor)
	}

	return time.Time{}, false, nil
}

// IsPaid reports whether a payment record exists for the template on the
// given due date.
func IsPaid(tpl core.ScheduleTemplate, records []core.PaymentRecord, dueDate time.Time) bool {
	return newPaidSet(tpl.ID, records).contains(truncateToDay(dueDate))
}

// paidSet indexes payment records by due date for one template. Building
// the set dedupes accidental duplicate records per (templateID, dueDate),
// so lookups cannot depend on which duplicate a linear scan finds first.
type paidSet map[string]struct{}

func newPaidSet(templateID string, records []core.PaymentRecord) paidSet {
	set := make(paidSet, len(records))
	for _, r := range records {
		if r.TemplateID != templateID {
			continue
		}
		set[core.FormatDate(truncateToDay(r.DueDate))] = struct{}{}
	}
	return set
}

func (p paidSet) contains(d time.Time) bool {
	_, ok := p[core.FormatDate(d)]
	return ok
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
