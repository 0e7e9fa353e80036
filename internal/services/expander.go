// Package services holds the ledger engine: recurrence expansion, balance
// computation, alert evaluation, import reconciliation and dashboard
// aggregation, plus the orchestrating ledger service.
//
// This file implements the Strategy Pattern for recurrence cadences. Each
// frequency (monthly, weekly) has its own rule that encapsulates how
// occurrence dates, totals and ordinals are derived.
package services

import (
	"fmt"
	"time"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

// Occurrence is one concrete date a recurrence produces for a period,
// together with its 1-based ordinal among the template's occurrences.
type Occurrence struct {
	Date core.Date
	Seq  int
	// Total is the occurrence count between start and end date inclusive,
	// or 0 for open-ended recurrences.
	Total int
}

// CadenceRule is the strategy interface for a recurrence frequency.
type CadenceRule interface {
	// DatesIn returns the cadence's dates inside [from, to], already clipped
	// to the recurrence's own start/end window, in ascending order.
	DatesIn(rec core.Recurrence, from, to core.Date) []core.Date

	// Total returns the occurrence count from start to end date inclusive,
	// or 0 when the recurrence is open-ended.
	Total(rec core.Recurrence) int

	// Ordinal returns the 1-based position of d among the occurrences.
	Ordinal(rec core.Recurrence, d core.Date) int
}

// MonthlyRule generates one occurrence per month on the recurrence's
// day-of-month, clamped to the last day of shorter months.
type MonthlyRule struct{}

func (MonthlyRule) DatesIn(rec core.Recurrence, from, to core.Date) []core.Date {
	var out []core.Date
	y, m := from.Year(), from.Month()
	for {
		cursor := core.NewDate(y, m, 1)
		if cursor.After(to) {
			break
		}
		day := rec.DayOfMonth
		if last := core.LastDayOfMonth(y, m); day > last {
			day = last
		}
		d := core.NewDate(y, m, day)
		if inWindow(rec, d) && !d.Before(from) && !d.After(to) {
			out = append(out, d)
		}
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return out
}

func (MonthlyRule) Total(rec core.Recurrence) int {
	if rec.EndDate.IsZero() {
		return 0
	}
	return monthsBetween(rec.StartDate, rec.EndDate) + 1
}

func (MonthlyRule) Ordinal(rec core.Recurrence, d core.Date) int {
	return monthsBetween(rec.StartDate, d) + 1
}

// WeeklyRule generates occurrences every 7th day from the start date.
type WeeklyRule struct{}

func (WeeklyRule) DatesIn(rec core.Recurrence, from, to core.Date) []core.Date {
	var out []core.Date
	d := rec.StartDate
	// Jump close to the window instead of stepping week by week from start.
	if d.Before(from) {
		weeks := int(from.Sub(d.Time).Hours() / 24 / 7)
		d = d.AddDays(weeks * 7)
	}
	for ; !d.After(to); d = d.AddDays(7) {
		if inWindow(rec, d) && !d.Before(from) {
			out = append(out, d)
		}
	}
	return out
}

func (WeeklyRule) Total(rec core.Recurrence) int {
	if rec.EndDate.IsZero() {
		return 0
	}
	return daysBetween(rec.StartDate, rec.EndDate)/7 + 1
}

func (WeeklyRule) Ordinal(rec core.Recurrence, d core.Date) int {
	return daysBetween(rec.StartDate, d)/7 + 1
}

// cadenceRules maps frequencies to their rules.
var cadenceRules = map[core.Frequency]CadenceRule{
	core.Monthly: MonthlyRule{},
	core.Weekly:  WeeklyRule{},
}

// GetCadenceRule returns the rule for a frequency.
func GetCadenceRule(freq core.Frequency) (CadenceRule, error) {
	rule, ok := cadenceRules[freq]
	if !ok {
		return nil, &core.ValidationError{Field: "frequency", Msg: fmt.Sprintf("unknown frequency %q", string(freq))}
	}
	return rule, nil
}

// OccurrencesInMonth is the pure "would-generate" query: the occurrences a
// recurrence produces for the given month, without materializing anything.
func OccurrencesInMonth(rec core.Recurrence, year, month int) ([]Occurrence, error) {
	from := core.NewDate(year, month, 1)
	to := core.NewDate(year, month, core.LastDayOfMonth(year, month))
	return occurrencesBetween(rec, from, to)
}

// OccurrencesInWeek returns the occurrences inside the given ISO week.
func OccurrencesInWeek(rec core.Recurrence, isoYear, isoWeek int) ([]Occurrence, error) {
	from := firstDayOfISOWeek(isoYear, isoWeek)
	return occurrencesBetween(rec, from, from.AddDays(6))
}

func occurrencesBetween(rec core.Recurrence, from, to core.Date) ([]Occurrence, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	rule, err := GetCadenceRule(rec.Frequency)
	if err != nil {
		return nil, err
	}
	total := rule.Total(rec)
	var out []Occurrence
	for _, d := range rule.DatesIn(rec, from, to) {
		out = append(out, Occurrence{Date: d, Seq: rule.Ordinal(rec, d), Total: total})
	}
	return out, nil
}

// ExpandMonth turns a recurrence's occurrences for a month into concrete
// pending entries. Installment descriptions get the " (k/N)" suffix. The
// caller is responsible for idempotent insertion; generated entries carry
// the source recurrence id so existing rows can be matched exactly.
func ExpandMonth(rec core.Recurrence, year, month int) ([]core.Entry, error) {
	occs, err := OccurrencesInMonth(rec, year, month)
	if err != nil {
		return nil, err
	}
	entries := make([]core.Entry, 0, len(occs))
	for _, occ := range occs {
		entries = append(entries, EntryForOccurrence(rec, occ))
	}
	return entries, nil
}

// EntryForOccurrence builds the pending entry a single occurrence generates.
func EntryForOccurrence(rec core.Recurrence, occ Occurrence) core.Entry {
	desc := rec.Description
	if rec.Installment {
		desc = fmt.Sprintf("%s (%d/%d)", rec.Description, occ.Seq, occ.Total)
	}
	return core.Entry{
		BoxID:        rec.BoxID,
		CategoryID:   rec.CategoryID,
		Description:  desc,
		Type:         rec.Type,
		Amount:       rec.Amount,
		Date:         occ.Date,
		Status:       core.Pending,
		RecurrenceID: rec.ID,
	}
}

func inWindow(rec core.Recurrence, d core.Date) bool {
	if d.Before(rec.StartDate) {
		return false
	}
	if !rec.EndDate.IsZero() && d.After(rec.EndDate) {
		return false
	}
	return true
}

func monthsBetween(a, b core.Date) int {
	return (b.Year()-a.Year())*12 + b.Month() - a.Month()
}

func daysBetween(a, b core.Date) int {
	return int(b.Sub(a.Time).Hours() / 24)
}

// firstDayOfISOWeek returns the Monday of the given ISO week.
func firstDayOfISOWeek(isoYear, isoWeek int) core.Date {
	// January 4th is always inside ISO week 1.
	d := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, -1)
	}
	return core.Date{Time: d.AddDate(0, 0, (isoWeek-1)*7)}
}
