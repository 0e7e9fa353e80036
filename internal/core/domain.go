package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"

	Pending EntryStatus = "pending"
	Settled EntryStatus = "settled"

	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
)

type (
	EntryType   string
	EntryStatus string
	Frequency   string

	Date struct {
		time.Time
	}

	// Box is an isolated ledger namespace, e.g. one bank account or till.
	Box struct {
		ID   int64
		Name string
	}

	// Category classifies entries. Preset categories are seeded by the
	// migrations and cannot be renamed or deleted.
	Category struct {
		ID     int64
		Name   string
		Preset bool
	}

	// Entry is one ledger line. Amount is always positive; the sign of its
	// effect on the balance comes from Type.
	Entry struct {
		ID          int64
		BoxID       int64
		CategoryID  int64
		Description string
		Type        EntryType
		Amount      Money
		Date        Date
		Status      EntryStatus
		// RecurrenceID links entries materialized from a recurrence template
		// back to their source. Zero for entries created directly.
		RecurrenceID int64
	}

	// Recurrence is a template that produces Entries when expanded for a
	// period. It carries no ledger weight itself.
	Recurrence struct {
		ID          int64
		BoxID       int64
		CategoryID  int64
		Description string
		Type        EntryType
		Amount      Money
		Frequency   Frequency
		// DayOfMonth is used only for monthly recurrences. When the target
		// month is shorter, the day is clamped to the last day of the month.
		DayOfMonth int
		StartDate  Date
		// EndDate is optional; the zero Date means open-ended.
		EndDate Date
		// Installment recurrences suffix generated descriptions with their
		// ordinal position " (k/N)" and require an end date.
		Installment bool
	}

	// OpeningBalance is the carried-forward balance at the start of a month
	// for one box. Explicit values override the computed rollover.
	OpeningBalance struct {
		BoxID  int64
		Year   int
		Month  int
		Amount Money
	}
)

// NewDate creates a civil date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the civil date of now in the given location. Day-boundary
// sensitive callers must all use the same reference zone.
func Today(now time.Time, loc *time.Location) Date {
	y, m, d := now.In(loc).Date()
	return NewDate(y, int(m), d)
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d falls after other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// IsWeekend reports whether d is a Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string { return d.Format("2006-01-02") }

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Msg: "must be YYYY-MM-DD"}
	}
	return Date{Time: t.UTC()}, nil
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: "date", Msg: "cannot be empty"}
	}
	return nil
}

func (t EntryType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return &ValidationError{Field: "type", Msg: fmt.Sprintf("unknown entry type %q", string(t))}
}

// Sign returns +1 for income and -1 for expense.
func (t EntryType) Sign() int64 {
	if t == Expense {
		return -1
	}
	return 1
}

func (s EntryStatus) Validate() error {
	switch s {
	case Pending, Settled:
		return nil
	}
	return &ValidationError{Field: "status", Msg: fmt.Sprintf("unknown entry status %q", string(s))}
}

func (b Box) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return &ValidationError{Field: "name", Msg: "cannot be empty"}
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Msg: "cannot be empty"}
	}
	return nil
}

func (e Entry) Validate() error {
	if e.BoxID <= 0 {
		return &ValidationError{Field: "box_id", Msg: "is required"}
	}
	if e.CategoryID <= 0 {
		return &ValidationError{Field: "category_id", Msg: "is required"}
	}
	if strings.TrimSpace(e.Description) == "" {
		return &ValidationError{Field: "description", Msg: "cannot be empty"}
	}
	if err := e.Type.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return e.Status.Validate()
}

// Signed returns the entry amount in cents with the sign implied by its type.
func (e Entry) Signed() int64 {
	return e.Type.Sign() * e.Amount.Cents
}

func (r Recurrence) Validate() error {
	if r.BoxID <= 0 {
		return &ValidationError{Field: "box_id", Msg: "is required"}
	}
	if r.CategoryID <= 0 {
		return &ValidationError{Field: "category_id", Msg: "is required"}
	}
	if strings.TrimSpace(r.Description) == "" {
		return &ValidationError{Field: "description", Msg: "cannot be empty"}
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	switch r.Frequency {
	case Monthly, Weekly:
	default:
		return &ValidationError{Field: "frequency", Msg: fmt.Sprintf("unknown frequency %q", string(r.Frequency))}
	}
	if r.Frequency == Monthly && (r.DayOfMonth < 1 || r.DayOfMonth > 31) {
		return &ValidationError{Field: "day_of_month", Msg: "must be between 1 and 31"}
	}
	if err := r.StartDate.Validate(); err != nil {
		return &ValidationError{Field: "start_date", Msg: "cannot be empty"}
	}
	if !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		return &ValidationError{Field: "end_date", Msg: "must not be before start date"}
	}
	if r.Installment && r.EndDate.IsZero() {
		return &ValidationError{Field: "end_date", Msg: "is required for installment recurrences"}
	}
	return nil
}
