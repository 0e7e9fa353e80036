package services

import (
	"fmt"
	"testing"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

func monthlyRec(day int) core.Recurrence {
	return core.Recurrence{
		ID:          1,
		BoxID:       1,
		CategoryID:  1,
		Description: "Aluguel",
		Type:        core.Expense,
		Amount:      core.Money{Cents: 150000},
		Frequency:   core.Monthly,
		DayOfMonth:  day,
		StartDate:   core.NewDate(2025, 1, 1),
	}
}

func TestMonthlyOccurrenceDayClamping(t *testing.T) {
	tests := []struct {
		name    string
		day     int
		year    int
		month   int
		wantDay int
	}{
		{"regular month", 15, 2025, 3, 15},
		{"day 31 in april", 31, 2025, 4, 30},
		{"day 31 in february", 31, 2025, 2, 28},
		{"day 30 in leap february", 30, 2024, 2, 29},
		{"day 29 in leap february", 29, 2024, 2, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := monthlyRec(tt.day)
			rec.StartDate = core.NewDate(2024, 1, 1)
			occs, err := OccurrencesInMonth(rec, tt.year, tt.month)
			if err != nil {
				t.Fatalf("OccurrencesInMonth() error = %v", err)
			}
			if len(occs) != 1 {
				t.Fatalf("expected 1 occurrence, got %d", len(occs))
			}
			if got := occs[0].Date.Day(); got != tt.wantDay {
				t.Errorf("occurrence day = %d, want %d", got, tt.wantDay)
			}
		})
	}
}

func TestMonthlyOccurrenceRespectsWindow(t *testing.T) {
	rec := monthlyRec(10)
	rec.StartDate = core.NewDate(2025, 3, 1)
	rec.EndDate = core.NewDate(2025, 5, 31)

	for _, tt := range []struct {
		month int
		want  int
	}{
		{2, 0}, // before start
		{3, 1},
		{5, 1},
		{6, 0}, // after end
	} {
		occs, err := OccurrencesInMonth(rec, 2025, tt.month)
		if err != nil {
			t.Fatalf("month %d: error = %v", tt.month, err)
		}
		if len(occs) != tt.want {
			t.Errorf("month %d: got %d occurrences, want %d", tt.month, len(occs), tt.want)
		}
	}
}

func TestWeeklyOccurrencesStepSevenDays(t *testing.T) {
	rec := monthlyRec(0)
	rec.Frequency = core.Weekly
	rec.DayOfMonth = 0
	rec.StartDate = core.NewDate(2025, 1, 6) // a Monday

	occs, err := OccurrencesInMonth(rec, 2025, 1)
	if err != nil {
		t.Fatalf("OccurrencesInMonth() error = %v", err)
	}
	want := []string{"2025-01-06", "2025-01-13", "2025-01-20", "2025-01-27"}
	if len(occs) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(occs), len(want))
	}
	for i, occ := range occs {
		if occ.Date.String() != want[i] {
			t.Errorf("occurrence %d = %s, want %s", i, occ.Date, want[i])
		}
	}
}

func TestWeeklyOccurrencesFarFromStart(t *testing.T) {
	rec := monthlyRec(0)
	rec.Frequency = core.Weekly
	rec.DayOfMonth = 0
	rec.StartDate = core.NewDate(2020, 1, 6)

	occs, err := OccurrencesInMonth(rec, 2025, 6)
	if err != nil {
		t.Fatalf("OccurrencesInMonth() error = %v", err)
	}
	if len(occs) != 5 {
		t.Fatalf("got %d occurrences, want 5", len(occs))
	}
	for _, occ := range occs {
		if days := daysBetween(rec.StartDate, occ.Date); days%7 != 0 {
			t.Errorf("occurrence %s is not a whole number of weeks from start", occ.Date)
		}
	}
}

func TestInstallmentNumbering(t *testing.T) {
	rec := monthlyRec(15)
	rec.Description = "Notebook"
	rec.StartDate = core.NewDate(2025, 1, 15)
	rec.EndDate = core.NewDate(2025, 6, 15)
	rec.Installment = true

	for month := 1; month <= 6; month++ {
		entries, err := ExpandMonth(rec, 2025, month)
		if err != nil {
			t.Fatalf("ExpandMonth(%d) error = %v", month, err)
		}
		if len(entries) != 1 {
			t.Fatalf("month %d: got %d entries, want 1", month, len(entries))
		}
		want := fmt.Sprintf("Notebook (%d/6)", month)
		if entries[0].Description != want {
			t.Errorf("month %d: description = %q, want %q", month, entries[0].Description, want)
		}
	}
}

func TestExpandMonthGeneratedEntryShape(t *testing.T) {
	rec := monthlyRec(5)
	entries, err := ExpandMonth(rec, 2025, 4)
	if err != nil {
		t.Fatalf("ExpandMonth() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Status != core.Pending {
		t.Errorf("status = %s, want pending", e.Status)
	}
	if e.RecurrenceID != rec.ID {
		t.Errorf("recurrence id = %d, want %d", e.RecurrenceID, rec.ID)
	}
	if e.Description != rec.Description {
		t.Errorf("non-installment description = %q, want %q", e.Description, rec.Description)
	}
	if e.Amount != rec.Amount {
		t.Errorf("amount = %v, want %v", e.Amount, rec.Amount)
	}
}

func TestExpandMonthIsDeterministic(t *testing.T) {
	rec := monthlyRec(20)
	first, err := ExpandMonth(rec, 2025, 7)
	if err != nil {
		t.Fatalf("ExpandMonth() error = %v", err)
	}
	second, err := ExpandMonth(rec, 2025, 7)
	if err != nil {
		t.Fatalf("ExpandMonth() error = %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs between runs", i)
		}
	}
}

func TestOccurrencesInWeek(t *testing.T) {
	rec := monthlyRec(0)
	rec.Frequency = core.Weekly
	rec.DayOfMonth = 0
	rec.StartDate = core.NewDate(2025, 1, 8) // a Wednesday

	// ISO week 3 of 2025 runs Monday Jan 13 to Sunday Jan 19.
	occs, err := OccurrencesInWeek(rec, 2025, 3)
	if err != nil {
		t.Fatalf("OccurrencesInWeek() error = %v", err)
	}
	if len(occs) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(occs))
	}
	if got := occs[0].Date.String(); got != "2025-01-15" {
		t.Errorf("occurrence = %s, want 2025-01-15", got)
	}
}

func TestGetCadenceRuleUnknownFrequency(t *testing.T) {
	if _, err := GetCadenceRule("daily"); err == nil {
		t.Error("expected error for unknown frequency")
	}
}

func TestInvalidRecurrenceRejected(t *testing.T) {
	rec := monthlyRec(15)
	rec.Installment = true // no end date
	if _, err := OccurrencesInMonth(rec, 2025, 1); err == nil {
		t.Error("expected validation error for installment without end date")
	}
}
