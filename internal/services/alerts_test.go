package services

import (
	"testing"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

func pendingEntry(id int64, date core.Date) core.Entry {
	e := entry(id, core.Expense, 1000, date)
	e.Status = core.Pending
	return e
}

func TestEvaluateAlertsWeekday(t *testing.T) {
	today := core.NewDate(2025, 3, 12) // Wednesday
	entries := []core.Entry{
		pendingEntry(1, core.NewDate(2025, 3, 10)), // overdue
		pendingEntry(2, core.NewDate(2025, 3, 12)), // due today
		pendingEntry(3, core.NewDate(2025, 3, 20)), // future
	}
	snap := EvaluateAlerts(today, entries)

	if len(snap.Overdue) != 1 || snap.Overdue[0].ID != 1 {
		t.Errorf("overdue = %v, want entry 1 only", snap.Overdue)
	}
	if len(snap.DueToday) != 1 || snap.DueToday[0].ID != 2 {
		t.Errorf("due today = %v, want entry 2 only", snap.DueToday)
	}
	if snap.IsWeekend {
		t.Error("IsWeekend = true on a Wednesday")
	}
	if !snap.ReferenceDay.Equal(today) {
		t.Errorf("reference day = %s, want today", snap.ReferenceDay)
	}
}

func TestEvaluateAlertsSaturdayRollsToMonday(t *testing.T) {
	today := core.NewDate(2025, 3, 15) // Saturday
	monday := core.NewDate(2025, 3, 17)
	entries := []core.Entry{
		pendingEntry(1, core.NewDate(2025, 3, 14)), // Friday, overdue
		pendingEntry(2, today),                     // Saturday itself: not due, not overdue
		pendingEntry(3, monday),                    // surfaces as due
	}
	snap := EvaluateAlerts(today, entries)

	if !snap.IsWeekend {
		t.Error("IsWeekend = false on a Saturday")
	}
	if !snap.ReferenceDay.Equal(monday) {
		t.Errorf("reference day = %s, want Monday %s", snap.ReferenceDay, monday)
	}
	if len(snap.Overdue) != 1 || snap.Overdue[0].ID != 1 {
		t.Errorf("overdue = %v, want entry 1 only", snap.Overdue)
	}
	if len(snap.DueToday) != 1 || snap.DueToday[0].ID != 3 {
		t.Errorf("due today = %v, want Monday's entry", snap.DueToday)
	}
}

func TestEvaluateAlertsSundayRollsToMonday(t *testing.T) {
	today := core.NewDate(2025, 3, 16) // Sunday
	snap := EvaluateAlerts(today, nil)

	if !snap.IsWeekend {
		t.Error("IsWeekend = false on a Sunday")
	}
	if got := snap.ReferenceDay.String(); got != "2025-03-17" {
		t.Errorf("reference day = %s, want 2025-03-17", got)
	}
}

func TestEvaluateAlertsIgnoresSettled(t *testing.T) {
	today := core.NewDate(2025, 3, 12)
	settled := entry(1, core.Expense, 1000, core.NewDate(2025, 3, 1))
	snap := EvaluateAlerts(today, []core.Entry{settled})

	if len(snap.Overdue) != 0 || len(snap.DueToday) != 0 {
		t.Error("settled entries must not raise alerts")
	}
}
