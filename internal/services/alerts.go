package services

import (
	"time"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

// AlertSnapshot classifies a box's pending entries against a reference day.
// It is derived per call and never persisted.
type AlertSnapshot struct {
	// Overdue holds pending entries dated strictly before today.
	Overdue []core.Entry
	// DueToday holds pending entries dated on the reference day.
	DueToday []core.Entry
	// ReferenceDay is today, or the following Monday when today falls on a
	// weekend, so weekend-dated obligations surface on the next business day
	// instead of being silently skipped.
	ReferenceDay core.Date
	// IsWeekend tells callers to label the due figure "due next business
	// day" rather than "due today".
	IsWeekend bool
}

// EvaluateAlerts is a pure function of today and the pending entry set.
// Entries with a status other than pending are ignored.
func EvaluateAlerts(today core.Date, entries []core.Entry) AlertSnapshot {
	snap := AlertSnapshot{
		ReferenceDay: businessReferenceDay(today),
		IsWeekend:    today.IsWeekend(),
	}
	for _, e := range entries {
		if e.Status != core.Pending {
			continue
		}
		switch {
		case e.Date.Before(today):
			snap.Overdue = append(snap.Overdue, e)
		case e.Date.Equal(snap.ReferenceDay):
			snap.DueToday = append(snap.DueToday, e)
		}
	}
	return snap
}

// businessReferenceDay rolls Saturday and Sunday forward to Monday.
func businessReferenceDay(today core.Date) core.Date {
	switch today.Weekday() {
	case time.Saturday:
		return today.AddDays(2)
	case time.Sunday:
		return today.AddDays(1)
	}
	return today
}
