package services

import (
	"sort"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

type (
	// PeriodTotals is one month bucket of the report.
	PeriodTotals struct {
		Period  Period
		Income  core.Money
		Expense core.Money
		Net     core.Money
	}

	// CategoryTotal is the aggregate for one category over the whole range.
	CategoryTotal struct {
		CategoryID int64
		Name       string
		Total      core.Money
	}

	// CategorySeries is one row of the category x period matrix. Values is
	// always aligned with the report's Periods slice; months in which the
	// category has no entries hold zero, keeping stacked series rectangular.
	CategorySeries struct {
		CategoryID int64
		Name       string
		Type       core.EntryType
		Values     []core.Money
	}

	// DashboardReport groups a date range of entries by category and by
	// month bucket for reporting.
	DashboardReport struct {
		Periods           []PeriodTotals
		IncomeByCategory  []CategoryTotal
		ExpenseByCategory []CategoryTotal
		Matrix            []CategorySeries
	}
)

// BuildDashboard aggregates entries dated within [from, to] into monthly
// buckets and category breakdowns. A positive boxID restricts the report to
// that box; zero means all boxes. Aggregation is a pure groupby-sum; months
// inside the range with no entries still appear with zero totals.
func BuildDashboard(entries []core.Entry, categories []core.Category, from, to core.Date, boxID int64) DashboardReport {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	periods := monthRange(from, to)
	index := make(map[Period]int, len(periods))
	report := DashboardReport{Periods: make([]PeriodTotals, len(periods))}
	for i, p := range periods {
		index[p] = i
		report.Periods[i] = PeriodTotals{Period: p}
	}

	type catKey struct {
		id  int64
		typ core.EntryType
	}
	series := map[catKey]*CategorySeries{}
	var seriesOrder []catKey
	catTotals := map[catKey]int64{}

	for _, e := range entries {
		if boxID > 0 && e.BoxID != boxID {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		p := Period{Year: e.Date.Year(), Month: e.Date.Month()}
		i, ok := index[p]
		if !ok {
			continue
		}
		pt := &report.Periods[i]
		switch e.Type {
		case core.Income:
			pt.Income = pt.Income.Add(e.Amount)
		case core.Expense:
			pt.Expense = pt.Expense.Add(e.Amount)
		}

		key := catKey{id: e.CategoryID, typ: e.Type}
		catTotals[key] += e.Amount.Cents
		row, ok := series[key]
		if !ok {
			row = &CategorySeries{
				CategoryID: e.CategoryID,
				Name:       names[e.CategoryID],
				Type:       e.Type,
				Values:     make([]core.Money, len(periods)),
			}
			series[key] = row
			seriesOrder = append(seriesOrder, key)
		}
		row.Values[i] = row.Values[i].Add(e.Amount)
	}

	for i := range report.Periods {
		pt := &report.Periods[i]
		pt.Net = pt.Income.Sub(pt.Expense)
	}

	for _, key := range seriesOrder {
		total := CategoryTotal{
			CategoryID: key.id,
			Name:       names[key.id],
			Total:      core.Money{Cents: catTotals[key]},
		}
		switch key.typ {
		case core.Income:
			report.IncomeByCategory = append(report.IncomeByCategory, total)
		case core.Expense:
			report.ExpenseByCategory = append(report.ExpenseByCategory, total)
		}
		report.Matrix = append(report.Matrix, *series[key])
	}
	sortCategoryTotals(report.IncomeByCategory)
	sortCategoryTotals(report.ExpenseByCategory)
	sort.SliceStable(report.Matrix, func(i, j int) bool {
		if report.Matrix[i].Type != report.Matrix[j].Type {
			return report.Matrix[i].Type == core.Income
		}
		return report.Matrix[i].Name < report.Matrix[j].Name
	})
	return report
}

// sortCategoryTotals orders breakdowns by descending amount, name as the
// tie breaker so output is deterministic.
func sortCategoryTotals(totals []CategoryTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Total.Cents != totals[j].Total.Cents {
			return totals[i].Total.Cents > totals[j].Total.Cents
		}
		return totals[i].Name < totals[j].Name
	})
}

// monthRange lists the month buckets from from's month to to's month
// inclusive, in chronological order.
func monthRange(from, to core.Date) []Period {
	var out []Period
	y, m := from.Year(), from.Month()
	for {
		p := Period{Year: y, Month: m}
		out = append(out, p)
		if y == to.Year() && m == to.Month() {
			break
		}
		m++
		if m > 12 {
			m = 1
			y++
		}
		if y > to.Year() || (y == to.Year() && m > to.Month()) {
			break
		}
	}
	return out
}
