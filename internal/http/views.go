package http

import (
	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
	"github.com/jackson973/projeto-indicadores-sub001/internal/services"
)

// JSON projections of the domain types. Amounts are exposed both as raw
// cents and as a formatted decimal string.

type boxView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type categoryView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Preset bool   `json:"preset"`
}

type entryView struct {
	ID           int64  `json:"id"`
	BoxID        int64  `json:"box_id"`
	CategoryID   int64  `json:"category_id"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	AmountCents  int64  `json:"amount_cents"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	RecurrenceID int64  `json:"recurrence_id,omitempty"`
}

type recurrenceView struct {
	ID          int64  `json:"id"`
	BoxID       int64  `json:"box_id"`
	CategoryID  int64  `json:"category_id"`
	Description string `json:"description"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Frequency   string `json:"frequency"`
	DayOfMonth  int    `json:"day_of_month,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Installment bool   `json:"installment"`
}

type statementLineView struct {
	Entry        entryView `json:"entry"`
	BalanceCents int64     `json:"balance_cents"`
}

type dailyBalanceView struct {
	Date         string `json:"date"`
	BalanceCents int64  `json:"balance_cents"`
}

type statementView struct {
	OpeningCents      int64               `json:"opening_cents"`
	Lines             []statementLineView `json:"lines"`
	Daily             []dailyBalanceView  `json:"daily"`
	TotalIncomeCents  int64               `json:"total_income_cents"`
	TotalExpenseCents int64               `json:"total_expense_cents"`
	NetResultCents    int64               `json:"net_result_cents"`
	ClosingCents      int64               `json:"closing_cents"`
}

type alertsView struct {
	Overdue      []entryView `json:"overdue"`
	DueToday     []entryView `json:"due_today"`
	ReferenceDay string      `json:"reference_day"`
	IsWeekend    bool        `json:"is_weekend"`
}

type periodTotalsView struct {
	Period       string `json:"period"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
	NetCents     int64  `json:"net_cents"`
}

type categoryTotalView struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	TotalCents int64  `json:"total_cents"`
}

type categorySeriesView struct {
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	ValuesCents []int64 `json:"values_cents"`
}

type dashboardView struct {
	BoxID             int64                `json:"box_id,omitempty"`
	From              string               `json:"from"`
	To                string               `json:"to"`
	Periods           []periodTotalsView   `json:"periods"`
	IncomeByCategory  []categoryTotalView  `json:"income_by_category"`
	ExpenseByCategory []categoryTotalView  `json:"expense_by_category"`
	Matrix            []categorySeriesView `json:"matrix"`
}

type periodCountView struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

type importCheckView struct {
	Warning       bool              `json:"warning"`
	Existing      []periodCountView `json:"existing,omitempty"`
	UnknownPeriod bool              `json:"unknown_period"`
	Periods       []string          `json:"periods,omitempty"`
}

type importResultView struct {
	Imported int64    `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

func toBoxView(b core.Box) boxView {
	return boxView{ID: b.ID, Name: b.Name}
}

func toCategoryView(c core.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Preset: c.Preset}
}

func toEntryView(e core.Entry) entryView {
	return entryView{
		ID:           e.ID,
		BoxID:        e.BoxID,
		CategoryID:   e.CategoryID,
		Description:  e.Description,
		Type:         string(e.Type),
		AmountCents:  e.Amount.Cents,
		Amount:       e.Amount.String(),
		Date:         e.Date.String(),
		Status:       string(e.Status),
		RecurrenceID: e.RecurrenceID,
	}
}

func toEntryViews(entries []core.Entry) []entryView {
	out := make([]entryView, len(entries))
	for i, e := range entries {
		out[i] = toEntryView(e)
	}
	return out
}

func toRecurrenceView(rec core.Recurrence) recurrenceView {
	v := recurrenceView{
		ID:          rec.ID,
		BoxID:       rec.BoxID,
		CategoryID:  rec.CategoryID,
		Description: rec.Description,
		Type:        string(rec.Type),
		AmountCents: rec.Amount.Cents,
		Amount:      rec.Amount.String(),
		Frequency:   string(rec.Frequency),
		DayOfMonth:  rec.DayOfMonth,
		StartDate:   rec.StartDate.String(),
		Installment: rec.Installment,
	}
	if !rec.EndDate.IsZero() {
		v.EndDate = rec.EndDate.String()
	}
	return v
}

func toStatementView(st services.Statement) statementView {
	v := statementView{
		OpeningCents:      st.Opening.Cents,
		Lines:             make([]statementLineView, len(st.Lines)),
		Daily:             make([]dailyBalanceView, len(st.Daily)),
		TotalIncomeCents:  st.TotalIncome.Cents,
		TotalExpenseCents: st.TotalExpense.Cents,
		NetResultCents:    st.NetResult.Cents,
		ClosingCents:      st.Closing.Cents,
	}
	for i, line := range st.Lines {
		v.Lines[i] = statementLineView{Entry: toEntryView(line.Entry), BalanceCents: line.Balance.Cents}
	}
	for i, day := range st.Daily {
		v.Daily[i] = dailyBalanceView{Date: day.Date.String(), BalanceCents: day.Balance.Cents}
	}
	return v
}

func toAlertsView(snap services.AlertSnapshot) alertsView {
	return alertsView{
		Overdue:      toEntryViews(snap.Overdue),
		DueToday:     toEntryViews(snap.DueToday),
		ReferenceDay: snap.ReferenceDay.String(),
		IsWeekend:    snap.IsWeekend,
	}
}

func toDashboardView(rep services.DashboardReport, boxID int64, from, to core.Date) dashboardView {
	v := dashboardView{
		BoxID:   boxID,
		From:    from.String(),
		To:      to.String(),
		Periods: make([]periodTotalsView, len(rep.Periods)),
		Matrix:  make([]categorySeriesView, len(rep.Matrix)),
	}
	for i, t := range rep.Periods {
		v.Periods[i] = periodTotalsView{
			Period:       t.Period.String(),
			IncomeCents:  t.Income.Cents,
			ExpenseCents: t.Expense.Cents,
			NetCents:     t.Net.Cents,
		}
	}
	v.IncomeByCategory = toCategoryTotalViews(rep.IncomeByCategory)
	v.ExpenseByCategory = toCategoryTotalViews(rep.ExpenseByCategory)
	for i, s := range rep.Matrix {
		values := make([]int64, len(s.Values))
		for j, m := range s.Values {
			values[j] = m.Cents
		}
		v.Matrix[i] = categorySeriesView{
			CategoryID:  s.CategoryID,
			Name:        s.Name,
			Type:        string(s.Type),
			ValuesCents: values,
		}
	}
	return v
}

func toImportCheckView(w services.ReconciliationWarning, periods []services.Period) importCheckView {
	v := importCheckView{Warning: !w.Empty(), UnknownPeriod: w.UnknownPeriod}
	for _, pc := range w.Existing {
		v.Existing = append(v.Existing, periodCountView{Period: pc.Period.String(), Count: pc.Count})
	}
	for _, p := range periods {
		v.Periods = append(v.Periods, p.String())
	}
	return v
}

func toCategoryTotalViews(totals []services.CategoryTotal) []categoryTotalView {
	out := make([]categoryTotalView, len(totals))
	for i, t := range totals {
		out[i] = categoryTotalView{
			CategoryID: t.CategoryID,
			Name:       t.Name,
			TotalCents: t.Total.Cents,
		}
	}
	return out
}
