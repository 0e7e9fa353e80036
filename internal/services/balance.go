package services

import (
	"sort"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

type (
	// StatementLine pairs an entry with the running balance immediately
	// after it was applied. The balance is derived per call, never stored.
	StatementLine struct {
		Entry   core.Entry
		Balance core.Money
	}

	// DailyBalance is the balance at the end of one calendar day that had
	// at least one entry. Days without entries are omitted.
	DailyBalance struct {
		Date    core.Date
		Balance core.Money
	}

	// Statement is the reconciled view of one box over one month.
	Statement struct {
		Opening      core.Money
		Lines        []StatementLine
		Daily        []DailyBalance
		TotalIncome  core.Money
		TotalExpense core.Money
		NetResult    core.Money
		Closing      core.Money
	}
)

// BuildStatement computes running balances, the daily balance series and the
// period totals for a set of entries and a resolved opening balance.
//
// Entries are ordered by date ascending; same-day entries keep the relative
// order they were fetched in. The closing balance always satisfies
// opening + totalIncome - totalExpense.
func BuildStatement(opening core.Money, entries []core.Entry) Statement {
	sorted := make([]core.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	st := Statement{
		Opening: opening,
		Lines:   make([]StatementLine, 0, len(sorted)),
	}
	balance := opening
	for i, e := range sorted {
		switch e.Type {
		case core.Income:
			st.TotalIncome = st.TotalIncome.Add(e.Amount)
		case core.Expense:
			st.TotalExpense = st.TotalExpense.Add(e.Amount)
		}
		balance = core.Money{Cents: balance.Cents + e.Signed()}
		st.Lines = append(st.Lines, StatementLine{Entry: e, Balance: balance})

		lastOfDay := i == len(sorted)-1 || !sorted[i+1].Date.Equal(e.Date)
		if lastOfDay {
			st.Daily = append(st.Daily, DailyBalance{Date: e.Date, Balance: balance})
		}
	}
	st.NetResult = st.TotalIncome.Sub(st.TotalExpense)
	st.Closing = opening.Add(st.NetResult)
	return st
}
