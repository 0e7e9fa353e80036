package export

import (
	"strings"
	"testing"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

func TestEntriesCSVHeaderOnly(t *testing.T) {
	got := EntriesCSV(nil, nil, nil)
	want := `"id","box","category","description","type","amount","date","status"` + "\n"
	if got != want {
		t.Errorf("EntriesCSV() = %q, want %q", got, want)
	}
}

func TestEntriesCSVRows(t *testing.T) {
	entries := []core.Entry{
		{
			ID:          7,
			BoxID:       1,
			CategoryID:  2,
			Description: "Compra de material",
			Type:        core.Expense,
			Amount:      core.Money{Cents: 123456},
			Date:        core.NewDate(2025, 3, 10),
			Status:      core.Settled,
		},
	}
	boxNames := map[int64]string{1: "Caixa Principal"}
	categoryNames := map[int64]string{2: "Fornecedores"}

	got := EntriesCSV(entries, boxNames, categoryNames)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	want := `"7","Caixa Principal","Fornecedores","Compra de material","expense","1234.56","2025-03-10","settled"`
	if lines[1] != want {
		t.Errorf("row = %s, want %s", lines[1], want)
	}
}

func TestEntriesCSVQuotesAreDoubled(t *testing.T) {
	entries := []core.Entry{
		{
			ID:          1,
			BoxID:       1,
			CategoryID:  1,
			Description: `Pagamento "urgente", parcela 1`,
			Type:        core.Income,
			Amount:      core.Money{Cents: 100},
			Date:        core.NewDate(2025, 1, 1),
			Status:      core.Pending,
		},
	}
	got := EntriesCSV(entries, map[int64]string{1: "Caixa"}, map[int64]string{1: "Vendas"})

	if !strings.Contains(got, `"Pagamento ""urgente"", parcela 1"`) {
		t.Errorf("description quoting wrong in %q", got)
	}
	// Every field double-quoted: no bare comma separators inside the row.
	row := strings.Split(got, "\n")[1]
	if !strings.HasPrefix(row, `"`) || !strings.HasSuffix(row, `"`) {
		t.Errorf("row not fully quoted: %s", row)
	}
}

func TestEntriesCSVUnknownIDsFallBackToEmpty(t *testing.T) {
	entries := []core.Entry{
		{
			ID:          1,
			BoxID:       99,
			CategoryID:  88,
			Description: "x",
			Type:        core.Income,
			Amount:      core.Money{Cents: 1},
			Date:        core.NewDate(2025, 1, 1),
			Status:      core.Pending,
		},
	}
	got := EntriesCSV(entries, map[int64]string{}, map[int64]string{})
	if !strings.Contains(got, `"1","","","x"`) {
		t.Errorf("unknown ids should render empty names, got %q", got)
	}
}

func TestEntriesCSVLineCount(t *testing.T) {
	var entries []core.Entry
	for i := 1; i <= 5; i++ {
		entries = append(entries, core.Entry{
			ID:          int64(i),
			BoxID:       1,
			CategoryID:  1,
			Description: "e",
			Type:        core.Income,
			Amount:      core.Money{Cents: int64(i)},
			Date:        core.NewDate(2025, 1, i),
			Status:      core.Pending,
		})
	}
	got := EntriesCSV(entries, nil, nil)
	if n := strings.Count(got, "\n"); n != 6 {
		t.Errorf("got %d lines, want 6 (header plus one per entry)", n)
	}
}
