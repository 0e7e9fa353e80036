package sheets

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

// ParseEntries maps a sheet's grid into entries, best effort. Expected
// columns per row: date, description, category name, type, amount. The
// title row and any row that does not parse are skipped and reported in
// the problems list rather than failing the whole sheet.
//
// Dates accept DD/MM/YYYY and YYYY-MM-DD. Types accept the engine values
// plus the Portuguese labels "receita" and "despesa". Category names are
// resolved through the provided map; unknown names are reported.
func ParseEntries(s Sheet, categories map[string]int64) ([]core.Entry, []string) {
	var (
		entries  []core.Entry
		problems []string
	)
	for i, row := range s.Rows {
		if i == 0 {
			// Reserved for the title used in period detection.
			continue
		}
		if isBlankRow(row) || isHeaderRow(row) {
			continue
		}
		e, err := parseRow(row, categories)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s row %d: %v", s.Name, i+1, err))
			continue
		}
		entries = append(entries, e)
	}
	return entries, problems
}

func parseRow(row []string, categories map[string]int64) (core.Entry, error) {
	if len(row) < 5 {
		return core.Entry{}, fmt.Errorf("expected 5 columns, got %d", len(row))
	}
	date, err := parseCellDate(row[0])
	if err != nil {
		return core.Entry{}, err
	}
	description := strings.TrimSpace(row[1])
	if description == "" {
		return core.Entry{}, fmt.Errorf("empty description")
	}
	categoryName := strings.TrimSpace(row[2])
	categoryID, ok := categories[categoryName]
	if !ok {
		return core.Entry{}, fmt.Errorf("unknown category %q", categoryName)
	}
	typ, err := parseCellType(row[3])
	if err != nil {
		return core.Entry{}, err
	}
	cents, err := core.ParseDecimalToCents(row[4])
	if err != nil {
		return core.Entry{}, fmt.Errorf("amount %q: %w", row[4], err)
	}
	return core.Entry{
		CategoryID:  categoryID,
		Description: description,
		Type:        typ,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Status:      core.Pending,
	}, nil
}

func parseCellDate(cell string) (core.Date, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, cell); err == nil {
			return core.Date{Time: t.UTC()}, nil
		}
	}
	return core.Date{}, fmt.Errorf("unrecognized date %q", cell)
}

func parseCellType(cell string) (core.EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "income", "receita", "entrada":
		return core.Income, nil
	case "expense", "despesa", "saida", "saída":
		return core.Expense, nil
	}
	return "", fmt.Errorf("unrecognized type %q", cell)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "data" || first == "date"
}
