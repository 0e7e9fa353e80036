// Package sheets defines the neutral tabular spreadsheet structure the
// import pipeline works on, plus the ports its sources implement.
package sheets

import "context"

type (
	// Sheet is one named tab: a 2-D grid of cell texts. Row 0 is reserved
	// for an optional title used in period detection.
	Sheet struct {
		Name string
		Rows [][]string
	}

	// Spreadsheet is an ordered collection of named sheets.
	Spreadsheet struct {
		Sheets []Sheet
	}
)

// SpreadsheetReader fetches a whole spreadsheet into the neutral grid form.
type SpreadsheetReader interface {
	Read(ctx context.Context) (Spreadsheet, error)
}

// TitleRow returns the sheet's first row, or nil for an empty sheet.
func (s Sheet) TitleRow() []string {
	if len(s.Rows) == 0 {
		return nil
	}
	return s.Rows[0]
}
