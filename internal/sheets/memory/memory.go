// Package memory provides an in-memory spreadsheet source, used by tests
// and by local runs that feed the importer from already-parsed uploads.
package memory

import (
	"context"
	"sync"

	"github.com/jackson973/projeto-indicadores-sub001/internal/sheets"
)

type Store struct {
	mu sync.Mutex
	ss sheets.Spreadsheet
}

func New(ss sheets.Spreadsheet) *Store {
	return &Store{ss: ss}
}

// Read returns a deep copy so callers can never mutate the stored grid.
func (s *Store) Read(_ context.Context) (sheets.Spreadsheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := sheets.Spreadsheet{Sheets: make([]sheets.Sheet, len(s.ss.Sheets))}
	for i, sh := range s.ss.Sheets {
		rows := make([][]string, len(sh.Rows))
		for j, row := range sh.Rows {
			rows[j] = append([]string(nil), row...)
		}
		out.Sheets[i] = sheets.Sheet{Name: sh.Name, Rows: rows}
	}
	return out, nil
}

// Replace swaps the stored spreadsheet.
func (s *Store) Replace(ss sheets.Spreadsheet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ss = ss
}
