package http

import (
	"log/slog"
	"net/http"

	"github.com/jackson973/projeto-indicadores-sub001/internal/sheets"
)

// handleImportCheck runs period detection and duplicate flagging against
// the configured spreadsheet source without writing anything. The result
// is advisory; a flagged period never blocks a later import.
func (s *Server) handleImportCheck(w http.ResponseWriter, r *http.Request) {
	boxID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if s.reader == nil {
		writeBadRequest(w, "no spreadsheet source configured")
		return
	}
	ss, err := s.reader.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	warning, periods, err := s.svc.CheckImport(r.Context(), boxID, ss)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toImportCheckView(warning, periods))
}

// handleImport parses every sheet of the configured source and bulk-creates
// the rows that parse cleanly. Unparseable rows are skipped and reported;
// the import itself is strictly additive.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	boxID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if s.reader == nil {
		writeBadRequest(w, "no spreadsheet source configured")
		return
	}
	ss, err := s.reader.Read(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	categories, err := s.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	categoryIDs := make(map[string]int64, len(categories))
	for _, c := range categories {
		categoryIDs[c.Name] = c.ID
	}

	var result importResultView
	for _, sheet := range ss.Sheets {
		entries, problems := sheets.ParseEntries(sheet, categoryIDs)
		result.Skipped = append(result.Skipped, problems...)
		if len(entries) == 0 {
			continue
		}
		created, err := s.svc.ImportEntries(r.Context(), boxID, entries)
		if err != nil {
			writeError(w, r, err)
			return
		}
		result.Imported += created
	}

	s.invalidate()
	slog.InfoContext(r.Context(), "Spreadsheet import complete",
		"box_id", boxID,
		"imported", result.Imported,
		"skipped", len(result.Skipped))
	writeJSON(w, http.StatusOK, result)
}
