package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
)

type entryRequest struct {
	BoxID       int64  `json:"box_id"`
	CategoryID  int64  `json:"category_id"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Status      string `json:"status"`
}

func (req entryRequest) toEntry() (core.Entry, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Entry{}, err
	}
	date, err := parseDateField(req.Date, "date")
	if err != nil {
		return core.Entry{}, err
	}
	status := core.EntryStatus(req.Status)
	if req.Status == "" {
		status = core.Pending
	}
	return core.Entry{
		BoxID:       req.BoxID,
		CategoryID:  req.CategoryID,
		Description: sanitizeInput(req.Description),
		Type:        core.EntryType(req.Type),
		Amount:      amount,
		Date:        date,
		Status:      status,
	}, nil
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	boxID, err := strconv.ParseInt(r.URL.Query().Get("box_id"), 10, 64)
	if err != nil || boxID <= 0 {
		writeBadRequest(w, "box_id query parameter is required")
		return
	}
	year, month, err := parseYearMonth(r, s.svc.Today())
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	entries, err := s.svc.ListEntriesForMonth(r.Context(), boxID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryViews(entries))
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	entry, err := req.toEntry()
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.CreateEntry(r.Context(), entry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate()
	slog.InfoContext(r.Context(), "Entry created",
		"entry_id", created.ID,
		"box_id", created.BoxID,
		"amount_cents", created.Amount.Cents,
		"type", string(created.Type))
	writeJSON(w, http.StatusCreated, toEntryView(created))
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	entry, err := req.toEntry()
	if err != nil {
		writeError(w, r, err)
		return
	}
	entry.ID = id
	if err := s.svc.UpdateEntry(r.Context(), entry); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusOK, toEntryView(entry))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.svc.DeleteEntry(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}

type recurrenceRequest struct {
	BoxID       int64  `json:"box_id"`
	CategoryID  int64  `json:"category_id"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Frequency   string `json:"frequency"`
	DayOfMonth  int    `json:"day_of_month"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Installment bool   `json:"installment"`
}

func (req recurrenceRequest) toRecurrence() (core.Recurrence, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Recurrence{}, err
	}
	start, err := parseDateField(req.StartDate, "start_date")
	if err != nil {
		return core.Recurrence{}, err
	}
	end, err := parseOptionalDate(req.EndDate, "end_date")
	if err != nil {
		return core.Recurrence{}, err
	}
	return core.Recurrence{
		BoxID:       req.BoxID,
		CategoryID:  req.CategoryID,
		Description: sanitizeInput(req.Description),
		Type:        core.EntryType(req.Type),
		Amount:      amount,
		Frequency:   core.Frequency(req.Frequency),
		DayOfMonth:  req.DayOfMonth,
		StartDate:   start,
		EndDate:     end,
		Installment: req.Installment,
	}, nil
}

func (s *Server) handleListRecurrences(w http.ResponseWriter, r *http.Request) {
	var boxID int64
	if v := strings.TrimSpace(r.URL.Query().Get("box_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeBadRequest(w, "invalid box_id")
			return
		}
		boxID = id
	}
	recurrences, err := s.svc.ListRecurrences(r.Context(), boxID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]recurrenceView, len(recurrences))
	for i, rec := range recurrences {
		out[i] = toRecurrenceView(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateRecurrence(w http.ResponseWriter, r *http.Request) {
	var req recurrenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	rec, err := req.toRecurrence()
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.svc.CreateRecurrence(r.Context(), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "Recurrence created",
		"recurrence_id", created.ID,
		"box_id", created.BoxID,
		"frequency", string(created.Frequency))
	writeJSON(w, http.StatusCreated, toRecurrenceView(created))
}

func (s *Server) handleUpdateRecurrence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req recurrenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	rec, err := req.toRecurrence()
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec.ID = id
	if err := s.svc.UpdateRecurrence(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurrenceView(rec))
}

func (s *Server) handleDeleteRecurrence(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.svc.DeleteRecurrence(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type materializeRequest struct {
	BoxID int64 `json:"box_id"`
	Year  int   `json:"year"`
	Month int   `json:"month"`
}

// handleMaterialize expands recurrences into concrete entries for one
// month. BoxID zero means every box. Re-running is safe.
func (s *Server) handleMaterialize(w http.ResponseWriter, r *http.Request) {
	var req materializeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	today := s.svc.Today()
	if req.Year == 0 {
		req.Year = today.Year()
	}
	if req.Month == 0 {
		req.Month = today.Month()
	}
	if req.Month < 1 || req.Month > 12 {
		writeBadRequest(w, "invalid month")
		return
	}
	created, err := s.svc.MaterializeMonth(r.Context(), req.BoxID, req.Year, req.Month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusOK, map[string]int{"created": created})
}
