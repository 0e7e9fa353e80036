package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackson973/projeto-indicadores-sub001/internal/core"
	"github.com/jackson973/projeto-indicadores-sub001/internal/export"
)

func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
	boxID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	year, month, err := parseYearMonth(r, s.svc.Today())
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	key := fmt.Sprintf("statement:%d:%04d-%02d", boxID, year, month)
	if cached, found := s.statementCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	st, err := s.svc.MonthStatement(r.Context(), boxID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view := toStatementView(st)
	s.statementCache.Set(key, view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	boxID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	snap, err := s.svc.Alerts(r.Context(), boxID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlertsView(snap))
}

// handleExportCSV streams one box-month as CSV, resolving box and category
// ids to names.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	boxID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
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
	boxes, err := s.svc.ListBoxes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	categories, err := s.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	boxNames := make(map[int64]string, len(boxes))
	for _, b := range boxes {
		boxNames[b.ID] = b.Name
	}
	categoryNames := make(map[int64]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="entries-%d-%04d-%02d.csv"`, boxID, year, month))
	_, _ = w.Write([]byte(export.EntriesCSV(entries, boxNames, categoryNames)))
}

type openingBalanceRequest struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Amount string `json:"amount"`
}

func (s *Server) handleSetOpeningBalance(w http.ResponseWriter, r *http.Request) {
	boxID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req openingBalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	// Opening balances may legitimately be negative, so the amount is parsed
	// with an explicit sign rather than through Money validation.
	negative := strings.HasPrefix(strings.TrimSpace(req.Amount), "-")
	amount, err := parseAmount(strings.TrimPrefix(strings.TrimSpace(req.Amount), "-"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if negative {
		amount.Cents = -amount.Cents
	}

	ob := core.OpeningBalance{BoxID: boxID, Year: req.Year, Month: req.Month, Amount: amount}
	if err := s.svc.SetOpeningBalance(r.Context(), ob); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusOK, map[string]any{
		"box_id":       boxID,
		"year":         req.Year,
		"month":        req.Month,
		"amount_cents": amount.Cents,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseDateField(q.Get("from"), "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDateField(q.Get("to"), "to")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var boxID int64
	if v := strings.TrimSpace(q.Get("box_id")); v != "" {
		boxID, err = strconv.ParseInt(v, 10, 64)
		if err != nil || boxID <= 0 {
			writeBadRequest(w, "invalid box_id")
			return
		}
	}

	key := fmt.Sprintf("dashboard:%d:%s:%s", boxID, from, to)
	if cached, found := s.dashboardCache.Get(key); found {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	report, err := s.svc.Dashboard(r.Context(), boxID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view := toDashboardView(report, boxID, from, to)
	s.dashboardCache.Set(key, view)
	writeJSON(w, http.StatusOK, view)
}
