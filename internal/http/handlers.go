package http

import (
	"log/slog"
	"net/http"
)

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListBoxes(w http.ResponseWriter, r *http.Request) {
	boxes, err := s.svc.ListBoxes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]boxView, len(boxes))
	for i, b := range boxes {
		out[i] = toBoxView(b)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBox(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	box, err := s.svc.CreateBox(r.Context(), sanitizeInput(req.Name))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate()
	slog.InfoContext(r.Context(), "Box created", "box_id", box.ID, "name", box.Name)
	writeJSON(w, http.StatusCreated, toBoxView(box))
}

func (s *Server) handleRenameBox(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := s.svc.RenameBox(r.Context(), id, sanitizeInput(req.Name)); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusOK, boxView{ID: id, Name: sanitizeInput(req.Name)})
}

func (s *Server) handleDeleteBox(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	cascade := r.URL.Query().Get("cascade") == "true"
	if err := s.svc.DeleteBox(r.Context(), id, cascade); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate()
	slog.InfoContext(r.Context(), "Box deleted", "box_id", id, "cascade", cascade)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]categoryView, len(categories))
	for i, c := range categories {
		out[i] = toCategoryView(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	category, err := s.svc.CreateCategory(r.Context(), sanitizeInput(req.Name))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryView(category))
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := s.svc.RenameCategory(r.Context(), id, sanitizeInput(req.Name)); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusOK, categoryView{ID: id, Name: sanitizeInput(req.Name)})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.svc.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
