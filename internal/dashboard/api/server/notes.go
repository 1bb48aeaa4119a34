package server

import (
	"net/http"

	"github.com/Leopold1975/crypto_dashboard/internal/dashboard/services/noteservice"
)

// (GET /v1/tags).
func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.noteService.ListTags(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, tags)
}

// (POST /v1/tags).
func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var req noteservice.TagRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	t, err := s.noteService.CreateTag(r.Context(), userID(r), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, t)
}

// (PATCH /v1/tags/{tagID}).
func (s *Server) renameTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tagID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	var req noteservice.TagRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	t, err := s.noteService.RenameTag(r.Context(), userID(r), id, req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, t)
}

// (DELETE /v1/tags/{tagID}).
func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "tagID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.noteService.DeleteTag(r.Context(), userID(r), id); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// (GET /v1/notes).
func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	req := noteservice.ListNotesRequest{UserID: userID(r)} //nolint:exhaustruct

	var err error

	if req.TagID, err = queryInt64(r, "tag"); err != nil {
		s.writeError(w, err)

		return
	}

	if req.Query, err = queryString(r, "q"); err != nil {
		s.writeError(w, err)

		return
	}

	if req.Limit, err = queryInt(r, "limit"); err != nil {
		s.writeError(w, err)

		return
	}

	if req.Offset, err = queryInt(r, "offset"); err != nil {
		s.writeError(w, err)

		return
	}

	notes, err := s.noteService.ListNotes(r.Context(), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// (POST /v1/notes).
func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req noteservice.CreateNoteRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	n, err := s.noteService.CreateNote(r.Context(), userID(r), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, n)
}

// (GET /v1/notes/{noteID}).
func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "noteID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	n, err := s.noteService.GetNote(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, n)
}

// (PATCH /v1/notes/{noteID}).
func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "noteID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	var req noteservice.UpdateNoteRequest

	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	n, err := s.noteService.UpdateNote(r.Context(), userID(r), id, req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, n)
}

// (DELETE /v1/notes/{noteID}).
func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "noteID")
	if err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.noteService.DeleteNote(r.Context(), userID(r), id); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
