package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/persona-screener/internal/persona"
)

// createPersonaRequest is the POST /personas body. Raw weights are accepted;
// the server normalizes them before storing.
type createPersonaRequest struct {
	Name       string             `json:"name" validate:"required"`
	Categories []persona.Category `json:"categories" validate:"required,min=1"`
}

// correctionsRequest is the POST /personas/{id}/corrections body.
type correctionsRequest struct {
	Categories    map[string]int            `json:"categories"`
	Subcategories map[string]map[string]int `json:"subcategories"`
}

// scoreRequest is the POST /score body.
type scoreRequest struct {
	PersonaID string `json:"persona_id" validate:"required,uuid"`
	Document  string `json:"document" validate:"required"`
}

// scoreResponse wraps a stored scoring envelope with its ID.
type scoreResponse struct {
	ID     uuid.UUID `json:"id"`
	Result any       `json:"result"`
}

// handleCreatePersona normalizes and stores a new persona. Weights may arrive
// as arbitrary non-negative values; they are forced to sum to 100 at both
// hierarchy levels before validation.
func (s *Server) handleCreatePersona(w http.ResponseWriter, r *http.Request) {
	var req createPersonaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	p := &persona.Persona{Name: req.Name, Categories: req.Categories}
	if err := p.Normalize(s.weightFloor); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := p.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := s.store.CreatePersona(r.Context(), p)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	p.ID = id

	s.jsonResponse(w, http.StatusCreated, p)
}

// handleGetPersona returns a persona with its full category tree.
func (s *Server) handleGetPersona(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid persona ID")
		return
	}

	p, err := s.store.GetPersona(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if p == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "persona", ID: id}).Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, p)
}

// handleListPersonas returns recent personas without category trees.
func (s *Server) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListPersonas(r.Context(), 50)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"personas": records})
}

// handleDeletePersona removes a persona and its scores.
func (s *Server) handleDeletePersona(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid persona ID")
		return
	}

	if err := s.store.DeletePersona(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleApplyCorrections applies a partial weight-correction pass to a stored
// persona. Touching more than half the categories triggers a full
// renormalization; otherwise corrected categories are locked and the rest are
// scaled into the remaining budget.
func (s *Server) handleApplyCorrections(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid persona ID")
		return
	}

	var req correctionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	p, err := s.store.GetPersona(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if p == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "persona", ID: id}).Error())
		return
	}

	corrections := persona.Corrections{
		Categories:    req.Categories,
		Subcategories: req.Subcategories,
	}
	if err := p.ApplyCorrections(corrections, s.weightFloor); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.store.UpdatePersona(r.Context(), p); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, p)
}

// handleScore runs the cascade for a stored persona against a document and
// persists the envelope. A rejection is a 200 with a rejection body; only
// validation and provider failures are error statuses.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	personaID, err := uuid.Parse(req.PersonaID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid persona ID")
		return
	}

	p, err := s.store.GetPersona(r.Context(), personaID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if p == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "persona", ID: personaID}).Error())
		return
	}

	result, err := s.scorer.Score(r.Context(), p, req.Document)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id, err := s.store.SaveScore(r.Context(), personaID, result)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, scoreResponse{ID: id, Result: result})
}

// handleGetScore returns a stored scoring envelope.
func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid score ID")
		return
	}

	record, err := s.store.GetScore(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrNotFound{Resource: "score", ID: id}).Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleListPersonaScores returns recent scoring attempts for a persona.
func (s *Server) handleListPersonaScores(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid persona ID")
		return
	}

	records, err := s.store.ListScoresByPersona(r.Context(), id, 50)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"scores": records})
}
