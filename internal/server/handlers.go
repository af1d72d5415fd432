package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IntakeRequest represents the request body for /intake
type IntakeRequest struct {
	Text string `json:"text" validate:"required"`
}

// IntakeResponse represents the response for /intake
type IntakeResponse struct {
	SessionID string `json:"session_id"`
}

// DecisionRequest represents the request body for /decision
type DecisionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Action    string `json:"action" validate:"required"`
	Text      string `json:"text,omitempty"`
}

// RegenerateRequest represents the request body for /plan/{id}/regenerate
type RegenerateRequest struct {
	Force bool `json:"force"`
}

// handleIntake creates a new session from raw requirement text
func (s *Server) handleIntake(w http.ResponseWriter, r *http.Request) {
	var req IntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	sessionID, err := s.store.CreateSession(r.Context(), req.Text)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create session: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, IntakeResponse{SessionID: sessionID})
}

// handleProposal advances a session to its presentable proposal
func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	proposal, err := s.engine.RunProposal(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, proposal)
}

// handleDecision applies an edit/approve/reset decision to a session
func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "session_id and action are required")
		return
	}

	proposal, err := s.engine.ApplyDecision(r.Context(), req.SessionID, req.Action, req.Text)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, proposal)
}

// handlePlan returns the materialized plan for an approved session
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	pkg, err := s.plans.Get(r.Context(), sessionID, false)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, pkg)
}

// handleRegeneratePlan forces a fresh generation pass for a stored plan
func (s *Server) handleRegeneratePlan(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	var req RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if !req.Force {
		s.errorResponse(w, http.StatusBadRequest, "force must be true")
		return
	}

	pkg, err := s.plans.Get(r.Context(), sessionID, true)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, pkg)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
