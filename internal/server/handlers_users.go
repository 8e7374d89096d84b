package server

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/export"
	"github.com/jonathan/interview-coach/internal/server/middleware"
	"github.com/jonathan/interview-coach/internal/types"
)

// currentUser returns the authenticated user id. Routes behind the auth
// middleware always carry one.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "not authorized")
		return uuid.Nil, false
	}
	return userID, true
}

// issueToken responds with the user and a fresh token.
func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, status int, user *types.User) {
	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, status, types.LoginResponse{User: user, Token: token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Printf("[users] registered %s", user.ID)
	s.issueToken(w, r, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Login(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.issueToken(w, r, http.StatusOK, user)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	user, err := s.users.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.UpdateProfileRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.issueToken(w, r, http.StatusOK, user)
}

func (s *Server) handleGetPerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	metrics, err := s.users.Performance(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, metrics)
}

// handleExportPerformance streams the metrics as an xlsx workbook. The
// workbook is built in memory so a failure can still produce an error status.
func (s *Server) handleExportPerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	user, err := s.users.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	metrics, err := s.users.Performance(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WritePerformance(&buf, user, metrics, s.now()); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="performance-%s.xlsx"`, s.now().Format("20060102")))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[users] export write failed: %v", err)
	}
}
