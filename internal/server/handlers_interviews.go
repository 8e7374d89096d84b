package server

import (
	"net/http"

	"github.com/jonathan/interview-coach/internal/types"
)

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.StartInterviewRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var session *types.InterviewSession
	var err error
	if req.JobDescription == "" && req.JobURL != "" {
		session, err = s.interviews.StartFromPosting(r.Context(), userID, req.Role, req.JobURL)
	} else {
		session, err = s.interviews.StartInterview(r.Context(), userID, req.Role, req.JobDescription)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, session)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.SubmitAnswerRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.interviews.SubmitAnswer(r.Context(), userID, req.SessionID, *req.QuestionIndex, req.Answer, req.AudioURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleGenerateFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.FeedbackRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.interviews.GenerateFeedback(r.Context(), userID, req.SessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	sessions, err := s.interviews.ListSessions(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []types.InterviewSession{}
	}
	s.jsonResponse(w, http.StatusOK, sessions)
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.interviews.GetSession(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}
