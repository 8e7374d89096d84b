package server

import (
	"net/http"

	"github.com/jonathan/interview-coach/internal/types"
)

type reportResponse struct {
	ReportURL string `json:"report_url"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.ReportRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	url, err := s.reports.Generate(r.Context(), userID, req.InterviewID, req.ResumeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, reportResponse{ReportURL: url})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "interviewId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	url, err := s.reports.Get(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, reportResponse{ReportURL: url})
}
