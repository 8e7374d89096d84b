package server

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jonathan/interview-coach/internal/resume"
	"github.com/jonathan/interview-coach/internal/types"
)

// multipartOverhead is allowed on top of the file limit for form framing.
const multipartOverhead = 1 << 20

// handleUploadResume accepts a multipart form with the file in "resume".
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, resume.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, &types.ValidationError{Field: "resume", Message: "file exceeds the 10MB limit"})
			return
		}
		s.writeError(w, r, &types.ValidationError{Field: "resume", Message: "expected a multipart form upload"})
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Printf("[resume] failed to remove multipart temp files: %v", err)
		}
	}()

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.writeError(w, r, &types.ValidationError{Field: "resume", Message: "no file uploaded"})
		return
	}
	defer file.Close()

	created, err := s.resumes.Upload(r.Context(), userID, resume.FileUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleATSScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.ATSScoreRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	analyzed, err := s.resumes.AnalyzeForRole(r.Context(), userID, req.ResumeID, req.Role)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analyzed)
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	resumes, err := s.resumes.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resumes == nil {
		resumes = []types.Resume{}
	}
	s.jsonResponse(w, http.StatusOK, resumes)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	found, err := s.resumes.Get(r.Context(), userID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, found)
}

// handleDownloadUpload serves a stored resume file to its owner only.
func (s *Server) handleDownloadUpload(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.currentUser(w, r)
		if !ok {
			return
		}
		name := r.PathValue("name")
		owner, ok := resume.OwnerOf(name)
		if !ok {
			s.errorResponse(w, http.StatusNotFound, "file not found")
			return
		}
		if owner != userID {
			s.writeError(w, r, &types.ForbiddenError{})
			return
		}

		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			s.errorResponse(w, http.StatusNotFound, "file not found")
			return
		}
		http.ServeFile(w, r, path)
	}
}
