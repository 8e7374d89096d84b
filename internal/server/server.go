// Package server provides the HTTP REST API for the interview coach.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/progression"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/report"
	"github.com/jonathan/interview-coach/internal/resume"
	"github.com/jonathan/interview-coach/internal/scoring"
	"github.com/jonathan/interview-coach/internal/server/middleware"
	"github.com/jonathan/interview-coach/internal/server/ratelimit"
	"github.com/jonathan/interview-coach/internal/store"
)

// Options wires the server's dependencies. Store, Files, JWT and Password
// are required; Questions and Scorer fall back to the template generator and
// the random provider.
type Options struct {
	Port          int
	Store         store.Store
	Questions     questions.Generator
	Scorer        scoring.ScoreProvider
	Postings      interview.PostingSource // nil disables job_url
	Files         resume.FileStore
	UploadDir     string // served under /uploads/ when set
	QuestionCount int
	JWT           *config.JWTConfig
	Password      *config.PasswordConfig
	RateLimit     *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       store.Store
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	validator   *validator.Validate
	now         func() time.Time

	users      *UserService
	interviews *interview.Service
	resumes    *resume.Service
	reports    *report.Service
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	switch {
	case opts.Store == nil:
		return nil, errors.New("server: store is required")
	case opts.Files == nil:
		return nil, errors.New("server: file store is required")
	case opts.JWT == nil || opts.Password == nil:
		return nil, errors.New("server: auth configuration is required")
	}

	gen := opts.Questions
	if gen == nil {
		tmpl, err := questions.NewTemplateGenerator()
		if err != nil {
			return nil, fmt.Errorf("failed to load question templates: %w", err)
		}
		gen = tmpl
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = scoring.NewRandomProvider()
	}

	progress := progression.NewService(opts.Store)
	s := &Server{
		store:       opts.Store,
		rateLimiter: ratelimit.NewLimiter(opts.RateLimit),
		jwtService:  NewJWTService(opts.JWT),
		validator:   newValidator(),
		now:         time.Now,
		users:       NewUserService(opts.Store, opts.Password),
		interviews: interview.NewService(interview.Options{
			Sessions:      opts.Store,
			Postings:      opts.Postings,
			Questions:     gen,
			Scorer:        scorer,
			Progress:      progress,
			QuestionCount: opts.QuestionCount,
		}),
		resumes: resume.NewService(resume.Options{
			Resumes:  opts.Store,
			Accounts: opts.Store,
			Files:    opts.Files,
			Scorer:   scorer,
			Progress: progress,
		}),
		reports: report.NewService(opts.Store, opts.Store),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.routes(opts.UploadDir),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(uploadDir string) http.Handler {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Accounts
	mux.HandleFunc("POST /users/register", s.handleRegister)
	mux.HandleFunc("POST /users/login", s.handleLogin)
	mux.Handle("GET /users/profile", protected(s.handleGetProfile))
	mux.Handle("PUT /users/profile", protected(s.handleUpdateProfile))
	mux.Handle("GET /users/performance", protected(s.handleGetPerformance))
	mux.Handle("GET /users/performance/export", protected(s.handleExportPerformance))
	mux.Handle("GET /dashboard", protected(s.handleDashboard))

	// Interviews
	mux.Handle("POST /interviews/start", protected(s.handleStartInterview))
	mux.Handle("POST /interviews/submit-answer", protected(s.handleSubmitAnswer))
	mux.Handle("POST /interviews/feedback", protected(s.handleGenerateFeedback))
	mux.Handle("GET /interviews", protected(s.handleListInterviews))
	mux.Handle("GET /interviews/{id}", protected(s.handleGetInterview))

	// Resumes
	mux.Handle("POST /resumes/upload", protected(s.handleUploadResume))
	mux.Handle("POST /resumes/ats-score", protected(s.handleATSScore))
	mux.Handle("GET /resumes", protected(s.handleListResumes))
	mux.Handle("GET /resumes/{id}", protected(s.handleGetResume))

	// Reports
	mux.Handle("POST /reports/pdf", protected(s.handleGenerateReport))
	mux.Handle("GET /reports/{interviewId}", protected(s.handleGetReport))

	if uploadDir != "" {
		mux.Handle("GET /uploads/{name}", protected(s.handleDownloadUpload(uploadDir)))
	}

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Handler returns the root handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("[server] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	log.Println("[server] stopped")
	return nil
}

// Close releases background resources without serving. Used by tests.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their endpoint budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate limit exceeded",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if secs := int(info.RetryAfter.Seconds()); secs > 0 {
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	log.Printf("[rate-limit] limit exceeded: limit=%d retry_after=%v", info.Limit, info.RetryAfter)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
