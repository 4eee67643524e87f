// Package server provides the HTTP REST API for parsing and managing résumés.
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
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/server/middleware"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
	"github.com/jonathan/resume-parser/internal/storage"
	"github.com/jonathan/resume-parser/internal/types"
)

// ResumeRepository persists parsed résumés. *db.DB implements it.
type ResumeRepository interface {
	SaveParsedResume(ctx context.Context, input *db.ParsedResumeInput) (*db.ParsedResumeRecord, error)
	GetParsedResume(ctx context.Context, id uuid.UUID) (*db.ParsedResumeRecord, error)
	ListParsedResumesByUser(ctx context.Context, userID uuid.UUID) ([]db.ParsedResumeRecord, error)
	UpdateParsedResume(ctx context.Context, id uuid.UUID, resume *types.ParsedResume) (*db.ParsedResumeRecord, error)
	DeleteParsedResume(ctx context.Context, id uuid.UUID) error
	Close()
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	resumes     ResumeRepository
	store       storage.Store
	llm         llm.Client
	jwtService  *JWTService
	rateLimiter *ratelimit.Limiter
	metrics     *observability.Metrics
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	// S3 enables storing uploaded originals when non-nil
	S3 *storage.S3Config
	// JWT enables bearer-token auth on /resumes and /users when non-nil
	JWT *config.JWTConfig
	// RateLimit defaults to ratelimit.LoadConfig()
	RateLimit *ratelimit.Config
}

// Deps are the collaborators of a Server. Nil fields disable the features
// that need them.
type Deps struct {
	Resumes ResumeRepository
	Store   storage.Store
	LLM     llm.Client
	JWT     *JWTService
	Limiter *ratelimit.Limiter
	Metrics *observability.Metrics
}

// New connects the configured backends and creates a server instance.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()
	var deps Deps

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		deps.Resumes = database
	} else {
		log.Printf("[server] DATABASE_URL not set, persistence endpoints disabled")
	}

	if cfg.S3 != nil {
		store, err := storage.NewS3Store(ctx, *cfg.S3)
		if err != nil {
			deps.close()
			return nil, fmt.Errorf("failed to create object store: %w", err)
		}
		deps.Store = store
	}

	if cfg.APIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.ConfigFromEnv(), cfg.APIKey)
		if err != nil {
			deps.close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		deps.LLM = client
	}

	if cfg.JWT != nil {
		deps.JWT = NewJWTService(cfg.JWT)
	}

	rateLimitConfig := cfg.RateLimit
	if rateLimitConfig == nil {
		rateLimitConfig = ratelimit.LoadConfig()
	}
	deps.Limiter = ratelimit.NewLimiter(rateLimitConfig)

	return NewWithDeps(cfg.Port, deps), nil
}

// NewWithDeps creates a server around existing collaborators. A nil Limiter
// gets the default limits; nil Metrics get a fresh registry.
func NewWithDeps(port int, deps Deps) *Server {
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.NewLimiter(nil)
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetrics()
	}

	s := &Server{
		resumes:     deps.Resumes,
		store:       deps.Store,
		llm:         deps.LLM,
		jwtService:  deps.JWT,
		rateLimiter: deps.Limiter,
		metrics:     deps.Metrics,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Parsing
	mux.Handle("POST /resumes/parse", s.protect(s.handleParseUpload))
	mux.Handle("POST /resumes/parse-text", s.protect(s.handleParseText))

	// Stored résumés
	mux.Handle("GET /resumes/{id}", s.protect(s.handleGetResume))
	mux.Handle("PUT /resumes/{id}", s.protect(s.handleUpdateResume))
	mux.Handle("DELETE /resumes/{id}", s.protect(s.handleDeleteResume))
	mux.Handle("GET /users/{id}/resumes", s.protect(s.handleListUserResumes))

	// Derived views
	mux.Handle("POST /resumes/{id}/skill-gap", s.protect(s.handleSkillGap))
	mux.Handle("GET /resumes/{id}/experience-bank", s.protect(s.handleExperienceBank))
	mux.Handle("POST /resumes/{id}/enhance", s.protect(s.handleEnhance))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // enhancement makes several LLM calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the full middleware chain and router
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close releases the rate limiter, database pool and LLM client
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	Deps{Resumes: s.resumes, LLM: s.llm}.close()
}

func (d Deps) close() {
	if d.Resumes != nil {
		d.Resumes.Close()
	}
	if d.LLM != nil {
		if err := d.LLM.Close(); err != nil {
			log.Printf("[server] closing LLM client: %v", err)
		}
	}
}

// protect requires a bearer token when JWT auth is configured
func (s *Server) protect(h http.HandlerFunc) http.Handler {
	if s.jwtService == nil {
		return h
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their limit with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.metrics.ObserveRequest(r.Method, "rate_limited", http.StatusTooManyRequests, 0)
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs each request and records it in the metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveRequest(r.Method, route, rec.status, elapsed)
		log.Printf("[%s] %s completed %d in %v", r.Method, r.URL.Path, rec.status, elapsed)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "ok",
		"features": map[string]bool{
			"database":    s.resumes != nil,
			"storage":     s.store != nil,
			"enhancement": s.llm != nil,
			"auth":        s.jwtService != nil,
		},
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFromErr writes err with the status from HTTPStatus. Schema and
// request validation failures list their fields under "details".
func (s *Server) errorFromErr(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Printf("[server] internal error: %v", err)
	}

	if details := validationDetails(err); len(details) > 0 {
		s.jsonResponse(w, status, map[string]any{
			"error":   "validation failed",
			"details": details,
		})
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID returns the client IP from RemoteAddr. X-Forwarded-For is
// ignored because proxies are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}

	if info.RetryAfter > 0 {
		seconds := int((info.RetryAfter + time.Second - 1) / time.Second)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d RetryAfter=%s", info.Limit, info.RetryAfter)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
