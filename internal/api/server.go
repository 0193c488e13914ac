// Package api exposes the HTTP interface for submitting, inspecting, and
// canceling crawl jobs.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/schemascan/schemascan/internal/config"
	"github.com/schemascan/schemascan/internal/crawler"
	"github.com/schemascan/schemascan/internal/export"
	"github.com/schemascan/schemascan/internal/grouper"
	"github.com/schemascan/schemascan/internal/schema"
	"github.com/schemascan/schemascan/internal/storage/memory"
)

// Server wires HTTP handlers to the job store and runner.
type Server struct {
	router chi.Router
	jobs   *memory.JobStore
	runner *Runner
	cfg    config.Config
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes installed.
func NewServer(jobs *memory.JobStore, runner *Runner, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		jobs:   jobs,
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/crawls", func(r chi.Router) {
			r.Post("/", s.createCrawl)
			r.Route("/{job_id}", func(r chi.Router) {
				r.Get("/status", s.getStatus)
				r.Get("/result", s.getResult)
				r.Get("/related/{hash}", s.getRelated)
				r.Post("/cancel", s.cancelCrawl)
			})
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createCrawlRequest struct {
	Domain        string `json:"domain"`
	MaxPages      *int   `json:"max_pages"`
	MaxDepth      *int   `json:"max_depth"`
	DelayMs       *int   `json:"delay_ms"`
	RespectRobots *bool  `json:"respect_robots"`
}

func (s *Server) createCrawl(w http.ResponseWriter, r *http.Request) {
	var req createCrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Domain == "" {
		s.writeError(w, http.StatusBadRequest, "domain required")
		return
	}

	opts := crawler.Options{
		MaxPages:      valueOrDefault(req.MaxPages, s.cfg.Crawler.MaxPages),
		MaxDepth:      valueOrDefault(req.MaxDepth, s.cfg.Crawler.MaxDepth),
		Delay:         time.Duration(valueOrDefault(req.DelayMs, s.cfg.Crawler.DelayMs)) * time.Millisecond,
		RespectRobots: valueOrDefault(req.RespectRobots, s.cfg.Crawler.RespectRobots),
	}

	job := memory.Job{
		ID:        uuid.NewString(),
		Domain:    req.Domain,
		Submitted: time.Now().UTC(),
		Options:   opts,
	}
	if err := s.jobs.Create(job); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runner.Start(job)
	s.writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	items, err := s.jobs.Items(job.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load job items")
		return
	}
	snapshot := export.NewSnapshot(items, grouper.Group(items))
	s.writeJSON(w, http.StatusOK, snapshot)
}

type relatedResponse struct {
	Hash     string   `json:"hash"`
	Outgoing []string `json:"outgoing"`
	Incoming []string `json:"incoming"`
}

func (s *Server) getRelated(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	hash := chi.URLParam(r, "hash")
	items, err := s.jobs.Items(job.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load job items")
		return
	}
	outgoing, incoming := grouper.RelatedSets(grouper.Group(items), hash)
	s.writeJSON(w, http.StatusOK, relatedResponse{
		Hash:     hash,
		Outgoing: snippetHashes(outgoing),
		Incoming: snippetHashes(incoming),
	})
}

func (s *Server) cancelCrawl(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	if !s.runner.Cancel(job.ID) {
		s.writeError(w, http.StatusConflict, "job is not running")
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID, "status": string(memory.JobStopped)})
}

func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) (memory.Job, bool) {
	jobID := chi.URLParam(r, "job_id")
	job, err := s.jobs.Get(jobID)
	if err != nil {
		if errors.Is(err, memory.ErrJobNotFound) {
			s.writeError(w, http.StatusNotFound, "job not found")
		} else {
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return memory.Job{}, false
	}
	return job, true
}

func snippetHashes(snippets []schema.Snippet) []string {
	hashes := make([]string, 0, len(snippets))
	for _, sn := range snippets {
		hashes = append(hashes, sn.Hash)
	}
	return hashes
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func valueOrDefault[T any](ptr *T, def T) T {
	if ptr == nil {
		return def
	}
	return *ptr
}
