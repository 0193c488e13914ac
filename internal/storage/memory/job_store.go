// Package memory holds crawl jobs and their accumulated results for the API
// server. Everything lives in process memory for the lifetime of the server;
// there is deliberately no persistent store behind it.
package memory

import (
	"errors"
	"sync"
	"time"

	"github.com/schemascan/schemascan/internal/crawler"
	"github.com/schemascan/schemascan/internal/schema"
)

// JobStatus is the lifecycle state of a crawl job.
type JobStatus string

// Job lifecycle states. The three terminal states mirror crawl outcomes.
const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobStopped   JobStatus = "stopped"
	JobError     JobStatus = "error"
)

// Job is the metadata tracked for one submitted crawl.
type Job struct {
	ID           string          `json:"id"`
	Domain       string          `json:"domain"`
	Status       JobStatus       `json:"status"`
	Submitted    time.Time       `json:"submitted_at"`
	Started      *time.Time      `json:"started_at,omitempty"`
	Finished     *time.Time      `json:"finished_at,omitempty"`
	ErrorText    string          `json:"error_text,omitempty"`
	PagesCrawled int             `json:"pages_crawled"`
	ItemsFound   int             `json:"items_found"`
	Options      crawler.Options `json:"-"`
}

// ErrJobNotFound is returned for lookups of unknown job IDs.
var ErrJobNotFound = errors.New("job not found")

// JobStore is a thread-safe in-memory job and item registry.
type JobStore struct {
	mu    sync.RWMutex
	jobs  map[string]Job
	items map[string][]schema.Item
}

// NewJobStore constructs an empty JobStore.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs:  make(map[string]Job),
		items: make(map[string][]schema.Item),
	}
}

// Create registers a new job in queued state.
func (s *JobStore) Create(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; exists {
		return errors.New("job already exists")
	}
	job.Status = JobQueued
	if job.Submitted.IsZero() {
		job.Submitted = time.Now().UTC()
	}
	s.jobs[job.ID] = job
	return nil
}

// SetRunning marks the job running and stamps its start time.
func (s *JobStore) SetRunning(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = JobRunning
	now := time.Now().UTC()
	if job.Started == nil {
		job.Started = &now
	}
	s.jobs[jobID] = job
	return nil
}

// SetProgress records the latest crawl counters for a job.
func (s *JobStore) SetProgress(jobID string, pagesCrawled, itemsFound int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.PagesCrawled = pagesCrawled
	job.ItemsFound = itemsFound
	s.jobs[jobID] = job
	return nil
}

// AppendItems accumulates newly streamed items for a job.
func (s *JobStore) AppendItems(jobID string, items []schema.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[jobID]; !ok {
		return ErrJobNotFound
	}
	s.items[jobID] = append(s.items[jobID], items...)
	return nil
}

// Finish moves the job into a terminal state and stamps its finish time.
func (s *JobStore) Finish(jobID string, status JobStatus, errText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = status
	job.ErrorText = errText
	now := time.Now().UTC()
	job.Finished = &now
	s.jobs[jobID] = job
	return nil
}

// Get returns a job by ID.
func (s *JobStore) Get(jobID string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return job, nil
}

// Items returns a copy of all items streamed for a job so far.
func (s *JobStore) Items(jobID string) ([]schema.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.jobs[jobID]; !ok {
		return nil, ErrJobNotFound
	}
	items := s.items[jobID]
	out := make([]schema.Item, len(items))
	copy(out, items)
	return out, nil
}
