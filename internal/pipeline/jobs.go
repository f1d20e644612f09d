package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus is the state of a queued digest run.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one serve-mode digest run.
type Job struct {
	mu sync.Mutex

	ID   string    `json:"job_id"`
	Date time.Time `json:"date"`

	Status JobStatus `json:"status"`
	Error  string    `json:"error,omitempty"`

	DocURL       string `json:"doc_url,omitempty"`
	Events       int    `json:"events"`
	ImagesFailed int    `json:"images_failed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewJob creates a queued job for the given date.
func NewJob(date time.Time) *Job {
	now := time.Now()
	return &Job{
		ID:        jobID(date, now),
		Date:      date,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func jobID(date, now time.Time) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s-%d", date.Format("2006-01-02"), now.UnixNano()))
	return fmt.Sprintf("%x", h[:])[:20]
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// SetFailed marks the job failed with a reason.
func (j *Job) SetFailed(reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = reason
	j.UpdatedAt = time.Now()
}

// SetCompleted records the run's outcome.
func (j *Job) SetCompleted(report *Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusCompleted
	j.DocURL = report.DocURL
	j.Events = report.Events
	j.ImagesFailed = report.ImagesFailed
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID           string    `json:"job_id"`
	Date         string    `json:"date"`
	Status       JobStatus `json:"status"`
	Error        string    `json:"error,omitempty"`
	DocURL       string    `json:"doc_url,omitempty"`
	Events       int       `json:"events"`
	ImagesFailed int       `json:"images_failed"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:           j.ID,
		Date:         j.Date.Format("2006-01-02"),
		Status:       j.Status,
		Error:        j.Error,
		DocURL:       j.DocURL,
		Events:       j.Events,
		ImagesFailed: j.ImagesFailed,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes jobs idle longer than the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		idle := now.Sub(job.UpdatedAt)
		job.mu.Unlock()
		if idle > s.ttl {
			delete(s.jobs, id)
		}
	}
}
