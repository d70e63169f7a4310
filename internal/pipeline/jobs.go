package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of an ingestion job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusSegmenting  JobStatus = "segmenting"
	StatusVerifying   JobStatus = "verifying"
	StatusStoring     JobStatus = "storing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusPartial     JobStatus = "partial"
	StatusUnsegmented JobStatus = "stored_unsegmented"
)

// Job tracks the state of a single section ingestion.
type Job struct {
	mu sync.Mutex

	ID        string `json:"job_id"`
	SectionID string `json:"section_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Heading  string    `json:"heading"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalSubunits  int      `json:"total_subunits"`
	SubunitsStored int      `json:"subunits_stored"`
	Verified       bool     `json:"verified"`
	Errors         []string `json:"errors"`
}

// NewJob creates a queued job for one uploaded section.
func NewJob(sectionID, filename, heading string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		SectionID: sectionID,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Heading:   heading,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
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

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalSubunits records the flat record count produced by segmentation.
func (j *Job) SetTotalSubunits(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalSubunits = n
	j.UpdatedAt = time.Now()
}

// AddStored atomically increments the stored-record counter.
func (j *Job) AddStored(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SubunitsStored += n
	j.UpdatedAt = time.Now()
}

// SetVerified records the verifier outcome.
func (j *Job) SetVerified(ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Verified = ok
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	SectionID string    `json:"section_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filename  string    `json:"filename"`
	Heading   string    `json:"heading"`
	Progress  Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:        j.ID,
		SectionID: j.SectionID,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.Filename,
		Heading:   j.Heading,
		Progress: Progress{
			TotalSubunits:  j.Progress.TotalSubunits,
			SubunitsStored: j.Progress.SubunitsStored,
			Verified:       j.Progress.Verified,
			Errors:         errs,
		},
	}
}
