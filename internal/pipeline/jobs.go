package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/lexproc/internal/analyze"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = JobStatus(analyze.StageExtracting)
	StatusParsing    JobStatus = JobStatus(analyze.StageParsing)
	StatusDetecting  JobStatus = JobStatus(analyze.StageDetecting)
	StatusGraphing   JobStatus = JobStatus(analyze.StageGraphing)
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Done reports whether the job will not change any more.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks the state of a single document analysis.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *analyze.Result
	errors   []string
}

// Progress summarises what the analysis found so far.
type Progress struct {
	Records    int      `json:"records"`
	Chapters   int      `json:"chapters"`
	Articles   int      `json:"articles"`
	Subpoints  int      `json:"subpoints"`
	Rejections int      `json:"rejected_headings"`
	Errors     []string `json:"errors"`
}

// NewJob creates a queued job for an uploaded document.
func NewJob(filename string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
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

// SetResult stores the finished analysis and drops the uploaded bytes.
func (j *Job) SetResult(res *analyze.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.fileData = nil
	c := res.Counts()
	j.Progress.Records = len(res.Document.Records)
	j.Progress.Chapters = c.Chapters
	j.Progress.Articles = c.Articles
	j.Progress.Subpoints = c.Subpoints
	j.Progress.Rejections = len(res.Rejections)
	j.UpdatedAt = time.Now()
}

// Result returns the analysis, or nil until the job completes.
func (j *Job) Result() *analyze.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	p := j.Progress
	p.Errors = append([]string{}, j.Progress.Errors...)
	snap := JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		ContentHash: j.ContentHash,
		Progress:    p,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
	if j.result != nil {
		snap.Title = j.result.Document.Title
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
