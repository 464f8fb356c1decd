package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/lexproc/internal/analyze"
	"github.com/dgallion1/lexproc/internal/config"
	"github.com/dgallion1/lexproc/internal/detect"
	"github.com/dgallion1/lexproc/internal/textract"
)

func testConfig() config.Config {
	return config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
}

func newTestOrchestrator(cfg config.Config) *Orchestrator {
	log := slog.New(slog.DiscardHandler)
	a := analyze.New(detect.DefaultVocabulary(), textract.Options{}, log)
	return NewOrchestrator(cfg, a, log)
}

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status.Done() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish, status %q", job.ID, job.Snapshot().Status)
	return JobSnapshot{}
}

func TestOrchestrator_ProcessesJob(t *testing.T) {
	o := newTestOrchestrator(testConfig())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("act.txt", []byte("Rozdział 1 Art. 1. Minister wydaje decyzję w terminie 30 dni."))
	if err := o.Submit(job); err != nil {
		t.Fatalf("unexpected submit error: %v", err)
	}

	snap := waitDone(t, job)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q (errors %v)", StatusCompleted, snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.Records != 2 {
		t.Errorf("expected 2 records, got %d", snap.Progress.Records)
	}
	if o.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable")
	}
	if job.Result() == nil {
		t.Fatal("expected result on completed job")
	}
	if o.Stats().Snapshot().Count != 1 {
		t.Errorf("expected 1 latency sample, got %d", o.Stats().Snapshot().Count)
	}
}

func TestOrchestrator_UnsupportedFileFails(t *testing.T) {
	o := newTestOrchestrator(testConfig())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("act.odt", []byte("x"))
	if err := o.Submit(job); err != nil {
		t.Fatalf("unexpected submit error: %v", err)
	}
	snap := waitDone(t, job)
	if snap.Status != StatusFailed {
		t.Fatalf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if snap.Phase != string(StatusExtracting) {
		t.Errorf("expected failure in phase %q, got %q", StatusExtracting, snap.Phase)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", snap.Progress.Errors)
	}
	if job.Result() != nil {
		t.Error("expected no result for failed job")
	}
	if o.Stats().Snapshot().Failed != 1 {
		t.Errorf("expected 1 failure, got %d", o.Stats().Snapshot().Failed)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	// Not started: nothing drains the queue.
	o := newTestOrchestrator(cfg)

	if err := o.Submit(NewJob("a.txt", nil)); err != nil {
		t.Fatalf("unexpected error on first submit: %v", err)
	}
	rejected := NewJob("b.txt", nil)
	err := o.Submit(rejected)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if rejected.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %q", rejected.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
	if o.JobCount() != 2 {
		t.Errorf("expected 2 tracked jobs, got %d", o.JobCount())
	}
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	o := newTestOrchestrator(testConfig())
	o.Start(context.Background())
	o.Stop()

	job := NewJob("a.txt", []byte("Art. 1. Minister wydaje decyzję."))
	err := o.Submit(job)
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if job.Snapshot().Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, job.Snapshot().Status)
	}

	// A second Stop must not close the queue again.
	o.Stop()
}
