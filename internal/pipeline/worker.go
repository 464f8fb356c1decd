package pipeline

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/dgallion1/lexproc/internal/analyze"
)

// Worker processes a single document job.
type Worker struct {
	analyzer *analyze.Analyzer
	stats    *AnalysisStats
	log      *slog.Logger
}

func NewWorker(analyzer *analyze.Analyzer, stats *AnalysisStats, log *slog.Logger) *Worker {
	return &Worker{
		analyzer: analyzer,
		stats:    stats,
		log:      log,
	}
}

// Process runs the analysis for a job and records the outcome on it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	stage := analyze.StageExtracting
	res, err := w.analyzer.AnalyzeReader(ctx, bytes.NewReader(job.FileData()), job.Filename, func(s analyze.Stage) {
		stage = s
		job.SetStatus(JobStatus(s), string(s))
	})
	if err != nil {
		log.Error("analysis failed", "stage", stage, "error", err)
		job.AddError(err.Error())
		job.SetFileData(nil)
		w.stats.RecordFailure()
		job.SetStatus(StatusFailed, string(stage))
		return
	}

	for _, rej := range res.Rejections {
		log.Debug("heading kept as text", "rejection", rej.String())
	}
	job.SetResult(res)
	w.stats.Record(res.Elapsed.Milliseconds())
	job.SetStatus(StatusCompleted, "done")
	log.Info("job complete", "records", len(res.Document.Records), "elapsed_ms", res.Elapsed.Milliseconds())
}
