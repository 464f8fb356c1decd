package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/lexproc/internal/analyze"
	"github.com/dgallion1/lexproc/internal/doctree"
	"github.com/dgallion1/lexproc/internal/hgraph"
	"github.com/dgallion1/lexproc/internal/pipeline"
	"github.com/dgallion1/lexproc/internal/report"
)

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.lookupJob(w, r)
	if job == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

type recordsResponse struct {
	JobID      string           `json:"job_id"`
	Title      string           `json:"title"`
	Records    []doctree.Record `json:"records"`
	Counts     hgraph.Counts    `json:"counts"`
	Rejections []string         `json:"rejected_headings"`
}

func (s *Server) handleJobRecords(w http.ResponseWriter, r *http.Request) {
	job, res := s.completedJob(w, r)
	if res == nil {
		return
	}
	resp := recordsResponse{
		JobID:      job.ID,
		Title:      res.Document.Title,
		Records:    res.Document.Records,
		Counts:     res.Counts(),
		Rejections: []string{},
	}
	if resp.Records == nil {
		resp.Records = []doctree.Record{}
	}
	for _, rej := range res.Rejections {
		resp.Rejections = append(resp.Rejections, rej.String())
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

var graphContentTypes = map[hgraph.Format]string{
	hgraph.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	hgraph.FormatSVG:  "image/svg+xml",
	hgraph.FormatJSON: "application/json",
}

func (s *Server) handleJobGraph(w http.ResponseWriter, r *http.Request) {
	format := hgraph.FormatSVG
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := hgraph.ParseFormat(v)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	_, res := s.completedJob(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", graphContentTypes[format])
	if err := hgraph.Render(w, format, res.Graph, res.Layout); err != nil {
		s.log.Error("render graph", "format", format, "error", err)
	}
}

func (s *Server) handleJobReport(w http.ResponseWriter, r *http.Request) {
	_, res := s.completedJob(w, r)
	if res == nil {
		return
	}
	body, err := report.HTML(res.Document)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(body))
}

func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

// completedJob writes an error response and returns a nil result unless the
// job finished successfully.
func (s *Server) completedJob(w http.ResponseWriter, r *http.Request) (*pipeline.Job, *analyze.Result) {
	job := s.lookupJob(w, r)
	if job == nil {
		return nil, nil
	}
	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
		return job, job.Result()
	case pipeline.StatusFailed:
		jsonError(w, "job failed", http.StatusUnprocessableEntity)
	default:
		jsonError(w, "job not finished: "+string(snap.Status), http.StatusConflict)
	}
	return job, nil
}
