package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/lexproc/internal/analyze"
	"github.com/dgallion1/lexproc/internal/config"
	"github.com/dgallion1/lexproc/internal/detect"
	"github.com/dgallion1/lexproc/internal/pipeline"
	"github.com/dgallion1/lexproc/internal/textract"
)

const sampleAct = "Poz. 42 Ustawa o testach 2024\nRozdział 1\nArt. 1. Minister wydaje decyzję w terminie 30 dni.\n"

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	cfg := config.Config{
		Port:           "8090",
		APIKey:         apiKey,
		WorkerCount:    1,
		MaxQueueSize:   4,
		MaxUploadBytes: 1024,
		JobTTL:         time.Hour,
	}
	log := slog.New(slog.DiscardHandler)
	orch := pipeline.NewOrchestrator(cfg, analyze.New(detect.DefaultVocabulary(), textract.Options{}, log), log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return NewServer(orch, log, cfg)
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(fw, content)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func submit(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(s, uploadRequest(t, "file", "act.txt", sampleAct))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	jobID, _ := resp["job_id"].(string)
	if resp["poll_url"] != "/api/jobs/"+jobID {
		t.Errorf("unexpected poll_url %v", resp["poll_url"])
	}
	return jobID
}

func waitCompleted(t *testing.T, s *Server, jobID string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rec := do(s, httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID, nil))
		var snap pipeline.JobSnapshot
		json.Unmarshal(rec.Body.Bytes(), &snap)
		if snap.Status.Done() {
			if snap.Status != pipeline.StatusCompleted {
				t.Fatalf("job failed: %+v", snap)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job did not complete")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "secret")
	rec := do(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuth_RequiredWhenKeySet(t *testing.T) {
	s := newTestServer(t, "secret")

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	if rec := do(s, req); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	if rec := do(s, req); rec.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", rec.Code)
	}
}

func TestAuth_OpenWithoutKey(t *testing.T) {
	s := newTestServer(t, "")
	if rec := do(s, httptest.NewRequest(http.MethodGet, "/api/stats", nil)); rec.Code != http.StatusOK {
		t.Errorf("expected 200 without api key configured, got %d", rec.Code)
	}
}

func TestAnalyze_RecordsGraphReport(t *testing.T) {
	s := newTestServer(t, "")
	jobID := submit(t, s)
	waitCompleted(t, s, jobID)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID+"/records", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var records recordsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if records.Title != "Poz. 42 Ustawa o testach 2024" {
		t.Errorf("unexpected title %q", records.Title)
	}
	if len(records.Records) != 2 || records.Records[0].Action != "wydanie decyzji" || records.Records[0].Time != "30 dni" {
		t.Errorf("unexpected records %+v", records.Records)
	}
	if records.Counts.Chapters != 1 || records.Counts.Articles != 1 || records.Counts.Subpoints != 1 {
		t.Errorf("unexpected counts %+v", records.Counts)
	}

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID+"/graph?format=dot", nil))
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "digraph") {
		t.Errorf("expected DOT graph, got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID+"/graph", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("expected svg by default, got %q", ct)
	}

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID+"/graph?format=png", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", rec.Code)
	}

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/jobs/"+jobID+"/report", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<h1>Poz. 42 Ustawa o testach 2024</h1>") {
		t.Errorf("unexpected report %d %q", rec.Code, rec.Body.String())
	}

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	var stats struct {
		Analysis pipeline.StatsSnapshot `json:"analysis"`
	}
	json.Unmarshal(rec.Body.Bytes(), &stats)
	if stats.Analysis.Count != 1 {
		t.Errorf("expected 1 analysis sample, got %d", stats.Analysis.Count)
	}
}

func TestAnalyze_UnsupportedType(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(s, uploadRequest(t, "file", "act.xlsx", "x"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyze_MissingFile(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(s, uploadRequest(t, "other", "act.txt", sampleAct))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyze_TooLarge(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(s, uploadRequest(t, "file", "act.txt", strings.Repeat("a", 2048)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestJob_NotFound(t *testing.T) {
	s := newTestServer(t, "")
	for _, path := range []string{"/api/jobs/nope", "/api/jobs/nope/records", "/api/jobs/nope/graph", "/api/jobs/nope/report"} {
		if rec := do(s, httptest.NewRequest(http.MethodGet, path, nil)); rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestBatchAnalyze(t *testing.T) {
	s := newTestServer(t, "")
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, content := range map[string]string{"a.txt": sampleAct, "b.exe": "x"} {
		fw, _ := mw.CreateFormFile("files", name)
		io.WriteString(fw, content)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze/batch", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := do(s, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var resp struct {
		Jobs []map[string]any `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Jobs) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Jobs))
	}
	accepted, rejected := 0, 0
	for _, j := range resp.Jobs {
		if _, ok := j["job_id"]; ok {
			accepted++
		}
		if _, ok := j["error"]; ok {
			rejected++
		}
	}
	if accepted != 1 || rejected != 1 {
		t.Errorf("expected 1 accepted and 1 rejected, got %d/%d", accepted, rejected)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd": "passwd",
		"act.pdf":          "act.pdf",
		"":                 "unnamed",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", in, want, got)
		}
	}
}
