// Package analyze runs one document through the whole lexproc pipeline:
// text extraction, title and structure parsing, process detection and the
// hierarchy graph.
package analyze

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/dgallion1/lexproc/internal/detect"
	"github.com/dgallion1/lexproc/internal/doctree"
	"github.com/dgallion1/lexproc/internal/hgraph"
	"github.com/dgallion1/lexproc/internal/structure"
	"github.com/dgallion1/lexproc/internal/textract"
)

// Stage names a step of the analysis, in execution order.
type Stage string

const (
	StageExtracting Stage = "extracting"
	StageParsing    Stage = "parsing"
	StageDetecting  Stage = "detecting"
	StageGraphing   Stage = "graphing"
)

// ProgressFunc is told when a stage begins. It may be nil.
type ProgressFunc func(Stage)

// Result is everything produced for one document.
type Result struct {
	Document   doctree.Document
	Rejections []structure.Rejection
	Graph      *hgraph.Graph
	Layout     hgraph.Layout
	Elapsed    time.Duration
}

// Counts returns the node totals of the hierarchy graph.
func (r *Result) Counts() hgraph.Counts {
	return r.Graph.Counts()
}

// Analyzer is safe for concurrent use; nothing but the vocabulary is shared
// between documents.
type Analyzer struct {
	parser   *structure.Parser
	detector *detect.Detector
	extract  textract.Options
	log      *slog.Logger
}

func New(vocab detect.Vocabulary, opts textract.Options, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{
		parser:   structure.NewParser(log.With("component", "structure")),
		detector: detect.New(vocab),
		extract:  opts,
		log:      log,
	}
}

// AnalyzeFile reads and analyses the document at path.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string, progress ProgressFunc) (*Result, error) {
	start := time.Now()
	notify(progress, StageExtracting)
	text, err := textract.ExtractFile(path, a.extract)
	if err != nil {
		return nil, err
	}
	return a.analyze(ctx, path, text, start, progress)
}

// AnalyzeReader analyses a document read from r; filename selects the
// format.
func (a *Analyzer) AnalyzeReader(ctx context.Context, r io.Reader, filename string, progress ProgressFunc) (*Result, error) {
	start := time.Now()
	notify(progress, StageExtracting)
	text, err := textract.ExtractReader(r, filename, a.extract)
	if err != nil {
		return nil, err
	}
	return a.analyze(ctx, filename, text, start, progress)
}

// AnalyzeText runs the pipeline on already extracted text.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (*Result, error) {
	return a.analyze(ctx, "", text, time.Now(), nil)
}

func (a *Analyzer) analyze(ctx context.Context, name, text string, start time.Time, progress ProgressFunc) (*Result, error) {
	log := a.log
	if name != "" {
		log = log.With("document", name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notify(progress, StageParsing)
	title := structure.ExtractTitle(text)
	parsed := a.parser.Parse(text)
	log.Debug("parsed structure", "title", title, "fragments", len(parsed.Fragments), "rejections", len(parsed.Rejections))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notify(progress, StageDetecting)
	records := a.detector.Detect(parsed.Fragments)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	notify(progress, StageGraphing)
	g := hgraph.Assemble(title, records)
	layout := hgraph.ComputeLayout(g, log)

	res := &Result{
		Document: doctree.Document{
			Title:     title,
			Fragments: parsed.Fragments,
			Records:   records,
		},
		Rejections: parsed.Rejections,
		Graph:      g,
		Layout:     layout,
		Elapsed:    time.Since(start),
	}
	c := g.Counts()
	log.Info("analysis complete",
		"records", len(records),
		"chapters", c.Chapters,
		"articles", c.Articles,
		"subpoints", c.Subpoints,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res, nil
}

func notify(progress ProgressFunc, s Stage) {
	if progress != nil {
		progress(s)
	}
}
