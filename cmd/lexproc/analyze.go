package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/lexproc/internal/analyze"
	"github.com/dgallion1/lexproc/internal/config"
	"github.com/dgallion1/lexproc/internal/hgraph"
	"github.com/dgallion1/lexproc/internal/report"
	"github.com/dgallion1/lexproc/internal/textract"
)

type analyzeOptions struct {
	path       string
	graphPath  string
	vocabulary string
	pdftotext  bool
	markdown   bool
}

func analyzeCmd() *cobra.Command {
	cfg := config.Load()
	opts := analyzeOptions{
		vocabulary: cfg.VocabularyPath,
		pdftotext:  cfg.PDFFallbackPdftotext,
	}
	logLevel := cfg.LogLevel.String()

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze one legal act and print its processes",
		Long: `Analyze one legal act and print a block per detected process followed
by the node counts of the hierarchy graph.

Supported formats: PDF, DOCX, HTML, Markdown, TXT

Example:
  lexproc analyze ustawa.pdf
  lexproc analyze ustawa.pdf --graph hierarchy.svg
  lexproc analyze ustawa.docx --vocabulary slownik.yaml --markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := config.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			opts.path = args[0]
			log := newLogger(cmd.ErrOrStderr(), level, false)
			return runAnalyze(cmd.Context(), opts, cmd.OutOrStdout(), log)
		},
	}

	cmd.Flags().StringVarP(&opts.graphPath, "graph", "g", "", "Write the hierarchy graph (.svg, .dot or .json)")
	cmd.Flags().StringVar(&opts.vocabulary, "vocabulary", opts.vocabulary, "YAML vocabulary replacing the built-in Polish one")
	cmd.Flags().BoolVar(&opts.pdftotext, "pdftotext", opts.pdftotext, "Retry unreadable PDFs with the pdftotext binary")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Print a Markdown report instead of process blocks")
	cmd.Flags().StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn or error")

	return cmd
}

func runAnalyze(ctx context.Context, opts analyzeOptions, out io.Writer, log *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Fail on a bad --graph path before doing any work.
	var format hgraph.Format
	if opts.graphPath != "" {
		f, err := hgraph.FormatForPath(opts.graphPath)
		if err != nil {
			return err
		}
		format = f
	}

	vocab, err := loadVocabulary(opts.vocabulary)
	if err != nil {
		return err
	}

	a := analyze.New(vocab, textract.Options{FallbackPdftotext: opts.pdftotext}, log)
	res, err := a.AnalyzeFile(ctx, opts.path, nil)
	if err != nil {
		return err
	}

	if opts.markdown {
		if _, err := io.WriteString(out, report.Markdown(res.Document)); err != nil {
			return err
		}
	} else {
		if err := report.PrintRecords(out, res.Document.Records); err != nil {
			return err
		}
		if err := report.PrintCounts(out, res.Counts()); err != nil {
			return err
		}
	}

	if opts.graphPath == "" {
		return nil
	}
	return writeGraph(opts.graphPath, format, res)
}

func writeGraph(path string, format hgraph.Format, res *analyze.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create graph file: %w", err)
	}
	if err := hgraph.Render(f, format, res.Graph, res.Layout); err != nil {
		f.Close()
		return fmt.Errorf("render graph: %w", err)
	}
	return f.Close()
}
