package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/lexproc/internal/config"
	"github.com/dgallion1/lexproc/internal/detect"
)

var version = "0.1.0"

func main() {
	if err := config.LoadDotenv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "lexproc",
		Short: "Extract regulatory processes from Polish legal acts",
		Long: `lexproc reads a legal act (PDF, DOCX, HTML, Markdown or text), splits it
into chapters, articles and subpoints, and reports every sentence that
describes a regulatory action together with its deadline.

The chapter → article → subpoint hierarchy of the detected processes can be
written as a Graphviz, SVG or JSON graph.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadVocabulary returns the built-in vocabulary unless path names a YAML
// file.
func loadVocabulary(path string) (detect.Vocabulary, error) {
	if path == "" {
		return detect.DefaultVocabulary(), nil
	}
	return detect.LoadVocabulary(path)
}

func newLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
