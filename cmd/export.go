package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/export"
	"github.com/gaurav-prasanna/lessonpipe/core/output"
	"github.com/gaurav-prasanna/lessonpipe/core/render"
	"github.com/gaurav-prasanna/lessonpipe/core/state"
	"github.com/spf13/cobra"
)

// Format flag variables, shared by generate and export.
var (
	flagPDF        bool
	flagMarkdown   bool
	flagJSON       bool
	flagEmbeddings bool
	flagModel      string
	flagChunkSize  int
	flagOutputDir  string
)

var (
	flagKeys []string
	flagRaw  []string
)

var exportCmd = &cobra.Command{
	Use:   "export <lesson.json>",
	Short: "Export lesson sections to the specified output format",
	Long: `Export builds the display page for a saved lesson, captures the
requested sections from it, and converts each one to the specified output
format (PDF, Markdown, JSON, or Embeddings). Sections shown in raw view
export their formatted text verbatim.

Examples:
  lessonpipe export lesson.json --pdf
  lessonpipe export lesson.json --markdown --key pre_class_content --raw pre_class_content
  lessonpipe export lesson.json --json --output_dir ./out
  lessonpipe export lesson.json --embeddings --model nomic-embed-text`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addFormatFlags(exportCmd)

	exportCmd.Flags().StringSliceVar(&flagKeys, "key", nil, "Section to export (repeatable; default: every present section)")
	exportCmd.Flags().StringSliceVar(&flagRaw, "raw", nil, "Section to show in raw view before exporting (repeatable)")
}

func addFormatFlags(c *cobra.Command) {
	// Output format flags (mutually exclusive).
	c.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	c.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	c.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	c.Flags().BoolVar(&flagEmbeddings, "embeddings", false, "Output embeddings")

	// Embedding-specific flags.
	c.Flags().StringVar(&flagModel, "model", "", "Embedding model (required with --embeddings)")
	c.Flags().IntVar(&flagChunkSize, "chunk_size", 512, "Token chunk size for embeddings")

	c.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: config output_dir or current directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := validateFlags(true); err != nil {
		return err
	}
	renderer, err := selectRenderer()
	if err != nil {
		return err
	}

	lesson, err := readLesson(args[0])
	if err != nil {
		return err
	}
	raw, err := parseKeys(flagRaw)
	if err != nil {
		return err
	}
	keys, err := parseKeys(flagKeys)
	if err != nil {
		return err
	}

	session := newSession(lesson, raw)
	if len(keys) == 0 {
		keys = session.Snapshot().Keys()
	}
	return exportSections(cmd.Context(), session, renderer, keys)
}

// exportSections runs the exports concurrently and reports each result.
func exportSections(ctx context.Context, session *state.Session, renderer core.Renderer, keys []core.ContentKey) error {
	if len(keys) == 0 {
		return fmt.Errorf("lesson has no content to export")
	}

	dir := flagOutputDir
	if dir == "" {
		dir = appConfig.OutputDir
	}
	writer, err := output.New(dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	exporter := export.New(session, renderer, writer, appConfig.ExportDelay, appLog)
	outcomes, err := exporter.ExportAll(ctx, keys)
	for _, res := range outcomes {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Key.Label(), res.Err)
			continue
		}
		fmt.Fprintf(os.Stdout, "✓ Written: %s\n", res.Path)
	}
	if err != nil {
		return fmt.Errorf("%s", session.Err())
	}
	return nil
}

// validateFlags checks that at most one output format is chosen, or
// exactly one when required is set.
func validateFlags(required bool) error {
	formatCount := 0
	for _, set := range []bool{flagPDF, flagMarkdown, flagJSON, flagEmbeddings} {
		if set {
			formatCount++
		}
	}

	if formatCount == 0 && required {
		return fmt.Errorf("exactly one output format is required: --pdf, --markdown, --json, or --embeddings")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	// --model is required with --embeddings.
	if flagEmbeddings && flagModel == "" {
		return fmt.Errorf("--model is required when using --embeddings")
	}
	return nil
}

// exportRequested reports whether any format flag was given.
func exportRequested() bool {
	return flagPDF || flagMarkdown || flagJSON || flagEmbeddings
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer() (core.Renderer, error) {
	opts := render.Options{
		Model:     flagModel,
		ChunkSize: flagChunkSize,
		Embedder:  render.NewOllamaEmbedder(appConfig.OllamaURL),
	}
	switch {
	case flagMarkdown:
		return render.Select(render.FormatMarkdown, opts)
	case flagJSON:
		return render.Select(render.FormatJSON, opts)
	case flagPDF:
		return render.Select(render.FormatPDF, opts)
	case flagEmbeddings:
		return render.Select(render.FormatEmbeddings, opts)
	default:
		return nil, fmt.Errorf("no output format selected")
	}
}
