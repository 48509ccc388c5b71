package cmd

import (
	"fmt"
	"os"

	"github.com/gaurav-prasanna/lessonpipe/core/output"
	"github.com/spf13/cobra"
)

var flagPrint bool

var renderCmd = &cobra.Command{
	Use:   "render <lesson.json>",
	Short: "Build the display page for a saved lesson",
	Long: `Render normalizes every section of a saved lesson and builds the display
page, with the sections named by --raw shown as formatted text.

Examples:
  lessonpipe render lesson.json
  lessonpipe render lesson.json --raw post_class_content --print`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringSliceVar(&flagRaw, "raw", nil, "Section to show in raw view (repeatable)")
	renderCmd.Flags().BoolVar(&flagPrint, "print", false, "Write the page to stdout instead of a file")
	renderCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: config output_dir or current directory)")
}

func runRender(cmd *cobra.Command, args []string) error {
	lesson, err := readLesson(args[0])
	if err != nil {
		return err
	}
	raw, err := parseKeys(flagRaw)
	if err != nil {
		return err
	}

	surface := newSession(lesson, raw).Snapshot()
	if flagPrint {
		return surface.Render(os.Stdout)
	}

	page, err := surface.HTML()
	if err != nil {
		return fmt.Errorf("building page: %w", err)
	}
	dir := flagOutputDir
	if dir == "" {
		dir = appConfig.OutputDir
	}
	writer, err := output.New(dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.Write(output.Filename(lesson.Topic, "page"), []byte(page), ".html")
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	return nil
}
