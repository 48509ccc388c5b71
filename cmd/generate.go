package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/output"
	"github.com/spf13/cobra"
)

var flagDifficulty string

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate lesson content for a topic",
	Long: `Generate asks the configured content generator (the remote service when
api_url is set, Gemini otherwise) for the pre-class, in-class and post-class
content of a topic. It saves the lesson as JSON next to its display page and,
when an output format flag is given, exports every section.

Examples:
  lessonpipe generate "Binary Search"
  lessonpipe generate "Graphs" --difficulty advanced --pdf --output_dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addFormatFlags(generateCmd)

	generateCmd.Flags().StringVar(&flagDifficulty, "difficulty", string(core.DefaultDifficulty), "Lesson level: beginner, medium, or advanced")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := validateFlags(false); err != nil {
		return err
	}
	difficulty, err := core.ParseDifficulty(flagDifficulty)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	generator, err := newGenerator(ctx)
	if err != nil {
		return err
	}

	topic := args[0]
	fmt.Fprintf(os.Stdout, "Generating %s content for %q...\n", difficulty, topic)
	payload, err := generator.Generate(ctx, topic, difficulty)
	if err != nil {
		return fmt.Errorf("generating content: %w", err)
	}

	lesson := &lessonFile{Topic: topic, Difficulty: difficulty, Content: payload}
	if err := saveLesson(lesson); err != nil {
		return err
	}

	if !exportRequested() {
		return nil
	}
	renderer, err := selectRenderer()
	if err != nil {
		return err
	}
	session := newSession(lesson, nil)
	return exportSections(ctx, session, renderer, session.Snapshot().Keys())
}

// saveLesson writes the lesson JSON and its display page.
func saveLesson(lesson *lessonFile) error {
	dir := flagOutputDir
	if dir == "" {
		dir = appConfig.OutputDir
	}
	writer, err := output.New(dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	data, err := json.MarshalIndent(lesson, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding lesson: %w", err)
	}
	base := output.Filename(lesson.Topic, "lesson")
	path, err := writer.Write(base, data, ".json")
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)

	page, err := newSession(lesson, nil).Snapshot().HTML()
	if err != nil {
		return fmt.Errorf("building page: %w", err)
	}
	path, err = writer.Write(base, []byte(page), ".html")
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	return nil
}
