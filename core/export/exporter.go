// Package export implements the DocumentExporter. An export runs in its
// own goroutine:
//  1. Wait for the capture delay so a pending view toggle is reflected
//  2. Snapshot the session's display surface and locate the section
//  3. Clone the section and translate theme tokens to literal values
//  4. Render the clone and write it as {topic}_{key}{ext}
//
// Any failure is reported to the session as one user-facing message and
// never touches the state of other sections.
package export

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/output"
	"github.com/gaurav-prasanna/lessonpipe/core/state"
	"github.com/gaurav-prasanna/lessonpipe/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultDelay is the pause before capture.
const DefaultDelay = 100 * time.Millisecond

// noise is removed from the clone before rendering.
const noise = "button, script, style"

// Outcome reports the result of one export job.
type Outcome struct {
	JobID string
	Key   core.ContentKey
	Path  string
	Err   error
}

// Exporter turns rendered sections into document files.
type Exporter struct {
	session  *state.Session
	renderer core.Renderer
	writer   *output.Writer
	delay    time.Duration
	log      *logger.Logger
}

// New creates an Exporter. A negative delay is treated as zero.
func New(session *state.Session, renderer core.Renderer, writer *output.Writer, delay time.Duration, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Nop()
	}
	if delay < 0 {
		delay = 0
	}
	return &Exporter{
		session:  session,
		renderer: renderer,
		writer:   writer,
		delay:    delay,
		log:      log.With("component", "export"),
	}
}

// ExportSection starts an export of the section for key. The returned
// channel receives exactly one Outcome and is then closed.
func (e *Exporter) ExportSection(ctx context.Context, key core.ContentKey) <-chan Outcome {
	out := make(chan Outcome, 1)
	id := uuid.NewString()

	go func() {
		defer close(out)

		res := Outcome{JobID: id, Key: key}
		res.Path, res.Err = e.run(ctx, key)
		if res.Err != nil {
			e.log.Error("export failed", "job", id, "key", key, "error", res.Err)
			e.session.ReportError(FailureMessage(e.renderer.Extension()))
		} else {
			e.log.Info("export written", "job", id, "key", key, "path", res.Path)
		}
		out <- res
	}()
	return out
}

// ExportAll exports every key concurrently and waits for all of them.
// The returned error is the first export failure, if any.
func (e *Exporter) ExportAll(ctx context.Context, keys []core.ContentKey) ([]Outcome, error) {
	outcomes := make([]Outcome, len(keys))

	var g errgroup.Group
	for i, key := range keys {
		g.Go(func() error {
			outcomes[i] = <-e.ExportSection(ctx, key)
			return outcomes[i].Err
		})
	}
	return outcomes, g.Wait()
}

func (e *Exporter) run(ctx context.Context, key core.ContentKey) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("export panicked: %v", r)
		}
	}()

	if err := e.wait(ctx); err != nil {
		return "", err
	}

	snap, err := e.Capture(key)
	if err != nil {
		return "", err
	}

	data, err := e.renderer.Render(ctx, snap)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", key, err)
	}

	return e.writer.Write(output.Filename(snap.Meta.Topic, key), data, e.renderer.Extension())
}

// wait yields to pending state updates before capture.
func (e *Exporter) wait(ctx context.Context) error {
	if e.delay == 0 {
		runtime.Gosched()
		return ctx.Err()
	}

	t := time.NewTimer(e.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Capture snapshots the section for key as it is displayed right now and
// returns a detached, translated copy.
func (e *Exporter) Capture(key core.ContentKey) (*core.Snapshot, error) {
	surf := e.session.Snapshot()

	sel, err := surf.Locate(key)
	if err != nil {
		return nil, err
	}

	clone := sel.Clone()
	clone.Find(noise).Remove()
	Translate(clone)

	return &core.Snapshot{
		Meta: core.SectionMeta{
			Key:        key,
			Label:      key.Label(),
			Topic:      surf.Topic,
			Difficulty: string(surf.Difficulty),
			Raw:        surf.IsRaw(key),
			CapturedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Root: clone.Get(0),
	}, nil
}

var formatNames = map[string]string{
	".pdf":            "PDF",
	".md":             "Markdown",
	".json":           "JSON",
	".embeddings.txt": "embeddings",
}

// FailureMessage is the user-facing message for a failed export.
func FailureMessage(ext string) string {
	name, ok := formatNames[ext]
	if !ok {
		name = "document"
	}
	return fmt.Sprintf("Failed to generate %s. Please try again.", name)
}
