// Package server exposes the lesson pipeline over HTTP:
//   - POST /generate      generate the three-section payload for a topic
//   - POST /render        build the display page for a payload
//   - POST /export/{key}  export one section as a document
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gaurav-prasanna/lessonpipe/config"
	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/core/render"
	"github.com/gaurav-prasanna/lessonpipe/logger"
)

// Server holds the handler dependencies.
type Server struct {
	cfg       *config.Config
	generator core.Generator
	embedder  core.Embedder
	log       *logger.Logger
}

// New creates a Server. A nil generator makes /generate unavailable.
func New(cfg *config.Config, generator core.Generator, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		cfg:       cfg,
		generator: generator,
		embedder:  render.NewOllamaEmbedder(cfg.OllamaURL),
		log:       log.With("component", "server"),
	}
}

// Run serves until ctx is done or SIGINT/SIGTERM arrives, then shuts down
// gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "port", s.cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case <-ctx.Done():
		s.log.Info("starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("graceful shutdown failed, forcing close", "error", err)
			if closeErr := srv.Close(); closeErr != nil {
				return fmt.Errorf("could not stop server: shutdown error: %v, close error: %v", err, closeErr)
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		s.log.Info("server stopped cleanly")
	}
	return nil
}
