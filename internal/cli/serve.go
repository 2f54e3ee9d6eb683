package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mymuse/adstudio/internal/config"
	"github.com/mymuse/adstudio/internal/observability"
	"github.com/mymuse/adstudio/internal/reviews"
	"github.com/mymuse/adstudio/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	logger := observability.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tp, err := observability.InitTracer(ctx, "adstudio", Version, cfg.Environment)
		if err != nil {
			logger.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				tp.Shutdown(shutdownCtx)
			}()
		}
	}

	orch, meili, st, err := buildOrchestrator(cfg, logger, 0)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	// The import endpoint fills the same in-memory index the orchestrator
	// falls back to, so reviews uploaded over HTTP are searchable at once;
	// when Meilisearch is up the same upload is indexed there too.
	memory := &reviews.MemoryIndex{}
	orch.Reviews = reviews.Fallback(orch.Reviews, memory)

	return server.New(orch, memory, meili, st, logger).Run(ctx, cfg.Addr)
}
