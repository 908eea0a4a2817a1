package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/clauseguard/internal/analysis"
	"github.com/sprite-ai/clauseguard/internal/api"
	"github.com/sprite-ai/clauseguard/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the clauseguard analysis and review engine.

Endpoints:
  GET    /health                                   — Health check
  GET    /metrics                                  — Prometheus metrics
  POST   /api/analyze                              — Analyze a project
  GET    /api/results/{id}                         — Fetch a stored analysis
  GET    /api/catalog?jurisdiction=CA              — Browse the clause catalog
  POST   /api/sessions                             — Open a review session
  GET    /api/sessions/{id}                        — Session state
  DELETE /api/sessions/{id}                        — Abandon a session
  POST   /api/sessions/{id}/clauses/{clause}/{op}  — toggle, reject, reset, customize, version, notes
  POST   /api/sessions/{id}/finalize               — Finalize into a contract
  GET    /api/ws                                   — WebSocket for interactive review sessions`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "address to listen on (default from config, 127.0.0.1)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config, 6142)")
	serveCmd.Flags().Float64("rate-limit", 0, "requests per second per client, 0 disables (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("rate-limit") {
		cfg.Server.RateLimit, _ = cmd.Flags().GetFloat64("rate-limit")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	clauses, reqs := cat.Len()
	logger.Info("catalog loaded", "version", cat.Version, "clauses", clauses, "requirements", reqs)

	opts := api.Options{
		Catalog:    cat,
		Analyzer:   analysis.New(cat, analysis.WithLogger(logger)),
		Metrics:    metrics.New(),
		Logger:     logger,
		RateLimit:  cfg.Server.RateLimit,
		Burst:      cfg.Server.Burst,
		SessionTTL: cfg.Server.SessionTTL,
	}

	aud, err := openAuditor()
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	if aud != nil {
		defer aud.Close()
		opts.Recorder = aud
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.New(cfg.Server.Listen(), opts).ListenAndServe(ctx)
}
