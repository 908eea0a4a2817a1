// Package cli implements the clauseguard command line.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/clauseguard/internal/audit"
	"github.com/sprite-ai/clauseguard/internal/catalog"
	"github.com/sprite-ai/clauseguard/internal/config"
	"github.com/sprite-ai/clauseguard/internal/logging"
)

var (
	cfg    = config.Default()
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "clauseguard",
	Short: "Contract risk analysis and clause review for contractors",
	Long: `clauseguard scores a construction project's contract risk, checks it
against state compliance requirements, recommends defense clauses and walks
you through reviewing them into a final clause set.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default ./clauseguard.yaml or ~/.clauseguard/clauseguard.yaml)")
	pf.String("catalog", "", "clause catalog file (default: built-in catalog)")
	pf.String("audit-db", "", "SQLite audit log path (default: disabled)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text, json")

	rootCmd.AddCommand(analyzeCmd, reviewCmd, serveCmd, catalogCmd, auditCmd, versionCmd)
}

// setup loads configuration, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"catalog", &c.Catalog.Path},
		{"audit-db", &c.Audit.Path},
		{"log-level", &c.Log.Level},
		{"log-format", &c.Log.Format},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst, _ = cmd.Flags().GetString(o.flag)
		}
	}

	if err := c.Validate(); err != nil {
		return err
	}

	l, err := logging.New(os.Stderr, c.Log.Level, c.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(l)
	cfg, logger = c, l
	return nil
}

func loadCatalog() (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default()
	}
	return catalog.Load(cfg.Catalog.Path)
}

// openAuditor returns nil when auditing is disabled.
func openAuditor() (*audit.Auditor, error) {
	if cfg.Audit.Path == "" {
		return nil, nil
	}
	return audit.Open(cfg.Audit.Path, logger)
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the process exit code for an error returned by Execute.
func ExitCode(err error) int {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	var ee *ExitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
