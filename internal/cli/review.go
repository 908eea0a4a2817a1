package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/clauseguard/internal/review"
	"github.com/sprite-ai/clauseguard/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review [project.json|-]",
	Short: "Open an interactive clause review session",
	Long: `Analyze a project, then open an interactive TUI for approving, rejecting
and customizing the recommended clauses. Finalizing the review produces the
contract clause set.

Examples:
  clauseguard review project.json
  clauseguard review --location "Austin, TX" --amount 80000 -o clauses.md
  clauseguard review project.json --stat      # print the analysis and exit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	addProjectFlags(reviewCmd)
	reviewCmd.Flags().Bool("stat", false, "print the analysis summary and exit (non-interactive)")
	reviewCmd.Flags().StringP("output", "o", "", "write the finalized clauses to file (.json for JSON, otherwise markdown)")
}

func runReview(cmd *cobra.Command, args []string) error {
	p, err := readProject(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	result, err := analyzeProject(ctx, p)
	if err != nil {
		return err
	}

	if stat, _ := cmd.Flags().GetBool("stat"); stat {
		return outputText(cmd.OutOrStdout(), result)
	}

	if len(result.RecommendedClauses) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No clauses to review.")
		return nil
	}

	var opts []review.Option
	aud, err := openAuditor()
	if err != nil {
		logger.Warn("audit log unavailable", "error", err)
	} else if aud != nil {
		defer aud.Close()
		opts = append(opts, review.WithRecorder(aud))
	}

	session := review.New(result, opts...)
	logger.Debug("review session opened", "session_id", session.ID(), "result_id", result.ID)

	res, err := tui.Run(ctx, session)
	if err != nil {
		return fmt.Errorf("running review: %w", err)
	}

	fmt.Fprint(cmd.ErrOrStderr(), res.Report())

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" || !res.Finalized() {
		return nil
	}
	if err := writeContract(outPath, res.Contract); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Clauses written to %s\n", outPath)
	return nil
}

func writeContract(path string, c *review.Contract) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var err error
		data, err = json.MarshalIndent(c, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')
	} else {
		data = []byte(c.Markdown())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing clauses: %w", err)
	}
	return nil
}
