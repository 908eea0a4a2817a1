package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/clauseguard/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit [session-id]",
	Short: "Show the review audit trail",
	Long: `Show recorded review actions from the audit log. With a session id, show
that session's actions oldest first; otherwise show the most recent actions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().IntP("limit", "n", 20, "number of recent actions to show")
	auditCmd.Flags().Bool("json", false, "output JSON")
}

func runAudit(cmd *cobra.Command, args []string) error {
	aud, err := openAuditor()
	if err != nil {
		return err
	}
	if aud == nil {
		return fmt.Errorf("audit log disabled; set audit.path or --audit-db")
	}
	defer aud.Close()

	var entries []audit.Entry
	if len(args) == 1 {
		entries, err = aud.Session(cmd.Context(), args[0])
	} else {
		limit, _ := cmd.Flags().GetInt("limit")
		entries, err = aud.Recent(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No recorded actions.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSESSION\tACTION\tCLAUSE\tCHANGE\tERROR")
	for _, e := range entries {
		change := ""
		if e.From != "" {
			change = e.From + " -> " + e.To
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.SessionID, e.Action, e.ClauseID, change, e.Error)
	}
	return tw.Flush()
}
