package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/clauseguard/internal/catalog"
	"github.com/sprite-ai/clauseguard/internal/jurisdiction"
	"github.com/sprite-ai/clauseguard/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the clauses and compliance requirements in the catalog",
	Long: `List the defense clauses and compliance requirements of the active
catalog, optionally narrowed to one jurisdiction.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <catalog.yaml>",
	Short: "Check a catalog file for errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		clauses, reqs := c.Len()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: version %s, %d clauses, %d requirements, ok\n", args[0], c.Version, clauses, reqs)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringP("jurisdiction", "j", "", "only show clauses and requirements for this state code")
	catalogCmd.Flags().StringP("format", "f", "text", "output format: text, json, yaml")
	catalogCmd.AddCommand(catalogValidateCmd)
}

type catalogListing struct {
	Version      string                        `json:"version" yaml:"version"`
	Clauses      []model.DefenseClause         `json:"clauses" yaml:"clauses"`
	Requirements []model.ComplianceRequirement `json:"requirements" yaml:"requirements"`
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	code, _ := cmd.Flags().GetString("jurisdiction")
	code = strings.ToUpper(strings.TrimSpace(code))
	if code != "" && code != jurisdiction.Generic && !jurisdiction.Known(code) {
		return fmt.Errorf("unknown jurisdiction %q", code)
	}

	ctx := cmd.Context()
	all, err := cat.Clauses(ctx)
	if err != nil {
		return err
	}

	listing := catalogListing{Version: cat.Version}
	for _, c := range all {
		if code == "" || c.Applicability.AppliesIn(code) {
			listing.Clauses = append(listing.Clauses, c)
		}
	}
	codes := cat.Jurisdictions()
	if code != "" {
		codes = []string{code}
	}
	for _, j := range codes {
		reqs, err := cat.Requirements(ctx, j)
		if err != nil {
			return err
		}
		listing.Requirements = append(listing.Requirements, reqs...)
	}

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(listing)
	case "text":
		return catalogText(out, listing)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func catalogText(w io.Writer, l catalogListing) error {
	fmt.Fprintf(w, "Catalog %s: %d clauses, %d requirements\n\n", l.Version, len(l.Clauses), len(l.Requirements))

	category := ""
	for _, c := range l.Clauses {
		if c.Category != category {
			category = c.Category
			fmt.Fprintf(w, "%s\n", category)
		}
		where := "all states"
		if len(c.Applicability.Jurisdictions) > 0 {
			where = strings.Join(c.Applicability.Jurisdictions, ",")
		}
		fmt.Fprintf(w, "  %-28s %-8s %s\n", c.ID, c.Applicability.RiskLevel, where)
	}

	if len(l.Requirements) > 0 {
		fmt.Fprintln(w, "\nRequirements")
		for _, r := range l.Requirements {
			fmt.Fprintf(w, "  %-8s %-28s -> %s\n", r.Jurisdiction, r.ID, r.ClauseID)
			if r.Penalty != "" {
				fmt.Fprint(w, indent("penalty: "+r.Penalty, "           "))
			}
		}
	}
	return nil
}
