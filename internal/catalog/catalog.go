// Package catalog implements the read-only clause knowledge base: defense
// clauses and the compliance requirements that compel them.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sprite-ai/clauseguard/internal/customize"
	"github.com/sprite-ai/clauseguard/internal/model"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Source is anything the analyzer can pull clauses and requirements from: the
// embedded catalog, a file, or a remote knowledge base.
type Source interface {
	Clauses(ctx context.Context) ([]model.DefenseClause, error)
	Requirements(ctx context.Context, jurisdiction string) ([]model.ComplianceRequirement, error)
}

// Catalog is an in-memory Source. It is safe for concurrent use because it is
// never mutated after construction and every accessor returns copies.
type Catalog struct {
	Version      string
	clauses      []model.DefenseClause
	requirements []model.ComplianceRequirement
	byID         map[string]int
}

type catalogFile struct {
	Version      string                        `yaml:"version"`
	Clauses      []model.DefenseClause         `yaml:"clauses"`
	Requirements []model.ComplianceRequirement `yaml:"requirements"`
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	c, err := Parse(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	return c, nil
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Open returns the catalog at path, or the builtin one when path is empty.
func Open(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes and validates YAML catalog data.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(f.Version, f.Clauses, f.Requirements)
}

// New builds a catalog from clauses and requirements after validating them.
func New(version string, clauses []model.DefenseClause, reqs []model.ComplianceRequirement) (*Catalog, error) {
	c := &Catalog{
		Version: version,
		byID:    make(map[string]int, len(clauses)),
	}
	for _, cl := range clauses {
		c.clauses = append(c.clauses, cl.Clone())
	}
	for _, r := range reqs {
		r.Deadlines = slices.Clone(r.Deadlines)
		r.Conditions.ProjectCategories = slices.Clone(r.Conditions.ProjectCategories)
		c.requirements = append(c.requirements, r)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	var problems []string

	for i, cl := range c.clauses {
		if cl.ID == "" {
			problems = append(problems, fmt.Sprintf("clause #%d has no id", i))
			continue
		}
		if _, dup := c.byID[cl.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate clause id %q", cl.ID))
			continue
		}
		c.byID[cl.ID] = i
		if cl.Category == "" {
			problems = append(problems, fmt.Sprintf("clause %q has no category", cl.ID))
		}
		if strings.TrimSpace(cl.Clause) == "" {
			problems = append(problems, fmt.Sprintf("clause %q has no text", cl.ID))
		}
		placeholders := customize.Placeholders(cl.Clause)
		for _, field := range cl.CustomizationOptions.VariableFields {
			if !slices.Contains(placeholders, field) {
				problems = append(problems, fmt.Sprintf("clause %q declares field %q missing from its text", cl.ID, field))
			}
		}
		for name := range cl.AlternativeVersions {
			if _, err := model.ParseVersion(name); err != nil || name == "custom" || name == "moderate" {
				problems = append(problems, fmt.Sprintf("clause %q has unsupported alternative version %q", cl.ID, name))
			}
		}
	}

	compelled := make(map[string]bool)
	seenReq := make(map[string]bool)
	for i, r := range c.requirements {
		if r.ID == "" {
			problems = append(problems, fmt.Sprintf("requirement #%d has no id", i))
			continue
		}
		if seenReq[r.ID] {
			problems = append(problems, fmt.Sprintf("duplicate requirement id %q", r.ID))
		}
		seenReq[r.ID] = true
		if r.Jurisdiction == "" {
			problems = append(problems, fmt.Sprintf("requirement %q has no jurisdiction", r.ID))
		}
		if !KnownCheck(r.Check) {
			problems = append(problems, fmt.Sprintf("requirement %q uses unknown check %q", r.ID, r.Check))
		}
		if r.ClauseID == "" {
			continue
		}
		idx, ok := c.byID[r.ClauseID]
		if !ok {
			problems = append(problems, fmt.Sprintf("requirement %q references unknown clause %q", r.ID, r.ClauseID))
			continue
		}
		if !c.clauses[idx].Applicability.Mandatory {
			problems = append(problems, fmt.Sprintf("requirement %q compels clause %q which is not marked mandatory", r.ID, r.ClauseID))
		}
		compelled[r.ClauseID] = true
	}

	for _, cl := range c.clauses {
		if cl.Applicability.Mandatory && !compelled[cl.ID] {
			problems = append(problems, fmt.Sprintf("mandatory clause %q is not compelled by any requirement", cl.ID))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("invalid catalog: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Clauses returns copies of every clause in catalog order.
func (c *Catalog) Clauses(ctx context.Context) ([]model.DefenseClause, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.DefenseClause, len(c.clauses))
	for i, cl := range c.clauses {
		out[i] = cl.Clone()
	}
	return out, nil
}

// Requirements returns the requirements of one jurisdiction in catalog order.
func (c *Catalog) Requirements(ctx context.Context, jurisdiction string) ([]model.ComplianceRequirement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []model.ComplianceRequirement
	for _, r := range c.requirements {
		if strings.EqualFold(r.Jurisdiction, jurisdiction) {
			r.Deadlines = slices.Clone(r.Deadlines)
			r.Conditions.ProjectCategories = slices.Clone(r.Conditions.ProjectCategories)
			out = append(out, r)
		}
	}
	return out, nil
}

// Clause looks up a clause by id.
func (c *Catalog) Clause(id string) (model.DefenseClause, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return model.DefenseClause{}, false
	}
	return c.clauses[idx].Clone(), true
}

// Jurisdictions lists every jurisdiction that has at least one requirement.
func (c *Catalog) Jurisdictions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.requirements {
		if !seen[r.Jurisdiction] {
			seen[r.Jurisdiction] = true
			out = append(out, r.Jurisdiction)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of clauses and requirements.
func (c *Catalog) Len() (clauses, requirements int) {
	return len(c.clauses), len(c.requirements)
}
