package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/clauseguard/internal/model"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	clauses, reqs := c.Len()
	assert.Greater(t, clauses, 20)
	assert.Greater(t, reqs, 5)
	assert.NotEmpty(t, c.Version)

	cl, ok := c.Clause("ca-written-contract")
	require.True(t, ok)
	assert.True(t, cl.Applicability.Mandatory)
	assert.Equal(t, model.RiskCritical, cl.Applicability.RiskLevel)
	assert.Contains(t, cl.CustomizationOptions.VariableFields, "amount")
}

func TestDefaultCatalogCoversEveryCategory(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	clauses, err := c.Clauses(context.Background())
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, cl := range clauses {
		seen[cl.Category]++
	}
	for _, cat := range model.Categories() {
		assert.Greater(t, seen[string(cat)], 0, "no clauses for %s", cat)
	}
}

func TestRequirementsFilterByJurisdiction(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	ctx := context.Background()

	ca, err := c.Requirements(ctx, "ca")
	require.NoError(t, err)
	require.NotEmpty(t, ca)
	for _, r := range ca {
		assert.Equal(t, "CA", r.Jurisdiction)
	}

	none, err := c.Requirements(ctx, "WY")
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.Contains(t, c.Jurisdictions(), "GENERIC")
}

func TestClausesReturnsCopies(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	ctx := context.Background()

	first, err := c.Clauses(ctx)
	require.NoError(t, err)
	first[0].Clause = "tampered"
	first[0].CustomizationOptions.VariableFields = append(first[0].CustomizationOptions.VariableFields[:0], "x")

	second, err := c.Clauses(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", second[0].Clause)
	if len(second[0].CustomizationOptions.VariableFields) > 0 {
		assert.NotEqual(t, "x", second[0].CustomizationOptions.VariableFields[0])
	}
}

func TestClausesHonorsCancelledContext(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Clauses(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "duplicate clause",
			yaml: `
clauses:
  - {id: a, category: Scope Protection, clause: x}
  - {id: a, category: Scope Protection, clause: y}
`,
			want: `duplicate clause id "a"`,
		},
		{
			name: "field missing from text",
			yaml: `
clauses:
  - id: a
    category: Scope Protection
    clause: no placeholders here
    customizationOptions: {variableFields: [amount]}
`,
			want: `declares field "amount"`,
		},
		{
			name: "unknown requirement clause",
			yaml: `
requirements:
  - {id: r, jurisdiction: CA, clauseId: ghost}
`,
			want: `unknown clause "ghost"`,
		},
		{
			name: "uncompelled mandatory clause",
			yaml: `
clauses:
  - id: a
    category: Legal Compliance
    clause: x
    applicability: {mandatory: true, riskLevel: HIGH}
`,
			want: `mandatory clause "a" is not compelled`,
		},
		{
			name: "unknown check",
			yaml: `
requirements:
  - {id: r, jurisdiction: CA, check: vibes}
`,
			want: `unknown check "vibes"`,
		},
		{
			name: "unsupported version",
			yaml: `
clauses:
  - id: a
    category: Scope Protection
    clause: x
    alternativeVersions: {custom: y}
`,
			want: `unsupported alternative version "custom"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
version: test
clauses:
  - id: w
    category: Legal Compliance
    clause: "Written for {{amount}}."
    customizationOptions: {variableFields: [amount]}
    applicability: {mandatory: true, riskLevel: CRITICAL, jurisdictions: [OR]}
requirements:
  - id: or-written
    jurisdiction: OR
    clauseId: w
    check: written_contract
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "test", c.Version)
	assert.Equal(t, []string{"OR"}, c.Jurisdictions())

	_, err = Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
