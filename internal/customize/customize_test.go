package customize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/clauseguard/internal/model"
)

func depositClause() model.DefenseClause {
	return model.DefenseClause{
		ID:       "pay-deposit",
		Category: string(model.CategoryPayment),
		Clause:   "Client shall pay a deposit of {{amount}} to {{ contractorName }} before work begins.",
		AlternativeVersions: map[string]string{
			"aggressive": "A non-refundable deposit of {{amount}} is due at signing.",
			"minimal":    "A deposit is due before work begins.",
		},
		CustomizationOptions: model.CustomizationOptions{VariableFields: []string{"amount", "contractorName"}},
	}
}

func TestApplySubstitutesField(t *testing.T) {
	c := depositClause()

	out := Apply(c, map[string]string{"amount": "$5,000"})

	assert.Equal(t, "Client shall pay a deposit of $5,000 to {{contractorName}} before work begins.", out.Clause)
	assert.Equal(t, "A non-refundable deposit of $5,000 is due at signing.", out.AlternativeVersions["aggressive"])
	assert.Equal(t, "A deposit is due before work begins.", out.AlternativeVersions["minimal"])
}

func TestApplyLeavesUnresolvedPlaceholdersVisible(t *testing.T) {
	out := Apply(depositClause(), map[string]string{"amount": "$5,000"})

	assert.Equal(t, []string{"contractorName"}, Unresolved(out))
	assert.Contains(t, out.Clause, "{{contractorName}}")
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	c := depositClause()
	before := c.Clone()

	_ = Apply(c, map[string]string{"amount": "$1", "contractorName": "Acme"})

	assert.Equal(t, before, c)
}

func TestApplyIsPure(t *testing.T) {
	c := depositClause()
	fields := map[string]string{"amount": "$2,500", "contractorName": "Acme Builders"}

	first := Apply(c, fields)
	second := Apply(c, fields)

	assert.Equal(t, first, second)
	assert.Empty(t, Unresolved(first))
}

func TestApplyIgnoresUndeclaredFields(t *testing.T) {
	c := model.DefenseClause{
		Clause:               "Pay {{amount}} within {{days}} days.",
		CustomizationOptions: model.CustomizationOptions{VariableFields: []string{"amount"}},
	}

	out := Apply(c, map[string]string{"amount": "$10", "days": "30"})

	assert.Equal(t, "Pay $10 within {{days}} days.", out.Clause)
}

func TestApplyDoesNotExpandValues(t *testing.T) {
	c := depositClause()

	out := Apply(c, map[string]string{"amount": "{{contractorName}}", "contractorName": "Acme"})

	assert.Equal(t, "Client shall pay a deposit of {{contractorName}} to Acme before work begins.", out.Clause)
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("{{a}} and {{ b }} and {{a}} but not {single} or {{1x}}")
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestParseAssignments(t *testing.T) {
	got := ParseAssignments("amount=$5,000; days = 30\nbogus;=x")
	require.Len(t, got, 2)
	assert.Equal(t, "$5,000", got["amount"])
	assert.Equal(t, "30", got["days"])
}
