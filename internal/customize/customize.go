// Package customize substitutes user-supplied values into clause templates.
package customize

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/sprite-ai/clauseguard/internal/model"
)

// placeholder matches {{field}} with optional whitespace inside the braces.
var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)

// Token returns the canonical placeholder token for a field.
func Token(field string) string {
	return "{{" + field + "}}"
}

// Placeholders returns the distinct field names referenced in text, in order
// of first appearance.
func Placeholders(text string) []string {
	var out []string
	for _, m := range placeholder.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(out, m[1]) {
			out = append(out, m[1])
		}
	}
	return out
}

// Apply returns a copy of clause with every declared variable field that has a
// value in fields substituted into the canonical text and the alternative
// versions. Declared fields without a value stay in the text as a canonical
// {{field}} token. Placeholders that are not declared variable fields are left
// untouched. The input clause is never modified.
func Apply(clause model.DefenseClause, fields map[string]string) model.DefenseClause {
	out := clause.Clone()
	declared := make(map[string]bool, len(clause.CustomizationOptions.VariableFields))
	for _, f := range clause.CustomizationOptions.VariableFields {
		declared[f] = true
	}

	out.Clause = substitute(clause.Clause, declared, fields)
	if len(clause.AlternativeVersions) > 0 {
		out.AlternativeVersions = make(map[string]string, len(clause.AlternativeVersions))
		for _, name := range slices.Sorted(maps.Keys(clause.AlternativeVersions)) {
			out.AlternativeVersions[name] = substitute(clause.AlternativeVersions[name], declared, fields)
		}
	}
	return out
}

func substitute(text string, declared map[string]bool, fields map[string]string) string {
	// A single pass so substituted values are never themselves expanded.
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		if !declared[name] {
			return match
		}
		if v, ok := fields[name]; ok {
			return v
		}
		return Token(name)
	})
}

// Unresolved lists the declared variable fields still present as placeholders
// in the clause's canonical text.
func Unresolved(clause model.DefenseClause) []string {
	return UnresolvedFor(clause, model.VersionModerate)
}

// UnresolvedFor is Unresolved for the text of version v.
func UnresolvedFor(clause model.DefenseClause, v model.Version) []string {
	var out []string
	for _, name := range Placeholders(clause.TextFor(v)) {
		if slices.Contains(clause.CustomizationOptions.VariableFields, name) {
			out = append(out, name)
		}
	}
	return out
}

// ParseAssignments parses "field=value" pairs separated by ";" or newlines, the
// form used by the CLI and the TUI customize prompt.
func ParseAssignments(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '\n' }) {
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		out[key] = strings.TrimSpace(value)
	}
	return out
}
