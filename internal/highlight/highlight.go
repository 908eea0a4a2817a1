// Package highlight colors clause text and report output for terminals.
package highlight

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/chroma/v2/styles"
)

// StyleName is the chroma style used everywhere.
var StyleName = "dracula"

// Line represents a line with syntax-highlighted tokens.
type Line struct {
	Tokens []Token
}

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // hex color, empty for default
	Field bool   // an unfilled {{field}} placeholder
}

// Plain returns the concatenated plain text of all tokens.
func (l Line) Plain() string {
	var b strings.Builder
	for _, t := range l.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// clauseLexer marks {{field}} placeholders, dollar amounts and statute
// references in contract clause text.
var clauseLexer = chroma.Coalesce(chroma.MustNewLexer(
	&chroma.Config{Name: "clause"},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `\{\{\s*[A-Za-z][A-Za-z0-9_]*\s*\}\}`, Type: chroma.NameVariable},
				{Pattern: `\$\d[\d,]*(?:\.\d+)?`, Type: chroma.LiteralNumber},
				{Pattern: `\d+(?:\.\d+)?%`, Type: chroma.LiteralNumber},
				{Pattern: `§+\s*[\d.()a-z-]+`, Type: chroma.NameBuiltin},
				{Pattern: `[^{$§\d]+`, Type: chroma.Text},
				{Pattern: `.`, Type: chroma.Text},
			},
		}
	},
))

// Clause highlights clause text, one Line per input line.
func Clause(text string) []Line {
	return tokenise(clauseLexer, strings.Split(text, "\n"))
}

// Lines applies syntax highlighting to lines of the named language ("json",
// "markdown", "yaml"). Unknown languages pass through uncolored.
func Lines(language string, lines []string) []Line {
	lexer := lexers.Get(language)
	if lexer == nil {
		return plainLines(lines)
	}
	return tokenise(chroma.Coalesce(lexer), lines)
}

// Write writes source to w colored for a 256-color terminal.
func Write(w io.Writer, source, language string) error {
	return quick.Highlight(w, source, language, "terminal256", StyleName)
}

func tokenise(lexer chroma.Lexer, lines []string) []Line {
	source := strings.Join(lines, "\n")
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return plainLines(lines)
	}

	style := styles.Get(StyleName)
	if style == nil {
		style = styles.Fallback
	}

	result := make([]Line, 0, len(lines))
	current := Line{}

	for _, token := range iterator.Tokens() {
		// Split tokens that span multiple lines
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, current)
				current = Line{}
			}
			if part != "" {
				current.Tokens = append(current.Tokens, Token{
					Text:  part,
					Color: tokenColor(style, token.Type),
					Field: token.Type == chroma.NameVariable,
				})
			}
		}
	}
	result = append(result, current)

	for len(result) < len(lines) {
		result = append(result, Line{Tokens: []Token{{Text: ""}}})
	}

	return result
}

func plainLines(lines []string) []Line {
	result := make([]Line, len(lines))
	for i, line := range lines {
		result[i] = Line{Tokens: []Token{{Text: line}}}
	}
	return result
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
