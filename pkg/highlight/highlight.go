// Package highlight renders tokenized BASIC lines with terminal
// styling for listings. Tokens are styled per type; the whitespace
// between them is copied through verbatim, so the visible text of a
// styled line always equals the source line.
package highlight

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefdev49/vs-zx-sub004/pkg/lexer"
	"github.com/stefdev49/vs-zx-sub004/pkg/textdoc"
)

// Styles maps token types to lipgloss styles.
type Styles struct {
	Keyword    lipgloss.Style
	Identifier lipgloss.Style
	String     lipgloss.Style
	Number     lipgloss.Style
	Operator   lipgloss.Style
	Punct      lipgloss.Style
	Comment    lipgloss.Style
}

// DefaultStyles leans on the Spectrum palette: bold cyan keywords,
// green strings, yellow numbers, faint comments.
func DefaultStyles() Styles {
	return Styles{
		Keyword:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		Identifier: lipgloss.NewStyle(),
		String:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Number:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Operator:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Punct:      lipgloss.NewStyle(),
		Comment:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (s Styles) styleFor(typ lexer.TokenType) lipgloss.Style {
	switch typ {
	case lexer.KEYWORD:
		return s.Keyword
	case lexer.IDENTIFIER:
		return s.Identifier
	case lexer.STRING:
		return s.String
	case lexer.NUMBER:
		return s.Number
	case lexer.OPERATOR:
		return s.Operator
	case lexer.COMMENT:
		return s.Comment
	default:
		return s.Punct
	}
}

// Line renders one source line with per-token styling.
func (s Styles) Line(text string) string {
	var b strings.Builder
	prev := 0
	for _, tok := range lexer.Tokenize(text) {
		if tok.IsEnd() {
			break
		}
		start := textdoc.ColToOffset(text, tok.StartCol)
		end := textdoc.ColToOffset(text, tok.EndCol)
		if start > prev {
			b.WriteString(text[prev:start])
		}
		b.WriteString(s.styleFor(tok.Type).Render(text[start:end]))
		prev = end
	}
	if prev < len(text) {
		b.WriteString(text[prev:])
	}
	return b.String()
}

// Line renders text with the default styles.
func Line(text string) string {
	return DefaultStyles().Line(text)
}
