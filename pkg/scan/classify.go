package scan

import (
	"strings"

	"github.com/stefdev49/vs-zx-sub004/pkg/lang"
	"github.com/stefdev49/vs-zx-sub004/pkg/lexer"
)

// Result is the outcome of classifying one word in its line context.
// IsVariable is never true on its own: a keyword-spelled variable is
// still keyword-spelled.
type Result struct {
	IsKeyword  bool `json:"isKeyword"`
	IsVariable bool `json:"isVariable"`
}

// bindingKeywords mark the positions where the grammar expects an
// identifier rather than a command, so the following word is a bound
// name even when spelled like a keyword: DIM a, INPUT a, LET a, FOR a.
var bindingKeywords = map[string]bool{
	"DIM":   true,
	"INPUT": true,
	"LET":   true,
	"FOR":   true,
}

// Classify decides whether word, found on line with the cursor at col,
// is a reserved keyword, a variable spelled like one, or neither. col
// may sit anywhere on the word, including just past its last character,
// which is where a cursor lands while typing.
//
// The line is re-tokenized on every call; nothing is cached across
// edits.
func Classify(word, line string, col int) Result {
	if !lang.IsReserved(word) {
		return Result{}
	}

	tokens := lexer.Tokenize(line)
	idx := tokenAt(tokens, word, col)
	if idx < 0 {
		return Result{}
	}

	tok := tokens[idx]
	if tok.Type != lexer.KEYWORD || !strings.EqualFold(tok.Value, word) {
		// Inside a string or comment, or word is only a fragment of a
		// longer token
		return Result{}
	}

	if idx > 0 {
		prev := tokens[idx-1]
		if prev.Type == lexer.KEYWORD && bindingKeywords[lang.Canonical(prev.Value)] {
			return Result{IsKeyword: true, IsVariable: true}
		}
	}
	return Result{IsKeyword: true}
}

// tokenAt locates the token col falls on. When col sits on the boundary
// between two tokens, the one whose value matches word wins.
func tokenAt(tokens []lexer.Token, word string, col int) int {
	best := -1
	for i, t := range tokens {
		if !t.Contains(col) {
			continue
		}
		if strings.EqualFold(t.Value, word) {
			return i
		}
		if best < 0 {
			best = i
		}
	}
	return best
}
