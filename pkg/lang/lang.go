// Package lang holds the reserved-word tables for ZX Spectrum BASIC.
//
// The tables themselves live in keywords_gen.go, generated from
// data/keywords.json by cmd/genkeywords. Matching is case-insensitive and
// whole-word; a trailing $ is part of the word (CHR$ is one spelling, not
// CHR plus punctuation).
package lang

import (
	"sort"
	"strings"
)

// Kind classifies a reserved word.
type Kind string

const (
	KindCommand  Kind = "command"  // statements: PRINT, GOTO, DIM, ...
	KindFunction Kind = "function" // built-in functions: ABS, CHR$, RND, ...
	KindOperator Kind = "operator" // word operators: AND, OR, NOT
)

// words is the sorted canonical spelling list, built once from the
// generated kind table.
var words []string

func init() {
	words = make([]string, 0, len(wordKinds))
	for w := range wordKinds {
		words = append(words, w)
	}
	sort.Strings(words)
}

// Canonical returns the canonical (upper-case) spelling of a word.
func Canonical(word string) string {
	return strings.ToUpper(word)
}

// IsReserved reports whether word is a reserved spelling, in any case.
func IsReserved(word string) bool {
	_, ok := wordKinds[Canonical(word)]
	return ok
}

// KindOf returns the kind of a reserved word, and whether it is reserved.
func KindOf(word string) (Kind, bool) {
	k, ok := wordKinds[Canonical(word)]
	return k, ok
}

// IsCommand reports whether word is a statement keyword.
func IsCommand(word string) bool {
	return wordKinds[Canonical(word)] == KindCommand
}

// IsFunction reports whether word is a built-in function spelling.
func IsFunction(word string) bool {
	return wordKinds[Canonical(word)] == KindFunction
}

// IsOperatorWord reports whether word is AND, OR or NOT.
func IsOperatorWord(word string) bool {
	return wordKinds[Canonical(word)] == KindOperator
}

// Doc returns the one-line description of a reserved word, or "" if the
// word is not reserved.
func Doc(word string) string {
	return wordDocs[Canonical(word)]
}

// Words returns the canonical spellings of every reserved word in sorted
// order. The caller must not modify the returned slice.
func Words() []string {
	return words
}
