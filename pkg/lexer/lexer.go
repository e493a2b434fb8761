// Package lexer provides tokenization for ZX Spectrum BASIC lines.
//
// Lines are lexed independently: BASIC lines are self-contained once a
// leading line number is read, so any line of a document can be tokenized
// in isolation with no cross-line state. The lexer is also total over
// arbitrary input. It never fails; unknown characters simply become
// one-character PUNCT tokens, because it runs live against whatever a
// user has typed, including half-finished lines.
//
// Token Types:
//
//	KEYWORD    - Reserved words, any casing (e.g. PRINT, goto, Chr$)
//	IDENTIFIER - Variable names (e.g. score, a$, x1)
//	STRING     - Double-quoted literals; "" escapes a quote
//	NUMBER     - Numeric literals (e.g. 10, 3.14)
//	OPERATOR   - <= >= <> = < > + - * / ^
//	PUNCT      - ( ) , ; : and any unrecognized character
//	COMMENT    - Everything on the line after a REM keyword
//	EOI        - End of input; empty range at the line's end
//
// Columns count UTF-16 code units, 0-based and half-open [start, end),
// to match editor protocol positions.
//
// Output Format (JSON array):
//
//	[{"type": "KEYWORD", "value": "PRINT", "startCol": 3, "endCol": 8}, ...]
package lexer

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/stefdev49/vs-zx-sub004/pkg/lang"
)

// Lexer tokenizes a single line of ZX Spectrum BASIC.
type Lexer struct {
	input  string // The line being tokenized
	pos    int    // Current byte offset in input
	col    int    // Current column in UTF-16 code units
	tokens []Token
}

// New creates a new Lexer for the given line. Callers split documents
// into lines first; the input must not contain newline characters.
func New(line string) *Lexer {
	return &Lexer{
		input:  line,
		tokens: make([]Token, 0, 16),
	}
}

// Tokenize processes the whole line and returns its tokens, always
// terminated by an EOI token whose empty range sits at the line's end.
func (l *Lexer) Tokenize() []Token {
	for !l.isAtEnd() {
		l.scanToken()
	}
	l.tokens = append(l.tokens, NewToken(EOI, "", l.col, l.col))
	return l.tokens
}

// Tokenize is shorthand for New(line).Tokenize().
func Tokenize(line string) []Token {
	return New(line).Tokenize()
}

// TokenizeJSON tokenizes a line and returns the tokens as a JSON array.
func TokenizeJSON(line string) (string, error) {
	data, err := json.Marshal(Tokenize(line))
	if err != nil {
		return "", fmt.Errorf("failed to marshal tokens: %w", err)
	}
	return string(data), nil
}

// Helper methods for character access and movement

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if l.pos+size >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+size:])
	return r
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	l.col += utf16Width(r)
	return r
}

func (l *Lexer) addTokenAt(typ TokenType, value string, startCol, endCol int) {
	l.tokens = append(l.tokens, NewToken(typ, value, startCol, endCol))
}

// utf16Width returns the number of UTF-16 code units r occupies.
func utf16Width(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWordRune(r rune) bool {
	return isLetter(r) || isDigit(r)
}

// scanToken scans a single token from the current position.
func (l *Lexer) scanToken() {
	c := l.peek()

	switch {
	// Whitespace separates tokens and is not emitted
	case c == ' ' || c == '\t':
		l.advance()

	case c == '"':
		l.scanString()

	case isDigit(c):
		l.scanNumber()

	case isLetter(c):
		l.scanWord()

	// Comparisons, including the two-character <= >= <>
	case c == '<' || c == '>':
		l.scanComparison()

	case c == '=' || c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
		startCol := l.col
		l.advance()
		l.addTokenAt(OPERATOR, string(c), startCol, l.col)

	case c == '(' || c == ')' || c == ',' || c == ';' || c == ':':
		startCol := l.col
		l.advance()
		l.addTokenAt(PUNCT, string(c), startCol, l.col)

	default:
		// Unknown character: emit as punctuation to keep the stream total
		startCol := l.col
		start := l.pos
		l.advance()
		l.addTokenAt(PUNCT, l.input[start:l.pos], startCol, l.col)
	}
}

// scanString handles "..." literals. A doubled quote inside the literal
// is an escaped quote; an unterminated literal runs to the end of the
// line.
func (l *Lexer) scanString() {
	startCol := l.col
	start := l.pos

	l.advance() // consume opening quote
	for !l.isAtEnd() {
		if l.peek() == '"' {
			if l.peekNext() == '"' {
				l.advance()
				l.advance()
				continue
			}
			l.advance() // consume closing quote
			break
		}
		l.advance()
	}

	l.addTokenAt(STRING, l.input[start:l.pos], startCol, l.col)
}

// scanNumber handles integer and decimal literals.
func (l *Lexer) scanNumber() {
	startCol := l.col
	start := l.pos

	for !l.isAtEnd() && isDigit(l.peek()) {
		l.advance()
	}

	// At most one decimal point, and only when a digit follows
	if !l.isAtEnd() && l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for !l.isAtEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}

	l.addTokenAt(NUMBER, l.input[start:l.pos], startCol, l.col)
}

// scanWord handles keywords and identifiers: a letter followed by
// letters and digits, with an optional trailing $ (a$, CHR$). The $ is
// part of the word, so CHR$ matches as one keyword spelling. A word
// spelling REM turns the remainder of the line into a single COMMENT
// token.
func (l *Lexer) scanWord() {
	startCol := l.col
	start := l.pos

	for !l.isAtEnd() && isWordRune(l.peek()) {
		l.advance()
	}
	if !l.isAtEnd() && l.peek() == '$' {
		l.advance()
	}
	word := l.input[start:l.pos]

	if !lang.IsReserved(word) {
		l.addTokenAt(IDENTIFIER, word, startCol, l.col)
		return
	}

	l.addTokenAt(KEYWORD, word, startCol, l.col)
	if strings.EqualFold(word, "REM") {
		l.scanComment()
	}
}

// scanComment consumes the remainder of the line after REM, leading
// whitespace included, as one COMMENT token. Keyword and string scanning
// never re-enters this span.
func (l *Lexer) scanComment() {
	if l.isAtEnd() {
		return
	}
	startCol := l.col
	start := l.pos

	for !l.isAtEnd() {
		l.advance()
	}

	l.addTokenAt(COMMENT, l.input[start:l.pos], startCol, l.col)
}

// scanComparison handles <, <=, <>, > and >=.
func (l *Lexer) scanComparison() {
	startCol := l.col
	c := l.advance()

	if c == '<' {
		switch l.peek() {
		case '=':
			l.advance()
			l.addTokenAt(OPERATOR, "<=", startCol, l.col)
		case '>':
			l.advance()
			l.addTokenAt(OPERATOR, "<>", startCol, l.col)
		default:
			l.addTokenAt(OPERATOR, "<", startCol, l.col)
		}
		return
	}

	if l.peek() == '=' {
		l.advance()
		l.addTokenAt(OPERATOR, ">=", startCol, l.col)
		return
	}
	l.addTokenAt(OPERATOR, ">", startCol, l.col)
}

// String returns a string representation of the lexer state (for debugging).
func (l *Lexer) String() string {
	return fmt.Sprintf("Lexer{pos=%d, col=%d, tokens=%d}", l.pos, l.col, len(l.tokens))
}
