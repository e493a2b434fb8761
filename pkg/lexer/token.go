// Package lexer provides tokenization for ZX Spectrum BASIC lines.
package lexer

// TokenType represents the type of a token.
type TokenType string

// Token types produced by the line tokenizer.
const (
	KEYWORD    TokenType = "KEYWORD"    // Reserved words, any casing (e.g. PRINT, goto, Chr$)
	IDENTIFIER TokenType = "IDENTIFIER" // Variable names (e.g. score, a$, x1)
	STRING     TokenType = "STRING"     // Double-quoted literals; "" escapes a quote
	NUMBER     TokenType = "NUMBER"     // Numeric literals (e.g. 10, 3.14)
	OPERATOR   TokenType = "OPERATOR"   // <= >= <> = < > + - * / ^
	PUNCT      TokenType = "PUNCT"      // ( ) , ; : and any unrecognized character
	COMMENT    TokenType = "COMMENT"    // Everything on the line after a REM keyword
	EOI        TokenType = "EOI"        // End of input; empty range at the line's end
)

// Token represents a single token from the lexer. Columns are 0-based
// UTF-16 code units, half-open [StartCol, EndCol), matching the positions
// an editor reports. Value preserves the original casing exactly as
// written.
type Token struct {
	Type     TokenType `json:"type"`
	Value    string    `json:"value"`
	StartCol int       `json:"startCol"`
	EndCol   int       `json:"endCol"`
}

// NewToken creates a new token with the given properties.
func NewToken(typ TokenType, value string, startCol, endCol int) Token {
	return Token{
		Type:     typ,
		Value:    value,
		StartCol: startCol,
		EndCol:   endCol,
	}
}

// Contains reports whether col falls on the token. The end column counts
// as on the token, so a cursor sitting just after the last character
// still hits it.
func (t Token) Contains(col int) bool {
	return col >= t.StartCol && col <= t.EndCol
}

// IsKeyword returns true if the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Type == KEYWORD
}

// IsIdentifier returns true if the token is a user identifier.
func (t Token) IsIdentifier() bool {
	return t.Type == IDENTIFIER
}

// IsLiteral returns true if the token is a string or number literal.
func (t Token) IsLiteral() bool {
	return t.Type == STRING || t.Type == NUMBER
}

// IsEnd returns true if the token is the end-of-input terminator.
func (t Token) IsEnd() bool {
	return t.Type == EOI
}
