// Package scan provides the cheap per-keystroke analyses over raw line
// text: string/comment span detection, word location, last-keyword
// lookup, keyword classification in context, and keyword case
// normalization.
//
// Everything here works character by character on a single line, without
// building a full token stream, so it is safe to call on every keystroke.
// Columns are 0-based UTF-16 code units throughout, matching editor
// positions. All state is fresh per call; lines never share quote or
// comment state.
package scan

import (
	"strings"
	"unicode/utf8"

	"github.com/stefdev49/vs-zx-sub004/pkg/lang"
	"github.com/stefdev49/vs-zx-sub004/pkg/textdoc"
)

// Span is a half-open [Start, End) column range.
type Span struct {
	Start int
	End   int
}

// ProtectedSpans returns the regions of a line where keyword matching
// must not look: string literals (quotes included) and the comment body
// after a REM word. The REM word itself is not part of the comment span.
// An unterminated string extends to the end of the line.
func ProtectedSpans(line string) []Span {
	var spans []Span
	pos, col := 0, 0

	for pos < len(line) {
		r, sz := utf8.DecodeRuneInString(line[pos:])

		switch {
		case r == '"':
			start := col
			pos += sz
			col += utf16Width(r)
			for pos < len(line) {
				q, qsz := utf8.DecodeRuneInString(line[pos:])
				pos += qsz
				col += utf16Width(q)
				if q == '"' {
					// A quote directly followed by another is an
					// escaped quote, still inside the literal
					if pos < len(line) && line[pos] == '"' {
						pos++
						col++
						continue
					}
					break
				}
			}
			spans = append(spans, Span{Start: start, End: col})

		case isLetter(r):
			word, wsz, w16 := wordAt(line[pos:])
			pos += wsz
			col += w16
			if strings.EqualFold(word, "REM") {
				if pos < len(line) {
					spans = append(spans, Span{Start: col, End: col + textdoc.UTF16Len(line[pos:])})
				}
				return spans
			}

		default:
			pos += sz
			col += utf16Width(r)
		}
	}
	return spans
}

// WordBeforePosition returns the word ending at or immediately before
// col, skipping trailing whitespace, along with the column the word
// starts at. ok is false when only whitespace precedes col, when the
// nearest preceding character is not a word character, or when the
// position falls inside a string or comment.
func WordBeforePosition(line string, col int) (word string, start int, ok bool) {
	end := textdoc.ColToOffset(line, col)

	for end > 0 {
		r, sz := utf8.DecodeLastRuneInString(line[:end])
		if r != ' ' && r != '\t' {
			break
		}
		end -= sz
	}
	if end == 0 {
		return "", 0, false
	}

	endCol := textdoc.UTF16Len(line[:end])
	if insideProtected(ProtectedSpans(line), endCol) {
		return "", 0, false
	}

	wstart := end
	// One trailing $ belongs to the word (a$, CHR$), but only after a
	// word character
	if r, sz := utf8.DecodeLastRuneInString(line[:wstart]); r == '$' {
		if r2, _ := utf8.DecodeLastRuneInString(line[:wstart-sz]); isWordRune(r2) {
			wstart -= sz
		}
	}
	for wstart > 0 {
		r, sz := utf8.DecodeLastRuneInString(line[:wstart])
		if !isWordRune(r) {
			break
		}
		wstart -= sz
	}
	if wstart == end {
		return "", 0, false
	}

	return line[wstart:end], textdoc.UTF16Len(line[:wstart]), true
}

// LastKeywordOnLine returns the last reserved word on the line outside
// any string or comment, spelled exactly as written. ok is false when no
// such word exists. Scanning stops at a REM word, which is itself a
// candidate; anything after it is comment text.
func LastKeywordOnLine(line string) (string, bool) {
	spans := ProtectedSpans(line)
	last := ""
	pos, col := 0, 0

	for pos < len(line) {
		r, sz := utf8.DecodeRuneInString(line[pos:])

		if isLetter(r) && !spanContains(spans, col) {
			word, wsz, w16 := wordAt(line[pos:])
			pos += wsz
			col += w16
			if lang.IsReserved(word) {
				last = word
				if strings.EqualFold(word, "REM") {
					break
				}
			}
			continue
		}

		pos += sz
		col += utf16Width(r)
	}

	if last == "" {
		return "", false
	}
	return last, true
}

// wordAt scans the word at the start of s: letters and digits with an
// optional trailing $. It returns the word, its byte length and its
// UTF-16 length.
func wordAt(s string) (word string, size, width int) {
	for size < len(s) {
		r, sz := utf8.DecodeRuneInString(s[size:])
		if !isWordRune(r) {
			break
		}
		size += sz
		width += utf16Width(r)
	}
	if size < len(s) && s[size] == '$' {
		size++
		width++
	}
	return s[:size], size, width
}

// spanContains reports whether col is within a protected span. Used for
// positions that mark the start of a candidate word.
func spanContains(spans []Span, col int) bool {
	for _, s := range spans {
		if col >= s.Start && col < s.End {
			return true
		}
	}
	return false
}

// insideProtected reports whether a cursor-style position is inside a
// protected span. The span end counts as inside so that the last
// character of an unterminated string is still protected.
func insideProtected(spans []Span, col int) bool {
	for _, s := range spans {
		if col > s.Start && col <= s.End {
			return true
		}
	}
	return false
}

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
