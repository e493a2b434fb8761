package scan

import (
	"strings"
	"unicode/utf8"

	"github.com/stefdev49/vs-zx-sub004/pkg/lang"
)

// UppercaseKeywords returns line with every reserved word outside
// strings and comments replaced by its upper-case spelling. Everything
// else, identifiers, numbers, string contents, the comment body after
// REM, punctuation and whitespace, is copied byte for byte, so the
// result always has the same length and layout as the input. Multi-word
// phrases like GO TO and DEF FN normalize word by word; the whitespace
// between them is untouched.
func UppercaseKeywords(line string) string {
	spans := ProtectedSpans(line)

	var b strings.Builder
	b.Grow(len(line))
	pos, col := 0, 0

	for pos < len(line) {
		r, sz := utf8.DecodeRuneInString(line[pos:])

		if isLetter(r) && !spanContains(spans, col) {
			word, wsz, w16 := wordAt(line[pos:])
			if lang.IsReserved(word) {
				b.WriteString(strings.ToUpper(word))
			} else {
				b.WriteString(word)
			}
			pos += wsz
			col += w16
			continue
		}

		b.WriteString(line[pos : pos+sz])
		pos += sz
		col += utf16Width(r)
	}

	return b.String()
}
