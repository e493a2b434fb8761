// Package textdoc models host editor documents: positions, ranges, text
// edits and an immutable line-indexed snapshot of document text.
//
// Positions follow the editor protocol convention: 0-based line, 0-based
// character measured in UTF-16 code units. Only \n ends a line; a \r
// immediately before it belongs to the break, not to the line text.
package textdoc

import (
	"sort"
	"unicode/utf8"
)

// Position is a 0-based line/character location. Character counts UTF-16
// code units.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open [Start, End) span of text.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextEdit replaces Range with NewText. Edits in a batch never overlap
// and are valid only against the snapshot they were computed from.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// Document is the read-only view of an open document that the analysis
// layers consume. Implementations never mutate the underlying text; all
// results come back as edits for the host to apply.
type Document interface {
	Text() string
	LineCount() int
	LineAt(line int) string
	PositionAt(offset int) Position
	OffsetAt(pos Position) int
}

// TextDocument is an immutable snapshot of document text with a line
// index. Build a fresh one after every host edit; never cache across
// edits.
type TextDocument struct {
	text   string
	starts []int // byte offset of each line start
}

// NewDocument builds a snapshot of text.
func NewDocument(text string) *TextDocument {
	return &TextDocument{text: text, starts: lineStarts(text)}
}

func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Text returns the full document text.
func (d *TextDocument) Text() string {
	return d.text
}

// LineCount returns the number of lines. Text ending in \n has a final
// empty line, matching the editor's model.
func (d *TextDocument) LineCount() int {
	return len(d.starts)
}

// LineAt returns the text of a line without its line break. Out-of-range
// indices return "".
func (d *TextDocument) LineAt(line int) string {
	if line < 0 || line >= len(d.starts) {
		return ""
	}
	start := d.starts[line]
	end := len(d.text)
	if line+1 < len(d.starts) {
		end = d.starts[line+1] - 1
	}
	if end > start && d.text[end-1] == '\r' {
		end--
	}
	return d.text[start:end]
}

// PositionAt converts a byte offset into a Position, clamping to the
// document bounds.
func (d *TextDocument) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.text) {
		offset = len(d.text)
	}
	// Binary search for the containing line.
	i, j := 0, len(d.starts)
	for i+1 < j {
		m := (i + j) / 2
		if d.starts[m] <= offset {
			i = m
		} else {
			j = m
		}
	}
	col := 0
	for k := d.starts[i]; k < offset; {
		r, sz := utf8.DecodeRuneInString(d.text[k:])
		if r == '\n' {
			break
		}
		if r != '\r' {
			col += UTF16Width(r)
		}
		k += sz
	}
	return Position{Line: i, Character: col}
}

// OffsetAt converts a Position into a byte offset, clamping to the line
// and document bounds.
func (d *TextDocument) OffsetAt(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(d.starts) {
		return len(d.text)
	}
	off := d.starts[pos.Line]
	need := pos.Character
	for off < len(d.text) && need > 0 {
		r, sz := utf8.DecodeRuneInString(d.text[off:])
		if r == '\n' {
			break
		}
		// Stop before a line-terminating \r so clamped positions
		// never cover it.
		if r == '\r' && (off+sz == len(d.text) || d.text[off+sz] == '\n') {
			break
		}
		if r != '\r' {
			w := UTF16Width(r)
			if need < w {
				break
			}
			need -= w
		}
		off += sz
	}
	return off
}

// ApplyEdits applies a batch of non-overlapping edits computed against
// text and returns the resulting text. Edits are applied last-to-first so
// earlier offsets stay valid.
func ApplyEdits(text string, edits []TextEdit) string {
	if len(edits) == 0 {
		return text
	}
	doc := NewDocument(text)

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Range.Start, sorted[j].Range.Start
		if a.Line != b.Line {
			return a.Line > b.Line
		}
		return a.Character > b.Character
	})

	result := text
	for _, e := range sorted {
		start := doc.OffsetAt(e.Range.Start)
		end := doc.OffsetAt(e.Range.End)
		result = result[:start] + e.NewText + result[end:]
	}
	return result
}

// UTF16Width returns the number of UTF-16 code units r occupies.
func UTF16Width(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += UTF16Width(r)
	}
	return n
}

// ColToOffset converts a UTF-16 column on a single line into a byte
// offset within that line, clamping to the line bounds. A column landing
// inside a surrogate pair resolves to the start of the character.
func ColToOffset(line string, col int) int {
	off := 0
	for off < len(line) && col > 0 {
		r, sz := utf8.DecodeRuneInString(line[off:])
		w := UTF16Width(r)
		if col < w {
			break
		}
		col -= w
		off += sz
	}
	return off
}
