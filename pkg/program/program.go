// Package program models a scanned BASIC listing: every document line
// with its leading numeric label (when present) and the branch
// references inside its statement body. Labelled lines are indexed in
// a B-tree ordered by (label, document position) so lookups follow ZX
// BASIC's fall-through rule for branch targets.
package program

import (
	"strconv"
	"strings"

	"github.com/google/btree"

	"github.com/stefdev49/vs-zx-sub004/pkg/lexer"
	"github.com/stefdev49/vs-zx-sub004/pkg/textdoc"
)

// Ref is a branch reference: a numeric literal following a
// control-transfer keyword, denoting a target label.
type Ref struct {
	Keyword  string // canonical spelling: GOTO, GOSUB, RESTORE, LIST or THEN
	Raw      string // keyword as written, including two-word forms like "go to"
	Target   int    // referenced label value
	KwStart  int    // UTF-16 column span of the keyword (both words for GO TO)
	KwEnd    int
	NumStart int // UTF-16 column span of the number literal
	NumEnd   int
}

// Line is one scanned document line.
type Line struct {
	Index      int // 0-based position in the document
	Label      int
	HasLabel   bool
	LabelStart int // UTF-16 column span of the label literal
	LabelEnd   int
	Text       string
	Tokens     []lexer.Token
	Refs       []Ref
}

// Blank reports whether the line contains no tokens at all.
func (l Line) Blank() bool {
	return len(l.Tokens) == 0 || (len(l.Tokens) == 1 && l.Tokens[0].IsEnd())
}

// Less orders lines by label, then by document position, so duplicate
// labels keep their original order in the tree.
func (l Line) Less(than btree.Item) bool {
	o := than.(Line)
	if l.Label != o.Label {
		return l.Label < o.Label
	}
	return l.Index < o.Index
}

// ScanLine tokenizes one line and extracts its leading label and every
// branch reference in its statement body.
//
// A leading label is an integer Number token at column 0 followed by
// whitespace or end of line. A branch reference is an integer Number
// token immediately following GOTO, GOSUB, GO TO, GO SUB, RESTORE,
// LIST or THEN. References inside strings or REM comments never
// surface here because the tokenizer folds those regions into single
// STRING and COMMENT tokens.
func ScanLine(index int, text string) Line {
	ln := Line{Index: index, Text: text, Tokens: lexer.Tokenize(text)}
	toks := ln.Tokens

	i := 0
	if len(toks) > 0 && toks[0].Type == lexer.NUMBER && toks[0].StartCol == 0 {
		if n, ok := integer(toks[0].Value); ok && labelBoundary(text, toks[0].EndCol) {
			ln.HasLabel = true
			ln.Label = n
			ln.LabelStart = toks[0].StartCol
			ln.LabelEnd = toks[0].EndCol
			i = 1
		}
	}

	for ; i < len(toks); i++ {
		if toks[i].Type != lexer.KEYWORD {
			continue
		}
		kw := strings.ToUpper(toks[i].Value)
		end := i
		switch kw {
		case "GO":
			// Two-word spellings: GO TO and GO SUB.
			if i+1 >= len(toks) || toks[i+1].Type != lexer.KEYWORD {
				continue
			}
			switch strings.ToUpper(toks[i+1].Value) {
			case "TO":
				kw = "GOTO"
			case "SUB":
				kw = "GOSUB"
			default:
				continue
			}
			end = i + 1
		case "GOTO", "GOSUB", "RESTORE", "LIST", "THEN":
		default:
			continue
		}
		num := end + 1
		if num >= len(toks) || toks[num].Type != lexer.NUMBER {
			continue
		}
		n, ok := integer(toks[num].Value)
		if !ok {
			continue
		}
		ln.Refs = append(ln.Refs, Ref{
			Keyword:  kw,
			Raw:      colSlice(text, toks[i].StartCol, toks[end].EndCol),
			Target:   n,
			KwStart:  toks[i].StartCol,
			KwEnd:    toks[end].EndCol,
			NumStart: toks[num].StartCol,
			NumEnd:   toks[num].EndCol,
		})
		i = num
	}
	return ln
}

// integer parses a Number token value that denotes a whole line number.
func integer(v string) (int, bool) {
	if strings.ContainsRune(v, '.') {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// labelBoundary reports whether the character at col is whitespace or
// end of line, so "10PRINT" does not read as label 10.
func labelBoundary(text string, col int) bool {
	off := textdoc.ColToOffset(text, col)
	if off >= len(text) {
		return true
	}
	return text[off] == ' ' || text[off] == '\t'
}

// colSlice returns the source text between two UTF-16 columns.
func colSlice(text string, startCol, endCol int) string {
	return text[textdoc.ColToOffset(text, startCol):textdoc.ColToOffset(text, endCol)]
}

// Listing is a scanned program: every document line in order, plus an
// index of the labelled ones.
type Listing struct {
	Lines []Line
	tree  *btree.BTree
}

// Scan builds a Listing from every line of doc.
func Scan(doc textdoc.Document) *Listing {
	l := &Listing{tree: btree.New(4)}
	for i := 0; i < doc.LineCount(); i++ {
		ln := ScanLine(i, doc.LineAt(i))
		l.Lines = append(l.Lines, ln)
		if ln.HasLabel {
			l.tree.ReplaceOrInsert(ln)
		}
	}
	return l
}

// Line returns the first line carrying exactly the given label, in
// document order.
func (l *Listing) Line(label int) (Line, bool) {
	var found Line
	var ok bool
	l.tree.AscendGreaterOrEqual(Line{Label: label, Index: -1},
		func(item btree.Item) bool {
			ln := item.(Line)
			if ln.Label == label {
				found, ok = ln, true
			}
			return false
		})
	return found, ok
}

// After returns the first labelled line with label >= n. ZX BASIC
// branches fall through to the next existing line when the exact
// target is missing.
func (l *Listing) After(n int) (Line, bool) {
	var found Line
	var ok bool
	l.tree.AscendGreaterOrEqual(Line{Label: n, Index: -1},
		func(item btree.Item) bool {
			found, ok = item.(Line), true
			return false
		})
	return found, ok
}

// Ascend visits every labelled line in (label, position) order.
func (l *Listing) Ascend(fn func(Line) bool) {
	l.tree.Ascend(func(item btree.Item) bool {
		return fn(item.(Line))
	})
}

// AscendRange visits labelled lines with lo <= label < hi.
func (l *Listing) AscendRange(lo, hi int, fn func(Line) bool) {
	l.tree.AscendRange(Line{Label: lo, Index: -1}, Line{Label: hi, Index: -1},
		func(item btree.Item) bool {
			return fn(item.(Line))
		})
}

// Labelled returns how many lines carry their own label.
func (l *Listing) Labelled() int {
	return l.tree.Len()
}

// Duplicates returns each label value that appears on more than one
// line, ascending.
func (l *Listing) Duplicates() []int {
	var dups []int
	prev := 0
	run := 0
	l.Ascend(func(ln Line) bool {
		if run > 0 && ln.Label == prev {
			run++
			if run == 2 {
				dups = append(dups, ln.Label)
			}
		} else {
			prev = ln.Label
			run = 1
		}
		return true
	})
	return dups
}
