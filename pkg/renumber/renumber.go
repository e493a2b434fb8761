// Package renumber implements whole-document line renumbering for
// BASIC listings: every labelled line is assigned a fresh label in a
// fixed ascending sequence, every branch reference is rewritten to
// follow its target, and keyword casing is normalized along the way.
//
// The engine is a pure function over an immutable document snapshot.
// It returns whole-line text edits for the host to apply in one batch;
// it never mutates the document itself. Running the engine on its own
// output produces zero further edits.
package renumber

import (
	"strconv"
	"strings"

	"github.com/stefdev49/vs-zx-sub004/pkg/program"
	"github.com/stefdev49/vs-zx-sub004/pkg/scan"
	"github.com/stefdev49/vs-zx-sub004/pkg/textdoc"
)

// Default numbering policy.
const (
	DefaultStart = 10
	DefaultStep  = 10
)

// Options selects the numbering sequence. The zero value means the
// default policy: start at 10, step by 10.
type Options struct {
	Start int
	Step  int
}

func (o Options) withDefaults() Options {
	if o.Start <= 0 {
		o.Start = DefaultStart
	}
	if o.Step <= 0 {
		o.Step = DefaultStep
	}
	return o
}

// Result is the outcome of one renumbering run.
//
// MappedLineCount reports how many lines carried an explicit leading
// label before the run, not how many lines were edited. TouchedLines
// lists the indices of lines that received an edit, ascending.
type Result struct {
	Edits           []textdoc.TextEdit `json:"edits"`
	MappedLineCount int                `json:"mappedLineCount"`
	TouchedLines    []int              `json:"touchedLines"`
}

// Renumber runs the two-pass renumbering over doc.
//
// Pass 1 walks lines top to bottom and assigns each non-blank line the
// next label in the sequence, recording an old-to-new mapping for lines
// that had an explicit label. Duplicate old labels map to the first
// occurrence. Pass 2 renders each line with its new label, rewrites
// every branch reference whose old target is in the mapping, fuses
// two-word branch spellings (GO TO becomes GOTO), and uppercases
// keywords outside strings and comments. A line whose rendered text
// matches the original emits no edit. Dangling references are left
// unchanged.
func Renumber(doc textdoc.Document, opts Options) Result {
	opts = opts.withDefaults()
	listing := program.Scan(doc)

	// Pass 1: assign new labels in document order.
	mapping := make(map[int]int)
	assigned := make(map[int]int, len(listing.Lines))
	next := opts.Start
	mapped := 0
	for _, ln := range listing.Lines {
		if ln.Blank() {
			continue
		}
		assigned[ln.Index] = next
		if ln.HasLabel {
			mapped++
			if _, seen := mapping[ln.Label]; !seen {
				mapping[ln.Label] = next
			}
		}
		next += opts.Step
	}

	// Pass 2: render each line and diff against the original.
	res := Result{MappedLineCount: mapped}
	for _, ln := range listing.Lines {
		if ln.Blank() {
			continue
		}
		rendered := render(ln, assigned[ln.Index], mapping)
		if rendered == ln.Text {
			continue
		}
		res.Edits = append(res.Edits, textdoc.TextEdit{
			Range: textdoc.Range{
				Start: textdoc.Position{Line: ln.Index, Character: 0},
				End:   textdoc.Position{Line: ln.Index, Character: textdoc.UTF16Len(ln.Text)},
			},
			NewText: rendered,
		})
		res.TouchedLines = append(res.TouchedLines, ln.Index)
	}
	return res
}

// splice is a byte-offset replacement against the original line text.
type splice struct {
	start, end int
	text       string
}

// render produces the final text of one line: new label, rewritten
// references, fused branch spellings, normalized keyword case.
func render(ln program.Line, label int, mapping map[int]int) string {
	splices := make([]splice, 0, 1+2*len(ln.Refs))
	if ln.HasLabel {
		splices = append(splices, splice{
			start: textdoc.ColToOffset(ln.Text, ln.LabelStart),
			end:   textdoc.ColToOffset(ln.Text, ln.LabelEnd),
			text:  strconv.Itoa(label),
		})
	} else {
		splices = append(splices, splice{text: strconv.Itoa(label) + " "})
	}
	for _, ref := range ln.Refs {
		if !strings.EqualFold(ref.Raw, ref.Keyword) {
			splices = append(splices, splice{
				start: textdoc.ColToOffset(ln.Text, ref.KwStart),
				end:   textdoc.ColToOffset(ln.Text, ref.KwEnd),
				text:  ref.Keyword,
			})
		}
		if to, ok := mapping[ref.Target]; ok {
			splices = append(splices, splice{
				start: textdoc.ColToOffset(ln.Text, ref.NumStart),
				end:   textdoc.ColToOffset(ln.Text, ref.NumEnd),
				text:  strconv.Itoa(to),
			})
		}
	}

	// Splices are collected left to right; applying them back to front
	// keeps earlier byte offsets valid as the text shrinks or grows.
	out := ln.Text
	for i := len(splices) - 1; i >= 0; i-- {
		s := splices[i]
		out = out[:s.start] + s.text + out[s.end:]
	}
	return scan.UppercaseKeywords(out)
}
