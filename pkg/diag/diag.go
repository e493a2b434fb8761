// Package diag validates BASIC listings: line-number range and
// duplicate checks, branch-target resolution, FOR/NEXT pairing and
// IF/THEN completeness. It consumes the token stream and the program
// model and reports findings as ranged diagnostics; it never fails on
// malformed source.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stefdev49/vs-zx-sub004/pkg/lexer"
	"github.com/stefdev49/vs-zx-sub004/pkg/program"
	"github.com/stefdev49/vs-zx-sub004/pkg/textdoc"
)

// Severity follows the LSP numbering: 1 is an error, 2 a warning.
type Severity int

const (
	Error   Severity = 1
	Warning Severity = 2
)

// Diagnostic codes.
const (
	CodeLineNum = "LINENUM" // label outside 1-9999
	CodeDupLine = "DUPLINE" // duplicate label
	CodeTarget  = "TARGET"  // branch target with no exact line
	CodeForNext = "FORNEXT" // unpaired FOR or NEXT
	CodeIfThen  = "IFTHEN"  // IF with no THEN on the line
)

// Source identifies this analyzer in published diagnostics.
const Source = "zxbasic"

// Diagnostic is one finding, ranged in UTF-16 columns on a single line.
type Diagnostic struct {
	Range    textdoc.Range `json:"range"`
	Severity Severity      `json:"severity"`
	Code     string        `json:"code"`
	Source   string        `json:"source"`
	Message  string        `json:"message"`
}

// MaxLabel is the largest line number the ROM accepts.
const MaxLabel = 9999

// Check runs every validation over doc and returns the findings sorted
// by position.
func Check(doc textdoc.Document) []Diagnostic {
	listing := program.Scan(doc)

	var ds []Diagnostic
	firstAt := make(map[int]int) // label value -> first document line

	for _, ln := range listing.Lines {
		if ln.HasLabel {
			if ln.Label < 1 || ln.Label > MaxLabel {
				ds = append(ds, spanDiag(ln.Index, ln.LabelStart, ln.LabelEnd, Error, CodeLineNum,
					fmt.Sprintf("line number %d is outside 1-%d", ln.Label, MaxLabel)))
			}
			if first, seen := firstAt[ln.Label]; seen {
				ds = append(ds, spanDiag(ln.Index, ln.LabelStart, ln.LabelEnd, Warning, CodeDupLine,
					fmt.Sprintf("duplicate line number %d, first defined on line %d", ln.Label, first+1)))
			} else {
				firstAt[ln.Label] = ln.Index
			}
		}

		ds = append(ds, checkThen(ln)...)

		for _, ref := range ln.Refs {
			if _, ok := listing.Line(ref.Target); ok {
				continue
			}
			msg := fmt.Sprintf("no line %d for %s", ref.Target, ref.Keyword)
			if after, ok := listing.After(ref.Target); ok {
				msg += fmt.Sprintf(", falls through to line %d", after.Label)
			}
			ds = append(ds, spanDiag(ln.Index, ref.NumStart, ref.NumEnd, Warning, CodeTarget, msg))
		}
	}

	ds = append(ds, checkForNext(listing)...)

	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i].Range.Start, ds[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Character < b.Character
	})
	return ds
}

// checkThen flags every IF on the line that has no THEN to its right.
func checkThen(ln program.Line) []Diagnostic {
	var ds []Diagnostic
	for i, tok := range ln.Tokens {
		if tok.Type != lexer.KEYWORD || !strings.EqualFold(tok.Value, "IF") {
			continue
		}
		found := false
		for _, rest := range ln.Tokens[i+1:] {
			if rest.Type == lexer.KEYWORD && strings.EqualFold(rest.Value, "THEN") {
				found = true
				break
			}
		}
		if !found {
			ds = append(ds, spanDiag(ln.Index, tok.StartCol, tok.EndCol, Error, CodeIfThen,
				"IF has no THEN on this line"))
		}
	}
	return ds
}

// openFor is a FOR whose NEXT has not been seen yet.
type openFor struct {
	variable string
	line     int
	startCol int
	endCol   int
}

// checkForNext pairs FOR and NEXT statements by loop variable across
// the whole document, innermost first.
func checkForNext(listing *program.Listing) []Diagnostic {
	var ds []Diagnostic
	var open []openFor

	for _, ln := range listing.Lines {
		for i, tok := range ln.Tokens {
			if tok.Type != lexer.KEYWORD {
				continue
			}
			switch {
			case strings.EqualFold(tok.Value, "FOR"):
				v, ok := loopVariable(ln.Tokens, i)
				if !ok {
					continue
				}
				open = append(open, openFor{variable: v, line: ln.Index, startCol: tok.StartCol, endCol: tok.EndCol})
			case strings.EqualFold(tok.Value, "NEXT"):
				v, ok := loopVariable(ln.Tokens, i)
				if !ok {
					ds = append(ds, spanDiag(ln.Index, tok.StartCol, tok.EndCol, Warning, CodeForNext,
						"NEXT has no loop variable"))
					continue
				}
				matched := false
				for j := len(open) - 1; j >= 0; j-- {
					if strings.EqualFold(open[j].variable, v) {
						open = append(open[:j], open[j+1:]...)
						matched = true
						break
					}
				}
				if !matched {
					ds = append(ds, spanDiag(ln.Index, tok.StartCol, tok.EndCol, Warning, CodeForNext,
						fmt.Sprintf("NEXT %s has no matching FOR", v)))
				}
			}
		}
	}

	for _, f := range open {
		ds = append(ds, spanDiag(f.line, f.startCol, f.endCol, Warning, CodeForNext,
			fmt.Sprintf("FOR %s has no matching NEXT", f.variable)))
	}
	return ds
}

// loopVariable returns the identifier following the keyword at i.
func loopVariable(toks []lexer.Token, i int) (string, bool) {
	if i+1 >= len(toks) || toks[i+1].Type != lexer.IDENTIFIER {
		return "", false
	}
	return toks[i+1].Value, true
}

func spanDiag(line, startCol, endCol int, sev Severity, code, msg string) Diagnostic {
	return Diagnostic{
		Range: textdoc.Range{
			Start: textdoc.Position{Line: line, Character: startCol},
			End:   textdoc.Position{Line: line, Character: endCol},
		},
		Severity: sev,
		Code:     code,
		Source:   Source,
		Message:  msg,
	}
}
