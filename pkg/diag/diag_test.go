package diag

import (
	"reflect"
	"testing"

	"github.com/stefdev49/vs-zx-sub004/pkg/textdoc"
)

func check(t *testing.T, text string) []Diagnostic {
	t.Helper()
	return Check(textdoc.NewDocument(text))
}

func TestCheckCleanProgram(t *testing.T) {
	text := "10 FOR i = 1 TO 3\n20 PRINT i\n30 NEXT i\n40 IF i > 2 THEN GOTO 10\n"
	if ds := check(t, text); len(ds) != 0 {
		t.Errorf("got %d diagnostics, want 0: %+v", len(ds), ds)
	}
}

func TestCheckFindings(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Diagnostic
	}{
		{
			name: "line number zero",
			text: "0 PRINT\n",
			want: []Diagnostic{
				spanDiag(0, 0, 1, Error, CodeLineNum, "line number 0 is outside 1-9999"),
			},
		},
		{
			name: "line number too large",
			text: "12345 PRINT\n",
			want: []Diagnostic{
				spanDiag(0, 0, 5, Error, CodeLineNum, "line number 12345 is outside 1-9999"),
			},
		},
		{
			name: "duplicate label flags the later line",
			text: "20 PRINT\n20 PRINT\n",
			want: []Diagnostic{
				spanDiag(1, 0, 2, Warning, CodeDupLine, "duplicate line number 20, first defined on line 1"),
			},
		},
		{
			name: "missing target with fall through",
			text: "10 GOTO 15\n20 PRINT\n",
			want: []Diagnostic{
				spanDiag(0, 8, 10, Warning, CodeTarget, "no line 15 for GOTO, falls through to line 20"),
			},
		},
		{
			name: "missing target past the end",
			text: "10 GOTO 99\n",
			want: []Diagnostic{
				spanDiag(0, 8, 10, Warning, CodeTarget, "no line 99 for GOTO"),
			},
		},
		{
			name: "for without next",
			text: "10 FOR i = 1 TO 3\n",
			want: []Diagnostic{
				spanDiag(0, 3, 6, Warning, CodeForNext, "FOR i has no matching NEXT"),
			},
		},
		{
			name: "next without for",
			text: "10 NEXT j\n",
			want: []Diagnostic{
				spanDiag(0, 3, 7, Warning, CodeForNext, "NEXT j has no matching FOR"),
			},
		},
		{
			name: "next without a variable",
			text: "10 NEXT\n",
			want: []Diagnostic{
				spanDiag(0, 3, 7, Warning, CodeForNext, "NEXT has no loop variable"),
			},
		},
		{
			name: "if without then",
			text: "10 IF a > 1\n",
			want: []Diagnostic{
				spanDiag(0, 3, 5, Error, CodeIfThen, "IF has no THEN on this line"),
			},
		},
		{
			name: "nested loops pair up",
			text: "10 FOR i = 1 TO 3\n20 FOR j = 1 TO 3\n30 NEXT j\n40 NEXT i\n",
			want: nil,
		},
		{
			name: "case insensitive loop variables",
			text: "10 for I = 1 to 3\n20 next i\n",
			want: nil,
		},
		{
			name: "if inside comment is ignored",
			text: "10 REM if only\n",
			want: nil,
		},
		{
			name: "then target in string is ignored",
			text: "10 PRINT \"GOTO 99\"\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := check(t, tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Check() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCheckOrdering(t *testing.T) {
	// Findings come back sorted by line and column even though the
	// FOR/NEXT pass runs last.
	text := "10 FOR i = 1 TO 3\n0 GOTO 99\n"
	got := check(t, text)

	var codes []string
	for _, d := range got {
		codes = append(codes, d.Code)
	}
	want := []string{CodeForNext, CodeLineNum, CodeTarget}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1].Range.Start, got[i].Range.Start
		if cur.Line < prev.Line || (cur.Line == prev.Line && cur.Character < prev.Character) {
			t.Errorf("diagnostics out of order at %d: %+v before %+v", i, got[i-1], got[i])
		}
	}
}
