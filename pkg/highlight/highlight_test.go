package highlight

import (
	"regexp"
	"testing"
)

var ansiSeq = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripANSI(s string) string {
	return ansiSeq.ReplaceAllString(s, "")
}

func TestLinePreservesText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty line", text: ""},
		{name: "plain statement", text: `10 PRINT "HELLO"`},
		{name: "mixed case with comment", text: "20 rem counts down"},
		{name: "operators and punctuation", text: "30 IF x<=5 THEN GOTO 100"},
		{name: "unicode in string", text: `40 PRINT "café 😀"`},
		{name: "leading whitespace", text: "  50 LET a = 1"},
		{name: "unterminated string", text: `60 PRINT "oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(Line(tt.text))
			if got != tt.text {
				t.Errorf("stripped Line(%q) = %q, want the input unchanged", tt.text, got)
			}
		})
	}
}

func TestStylesAreSelectedByType(t *testing.T) {
	s := DefaultStyles()
	if s.styleFor("KEYWORD").GetBold() != true {
		t.Error("keyword style should be bold")
	}
	if s.styleFor("COMMENT").GetBold() {
		t.Error("comment style should not be bold")
	}
}
