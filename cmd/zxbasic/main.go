// zxbasic - ZX Spectrum BASIC source tool
// Tokenize, renumber, format, list and check BASIC listings.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/labstack/gommon/color"

	"github.com/stefdev49/vs-zx-sub004/pkg/diag"
	"github.com/stefdev49/vs-zx-sub004/pkg/highlight"
	"github.com/stefdev49/vs-zx-sub004/pkg/lexer"
	"github.com/stefdev49/vs-zx-sub004/pkg/program"
	"github.com/stefdev49/vs-zx-sub004/pkg/renumber"
	"github.com/stefdev49/vs-zx-sub004/pkg/scan"
	"github.com/stefdev49/vs-zx-sub004/pkg/textdoc"
)

const versionStr = "0.3.0"

func usage() {
	fmt.Fprintf(os.Stderr, "zxbasic - ZX Spectrum BASIC source tool\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  zxbasic <command> [options] [file]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  tokenize   dump each line's token stream as JSON\n")
	fmt.Fprintf(os.Stderr, "  renumber   renumber lines and rewrite branch targets\n")
	fmt.Fprintf(os.Stderr, "  format     uppercase keywords outside strings and comments\n")
	fmt.Fprintf(os.Stderr, "  list       print the program with syntax coloring\n")
	fmt.Fprintf(os.Stderr, "  check      validate the listing and print diagnostics\n")
	fmt.Fprintf(os.Stderr, "  version    print version and exit\n\n")
	fmt.Fprintf(os.Stderr, "With no file, commands read from stdin.\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "tokenize":
		cmdTokenize(os.Args[2:])
	case "renumber":
		cmdRenumber(os.Args[2:])
	case "format":
		cmdFormat(os.Args[2:])
	case "list":
		cmdList(os.Args[2:])
	case "check":
		cmdCheck(os.Args[2:])
	case "version":
		fmt.Printf("zxbasic version %s\n", versionStr)
	case "-h", "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

// readSource returns the text of the file named by the FlagSet's first
// positional argument, or stdin when there is none.
func readSource(fs *flag.FlagSet) (string, string) {
	path := fs.Arg(0)
	if path == "" {
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			os.Exit(1)
		}
		return string(input), ""
	}
	input, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	return string(input), path
}

// writeResult prints text to stdout, or writes it back to path when
// write is set and the source came from a file.
func writeResult(text, path string, write bool) {
	if write && path != "" {
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		return
	}
	fmt.Print(text)
}

func cmdTokenize(args []string) {
	fs := flag.NewFlagSet("tokenize", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zxbasic tokenize [file]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	text, _ := readSource(fs)
	doc := textdoc.NewDocument(text)
	for i := 0; i < doc.LineCount(); i++ {
		out, err := lexer.TokenizeJSON(doc.LineAt(i))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error tokenizing line %d: %v\n", i+1, err)
			os.Exit(1)
		}
		fmt.Println(out)
	}
}

func cmdRenumber(args []string) {
	fs := flag.NewFlagSet("renumber", flag.ExitOnError)
	start := fs.Int("start", renumber.DefaultStart, "first line number")
	step := fs.Int("step", renumber.DefaultStep, "line number increment")
	write := fs.Bool("write", false, "rewrite the input file in place")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zxbasic renumber [options] [file]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	text, path := readSource(fs)
	doc := textdoc.NewDocument(text)
	res := renumber.Renumber(doc, renumber.Options{Start: *start, Step: *step})
	writeResult(textdoc.ApplyEdits(text, res.Edits), path, *write)

	fmt.Fprintln(os.Stderr, color.Green(fmt.Sprintf(
		"renumbered %d numbered lines, %d lines changed", res.MappedLineCount, len(res.TouchedLines))))
}

func cmdFormat(args []string) {
	fs := flag.NewFlagSet("format", flag.ExitOnError)
	write := fs.Bool("write", false, "rewrite the input file in place")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zxbasic format [options] [file]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	text, path := readSource(fs)
	doc := textdoc.NewDocument(text)

	var edits []textdoc.TextEdit
	for i := 0; i < doc.LineCount(); i++ {
		line := doc.LineAt(i)
		formatted := scan.UppercaseKeywords(line)
		if formatted == line {
			continue
		}
		edits = append(edits, textdoc.TextEdit{
			Range: textdoc.Range{
				Start: textdoc.Position{Line: i, Character: 0},
				End:   textdoc.Position{Line: i, Character: textdoc.UTF16Len(line)},
			},
			NewText: formatted,
		})
	}
	writeResult(textdoc.ApplyEdits(text, edits), path, *write)
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	from := fs.Int("from", 0, "first line number to list")
	to := fs.Int("to", 0, "last line number to list (0 means to the end)")
	plain := fs.Bool("plain", false, "no syntax coloring")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zxbasic list [options] [file]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	text, _ := readSource(fs)
	listing := program.Scan(textdoc.NewDocument(text))

	styles := highlight.DefaultStyles()
	show := func(ln program.Line) bool {
		if *plain {
			fmt.Println(ln.Text)
		} else {
			fmt.Println(styles.Line(ln.Text))
		}
		return true
	}

	if *from == 0 && *to == 0 {
		for _, ln := range listing.Lines {
			if !ln.Blank() {
				show(ln)
			}
		}
		return
	}
	hi := *to
	if hi == 0 {
		hi = diag.MaxLabel
	}
	listing.AscendRange(*from, hi+1, show)
}

func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zxbasic check [file]\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	text, path := readSource(fs)
	if path == "" {
		path = "<stdin>"
	}
	findings := diag.Check(textdoc.NewDocument(text))

	errors := 0
	for _, d := range findings {
		loc := fmt.Sprintf("%s:%d:%d", path, d.Range.Start.Line+1, d.Range.Start.Character+1)
		switch d.Severity {
		case diag.Error:
			errors++
			fmt.Printf("%s %s [%s] %s\n", loc, color.Red("error"), d.Code, d.Message)
		default:
			fmt.Printf("%s %s [%s] %s\n", loc, color.Yellow("warning"), d.Code, d.Message)
		}
	}

	if errors > 0 {
		fmt.Fprintln(os.Stderr, color.Red(fmt.Sprintf("%d error(s), %d warning(s)", errors, len(findings)-errors)))
		os.Exit(1)
	}
	if len(findings) > 0 {
		fmt.Fprintln(os.Stderr, color.Yellow(fmt.Sprintf("%d warning(s)", len(findings))))
	} else {
		fmt.Fprintln(os.Stderr, color.Green("no problems found"))
	}
}
