// genkeywords regenerates pkg/lang/keywords_gen.go from data/keywords.json.
//
// Run it from the repository root after editing the keyword table:
//
//	go run ./cmd/genkeywords
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dave/jennifer/jen"
)

var (
	in     = flag.String("in", "data/keywords.json", "keyword table to read")
	out    = flag.String("out", "pkg/lang/keywords_gen.go", "generated file to write")
	dryRun = flag.Bool("dry-run", false, "print the generated code instead of writing it")
)

type entry struct {
	Word string `json:"word"`
	Kind string `json:"kind"`
	Doc  string `json:"doc"`
}

var kindIdents = map[string]string{
	"command":  "KindCommand",
	"function": "KindFunction",
	"operator": "KindOperator",
}

func main() {
	flag.Parse()

	entries, err := load(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	code, err := generate(entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		fmt.Print(code)
		return
	}

	if err := os.WriteFile(*out, []byte(code), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "genkeywords: wrote %s (%d words)\n", *out, len(entries))
}

func load(path string) ([]entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Word == "" {
			return nil, fmt.Errorf("%s: entry with empty word", path)
		}
		if _, ok := kindIdents[e.Kind]; !ok {
			return nil, fmt.Errorf("%s: word %q has unknown kind %q", path, e.Word, e.Kind)
		}
		if seen[e.Word] {
			return nil, fmt.Errorf("%s: duplicate word %q", path, e.Word)
		}
		seen[e.Word] = true
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Word < entries[j].Word })
	return entries, nil
}

func generate(entries []entry) (string, error) {
	f := jen.NewFile("lang")
	f.HeaderComment("Code generated by genkeywords from data/keywords.json. DO NOT EDIT.")

	f.Var().Id("wordKinds").Op("=").Map(jen.String()).Id("Kind").Values(jen.DictFunc(func(d jen.Dict) {
		for _, e := range entries {
			d[jen.Lit(e.Word)] = jen.Id(kindIdents[e.Kind])
		}
	}))
	f.Line()

	f.Var().Id("wordDocs").Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
		for _, e := range entries {
			d[jen.Lit(e.Word)] = jen.Lit(e.Doc)
		}
	}))

	buf := &bytes.Buffer{}
	if err := f.Render(buf); err != nil {
		return "", fmt.Errorf("rendering: %w", err)
	}
	return buf.String(), nil
}
