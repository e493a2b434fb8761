package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/stefdev49/vs-zx-sub004/pkg/textdoc"
)

// rpcEnvelope decodes any message the server wrote, request, response
// or notification alike.
type rpcEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Result  json.RawMessage `json:"result"`
	Error   *ResponseError  `json:"error"`
}

// testClient drives the server in-process and captures everything it
// writes to the protocol stream.
type testClient struct {
	t   *testing.T
	s   *server
	out *bytes.Buffer
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	var buf bytes.Buffer
	old := stdoutSink
	stdoutSink = &buf
	t.Cleanup(func() { stdoutSink = old })

	log := logrus.New()
	log.SetOutput(io.Discard)
	return &testClient{t: t, s: newServer(log), out: &buf}
}

func (c *testClient) request(id int, method string, params any) {
	c.t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		c.t.Fatalf("marshal %s params: %v", method, err)
	}
	idRaw, _ := json.Marshal(id)
	dispatch(c.s, Request{JSONRPC: "2.0", ID: idRaw, Method: method, Params: raw})
}

func (c *testClient) notify(method string, params any) {
	c.t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		c.t.Fatalf("marshal %s params: %v", method, err)
	}
	dispatch(c.s, Request{JSONRPC: "2.0", Method: method, Params: raw})
}

func (c *testClient) didOpen(uri, text string) {
	c.t.Helper()
	c.notify("textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{URI: uri, LanguageID: "zxbasic", Version: 1, Text: text},
	})
}

// messages decodes every framed message written so far.
func (c *testClient) messages() []rpcEnvelope {
	c.t.Helper()
	r := bufio.NewReader(bytes.NewReader(c.out.Bytes()))
	var envs []rpcEnvelope
	for {
		body, err := readMsg(r)
		if err == io.EOF {
			return envs
		}
		if err != nil {
			c.t.Fatalf("read framed message: %v", err)
		}
		var env rpcEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			c.t.Fatalf("decode message: %v", err)
		}
		envs = append(envs, env)
	}
}

func findResponse(t *testing.T, envs []rpcEnvelope, id int) rpcEnvelope {
	t.Helper()
	want := strconv.Itoa(id)
	for _, e := range envs {
		if e.Method == "" && string(e.ID) == want {
			return e
		}
	}
	t.Fatalf("no response with id %d among %d messages", id, len(envs))
	return rpcEnvelope{}
}

func findRequest(t *testing.T, envs []rpcEnvelope, method string) (rpcEnvelope, bool) {
	t.Helper()
	for _, e := range envs {
		if e.Method == method && len(e.ID) > 0 {
			return e, true
		}
	}
	return rpcEnvelope{}, false
}

func lastDiagnostics(t *testing.T, envs []rpcEnvelope, uri string) PublishDiagnosticsParams {
	t.Helper()
	var p PublishDiagnosticsParams
	found := false
	for _, e := range envs {
		if e.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var cand PublishDiagnosticsParams
		if err := json.Unmarshal(e.Params, &cand); err != nil {
			t.Fatalf("decode diagnostics params: %v", err)
		}
		if cand.URI == uri {
			p = cand
			found = true
		}
	}
	if !found {
		t.Fatalf("no publishDiagnostics for %s", uri)
	}
	return p
}

func decodeResult(t *testing.T, env rpcEnvelope, into any) {
	t.Helper()
	if env.Error != nil {
		t.Fatalf("unexpected error response: %d %s", env.Error.Code, env.Error.Message)
	}
	if err := json.Unmarshal(env.Result, into); err != nil {
		t.Fatalf("decode result: %v", err)
	}
}

func TestInitializeCapabilities(t *testing.T) {
	c := newTestClient(t)
	c.request(1, "initialize", InitializeParams{})

	var res InitializeResult
	decodeResult(t, findResponse(t, c.messages(), 1), &res)

	caps := res.Capabilities
	if !caps.TextDocumentSync.OpenClose || caps.TextDocumentSync.Change != 2 {
		t.Errorf("sync = %+v, want openClose with incremental change", caps.TextDocumentSync)
	}
	if !caps.HoverProvider || !caps.DocumentFormattingProvider {
		t.Error("hover and formatting must be advertised")
	}
	if got := caps.DocumentOnTypeFormattingProvider.FirstTriggerCharacter; got != " " {
		t.Errorf("firstTriggerCharacter = %q, want space", got)
	}
	legend := caps.SemanticTokensProvider.Legend.TokenTypes
	if len(legend) != 7 || legend[0] != "keyword" || legend[6] != "operator" {
		t.Errorf("semantic legend = %v", legend)
	}
	if cmds := caps.ExecuteCommandProvider.Commands; len(cmds) != 1 || cmds[0] != "zxbasic.renumber" {
		t.Errorf("commands = %v", cmds)
	}
	if res.ServerInfo["name"] != "zxbasic-lsp" {
		t.Errorf("serverInfo = %v", res.ServerInfo)
	}
}

func TestDiagnosticsLifecycle(t *testing.T) {
	c := newTestClient(t)

	c.didOpen("file:///clean.bas", "10 PRINT \"hi\"\n20 GOTO 10\n")
	if p := lastDiagnostics(t, c.messages(), "file:///clean.bas"); len(p.Diagnostics) != 0 {
		t.Errorf("clean program got %d diagnostics: %+v", len(p.Diagnostics), p.Diagnostics)
	}

	c.didOpen("file:///bad.bas", "10 GOTO 99\n")
	p := lastDiagnostics(t, c.messages(), "file:///bad.bas")
	if len(p.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(p.Diagnostics))
	}
	d := p.Diagnostics[0]
	if d.Code != "TARGET" || d.Severity != 2 {
		t.Errorf("diagnostic = %+v, want TARGET warning", d)
	}
	if d.Message != "no line 99 for GOTO" {
		t.Errorf("message = %q", d.Message)
	}
	wantRange := textdoc.Range{
		Start: textdoc.Position{Line: 0, Character: 8},
		End:   textdoc.Position{Line: 0, Character: 10},
	}
	if d.Range != wantRange {
		t.Errorf("range = %+v, want %+v", d.Range, wantRange)
	}

	// Closing clears the client's findings.
	c.notify("textDocument/didClose", DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: "file:///bad.bas"},
	})
	if p := lastDiagnostics(t, c.messages(), "file:///bad.bas"); len(p.Diagnostics) != 0 {
		t.Errorf("diagnostics not cleared on close: %+v", p.Diagnostics)
	}
}

func TestDidChangeIncremental(t *testing.T) {
	c := newTestClient(t)
	uri := "file:///a.bas"
	c.didOpen(uri, "10 GOTO 99\n")

	c.notify("textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument: VersionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []TextDocumentContentChangeEvent{{
			Range: &textdoc.Range{
				Start: textdoc.Position{Line: 0, Character: 8},
				End:   textdoc.Position{Line: 0, Character: 10},
			},
			Text: "10",
		}},
	})

	d, ok := c.s.get(uri)
	if !ok {
		t.Fatal("document lost after change")
	}
	if d.text != "10 GOTO 10\n" {
		t.Errorf("text = %q, want %q", d.text, "10 GOTO 10\n")
	}
	if d.version != 2 {
		t.Errorf("version = %d, want 2", d.version)
	}
	if p := lastDiagnostics(t, c.messages(), uri); len(p.Diagnostics) != 0 {
		t.Errorf("diagnostics after fix = %+v, want none", p.Diagnostics)
	}
}

func TestDidChangeFullReplace(t *testing.T) {
	c := newTestClient(t)
	uri := "file:///b.bas"
	c.didOpen(uri, "10 PRINT\n")

	c.notify("textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: uri, Version: 2},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: "5 PRINT\n5 PRINT\n"}},
	})

	p := lastDiagnostics(t, c.messages(), uri)
	if len(p.Diagnostics) != 1 || p.Diagnostics[0].Code != "DUPLINE" {
		t.Errorf("diagnostics = %+v, want one DUPLINE", p.Diagnostics)
	}
}

func TestHoverKeyword(t *testing.T) {
	c := newTestClient(t)
	uri := "file:///h.bas"
	c.didOpen(uri, "10 print \"go to mars\"\n")

	c.request(2, "textDocument/hover", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     textdoc.Position{Line: 0, Character: 5},
	})
	var h Hover
	decodeResult(t, findResponse(t, c.messages(), 2), &h)
	if h.Contents.Kind != "markdown" {
		t.Errorf("contents kind = %q", h.Contents.Kind)
	}
	if !strings.Contains(h.Contents.Value, "**PRINT**") || !strings.Contains(h.Contents.Value, "(command)") {
		t.Errorf("hover value = %q", h.Contents.Value)
	}
	wantRange := textdoc.Range{
		Start: textdoc.Position{Line: 0, Character: 3},
		End:   textdoc.Position{Line: 0, Character: 8},
	}
	if h.Range == nil || *h.Range != wantRange {
		t.Errorf("hover range = %+v, want %+v", h.Range, wantRange)
	}

	// Keyword spellings inside a string are just text.
	c.request(3, "textDocument/hover", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     textdoc.Position{Line: 0, Character: 12},
	})
	resp := findResponse(t, c.messages(), 3)
	if string(resp.Result) != "null" {
		t.Errorf("hover inside string = %s, want null", resp.Result)
	}
}

func TestCompletionItems(t *testing.T) {
	c := newTestClient(t)
	uri := "file:///c.bas"
	c.didOpen(uri, "10 g\n")

	c.request(4, "textDocument/completion", TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     textdoc.Position{Line: 0, Character: 4},
	})
	var items []CompletionItem
	decodeResult(t, findResponse(t, c.messages(), 4), &items)
	if len(items) < 50 {
		t.Fatalf("got %d items, want the full keyword set", len(items))
	}

	byLabel := make(map[string]CompletionItem, len(items))
	for _, it := range items {
		byLabel[it.Label] = it
	}
	if it := byLabel["GOTO"]; it.Kind != CompletionKindKeyword || it.Detail == "" {
		t.Errorf("GOTO item = %+v", it)
	}
	if it := byLabel["CHR$"]; it.Kind != CompletionKindFunction {
		t.Errorf("CHR$ item = %+v", it)
	}
	if it := byLabel["AND"]; it.Kind != CompletionKindOperator {
		t.Errorf("AND item = %+v", it)
	}
}

func TestFormatting(t *testing.T) {
	c := newTestClient(t)
	uri := "file:///f.bas"
	c.didOpen(uri, "10 print \"a\"\nrem done\n30 RETURN\n")

	c.request(5, "textDocument/formatting", DocumentFormattingParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Options:      FormattingOptions{TabSize: 4, InsertSpaces: true},
	})
	var edits []textdoc.TextEdit
	decodeResult(t, findResponse(t, c.messages(), 5), &edits)

	want := []textdoc.TextEdit{
		{
			Range: textdoc.Range{
				Start: textdoc.Position{Line: 0, Character: 0},
				End:   textdoc.Position{Line: 0, Character: 12},
			},
			NewText: "10 PRINT \"a\"",
		},
		{
			Range: textdoc.Range{
				Start: textdoc.Position{Line: 1, Character: 0},
				End:   textdoc.Position{Line: 1, Character: 8},
			},
			NewText: "REM done",
		},
	}
	if !reflect.DeepEqual(edits, want) {
		t.Errorf("edits = %+v, want %+v", edits, want)
	}
}

func TestOnTypeFormatting(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  textdoc.Position
		ch   string
		want []textdoc.TextEdit
	}{
		{
			name: "lowercase keyword after space",
			text: "10 rem \n",
			pos:  textdoc.Position{Line: 0, Character: 7},
			ch:   " ",
			want: []textdoc.TextEdit{{
				Range: textdoc.Range{
					Start: textdoc.Position{Line: 0, Character: 3},
					End:   textdoc.Position{Line: 0, Character: 6},
				},
				NewText: "REM",
			}},
		},
		{
			name: "colon trigger",
			text: "20 cls:\n",
			pos:  textdoc.Position{Line: 0, Character: 7},
			ch:   ":",
			want: []textdoc.TextEdit{{
				Range: textdoc.Range{
					Start: textdoc.Position{Line: 0, Character: 3},
					End:   textdoc.Position{Line: 0, Character: 6},
				},
				NewText: "CLS",
			}},
		},
		{
			name: "newline fixes previous line",
			text: "10 cls\n",
			pos:  textdoc.Position{Line: 1, Character: 0},
			ch:   "\n",
			want: []textdoc.TextEdit{{
				Range: textdoc.Range{
					Start: textdoc.Position{Line: 0, Character: 3},
					End:   textdoc.Position{Line: 0, Character: 6},
				},
				NewText: "CLS",
			}},
		},
		{
			name: "bound variable kept as typed",
			text: "dim for \n",
			pos:  textdoc.Position{Line: 0, Character: 8},
			ch:   " ",
			want: []textdoc.TextEdit{},
		},
		{
			name: "already canonical",
			text: "10 PRINT \n",
			pos:  textdoc.Position{Line: 0, Character: 9},
			ch:   " ",
			want: []textdoc.TextEdit{},
		},
		{
			name: "inside string literal",
			text: "10 print \"go to \n",
			pos:  textdoc.Position{Line: 0, Character: 16},
			ch:   " ",
			want: []textdoc.TextEdit{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t)
			uri := "file:///t.bas"
			c.didOpen(uri, tt.text)
			c.request(6, "textDocument/onTypeFormatting", DocumentOnTypeFormattingParams{
				TextDocument: TextDocumentIdentifier{URI: uri},
				Position:     tt.pos,
				Ch:           tt.ch,
			})
			var edits []textdoc.TextEdit
			decodeResult(t, findResponse(t, c.messages(), 6), &edits)
			if !reflect.DeepEqual(edits, tt.want) {
				t.Errorf("edits = %+v, want %+v", edits, tt.want)
			}
		})
	}
}

func TestSemanticTokens(t *testing.T) {
	c := newTestClient(t)
	uri := "file:///s.bas"
	c.didOpen(uri, "10 print \"hi\"\nrem x\n")

	c.request(7, "textDocument/semanticTokens/full", SemanticTokensParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
	})
	var toks SemanticTokens
	decodeResult(t, findResponse(t, c.messages(), 7), &toks)

	want := []uint32{
		0, 0, 2, 4, 0, // 10      number
		0, 3, 5, 0, 0, // print   keyword
		0, 6, 4, 3, 0, // "hi"    string
		1, 0, 3, 0, 0, // rem     keyword
		0, 3, 2, 5, 0, // " x"    comment
	}
	if !reflect.DeepEqual(toks.Data, want) {
		t.Errorf("data = %v, want %v", toks.Data, want)
	}
}

func TestExecuteCommandRenumber(t *testing.T) {
	c := newTestClient(t)
	uri := "file:///r.bas"
	text := "300 PRINT \"HELLO\"\n450 GO TO 300\n"
	c.didOpen(uri, text)

	args, _ := json.Marshal(RenumberArgs{URI: uri})
	c.request(9, "workspace/executeCommand", ExecuteCommandParams{
		Command:   "zxbasic.renumber",
		Arguments: []json.RawMessage{args},
	})
	envs := c.messages()

	var res RenumberResult
	decodeResult(t, findResponse(t, envs, 9), &res)
	if res.MappedLineCount != 2 {
		t.Errorf("mappedLineCount = %d, want 2", res.MappedLineCount)
	}
	if !reflect.DeepEqual(res.TouchedLines, []int{0, 1}) {
		t.Errorf("touchedLines = %v, want [0 1]", res.TouchedLines)
	}

	req, ok := findRequest(t, envs, "workspace/applyEdit")
	if !ok {
		t.Fatal("no workspace/applyEdit request sent")
	}
	var p ApplyWorkspaceEditParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		t.Fatalf("decode applyEdit params: %v", err)
	}
	applied := textdoc.ApplyEdits(text, p.Edit.Changes[uri])
	want := "10 PRINT \"HELLO\"\n20 GOTO 10\n"
	if applied != want {
		t.Errorf("applied text = %q, want %q", applied, want)
	}
}

func TestExecuteCommandRenumberNoChanges(t *testing.T) {
	c := newTestClient(t)
	uri := "file:///n.bas"
	c.didOpen(uri, "10 PRINT\n")

	args, _ := json.Marshal(RenumberArgs{URI: uri})
	c.request(10, "workspace/executeCommand", ExecuteCommandParams{
		Command:   "zxbasic.renumber",
		Arguments: []json.RawMessage{args},
	})
	envs := c.messages()

	var res RenumberResult
	decodeResult(t, findResponse(t, envs, 10), &res)
	if res.MappedLineCount != 1 || len(res.TouchedLines) != 0 {
		t.Errorf("result = %+v, want 1 mapped line and no touched lines", res)
	}
	if _, ok := findRequest(t, envs, "workspace/applyEdit"); ok {
		t.Error("applyEdit sent for an already canonical document")
	}
}

func TestUnknownMethod(t *testing.T) {
	c := newTestClient(t)
	c.request(11, "textDocument/references", nil)
	resp := findResponse(t, c.messages(), 11)
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Errorf("response = %+v, want method-not-found error", resp)
	}

	// Unknown notifications are dropped without a reply.
	before := len(c.messages())
	c.notify("workspace/didChangeConfiguration", map[string]any{})
	if after := len(c.messages()); after != before {
		t.Errorf("notification produced %d new messages", after-before)
	}
}
