package main

import (
	"encoding/json"
	"fmt"

	"github.com/stefdev49/vs-zx-sub004/pkg/diag"
	"github.com/stefdev49/vs-zx-sub004/pkg/lang"
	"github.com/stefdev49/vs-zx-sub004/pkg/lexer"
	"github.com/stefdev49/vs-zx-sub004/pkg/renumber"
	"github.com/stefdev49/vs-zx-sub004/pkg/scan"
	"github.com/stefdev49/vs-zx-sub004/pkg/textdoc"
)

// semanticTokenTypes is the legend sent at initialize. Token data
// indexes into this slice.
var semanticTokenTypes = []string{
	"keyword", "function", "variable", "string", "number", "comment", "operator",
}

const cmdRenumber = "zxbasic.renumber"

func (s *server) onInitialize(id json.RawMessage, _ json.RawMessage) {
	res := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: TextDocumentSyncOptions{OpenClose: true, Change: 2},
			HoverProvider:    true,
			CompletionProvider: &CompletionOptions{
				TriggerCharacters: []string{" "},
			},
			DocumentFormattingProvider: true,
			DocumentOnTypeFormattingProvider: &OnTypeFormattingOptions{
				FirstTriggerCharacter: " ",
				MoreTriggerCharacter:  []string{":", "\n"},
			},
			SemanticTokensProvider: &SemanticTokensOptions{
				Legend: SemanticTokensLegend{
					TokenTypes:     semanticTokenTypes,
					TokenModifiers: []string{},
				},
				Full: true,
			},
			ExecuteCommandProvider: &ExecuteCommandOptions{
				Commands: []string{cmdRenumber},
			},
		},
		ServerInfo: map[string]string{"name": "zxbasic-lsp", "version": versionStr},
	}
	s.sendResult(id, res)
}

func (s *server) onDidOpen(paramsRaw json.RawMessage) {
	var p DidOpenTextDocumentParams
	if err := json.Unmarshal(paramsRaw, &p); err != nil {
		s.log.WithError(err).Error("didOpen params")
		return
	}
	d := &docState{
		uri:     p.TextDocument.URI,
		version: p.TextDocument.Version,
		text:    p.TextDocument.Text,
	}
	s.mu.Lock()
	s.docs[d.uri] = d
	s.mu.Unlock()
	s.log.WithField("uri", d.uri).Debug("opened")
	s.publishDiagnostics(d)
}

func (s *server) onDidChange(paramsRaw json.RawMessage) {
	var p DidChangeTextDocumentParams
	if err := json.Unmarshal(paramsRaw, &p); err != nil {
		s.log.WithError(err).Error("didChange params")
		return
	}
	uri := p.TextDocument.URI
	s.mu.Lock()
	d, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		s.log.WithField("uri", uri).Warn("change for unopened document")
		return
	}
	text := d.text
	for _, ch := range p.ContentChanges {
		if ch.Range == nil {
			text = ch.Text
			continue
		}
		snap := textdoc.NewDocument(text)
		start := snap.OffsetAt(ch.Range.Start)
		end := snap.OffsetAt(ch.Range.End)
		text = text[:start] + ch.Text + text[end:]
	}
	d.text = text
	d.version = p.TextDocument.Version
	s.mu.Unlock()
	s.publishDiagnostics(d)
}

func (s *server) onDidClose(paramsRaw json.RawMessage) {
	var p DidCloseTextDocumentParams
	if err := json.Unmarshal(paramsRaw, &p); err != nil {
		s.log.WithError(err).Error("didClose params")
		return
	}
	s.mu.Lock()
	delete(s.docs, p.TextDocument.URI)
	s.mu.Unlock()
	// Clear stale findings on the client.
	s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         p.TextDocument.URI,
		Diagnostics: []diag.Diagnostic{},
	})
}

func (s *server) publishDiagnostics(d *docState) {
	s.mu.RLock()
	text := d.text
	uri := d.uri
	s.mu.RUnlock()
	ds := diag.Check(textdoc.NewDocument(text))
	if ds == nil {
		ds = []diag.Diagnostic{}
	}
	s.notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: ds,
	})
}

func (s *server) onHover(id, paramsRaw json.RawMessage) {
	var p TextDocumentPositionParams
	if err := json.Unmarshal(paramsRaw, &p); err != nil {
		s.sendError(id, codeInvalidParams, err.Error())
		return
	}
	d, ok := s.get(p.TextDocument.URI)
	if !ok {
		s.sendResult(id, nil)
		return
	}
	line := textdoc.NewDocument(d.text).LineAt(p.Position.Line)
	for _, tok := range lexer.Tokenize(line) {
		if tok.IsEnd() {
			break
		}
		if !tok.IsKeyword() || !tok.Contains(p.Position.Character) {
			continue
		}
		canon := lang.Canonical(tok.Value)
		kind, _ := lang.KindOf(canon)
		value := fmt.Sprintf("**%s** *(%s)*", canon, kind)
		if doc := lang.Doc(canon); doc != "" {
			value += "\n\n" + doc
		}
		s.sendResult(id, Hover{
			Contents: MarkupContent{Kind: "markdown", Value: value},
			Range: &textdoc.Range{
				Start: textdoc.Position{Line: p.Position.Line, Character: tok.StartCol},
				End:   textdoc.Position{Line: p.Position.Line, Character: tok.EndCol},
			},
		})
		return
	}
	s.sendResult(id, nil)
}

func (s *server) onCompletion(id, _ json.RawMessage) {
	words := lang.Words()
	items := make([]CompletionItem, 0, len(words))
	for _, w := range words {
		kind, _ := lang.KindOf(w)
		item := CompletionItem{Label: w, Detail: lang.Doc(w)}
		switch kind {
		case lang.KindFunction:
			item.Kind = CompletionKindFunction
		case lang.KindOperator:
			item.Kind = CompletionKindOperator
		default:
			item.Kind = CompletionKindKeyword
		}
		items = append(items, item)
	}
	s.sendResult(id, items)
}

func (s *server) onFormatting(id, paramsRaw json.RawMessage) {
	var p DocumentFormattingParams
	if err := json.Unmarshal(paramsRaw, &p); err != nil {
		s.sendError(id, codeInvalidParams, err.Error())
		return
	}
	d, ok := s.get(p.TextDocument.URI)
	if !ok {
		s.sendError(id, codeInvalidParams, fmt.Sprintf("no open document %q", p.TextDocument.URI))
		return
	}
	doc := textdoc.NewDocument(d.text)
	edits := []textdoc.TextEdit{}
	for i := 0; i < doc.LineCount(); i++ {
		orig := doc.LineAt(i)
		upper := scan.UppercaseKeywords(orig)
		if upper == orig {
			continue
		}
		edits = append(edits, textdoc.TextEdit{
			Range: textdoc.Range{
				Start: textdoc.Position{Line: i, Character: 0},
				End:   textdoc.Position{Line: i, Character: textdoc.UTF16Len(orig)},
			},
			NewText: upper,
		})
	}
	s.sendResult(id, edits)
}

// onTypeFormatting uppercases the keyword the user just finished
// typing. The position arrives after the trigger character is already
// in the document, so the word to fix ends before it: behind the cursor
// for a space, one column further back for a colon, and at the end of
// the previous line for a newline.
func (s *server) onTypeFormatting(id, paramsRaw json.RawMessage) {
	var p DocumentOnTypeFormattingParams
	if err := json.Unmarshal(paramsRaw, &p); err != nil {
		s.sendError(id, codeInvalidParams, err.Error())
		return
	}
	d, ok := s.get(p.TextDocument.URI)
	if !ok {
		s.sendResult(id, []textdoc.TextEdit{})
		return
	}
	doc := textdoc.NewDocument(d.text)
	lineIdx := p.Position.Line
	col := p.Position.Character
	switch p.Ch {
	case "\n":
		if lineIdx == 0 {
			s.sendResult(id, []textdoc.TextEdit{})
			return
		}
		lineIdx--
		col = textdoc.UTF16Len(doc.LineAt(lineIdx))
	case ":":
		if col > 0 {
			col--
		}
	}
	line := doc.LineAt(lineIdx)
	word, start, ok := scan.WordBeforePosition(line, col)
	if !ok {
		s.sendResult(id, []textdoc.TextEdit{})
		return
	}
	end := start + textdoc.UTF16Len(word)
	res := scan.Classify(word, line, end)
	canon := lang.Canonical(word)
	if !res.IsKeyword || res.IsVariable || word == canon {
		s.sendResult(id, []textdoc.TextEdit{})
		return
	}
	s.sendResult(id, []textdoc.TextEdit{{
		Range: textdoc.Range{
			Start: textdoc.Position{Line: lineIdx, Character: start},
			End:   textdoc.Position{Line: lineIdx, Character: end},
		},
		NewText: canon,
	}})
}

// onSemanticTokens encodes the whole document as LSP delta-encoded
// token data: deltaLine, deltaStart, length, tokenType, modifiers.
func (s *server) onSemanticTokens(id, paramsRaw json.RawMessage) {
	var p SemanticTokensParams
	if err := json.Unmarshal(paramsRaw, &p); err != nil {
		s.sendError(id, codeInvalidParams, err.Error())
		return
	}
	d, ok := s.get(p.TextDocument.URI)
	if !ok {
		s.sendResult(id, SemanticTokens{Data: []uint32{}})
		return
	}
	doc := textdoc.NewDocument(d.text)
	data := []uint32{}
	prevLine, prevCol := 0, 0
	for i := 0; i < doc.LineCount(); i++ {
		for _, tok := range lexer.Tokenize(doc.LineAt(i)) {
			typ, ok := semanticType(tok)
			if !ok || tok.EndCol == tok.StartCol {
				continue
			}
			deltaLine := i - prevLine
			deltaCol := tok.StartCol
			if deltaLine == 0 {
				deltaCol = tok.StartCol - prevCol
			}
			data = append(data, uint32(deltaLine), uint32(deltaCol),
				uint32(tok.EndCol-tok.StartCol), typ, 0)
			prevLine, prevCol = i, tok.StartCol
		}
	}
	s.sendResult(id, SemanticTokens{Data: data})
}

// semanticType maps a lexer token to its legend index. Punctuation has
// no entry and is left unstyled.
func semanticType(tok lexer.Token) (uint32, bool) {
	switch tok.Type {
	case lexer.KEYWORD:
		kind, _ := lang.KindOf(tok.Value)
		switch kind {
		case lang.KindFunction:
			return 1, true
		case lang.KindOperator:
			return 6, true
		}
		return 0, true
	case lexer.IDENTIFIER:
		return 2, true
	case lexer.STRING:
		return 3, true
	case lexer.NUMBER:
		return 4, true
	case lexer.COMMENT:
		return 5, true
	case lexer.OPERATOR:
		return 6, true
	}
	return 0, false
}

func (s *server) onExecuteCommand(id, paramsRaw json.RawMessage) {
	var p ExecuteCommandParams
	if err := json.Unmarshal(paramsRaw, &p); err != nil {
		s.sendError(id, codeInvalidParams, err.Error())
		return
	}
	if p.Command != cmdRenumber {
		s.sendError(id, codeInvalidParams, fmt.Sprintf("unknown command %q", p.Command))
		return
	}
	var args RenumberArgs
	if len(p.Arguments) > 0 {
		if err := json.Unmarshal(p.Arguments[0], &args); err != nil {
			s.sendError(id, codeInvalidParams, err.Error())
			return
		}
	}
	d, ok := s.get(args.URI)
	if !ok {
		s.sendError(id, codeInvalidParams, fmt.Sprintf("no open document %q", args.URI))
		return
	}
	res := renumber.Renumber(textdoc.NewDocument(d.text),
		renumber.Options{Start: args.Start, Step: args.Step})
	if len(res.Edits) > 0 {
		s.request("workspace/applyEdit", ApplyWorkspaceEditParams{
			Label: "Renumber BASIC lines",
			Edit: WorkspaceEdit{
				Changes: map[string][]textdoc.TextEdit{args.URI: res.Edits},
			},
		})
	}
	if res.TouchedLines == nil {
		res.TouchedLines = []int{}
	}
	s.sendResult(id, RenumberResult{
		MappedLineCount: res.MappedLineCount,
		TouchedLines:    res.TouchedLines,
	})
}
