// Wire types for JSON-RPC 2.0 and the subset of the Language Server
// Protocol this server speaks. DTOs only; position geometry comes from
// pkg/textdoc so ranges marshal identically everywhere.
package main

import (
	"encoding/json"

	"github.com/stefdev49/vs-zx-sub004/pkg/diag"
	"github.com/stefdev49/vs-zx-sub004/pkg/textdoc"
)

// JSON-RPC envelope

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Text documents

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

type TextDocumentContentChangeEvent struct {
	Range       *textdoc.Range `json:"range,omitempty"`
	RangeLength int            `json:"rangeLength,omitempty"`
	Text        string         `json:"text"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     textdoc.Position       `json:"position"`
}

// Initialize

type InitializeParams struct {
	RootURI      string `json:"rootUri,omitempty"`
	Capabilities any    `json:"capabilities"`
}

type TextDocumentSyncOptions struct {
	OpenClose bool `json:"openClose"`
	// 1 = Full, 2 = Incremental
	Change int `json:"change"`
}

type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type OnTypeFormattingOptions struct {
	FirstTriggerCharacter string   `json:"firstTriggerCharacter"`
	MoreTriggerCharacter  []string `json:"moreTriggerCharacter,omitempty"`
}

type SemanticTokensLegend struct {
	TokenTypes     []string `json:"tokenTypes"`
	TokenModifiers []string `json:"tokenModifiers"`
}

type SemanticTokensOptions struct {
	Legend SemanticTokensLegend `json:"legend"`
	Full   bool                 `json:"full"`
}

type ExecuteCommandOptions struct {
	Commands []string `json:"commands"`
}

type ServerCapabilities struct {
	TextDocumentSync                 TextDocumentSyncOptions  `json:"textDocumentSync"`
	HoverProvider                    bool                     `json:"hoverProvider"`
	CompletionProvider               *CompletionOptions       `json:"completionProvider,omitempty"`
	DocumentFormattingProvider       bool                     `json:"documentFormattingProvider"`
	DocumentOnTypeFormattingProvider *OnTypeFormattingOptions `json:"documentOnTypeFormattingProvider,omitempty"`
	SemanticTokensProvider           *SemanticTokensOptions   `json:"semanticTokensProvider,omitempty"`
	ExecuteCommandProvider           *ExecuteCommandOptions   `json:"executeCommandProvider,omitempty"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   map[string]string  `json:"serverInfo,omitempty"`
}

// Diagnostics

type PublishDiagnosticsParams struct {
	URI         string            `json:"uri"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// Hover

type Hover struct {
	Contents MarkupContent  `json:"contents"`
	Range    *textdoc.Range `json:"range,omitempty"`
}

type MarkupContent struct {
	Kind  string `json:"kind"` // "plaintext" or "markdown"
	Value string `json:"value"`
}

// Completion

type CompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// CompletionItemKind values used here.
const (
	CompletionKindFunction = 3
	CompletionKindKeyword  = 14
	CompletionKindOperator = 24
)

// Formatting

type FormattingOptions struct {
	TabSize      int  `json:"tabSize"`
	InsertSpaces bool `json:"insertSpaces"`
}

type DocumentFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Options      FormattingOptions      `json:"options"`
}

type DocumentOnTypeFormattingParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     textdoc.Position       `json:"position"`
	Ch           string                 `json:"ch"`
	Options      FormattingOptions      `json:"options"`
}

// Semantic tokens

type SemanticTokensParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type SemanticTokens struct {
	Data []uint32 `json:"data"`
}

// Workspace commands

type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// RenumberArgs is the argument object for the zxbasic.renumber command.
type RenumberArgs struct {
	URI   string `json:"uri"`
	Start int    `json:"start,omitempty"`
	Step  int    `json:"step,omitempty"`
}

// RenumberResult is the command's response payload; the edits travel
// separately in a workspace/applyEdit request.
type RenumberResult struct {
	MappedLineCount int   `json:"mappedLineCount"`
	TouchedLines    []int `json:"touchedLines"`
}

type WorkspaceEdit struct {
	Changes map[string][]textdoc.TextEdit `json:"changes"`
}

type ApplyWorkspaceEditParams struct {
	Label string        `json:"label,omitempty"`
	Edit  WorkspaceEdit `json:"edit"`
}
