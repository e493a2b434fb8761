// Command zxbasic-lsp is a language server for ZX Spectrum BASIC. It
// speaks JSON-RPC 2.0 over stdio and serves diagnostics, hover,
// completion, formatting, semantic tokens and the zxbasic.renumber
// workspace command.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const versionStr = "0.3.0"

var (
	debugFlag   = flag.Bool("debug", false, "enable debug logging on stderr")
	versionFlag = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()
	if *versionFlag {
		fmt.Printf("zxbasic-lsp version %s\n", versionStr)
		return
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *debugFlag {
		log.SetLevel(logrus.DebugLevel)
	}

	s := newServer(log)
	log.WithField("version", versionStr).Info("zxbasic-lsp starting")

	reader := bufio.NewReader(os.Stdin)
	for {
		body, err := readMsg(reader)
		if err != nil {
			if err == io.EOF {
				log.Info("client closed the stream")
				return
			}
			log.WithError(err).Error("read message")
			return
		}
		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			s.sendError(nil, codeParseError, err.Error())
			continue
		}
		// Replies to our own workspace/applyEdit requests come back on
		// this stream with no method; nothing to do with them.
		if req.Method == "" {
			continue
		}
		dispatch(s, req)
	}
}

func dispatch(s *server, req Request) {
	s.log.WithField("method", req.Method).Debug("dispatch")
	switch req.Method {
	case "initialize":
		s.onInitialize(req.ID, req.Params)
	case "initialized":
		// Notification, no reply.
	case "shutdown":
		s.sendResult(req.ID, nil)
	case "exit":
		os.Exit(0)
	case "textDocument/didOpen":
		s.onDidOpen(req.Params)
	case "textDocument/didChange":
		s.onDidChange(req.Params)
	case "textDocument/didClose":
		s.onDidClose(req.Params)
	case "textDocument/hover":
		s.onHover(req.ID, req.Params)
	case "textDocument/completion":
		s.onCompletion(req.ID, req.Params)
	case "textDocument/formatting":
		s.onFormatting(req.ID, req.Params)
	case "textDocument/onTypeFormatting":
		s.onTypeFormatting(req.ID, req.Params)
	case "textDocument/semanticTokens/full":
		s.onSemanticTokens(req.ID, req.Params)
	case "workspace/executeCommand":
		s.onExecuteCommand(req.ID, req.Params)
	default:
		if len(req.ID) > 0 {
			s.sendError(req.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
		}
	}
}
