package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// stdoutSink is where framed protocol messages go. Tests swap in a
// buffer; under `go test` with no client attached we discard writes so
// stray output cannot corrupt the test harness.
var stdoutSink io.Writer = os.Stdout

func init() {
	if strings.HasSuffix(os.Args[0], ".test") && os.Getenv("LSP_STDOUT") == "" {
		stdoutSink = io.Discard
	}
}

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

var rawNull = json.RawMessage("null")

// docState is the server's copy of one open document.
type docState struct {
	uri     string
	version int
	text    string
}

type server struct {
	mu     sync.RWMutex
	docs   map[string]*docState
	nextID int
	log    *logrus.Logger
}

func newServer(log *logrus.Logger) *server {
	return &server{docs: make(map[string]*docState), nextID: 1, log: log}
}

func (s *server) get(uri string) (*docState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[uri]
	return d, ok
}

// readMsg reads one Content-Length framed message from r.
func readMsg(r *bufio.Reader) ([]byte, error) {
	length := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if n, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			if _, err := fmt.Sscanf(n, "%d", &length); err != nil {
				return nil, fmt.Errorf("bad Content-Length %q: %w", n, err)
			}
		}
	}
	if length <= 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeMsg frames and writes one message to stdoutSink.
func writeMsg(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdoutSink, "Content-Length: %d\r\n\r\n%s", len(body), body)
	return err
}

func (s *server) sendResult(id json.RawMessage, result any) {
	if len(id) == 0 {
		id = rawNull
	}
	if result == nil {
		result = rawNull
	}
	if err := writeMsg(Response{JSONRPC: "2.0", ID: id, Result: result}); err != nil {
		s.log.WithError(err).Error("write response")
	}
}

func (s *server) sendError(id json.RawMessage, code int, msg string) {
	if len(id) == 0 {
		id = rawNull
	}
	resp := Response{JSONRPC: "2.0", ID: id, Error: &ResponseError{Code: code, Message: msg}}
	if err := writeMsg(resp); err != nil {
		s.log.WithError(err).Error("write error response")
	}
}

func (s *server) notify(method string, params any) {
	raw, err := json.Marshal(params)
	if err != nil {
		s.log.WithError(err).Error("marshal notification params")
		return
	}
	msg := Request{JSONRPC: "2.0", Method: method, Params: raw}
	if err := writeMsg(msg); err != nil {
		s.log.WithError(err).Error("write notification")
	}
}

// request sends a server-to-client request. Responses arrive on the
// main read loop and are discarded there; this server never blocks on
// the client's answer.
func (s *server) request(method string, params any) {
	raw, err := json.Marshal(params)
	if err != nil {
		s.log.WithError(err).Error("marshal request params")
		return
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.mu.Unlock()
	idRaw, _ := json.Marshal(id)
	msg := Request{JSONRPC: "2.0", ID: idRaw, Method: method, Params: raw}
	if err := writeMsg(msg); err != nil {
		s.log.WithError(err).Error("write request")
	}
}
