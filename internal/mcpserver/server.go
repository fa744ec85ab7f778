// Package mcpserver serves the tool registry to MCP clients over stdio using
// JSON-RPC 2.0.
package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mwiater/orderbridge/internal/dispatch"
	"github.com/mwiater/orderbridge/internal/tools"
)

// ProtocolVersion is announced when the client requests no version or one
// the server does not implement.
const ProtocolVersion = "2024-11-05"

// supportedVersions are the protocol revisions a client may negotiate.
var supportedVersions = map[string]bool{
	"2024-11-05": true,
	"2025-03-26": true,
	"2025-06-18": true,
}

// negotiateVersion returns requested when supported, else ProtocolVersion.
func negotiateVersion(requested string) string {
	if supportedVersions[requested] {
		return requested
	}
	return ProtocolVersion
}

// maxMessageBytes bounds a single Content-Length framed body.
const maxMessageBytes = 4 << 20

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// isNotification reports whether the sender expects no reply.
func (r *request) isNotification() bool {
	return len(r.ID) == 0
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type initializeParams struct {
	ProtocolVersion string `json:"protocolVersion"`
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// toolInfo is the MCP rendering of a tools.Definition.
type toolInfo struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	InputSchema  tools.Schema `json:"inputSchema"`
	OutputSchema tools.Schema `json:"outputSchema,omitempty"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callResult struct {
	Content           []contentPart `json:"content"`
	StructuredContent any           `json:"structuredContent,omitempty"`
	IsError           bool          `json:"isError"`
}

var nullID = json.RawMessage("null")

func makeResult(id json.RawMessage, result any) *response {
	return &response{JSONRPC: "2.0", ID: orNull(id), Result: result}
}

func makeError(id json.RawMessage, code int, msg string) *response {
	return &response{JSONRPC: "2.0", ID: orNull(id), Error: &rpcError{Code: code, Message: msg}}
}

func orNull(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return nullID
	}
	return id
}

// Server answers MCP requests read from in and writes replies to out.
// Calls run through the dispatcher, so stdio and HTTP share one registry.
type Server struct {
	dispatcher *dispatch.Dispatcher
	in         io.Reader
	out        io.Writer
}

// New returns a stdio server. Stdio is a local channel with no headers, so
// the dispatcher given here is normally built with an open guard.
func New(d *dispatch.Dispatcher, in io.Reader, out io.Writer) *Server {
	return &Server{dispatcher: d, in: in, out: out}
}

type frame struct {
	body    []byte
	framing framing
	err     error
}

// Serve processes messages until in reaches EOF, ctx is cancelled or an
// unrecoverable read error occurs. EOF and cancellation return nil.
func (s *Server) Serve(ctx context.Context) error {
	frames := make(chan frame)
	go s.readLoop(ctx, frames)

	w := bufio.NewWriter(s.out)
	log.Info().Msg("MCP stdio server listening")
	for {
		var f frame
		select {
		case <-ctx.Done():
			log.Info().Msg("MCP stdio server stopped")
			return nil
		case f = <-frames:
		}

		if f.err != nil {
			if errors.Is(f.err, io.EOF) {
				log.Info().Msg("MCP stdin closed")
				return nil
			}
			if isFramingError(f.err) {
				if err := writeFrame(w, f.framing, makeError(nil, codeParseError, f.err.Error())); err != nil {
					return fmt.Errorf("write mcp error: %w", err)
				}
				continue
			}
			return fmt.Errorf("read mcp message: %w", f.err)
		}

		resp := s.handleMessage(ctx, f.body)
		if resp == nil {
			continue
		}
		if err := writeFrame(w, f.framing, resp); err != nil {
			return fmt.Errorf("write mcp message: %w", err)
		}
	}
}

func (s *Server) readLoop(ctx context.Context, out chan<- frame) {
	r := bufio.NewReader(s.in)
	for {
		body, fr, err := readFrame(r)
		select {
		case out <- frame{body: body, framing: fr, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil && !isFramingError(err) {
			return
		}
	}
}

func isFramingError(err error) bool {
	return errors.Is(err, errFraming)
}

// handleMessage decodes one message and returns the reply, or nil when none
// is owed (notifications).
func (s *Server) handleMessage(ctx context.Context, body []byte) *response {
	var req request
	if err := json.Unmarshal(body, &req); err != nil {
		return makeError(nil, codeParseError, "Parse error: "+err.Error())
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		if req.isNotification() {
			return nil
		}
		return makeError(req.ID, codeInvalidRequest, "Invalid Request")
	}

	log.Debug().Str("method", req.Method).RawJSON("id", orNull(req.ID)).Msg("mcp request")
	resp := s.handleRequest(ctx, &req)
	if req.isNotification() {
		return nil
	}
	return resp
}

func (s *Server) handleRequest(ctx context.Context, req *request) *response {
	switch req.Method {
	case "initialize":
		var p initializeParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &p); err != nil {
				return makeError(req.ID, codeInvalidParams, "Invalid params")
			}
		}
		info := s.dispatcher.Info()
		return makeResult(req.ID, map[string]any{
			"protocolVersion": negotiateVersion(p.ProtocolVersion),
			"serverInfo":      map[string]any{"name": info.Name, "version": info.Version},
			"capabilities":    map[string]any{"tools": map[string]any{"listChanged": false}},
		})

	case "ping":
		return makeResult(req.ID, map[string]any{})

	case "tools/list":
		return makeResult(req.ID, map[string]any{"tools": s.toolList()})

	case "tools/call":
		var p toolsCallParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &p); err != nil {
				return makeError(req.ID, codeInvalidParams, "Invalid params")
			}
		}
		if strings.TrimSpace(p.Name) == "" {
			return makeError(req.ID, codeInvalidParams, "Invalid params: name is required")
		}
		return makeResult(req.ID, s.callTool(ctx, p))
	}

	if strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}
	return makeError(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
}

func (s *Server) toolList() []toolInfo {
	defs := s.dispatcher.Registry().Definitions()
	list := make([]toolInfo, 0, len(defs))
	for _, def := range defs {
		list = append(list, toolInfo{
			Name:         def.Name,
			Description:  def.Description,
			InputSchema:  def.InputSchema,
			OutputSchema: def.OutputSchema,
		})
	}
	return list
}

// callTool runs a call through the dispatcher. Tool failures are reported in
// the result with isError set, never as JSON-RPC errors. Structured content
// must match the advertised output schema, so failures carry the envelope
// only in the text part.
func (s *Server) callTool(ctx context.Context, p toolsCallParams) callResult {
	resp := s.dispatcher.Call(ctx, "", dispatch.Request{Tool: p.Name, Input: p.Arguments})

	var payload any = resp
	if resp.OK {
		payload = resp.Result
	}
	text, err := json.Marshal(payload)
	if err != nil {
		text = []byte(fmt.Sprintf(`{"ok":false,"error":"server_error","details":%q}`, err.Error()))
	}
	result := callResult{
		Content: []contentPart{{Type: "text", Text: string(text)}},
		IsError: !resp.OK,
	}
	if resp.OK {
		result.StructuredContent = resp.Result
	}
	return result
}
