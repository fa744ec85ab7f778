package dispatch

import (
	"net/http"

	"github.com/mwiater/orderbridge/internal/tools"
)

// Request is one tool call: {"tool": "...", "input": {...}}.
type Request struct {
	Tool  string         `json:"tool"`
	Input map[string]any `json:"input,omitempty"`
}

// Response is the uniform envelope returned for every call.
type Response struct {
	OK         bool              `json:"ok"`
	Tool       string            `json:"tool,omitempty"`
	Result     map[string]any    `json:"result,omitempty"`
	Error      Kind              `json:"error,omitempty"`
	Details    string            `json:"details,omitempty"`
	StatusCode int               `json:"status_code,omitempty"`
	Violations []tools.Violation `json:"violations,omitempty"`
}

// Success builds a successful envelope.
func Success(tool string, result map[string]any) Response {
	if result == nil {
		result = map[string]any{}
	}
	return Response{OK: true, Tool: tool, Result: result}
}

// Failure builds a failed envelope from err.
func Failure(tool string, err *Error) Response {
	return Response{
		OK:         false,
		Tool:       tool,
		Error:      err.Kind,
		Details:    err.Details,
		StatusCode: err.StatusCode,
		Violations: err.Violations,
	}
}

// HTTPStatus is the status the HTTP surface answers this envelope with.
func (r Response) HTTPStatus() int {
	if r.OK {
		return http.StatusOK
	}
	return r.Error.HTTPStatus()
}

// ServerInfo names the bridge in discovery and the MCP handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Catalog is the discovery document.
type Catalog struct {
	Server ServerInfo         `json:"server"`
	Tools  []tools.Definition `json:"tools"`
}
