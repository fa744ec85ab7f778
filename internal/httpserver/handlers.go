package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mwiater/orderbridge/internal/dispatch"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "HTTP + MCP bridge is healthy",
	})
}

func (s *Server) discoverHandler(w http.ResponseWriter, r *http.Request) {
	catalog, dErr := s.dispatcher.Discover(s.guard.Credential(r))
	if dErr != nil {
		writeFailure(w, "", dErr)
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (s *Server) callHandler(w http.ResponseWriter, r *http.Request) {
	credential := s.guard.Credential(r)
	// Reject bad credentials before the body is even parsed.
	if dErr := s.dispatcher.Authorize(credential); dErr != nil {
		writeFailure(w, "", dErr)
		return
	}

	var req dispatch.Request
	if err := decodeBody(r.Body, &req); err != nil {
		writeFailure(w, "", &dispatch.Error{Kind: dispatch.KindBadRequest, Details: err.Error()})
		return
	}
	if strings.TrimSpace(req.Tool) == "" {
		writeFailure(w, "", &dispatch.Error{Kind: dispatch.KindBadRequest, Details: "tool is required"})
		return
	}

	resp := s.dispatcher.Call(r.Context(), credential, req)
	writeJSON(w, resp.HTTPStatus(), resp)
}

func decodeBody(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return errors.New("request body too large")
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return errors.New("invalid request body: " + err.Error())
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeFailure(w http.ResponseWriter, tool string, err *dispatch.Error) {
	resp := dispatch.Failure(tool, err)
	writeJSON(w, resp.HTTPStatus(), resp)
}
