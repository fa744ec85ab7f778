package mcpserver

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// framing is the wire format a message arrived in. Replies use the same one.
type framing int

const (
	// framingHeader is LSP-style "Content-Length: N\r\n\r\n<body>".
	framingHeader framing = iota
	// framingLine is one JSON document per line.
	framingLine
)

func (f framing) String() string {
	if f == framingLine {
		return "ndjson"
	}
	return "content-length"
}

// errFraming marks a malformed header block. The block has been consumed, so
// the reader can continue with the next message.
var errFraming = errors.New("framing error")

// readFrame reads the next message. Blank lines between messages are skipped.
// A message whose first byte opens a JSON value is read as a single line;
// anything else is parsed as a header block followed by a sized body.
func readFrame(r *bufio.Reader) ([]byte, framing, error) {
	for {
		b, err := r.Peek(1)
		if err != nil {
			return nil, framingHeader, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := r.ReadByte(); err != nil {
				return nil, framingHeader, err
			}
			continue
		case '{', '[':
			line, err := r.ReadBytes('\n')
			if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
				return nil, framingLine, err
			}
			return bytes.TrimSpace(line), framingLine, nil
		}
		body, err := readHeaderFrame(r)
		return body, framingHeader, err
	}
}

func readHeaderFrame(r *bufio.Reader) ([]byte, error) {
	headers := map[string]string{}
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" {
				return nil, io.EOF
			}
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		// LF-only line endings are tolerated.
		s := strings.TrimRight(line, "\r\n")
		if s == "" {
			break
		}
		if i := strings.IndexByte(s, ':'); i >= 0 {
			key := strings.ToLower(strings.TrimSpace(s[:i]))
			headers[key] = strings.TrimSpace(s[i+1:])
		}
	}

	raw, ok := headers["content-length"]
	if !ok {
		return nil, fmt.Errorf("%w: missing Content-Length", errFraming)
	}
	length, err := strconv.Atoi(raw)
	if err != nil || length < 0 {
		return nil, fmt.Errorf("%w: invalid Content-Length %q", errFraming, raw)
	}
	if length > maxMessageBytes {
		if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: message of %d bytes exceeds limit of %d", errFraming, length, maxMessageBytes)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// writeFrame encodes v and writes it in framing f.
func writeFrame(w *bufio.Writer, f framing, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if f == framingLine {
		data = append(data, '\n')
	} else if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Flush()
}
