package ai

import (
	"bytes"
	"encoding/json"

	"github.com/doeshing/aicoder/internal/domain"
)

// generateLine mirrors one line of Ollama's /api/generate stream. Unknown
// fields are ignored.
type generateLine struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// Decoder reassembles newline-delimited JSON objects from arbitrarily sized
// response fragments. A fragment may end anywhere, including mid-object; the
// incomplete tail is held and prepended to the next Feed.
type Decoder struct {
	buf  bytes.Buffer
	done bool
}

// NewDecoder builds a fresh decoder for one response stream.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends one fragment and returns the tokens completed by it, in order.
// A line that fails to parse yields a domain.ParseError alongside the tokens
// decoded before it; the decoder accepts no further input afterwards. Tokens
// already returned are never retracted.
func (d *Decoder) Feed(fragment []byte) ([]domain.Token, error) {
	if d.done {
		return nil, nil
	}
	d.buf.Write(fragment)

	var tokens []domain.Token
	for {
		raw := d.buf.Bytes()
		idx := bytes.IndexByte(raw, '\n')
		if idx < 0 {
			return tokens, nil
		}
		line := append([]byte(nil), raw[:idx]...)
		d.buf.Next(idx + 1)

		token, ok, err := decodeLine(line)
		if err != nil {
			d.done = true
			return tokens, err
		}
		if !ok {
			continue
		}
		tokens = append(tokens, token)
		if token.Done {
			d.done = true
			return tokens, nil
		}
	}
}

// Flush drains the held tail once the fragment sequence ends. A tail that
// parses as a complete object is emitted; anything else is dropped, treating
// the truncated delivery as a clean end even when no done marker was seen.
func (d *Decoder) Flush() []domain.Token {
	if d.done || d.buf.Len() == 0 {
		return nil
	}
	d.done = true
	token, ok, err := decodeLine(d.buf.Bytes())
	if err != nil || !ok {
		return nil
	}
	return []domain.Token{token}
}

// Done reports whether the stream has terminated.
func (d *Decoder) Done() bool {
	return d.done
}

func decodeLine(line []byte) (domain.Token, bool, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return domain.Token{}, false, nil
	}
	var parsed generateLine
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return domain.Token{}, false, &domain.ParseError{Line: string(trimmed), Err: err}
	}
	if parsed.Error != "" {
		return domain.Token{}, false, &domain.APIError{Body: parsed.Error}
	}
	return domain.Token{Text: parsed.Response, Done: parsed.Done}, true, nil
}
