// Package ai implements the Ollama transport adapter and the streaming
// response decoder.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/ports"
)

const (
	generatePath = "/api/generate"
	tagsPath     = "/api/tags"

	// readBufferSize is the unit in which the response body is pulled; the
	// decoder owns reassembly so the size only affects syscall granularity.
	readBufferSize = 4096

	// maxErrorBody bounds how much of an error response is kept for display.
	maxErrorBody = 8 << 10
)

type ollamaProvider struct {
	host       string
	httpClient *http.Client
}

// NewOllamaProvider builds a provider bound to the given base URL.
func NewOllamaProvider(host string, client *http.Client) ports.Provider {
	return &ollamaProvider{
		host:       strings.TrimRight(host, "/"),
		httpClient: client,
	}
}

func (o *ollamaProvider) Name() string {
	return "ollama"
}

type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	TopK        int     `json:"top_k,omitempty"`
	NumKeep     int     `json:"num_keep,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// Generate POSTs the prompt to /api/generate and forwards every decoded text
// delta to the request writer as it arrives. It returns once the stream ends,
// or with a domain.ParseError when a malformed line cuts the stream short;
// deltas written before the bad line stand.
func (o *ollamaProvider) Generate(ctx context.Context, req ports.ProviderRequest) error {
	if req.Model.Name == "" {
		return fmt.Errorf("ollama: model name required")
	}
	if req.Prompt == "" {
		return fmt.Errorf("ollama: prompt required")
	}
	if req.Writer == nil {
		return fmt.Errorf("ollama: stream writer required")
	}

	payload := generateRequest{
		Model:  req.Model.Name,
		Prompt: req.Prompt,
		Stream: true,
		Options: &generateOptions{
			Temperature: req.Model.Temperature,
			TopP:        req.Model.TopP,
			TopK:        req.Model.TopK,
			NumKeep:     req.Model.NumKeep,
			NumPredict:  req.Model.MaxTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+generatePath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("content-type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return &domain.ConnectionError{Host: o.host, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(errBody))}
	}

	return o.stream(resp.Body, req.Writer)
}

// stream pulls raw fragments from the body and pushes decoded deltas into the
// writer. Each delta is written before the next fragment is pulled.
func (o *ollamaProvider) stream(body io.Reader, writer domain.StreamWriter) error {
	decoder := NewDecoder()
	buf := make([]byte, readBufferSize)

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			tokens, err := decoder.Feed(buf[:n])
			writeTokens(writer, tokens)
			if err != nil {
				return err
			}
		}
		if decoder.Done() {
			writer.Done()
			return nil
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				writeTokens(writer, decoder.Flush())
				writer.Done()
				return nil
			}
			return &domain.ConnectionError{Host: o.host, Err: readErr}
		}
	}
}

func writeTokens(writer domain.StreamWriter, tokens []domain.Token) {
	for _, token := range tokens {
		if token.Text != "" {
			writer.WriteChunk(token.Text)
		}
	}
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the names of models installed on the host.
func (o *ollamaProvider) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, o.host+tagsPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.ConnectionError{Host: o.host, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(errBody))}
	}

	var decoded tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(decoded.Models))
	for _, model := range decoded.Models {
		names = append(names, model.Name)
	}
	return names, nil
}

// HasModel reports whether the named model (with or without a tag suffix) is
// installed on the host.
func (o *ollamaProvider) HasModel(ctx context.Context, name string) (bool, error) {
	models, err := o.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, model := range models {
		if model == name || strings.SplitN(model, ":", 2)[0] == name {
			return true, nil
		}
	}
	return false, nil
}

var _ ports.Provider = (*ollamaProvider)(nil)
