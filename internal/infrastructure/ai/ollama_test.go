package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/ports"
)

type captureWriter struct {
	chunks []string
	done   bool
}

func (c *captureWriter) WriteChunk(text string) {
	c.chunks = append(c.chunks, text)
}

func (c *captureWriter) Done() {
	c.done = true
}

func testRequest() ports.ProviderRequest {
	return ports.ProviderRequest{
		Prompt: "write main",
		Model:  domain.NewModelProfile("test-model", 4096, 1024),
		Writer: &captureWriter{},
	}
}

func TestGenerateStreamsDeltasInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != generatePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		flusher := w.(http.Flusher)
		for _, line := range []string{
			`{"response":"fn ","done":false}`,
			`{"response":"main(){}","done":false}`,
			`{"response":"","done":true}`,
		} {
			fmt.Fprintln(w, line)
			flusher.Flush()
		}
	}))
	defer server.Close()

	writer := &captureWriter{}
	req := testRequest()
	req.Writer = writer

	provider := NewOllamaProvider(server.URL, server.Client())
	if err := provider.Generate(context.Background(), req); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if got := strings.Join(writer.chunks, ""); got != "fn main(){}" {
		t.Fatalf("streamed text = %q, want %q", got, "fn main(){}")
	}
	if !writer.done {
		t.Fatal("writer.Done() was not called")
	}
}

func TestGenerateConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // port now refuses connections

	provider := NewOllamaProvider(server.URL, &http.Client{})
	err := provider.Generate(context.Background(), testRequest())

	var connErr *domain.ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
}

func TestGenerateNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, server.Client())
	err := provider.Generate(context.Background(), testRequest())

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", apiErr.StatusCode)
	}
}

func TestGenerateMalformedLineKeepsPriorOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"before ","done":false}`)
		fmt.Fprintln(w, `garbage line`)
		fmt.Fprintln(w, `{"response":"after","done":true}`)
	}))
	defer server.Close()

	writer := &captureWriter{}
	req := testRequest()
	req.Writer = writer

	provider := NewOllamaProvider(server.URL, server.Client())
	err := provider.Generate(context.Background(), req)

	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if got := strings.Join(writer.chunks, ""); got != "before " {
		t.Fatalf("pre-error output = %q, want %q", got, "before ")
	}
}

func TestGenerateCleanEndWithoutDoneMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"partial","done":false}`)
	}))
	defer server.Close()

	writer := &captureWriter{}
	req := testRequest()
	req.Writer = writer

	provider := NewOllamaProvider(server.URL, server.Client())
	if err := provider.Generate(context.Background(), req); err != nil {
		t.Fatalf("expected clean end, got %v", err)
	}
	if !writer.done {
		t.Fatal("writer.Done() was not called")
	}
}

func TestGenerateValidatesInput(t *testing.T) {
	provider := NewOllamaProvider("http://localhost:11434", &http.Client{})

	req := testRequest()
	req.Prompt = ""
	if err := provider.Generate(context.Background(), req); err == nil {
		t.Fatal("expected error for empty prompt")
	}

	req = testRequest()
	req.Model.Name = ""
	if err := provider.Generate(context.Background(), req); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestListModelsAndHasModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != tagsPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprintln(w, `{"models":[{"name":"qwen2.5-coder:7b"},{"name":"codellama:7b"}]}`)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, server.Client())
	models, err := provider.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %v", models)
	}

	has, err := provider.HasModel(context.Background(), "qwen2.5-coder")
	if err != nil || !has {
		t.Fatalf("HasModel(qwen2.5-coder) = %v, %v; want true", has, err)
	}
	has, err = provider.HasModel(context.Background(), "missing")
	if err != nil || has {
		t.Fatalf("HasModel(missing) = %v, %v; want false", has, err)
	}
}
