package ai

import (
	"net/http"

	"github.com/doeshing/aicoder/internal/ports"
)

// Factory builds providers sharing one HTTP client. The client carries no
// overall timeout: a generation stream can legitimately run for minutes, so
// cancellation is left to the request context.
type Factory struct {
	httpClient *http.Client
}

// NewFactory creates a provider factory.
func NewFactory() *Factory {
	return &Factory{httpClient: &http.Client{}}
}

// ForHost implements ports.ProviderFactory.
func (f *Factory) ForHost(host string) ports.Provider {
	return NewOllamaProvider(host, f.httpClient)
}

var _ ports.ProviderFactory = (*Factory)(nil)
