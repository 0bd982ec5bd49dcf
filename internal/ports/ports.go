// Package ports defines the interfaces between the application core and the
// infrastructure adapters (HTTP transport, terminal, shell, storage).
//
// The application depends only on these abstractions; concrete implementations
// live in the infrastructure layer.
package ports

import (
	"context"

	"github.com/doeshing/aicoder/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.aicoder/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Provider streams generated text from an inference backend. Generate pushes
// every decoded text delta into the request's StreamWriter as it arrives and
// returns once the stream ends.
type Provider interface {
	Name() string
	Generate(context.Context, ProviderRequest) error
	ListModels(context.Context) ([]string, error)
	HasModel(ctx context.Context, name string) (bool, error)
}

// ProviderFactory builds a Provider bound to a host base URL.
type ProviderFactory interface {
	ForHost(host string) Provider
}

// ProviderRequest contains all data needed for one generation call.
type ProviderRequest struct {
	Prompt string
	Model  domain.ModelProfile
	Writer domain.StreamWriter
}

// SecurityService evaluates commands against guardrail rules before the agent
// loop runs them.
type SecurityService interface {
	Evaluate(command string) (domain.RiskAssessment, error)
}

// CommandExecutor runs shell commands in the configured shell environment.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// ConfirmationPrompter handles the interactive approval of extracted commands.
// Enabled reports whether an interactive answer can be obtained at all.
type ConfirmationPrompter interface {
	Confirm(commands []domain.ExtractedCommand) (bool, error)
	Enabled() bool
}

// HistoryRepository persists invocation records.
type HistoryRepository interface {
	Save(domain.InvocationRecord) error
	Records(limit int, search string) ([]domain.InvocationRecord, error)
	Clear() error
	Path() string
}

// Logger provides leveled logging for the application layer. All output goes
// to standard error so it never interleaves with generated text.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
