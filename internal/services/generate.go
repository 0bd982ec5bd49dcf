// Package services contains the application use-cases: the generate pipeline
// orchestrator, the transcript command extractor and environment diagnostics.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/ports"
)

// DefaultHost is used when neither flag, environment nor config name one.
const DefaultHost = "http://localhost:11434"

// Fallback shape for models requested by name but absent from the config.
const (
	defaultContextWindow = 32768
	defaultMaxTokens     = 2048
)

// GenerateService orchestrates one invocation end-to-end: stream the response,
// then optionally extract, gate and execute shell commands from the transcript.
type GenerateService struct {
	ConfigProvider  ports.ConfigProvider
	ProviderFactory ports.ProviderFactory
	SecurityService ports.SecurityService
	Executor        ports.CommandExecutor
	Prompter        ports.ConfirmationPrompter
	HistoryStore    ports.HistoryRepository
	Logger          ports.Logger
}

// Run processes a single prompt.
func (s *GenerateService) Run(req domain.GenerateRequest) (domain.GenerateResponse, error) {
	if s.ConfigProvider == nil || s.ProviderFactory == nil || s.Executor == nil || s.Logger == nil {
		return domain.GenerateResponse{}, errors.New("services.GenerateService dependencies not satisfied")
	}
	if req.Sink == nil {
		return domain.GenerateResponse{}, errors.New("generate: transcript sink required")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.GenerateResponse{}, fmt.Errorf("load config: %w", err)
	}

	model, err := pickModel(cfg, req.ModelOverride)
	if err != nil {
		return domain.GenerateResponse{}, err
	}
	if err := model.Validate(); err != nil {
		return domain.GenerateResponse{}, err
	}
	if err := model.CheckPromptFits(req.Prompt); err != nil {
		return domain.GenerateResponse{}, err
	}

	host := ResolveHost(req.HostOverride, cfg)
	provider := s.ProviderFactory.ForHost(host)

	resp := domain.GenerateResponse{ModelUsed: model.Name, Host: host}

	s.Logger.Info("calling provider", map[string]interface{}{
		"provider": provider.Name(),
		"model":    model.Name,
		"host":     host,
	})

	streamCtx := ctx
	if cfg.Preferences.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		streamCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Preferences.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	if err := provider.Generate(streamCtx, ports.ProviderRequest{
		Prompt: req.Prompt,
		Model:  model,
		Writer: req.Sink,
	}); err != nil {
		resp.Transcript = req.Sink.Transcript()
		var parseErr *domain.ParseError
		if !errors.As(err, &parseErr) || resp.Transcript == "" {
			// A malformed line before the first delta means the host is
			// not speaking the protocol at all; nothing was shown, so
			// nothing is salvageable.
			return resp, err
		}
		// Prior deltas were already shown; continue on the partial
		// transcript and mark the invocation degraded.
		resp.Degraded = true
		s.Logger.Warn("response stream ended on a malformed line", map[string]interface{}{
			"error": parseErr.Error(),
		})
	}
	resp.Transcript = req.Sink.Transcript()

	var agentErr error
	if req.AgentMode {
		agentErr = s.runAgent(ctx, cfg, req, &resp)
	}

	s.record(cfg, req, resp, time.Since(started))

	if agentErr != nil {
		return resp, agentErr
	}
	if cfg.Agent.StrictExit && resp.FailedCommands() > 0 {
		return resp, fmt.Errorf("%d of %d commands failed", resp.FailedCommands(), len(resp.Results))
	}
	return resp, nil
}

// runAgent performs the post-stream phase: extract, gate, execute.
func (s *GenerateService) runAgent(ctx context.Context, cfg domain.Config, req domain.GenerateRequest, resp *domain.GenerateResponse) error {
	resp.Commands = ExtractCommands(resp.Transcript)
	if len(resp.Commands) == 0 {
		s.Logger.Info("no shell commands found in response", nil)
		return nil
	}

	autoApprove := req.AutoApprove || cfg.Agent.AutoApprove
	allowUnsafe := req.AllowUnsafeExec || cfg.Agent.AllowUnsafeExec

	approved, err := s.gate(resp.Commands, autoApprove, allowUnsafe)
	if err != nil {
		return fmt.Errorf("approval prompt: %w", err)
	}
	resp.Approved = approved
	if !approved {
		s.Logger.Info("execution declined", map[string]interface{}{"commands": len(resp.Commands)})
		return nil
	}

	for _, command := range resp.Commands {
		resp.Results = append(resp.Results, s.runCommand(ctx, cfg, command, autoApprove, allowUnsafe))
	}
	return nil
}

// gate decides whether the extracted commands may run. Auto-approve skips the
// prompt entirely; otherwise the answer comes from the interactive prompter,
// and the absence of a controlling terminal counts as a decline.
func (s *GenerateService) gate(commands []domain.ExtractedCommand, autoApprove, allowUnsafe bool) (bool, error) {
	if autoApprove {
		if !allowUnsafe {
			s.Logger.Warn("auto-approving model-generated commands; high-risk commands will be skipped (use --allow-unsafe-exec to run them)", nil)
		}
		return true, nil
	}
	if s.Prompter == nil || !s.Prompter.Enabled() {
		s.Logger.Warn("no interactive terminal for approval; skipping execution", nil)
		return false, nil
	}
	return s.Prompter.Confirm(commands)
}

// runCommand evaluates one command against the guardrail and executes it. A
// non-zero exit produces a failed result, never an abort of the batch.
func (s *GenerateService) runCommand(ctx context.Context, cfg domain.Config, command domain.ExtractedCommand, autoApprove, allowUnsafe bool) domain.CommandResult {
	result := domain.CommandResult{Command: command, Status: domain.CommandPending}

	if cfg.Security.Enabled && s.SecurityService != nil {
		risk, err := s.SecurityService.Evaluate(command.Body)
		if err != nil {
			s.Logger.Warn("guardrail evaluation failed", map[string]interface{}{"error": err.Error()})
		} else if reason := skipReason(risk, autoApprove, allowUnsafe); reason != "" {
			result.Status = domain.CommandSkipped
			result.SkipReason = reason
			s.Logger.Warn("command skipped by guardrail", map[string]interface{}{
				"command": command.Body,
				"reason":  reason,
			})
			return result
		}
	}

	result.Status = domain.CommandRunning
	execution, err := s.Executor.Execute(ctx, command.Body)
	result.Execution = execution
	if err != nil || execution.ExitCode != 0 {
		result.Status = domain.CommandFailed
		return result
	}
	result.Status = domain.CommandSucceeded
	return result
}

// skipReason returns a non-empty reason when the guardrail verdict forbids
// running the command in the current approval mode.
func skipReason(risk domain.RiskAssessment, autoApprove, allowUnsafe bool) string {
	switch {
	case risk.Action == domain.ActionBlock:
		return reasonOrLevel(risk)
	case autoApprove && !allowUnsafe && (risk.Level == domain.RiskHigh || risk.Level == domain.RiskCritical):
		return fmt.Sprintf("%s risk under auto-approve: %s", risk.Level, reasonOrLevel(risk))
	default:
		return ""
	}
}

func reasonOrLevel(risk domain.RiskAssessment) string {
	if len(risk.Reasons) > 0 {
		return risk.Reasons[0]
	}
	return string(risk.Level)
}

func (s *GenerateService) record(cfg domain.Config, req domain.GenerateRequest, resp domain.GenerateResponse, elapsed time.Duration) {
	if !cfg.History.Enabled || s.HistoryStore == nil {
		return
	}
	record := domain.InvocationRecord{
		ID:            uuid.NewString(),
		Timestamp:     time.Now(),
		Prompt:        req.Prompt,
		Model:         resp.ModelUsed,
		AgentMode:     req.AgentMode,
		Degraded:      resp.Degraded,
		CommandsFound: len(resp.Commands),
		DurationMS:    elapsed.Milliseconds(),
	}
	for _, result := range resp.Results {
		if result.Status == domain.CommandSkipped {
			continue
		}
		record.CommandsRun++
		if result.Status == domain.CommandFailed {
			record.CommandsFailed++
		}
	}
	if err := s.HistoryStore.Save(record); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

func pickModel(cfg domain.Config, override string) (domain.ModelProfile, error) {
	name := override
	if name == "" {
		name = cfg.Preferences.DefaultModel
	}
	if name == "" {
		if len(cfg.Models) > 0 {
			return cfg.Models[0], nil
		}
		return domain.ModelProfile{}, errors.New("no model configured; pass --model or set preferences.default_model")
	}
	if model, ok := cfg.FindModel(name); ok {
		return model, nil
	}
	if override != "" {
		// An explicit --model not present in the config still works with
		// the fallback profile; Ollama rejects unknown names itself.
		return domain.NewModelProfile(override, defaultContextWindow, defaultMaxTokens), nil
	}
	return domain.ModelProfile{}, fmt.Errorf("model %s: %w", name, domain.ErrModelNotFound)
}

// ResolveHost applies the precedence flag > OLLAMA_HOST > config > default.
func ResolveHost(override string, cfg domain.Config) string {
	if override != "" {
		return override
	}
	if env := os.Getenv("OLLAMA_HOST"); env != "" {
		return env
	}
	if cfg.Preferences.Host != "" {
		return cfg.Preferences.Host
	}
	return DefaultHost
}

var _ domain.GenerateService = (*GenerateService)(nil)
