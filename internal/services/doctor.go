package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/ports"
)

// DoctorService runs environment diagnostics.
type DoctorService struct {
	ConfigProvider  ports.ConfigProvider
	ProviderFactory ports.ProviderFactory
	SecurityService ports.SecurityService
	HistoryStore    ports.HistoryRepository
	Shell           string
}

// Run executes checks and returns a report.
func (s *DoctorService) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded, format version %s", cfg.ConfigFormatVersion)))

	checks = append(checks, s.modelCheck(cfg))
	checks = append(checks, s.hostCheck(ctx, cfg))
	checks = append(checks, s.guardrailCheck())
	checks = append(checks, s.shellCheck())
	checks = append(checks, s.historyCheck())

	return domain.HealthReport{Checks: checks}, nil
}

func (s *DoctorService) modelCheck(cfg domain.Config) domain.HealthCheck {
	if len(cfg.Models) == 0 {
		return warn("Models", "no models configured; --model will use the fallback profile")
	}
	name := cfg.Preferences.DefaultModel
	if _, found := cfg.FindModel(name); !found {
		return warn("Models", fmt.Sprintf("default model %s missing from config", name))
	}
	return ok("Models", fmt.Sprintf("default %s (%d configured)", name, len(cfg.Models)))
}

func (s *DoctorService) hostCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	host := ResolveHost("", cfg)
	if s.ProviderFactory == nil {
		return warn("Ollama host", "provider factory not initialized")
	}
	provider := s.ProviderFactory.ForHost(host)
	models, err := provider.ListModels(ctx)
	if err != nil {
		return fail("Ollama host", fmt.Sprintf("%s unreachable: %v", host, err))
	}
	if name := cfg.Preferences.DefaultModel; name != "" {
		if has, err := provider.HasModel(ctx, name); err == nil && !has {
			return warn("Ollama host", fmt.Sprintf("%s reachable but default model %s is not installed", host, name))
		}
	}
	return ok("Ollama host", fmt.Sprintf("%s reachable, %d models installed", host, len(models)))
}

func (s *DoctorService) guardrailCheck() domain.HealthCheck {
	if s.SecurityService == nil {
		return warn("Guardrail", "security service not initialized")
	}
	if _, err := s.SecurityService.Evaluate("ls"); err != nil {
		return fail("Guardrail", err.Error())
	}
	return ok("Guardrail", "rules loaded")
}

func (s *DoctorService) shellCheck() domain.HealthCheck {
	shell := s.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	if _, err := exec.LookPath(shell); err != nil {
		return fail("Shell", fmt.Sprintf("%s not found", shell))
	}
	return ok("Shell", shell)
}

func (s *DoctorService) historyCheck() domain.HealthCheck {
	if s.HistoryStore == nil {
		return warn("History", "history store not initialized")
	}
	path := s.HistoryStore.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return warn("History", fmt.Sprintf("directory not writable: %v", err))
	}
	return ok("History", path)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
