package services

import (
	"context"
	"testing"

	"github.com/doeshing/aicoder/internal/domain"
)

func newDoctor(cfg domain.Config) *DoctorService {
	return &DoctorService{
		ConfigProvider:  stubConfigProvider{cfg: cfg},
		ProviderFactory: stubFactory{provider: stubProvider{}},
		SecurityService: stubSecurity{},
		HistoryStore:    &stubHistory{},
		Shell:           "/bin/sh",
	}
}

func findCheck(t *testing.T, report domain.HealthReport, name string) domain.HealthCheck {
	t.Helper()
	for _, check := range report.Checks {
		if check.Name == name {
			return check
		}
	}
	t.Fatalf("check %s missing from %+v", name, report.Checks)
	return domain.HealthCheck{}
}

func TestDoctorHealthyEnvironment(t *testing.T) {
	report, err := newDoctor(baseConfig()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, name := range []string{"Config file", "Models", "Ollama host", "Guardrail", "Shell"} {
		if check := findCheck(t, report, name); check.Status != domain.HealthOK {
			t.Fatalf("%s = %+v, want ok", name, check)
		}
	}
}

func TestDoctorWarnsWhenDefaultModelNotInstalled(t *testing.T) {
	cfg := baseConfig()
	cfg.Preferences.DefaultModel = "ghost"
	cfg.Models = []domain.ModelProfile{domain.NewModelProfile("ghost", 4096, 1024)}

	report, err := newDoctor(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if check := findCheck(t, report, "Ollama host"); check.Status != domain.HealthWarn {
		t.Fatalf("expected warn for uninstalled default model, got %+v", check)
	}
}
