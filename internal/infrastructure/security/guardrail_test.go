package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/aicoder/internal/domain"
)

func defaultGuardrail(t *testing.T) *Guardrail {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	g, err := NewGuardrail("")
	if err != nil {
		t.Fatalf("NewGuardrail() error = %v", err)
	}
	return g
}

func TestEvaluateSafeCommand(t *testing.T) {
	g := defaultGuardrail(t)

	risk, err := g.Evaluate("ls -la")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if risk.Level != domain.RiskSafe || risk.Action != domain.ActionAllow {
		t.Fatalf("unexpected assessment %+v", risk)
	}
	if len(risk.Reasons) != 0 {
		t.Fatalf("safe command matched rules: %+v", risk.Reasons)
	}
}

func TestEvaluateBlocksDestructiveCommands(t *testing.T) {
	g := defaultGuardrail(t)

	for _, command := range []string{
		"rm -rf /",
		"sudo rm -rf / --no-preserve-root",
		"dd if=/dev/zero of=/dev/sda",
		"mkfs.ext4 /dev/sda1",
	} {
		risk, err := g.Evaluate(command)
		if err != nil {
			t.Fatalf("Evaluate(%q) error = %v", command, err)
		}
		if risk.Level != domain.RiskCritical || risk.Action != domain.ActionBlock {
			t.Fatalf("Evaluate(%q) = %+v, want critical block", command, risk)
		}
	}
}

func TestEvaluateConfirmLevelCommands(t *testing.T) {
	g := defaultGuardrail(t)

	risk, err := g.Evaluate("chmod 777 /var/www")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if risk.Level != domain.RiskMedium || risk.Action != domain.ActionConfirm {
		t.Fatalf("unexpected assessment %+v", risk)
	}
}

func TestEvaluateReportsMostSevereMatch(t *testing.T) {
	g := defaultGuardrail(t)

	risk, err := g.Evaluate("chmod 777 /tmp && rm -rf /")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if risk.Level != domain.RiskCritical || risk.Action != domain.ActionBlock {
		t.Fatalf("unexpected assessment %+v", risk)
	}
	if len(risk.Reasons) < 2 {
		t.Fatalf("expected both rules reported, got %+v", risk.Reasons)
	}
}

func TestNewGuardrailCustomRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	rules := `rules:
  danger_patterns:
    - pattern: 'git\s+push\s+--force'
      level: high
      message: Force push
      action: confirm
`
	if err := os.WriteFile(path, []byte(rules), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	g, err := NewGuardrail(path)
	if err != nil {
		t.Fatalf("NewGuardrail() error = %v", err)
	}

	risk, err := g.Evaluate("git push --force origin main")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if risk.Level != domain.RiskHigh || risk.Action != domain.ActionConfirm {
		t.Fatalf("custom rule not applied: %+v", risk)
	}

	if risk, _ := g.Evaluate("rm -rf /"); risk.Level != domain.RiskSafe {
		t.Fatalf("custom rules should replace defaults, got %+v", risk)
	}
}

func TestNewGuardrailMissingExplicitFileErrors(t *testing.T) {
	if _, err := NewGuardrail(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for unreadable explicit rules file")
	}
}

func TestNewGuardrailRejectsBadRegex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	rules := `rules:
  danger_patterns:
    - pattern: '['
      level: high
      message: Broken
      action: block
`
	if err := os.WriteFile(path, []byte(rules), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	if _, err := NewGuardrail(path); err == nil {
		t.Fatal("expected compile error for invalid pattern")
	}
}
