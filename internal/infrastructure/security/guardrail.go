// Package security implements the regex guardrail evaluated against extracted
// commands before execution.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aicoder/assets"
	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/pkg/filesystem"
	"github.com/doeshing/aicoder/internal/ports"
)

// Guardrail implements the SecurityService port.
type Guardrail struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes a regex-based guardrail rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
	Action  string `yaml:"action"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	} `yaml:"rules"`
}

// NewGuardrail loads guardrail rules from disk, falling back to the embedded
// defaults when the file is missing.
func NewGuardrail(path string) (*Guardrail, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	var compiled []compiledPattern
	for _, pattern := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}

	return &Guardrail{patterns: compiled}, nil
}

// Evaluate implements ports.SecurityService.
func (g *Guardrail) Evaluate(command string) (domain.RiskAssessment, error) {
	if g == nil {
		return domain.RiskAssessment{}, errors.New("guardrail nil")
	}
	assessment := domain.RiskAssessment{
		Level:  domain.RiskSafe,
		Action: domain.ActionAllow,
	}
	highest := domain.RiskSafe
	for _, pattern := range g.patterns {
		if pattern.re.MatchString(command) {
			ruleLevel := parseRiskLevel(pattern.rule.Level)
			if moreSevere(ruleLevel, highest) {
				highest = ruleLevel
				assessment.Level = ruleLevel
				assessment.Action = parseAction(pattern.rule.Action, ruleLevel)
			}
			assessment.Reasons = append(assessment.Reasons, pattern.rule.Message)
			assessment.MatchedRules = append(assessment.MatchedRules, pattern.rule.Pattern)
		}
	}
	return assessment, nil
}

// loadRules reads the rules file. The default location falls back to the
// embedded rules when missing; an explicitly configured path that cannot be
// read is an error, never a silent downgrade to the defaults.
func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		if path != "" {
			return RulesFile{}, fmt.Errorf("guardrail rules %s: %w", path, err)
		}
		data = assets.DefaultGuardrailYAML
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, err
	}
	if len(rules.Rules.DangerPatterns) == 0 {
		if err := yaml.Unmarshal(assets.DefaultGuardrailYAML, &rules); err != nil {
			return RulesFile{}, err
		}
	}
	return rules, nil
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "low":
		return domain.RiskLow
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	default:
		return domain.RiskSafe
	}
}

func parseAction(value string, fallback domain.RiskLevel) domain.GuardrailAction {
	switch strings.ToLower(value) {
	case "block":
		return domain.ActionBlock
	case "confirm":
		return domain.ActionConfirm
	case "allow":
		return domain.ActionAllow
	default:
		if fallback == domain.RiskSafe {
			return domain.ActionAllow
		}
		return domain.ActionConfirm
	}
}

func moreSevere(next domain.RiskLevel, current domain.RiskLevel) bool {
	order := map[domain.RiskLevel]int{
		domain.RiskSafe:     0,
		domain.RiskLow:      1,
		domain.RiskMedium:   2,
		domain.RiskHigh:     3,
		domain.RiskCritical: 4,
	}
	return order[next] > order[current]
}

func expandPath(path string) string {
	if path == "" {
		return filepath.Join(filesystem.UserHomeDir(), ".aicoder", "guardrail.yaml")
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Join(filesystem.UserHomeDir(), path)
}

var _ ports.SecurityService = (*Guardrail)(nil)
