package domain

// Config mirrors ~/.aicoder/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Preferences         Preferences      `yaml:"preferences"`
	Models              []ModelProfile   `yaml:"models"`
	Agent               AgentSettings    `yaml:"agent"`
	Security            SecuritySettings `yaml:"security"`
	History             HistorySettings  `yaml:"history"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	Host           string `yaml:"host"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// AgentSettings controls the post-stream command execution phase.
type AgentSettings struct {
	Shell           string `yaml:"shell"`
	AutoApprove     bool   `yaml:"auto_approve"`
	AllowUnsafeExec bool   `yaml:"allow_unsafe_exec"`
	StrictExit      bool   `yaml:"strict_exit"`
}

// SecuritySettings defines guardrail behavior.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// HistorySettings controls invocation recording.
type HistorySettings struct {
	Enabled bool `yaml:"enabled"`
}

// FindModel returns the named model profile from the config.
func (c Config) FindModel(name string) (ModelProfile, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelProfile{}, false
}
