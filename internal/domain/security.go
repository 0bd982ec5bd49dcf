package domain

// RiskLevel enumerates guardrail outcomes.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// GuardrailAction describes how the agent loop should react to a risk level.
type GuardrailAction string

const (
	ActionAllow   GuardrailAction = "allow"
	ActionConfirm GuardrailAction = "confirm"
	ActionBlock   GuardrailAction = "block"
)

// RiskAssessment aggregates security evaluation data for one command.
type RiskAssessment struct {
	Level        RiskLevel
	Action       GuardrailAction
	Reasons      []string
	MatchedRules []string
}
