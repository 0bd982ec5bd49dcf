package domain

import "time"

// InvocationRecord captures metadata about one completed invocation.
type InvocationRecord struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Prompt         string    `json:"prompt"`
	Model          string    `json:"model"`
	AgentMode      bool      `json:"agent_mode"`
	Degraded       bool      `json:"degraded"`
	CommandsFound  int       `json:"commands_found"`
	CommandsRun    int       `json:"commands_run"`
	CommandsFailed int       `json:"commands_failed"`
	DurationMS     int64     `json:"duration_ms"`
}
