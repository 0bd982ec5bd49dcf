package domain

import "context"

// GenerateRequest captures user intent for one invocation.
type GenerateRequest struct {
	Context         context.Context
	Prompt          string
	ModelOverride   string
	HostOverride    string
	AgentMode       bool
	AutoApprove     bool
	AllowUnsafeExec bool
	Sink            TranscriptSink
}

// GenerateResponse is the canonical result propagated back to the CLI.
type GenerateResponse struct {
	Transcript string
	ModelUsed  string
	Host       string
	Degraded   bool
	Commands   []ExtractedCommand
	Approved   bool
	Results    []CommandResult
}

// FailedCommands counts commands that ran and exited non-zero.
func (r GenerateResponse) FailedCommands() int {
	n := 0
	for _, result := range r.Results {
		if result.Status == CommandFailed {
			n++
		}
	}
	return n
}

// GenerateService exposes the use-case boundary for handling a prompt.
type GenerateService interface {
	Run(GenerateRequest) (GenerateResponse, error)
}
