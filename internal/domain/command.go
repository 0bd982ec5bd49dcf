package domain

// ExtractedCommand is one shell command pulled out of the transcript. Order is
// strictly increasing and matches the position of the source line in the
// transcript's fenced blocks.
type ExtractedCommand struct {
	Body  string
	Order int
}

// CommandStatus tracks the execution state of a single command.
type CommandStatus string

const (
	CommandPending   CommandStatus = "pending"
	CommandRunning   CommandStatus = "running"
	CommandSucceeded CommandStatus = "succeeded"
	CommandFailed    CommandStatus = "failed"
	CommandSkipped   CommandStatus = "skipped"
)

// ExecutionResult wraps details from the command executor.
type ExecutionResult struct {
	Ran        bool
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMS int64
	Err        error
}

// CommandResult pairs a command with its outcome.
type CommandResult struct {
	Command    ExtractedCommand
	Status     CommandStatus
	Execution  ExecutionResult
	SkipReason string
}
