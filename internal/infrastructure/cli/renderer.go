package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/aicoder/internal/domain"
)

// RenderAgentResults reports per-command outcomes after the execution phase.
// Everything goes to the status stream, never stdout.
func RenderAgentResults(w io.Writer, resp domain.GenerateResponse) {
	if len(resp.Commands) == 0 {
		return
	}
	if !resp.Approved {
		fmt.Fprintln(w, "Skipped.")
		return
	}
	for _, result := range resp.Results {
		switch result.Status {
		case domain.CommandSucceeded:
			fmt.Fprintf(w, "[ok]   %s (%dms)\n", result.Command.Body, result.Execution.DurationMS)
		case domain.CommandFailed:
			fmt.Fprintf(w, "[fail] %s (exit %d)\n", result.Command.Body, result.Execution.ExitCode)
		case domain.CommandSkipped:
			fmt.Fprintf(w, "[skip] %s (%s)\n", result.Command.Body, result.SkipReason)
		}
		echoCaptured(w, result.Execution)
	}

	ran := 0
	for _, result := range resp.Results {
		if result.Status != domain.CommandSkipped {
			ran++
		}
	}
	fmt.Fprintf(w, "%d command(s) run, %d failed\n", ran, resp.FailedCommands())
}

func echoCaptured(w io.Writer, execution domain.ExecutionResult) {
	if out := strings.TrimRight(execution.Stdout, "\n"); out != "" {
		fmt.Fprintln(w, out)
	}
	if errOut := strings.TrimRight(execution.Stderr, "\n"); errOut != "" {
		fmt.Fprintln(w, errOut)
	}
}

// RenderHistory lists invocation records, newest first.
func RenderHistory(w io.Writer, records []domain.InvocationRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No history recorded yet.")
		return
	}
	for _, rec := range records {
		prompt := rec.Prompt
		if len(prompt) > 60 {
			prompt = prompt[:57] + "..."
		}
		marker := "chat"
		if rec.AgentMode {
			marker = fmt.Sprintf("agent %d/%d", rec.CommandsRun, rec.CommandsFound)
			if rec.CommandsFailed > 0 {
				marker += fmt.Sprintf(" (%d failed)", rec.CommandsFailed)
			}
		}
		fmt.Fprintf(w, "%-20s %-10s %-14s %s\n",
			humanize.Time(rec.Timestamp),
			rec.Model,
			marker,
			prompt,
		)
	}
}

// RenderHealth prints a doctor report.
func RenderHealth(w io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(w, "[%-5s] %-18s %s\n", check.Status, check.Name, check.Details)
	}
}

// RenderModels lists the models installed on the host.
func RenderModels(w io.Writer, host string, models []string) {
	fmt.Fprintf(w, "Models on %s:\n", host)
	if len(models) == 0 {
		fmt.Fprintln(w, "  (none installed)")
		return
	}
	for _, model := range models {
		fmt.Fprintf(w, "  %s\n", model)
	}
}
