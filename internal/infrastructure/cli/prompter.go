package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/aicoder/internal/domain"
	"github.com/doeshing/aicoder/internal/ports"
)

const bannerRule = "============================================================"

// Prompter implements the interactive approval gate. The prompt and the
// command listing go to standard error; the answer is read from standard
// input.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter constructs a prompter. Nil arguments default to stdin/stderr,
// with interactivity determined by whether stdin is a terminal; an explicit
// reader is always treated as interactive (used by tests).
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := true
	if in == nil {
		in = os.Stdin
		interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	if out == nil {
		out = os.Stderr
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Enabled reports whether an interactive answer can be obtained.
func (p *Prompter) Enabled() bool {
	return p.interactive
}

// Confirm displays the commands verbatim in order and blocks on a yes/no
// answer. Anything other than an explicit affirmative declines. An empty
// command list declines immediately without prompting.
func (p *Prompter) Confirm(commands []domain.ExtractedCommand) (bool, error) {
	if len(commands) == 0 {
		return false, nil
	}

	fmt.Fprintf(p.out, "\nFound %d shell command(s):\n", len(commands))
	fmt.Fprintln(p.out, bannerRule)
	for _, command := range commands {
		fmt.Fprintln(p.out, command.Body)
	}
	fmt.Fprintln(p.out, bannerRule)
	fmt.Fprint(p.out, "Execute? [y/N]: ")

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
