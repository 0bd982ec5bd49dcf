package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/aicoder/internal/domain"
)

// TerminalSink writes each text delta to the terminal the moment it arrives
// and keeps a copy of everything written for agent-mode post-processing. It is
// the only component touching standard output during the streaming phase.
type TerminalSink struct {
	out        io.Writer
	transcript strings.Builder
}

// NewTerminalSink builds a sink; a nil writer targets stdout.
func NewTerminalSink(out io.Writer) *TerminalSink {
	if out == nil {
		out = os.Stdout
	}
	return &TerminalSink{out: out}
}

// WriteChunk implements domain.StreamWriter. os.Files are unbuffered in Go, so
// the delta is on screen before the next fragment is pulled.
func (s *TerminalSink) WriteChunk(text string) {
	if text == "" {
		return
	}
	fmt.Fprint(s.out, text)
	s.transcript.WriteString(text)
}

// Done terminates the generated text with a newline.
func (s *TerminalSink) Done() {
	fmt.Fprintln(s.out)
}

// Transcript returns the accumulated generated text.
func (s *TerminalSink) Transcript() string {
	return s.transcript.String()
}

var _ domain.TranscriptSink = (*TerminalSink)(nil)
