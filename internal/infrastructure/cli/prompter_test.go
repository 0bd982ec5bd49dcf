package cli

import (
	"strings"
	"testing"

	"github.com/doeshing/aicoder/internal/domain"
)

func commands(bodies ...string) []domain.ExtractedCommand {
	var out []domain.ExtractedCommand
	for i, body := range bodies {
		out = append(out, domain.ExtractedCommand{Body: body, Order: i})
	}
	return out
}

func TestConfirmAnswers(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}
	for _, tc := range cases {
		var out strings.Builder
		p := NewPrompter(strings.NewReader(tc.answer), &out)

		got, err := p.Confirm(commands("echo hi"))
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", tc.answer, err)
		}
		if got != tc.want {
			t.Fatalf("Confirm(%q) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestConfirmShowsCommandsVerbatim(t *testing.T) {
	var out strings.Builder
	p := NewPrompter(strings.NewReader("n\n"), &out)

	if _, err := p.Confirm(commands("mkdir demo", "cd demo && git init")); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	display := out.String()
	if !strings.Contains(display, "Found 2 shell command(s):") {
		t.Fatalf("missing header in %q", display)
	}
	for _, body := range []string{"mkdir demo", "cd demo && git init"} {
		if !strings.Contains(display, body) {
			t.Fatalf("command %q not displayed in %q", body, display)
		}
	}
	if !strings.Contains(display, "Execute? [y/N]: ") {
		t.Fatalf("missing prompt in %q", display)
	}
}

func TestConfirmEmptyListDeclinesWithoutPrompting(t *testing.T) {
	var out strings.Builder
	p := NewPrompter(strings.NewReader(""), &out)

	got, err := p.Confirm(nil)
	if err != nil || got {
		t.Fatalf("Confirm(nil) = %v, %v", got, err)
	}
	if out.String() != "" {
		t.Fatalf("prompt printed for empty list: %q", out.String())
	}
}

func TestConfirmEOFDeclines(t *testing.T) {
	var out strings.Builder
	p := NewPrompter(strings.NewReader(""), &out)

	got, err := p.Confirm(commands("echo hi"))
	if got {
		t.Fatalf("EOF must decline, got %v (err %v)", got, err)
	}
}

func TestExplicitReaderIsInteractive(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), nil)
	if !p.Enabled() {
		t.Fatal("explicit reader should be interactive")
	}
}
