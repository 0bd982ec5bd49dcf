package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/aicoder/internal/domain"
)

func bodies(commands []domain.ExtractedCommand) []string {
	out := make([]string, 0, len(commands))
	for _, command := range commands {
		out = append(out, command.Body)
	}
	return out
}

func TestExtractCommandsBash(t *testing.T) {
	transcript := "Here is a command:\n```bash\necho hello\n```"
	got := bodies(ExtractCommands(transcript))
	if diff := cmp.Diff([]string{"echo hello"}, got); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCommandsShellTags(t *testing.T) {
	for _, tag := range []string{"sh", "shell", "zsh", "bash"} {
		transcript := "```" + tag + "\necho hi\n```"
		if got := ExtractCommands(transcript); len(got) != 1 {
			t.Fatalf("tag %s: expected 1 command, got %+v", tag, got)
		}
	}
}

func TestExtractCommandsExcludesOtherLanguages(t *testing.T) {
	transcript := "Some python:\n```python\nprint('hi')\n```\nAnd rust:\n```rust\nfn main() {}\n```"
	if got := ExtractCommands(transcript); len(got) != 0 {
		t.Fatalf("expected no commands, got %+v", got)
	}
}

func TestExtractCommandsUntaggedShellHeuristic(t *testing.T) {
	shellish := "```\nmkdir -p build\ncd build\n```"
	if got := bodies(ExtractCommands(shellish)); len(got) != 2 {
		t.Fatalf("expected untagged shell block to match, got %+v", got)
	}

	prose := "```\nThis is just explanatory text.\n```"
	if got := ExtractCommands(prose); len(got) != 0 {
		t.Fatalf("expected prose block to be excluded, got %+v", got)
	}

	prompted := "```\n$ git status\n```"
	got := bodies(ExtractCommands(prompted))
	if diff := cmp.Diff([]string{"git status"}, got); diff != "" {
		t.Fatalf("prompt-marker block mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCommandsUnterminatedFenceExcluded(t *testing.T) {
	transcript := "Run this:\n```bash\necho never-closed"
	if got := ExtractCommands(transcript); len(got) != 0 {
		t.Fatalf("expected unterminated block to be excluded, got %+v", got)
	}
}

func TestExtractCommandsSplitsLinesSkippingComments(t *testing.T) {
	transcript := "```bash\n# prepare\nmkdir demo\n\ncd demo\ngit init\n```"
	got := bodies(ExtractCommands(transcript))
	want := []string{"mkdir demo", "cd demo", "git init"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCommandsOrderStrictlyIncreasing(t *testing.T) {
	transcript := "```bash\necho one\n```\ntext\n```sh\necho two\necho three\n```"
	got := ExtractCommands(transcript)
	if len(got) != 3 {
		t.Fatalf("expected 3 commands, got %+v", got)
	}
	for i, command := range got {
		if command.Order != i {
			t.Fatalf("command %d has order %d", i, command.Order)
		}
	}
}

func TestExtractCommandsMixedLanguages(t *testing.T) {
	transcript := "```rust\nprintln!(\"hi\");\n```\n```bash\necho hi\n```"
	got := bodies(ExtractCommands(transcript))
	if diff := cmp.Diff([]string{"echo hi"}, got); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCommandsEmptyBlock(t *testing.T) {
	transcript := "```bash\n```"
	if got := ExtractCommands(transcript); len(got) != 0 {
		t.Fatalf("expected no commands from empty block, got %+v", got)
	}
}

func TestExtractCommandsFenceWithExtraSpaces(t *testing.T) {
	transcript := "  ```bash  \necho spaced\n  ```  "
	got := bodies(ExtractCommands(transcript))
	if diff := cmp.Diff([]string{"echo spaced"}, got); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCommandsIsIdempotent(t *testing.T) {
	transcript := "```bash\necho a\n```\n```\nls -la\n```\n```python\nx = 1\n```"
	first := ExtractCommands(transcript)
	second := ExtractCommands(transcript)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("extraction not idempotent (-first +second):\n%s", diff)
	}
}

func TestExtractCommandsNoFences(t *testing.T) {
	if got := ExtractCommands("fn main(){}"); len(got) != 0 {
		t.Fatalf("expected no commands, got %+v", got)
	}
}
