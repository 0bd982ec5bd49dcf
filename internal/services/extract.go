package services

import (
	"strings"

	"github.com/doeshing/aicoder/internal/domain"
)

// shellTags are fence language identifiers treated as shell.
var shellTags = map[string]bool{
	"bash":  true,
	"sh":    true,
	"shell": true,
	"zsh":   true,
}

// commandWords anchor the heuristic for untagged fences: an untagged block is
// treated as shell only when its first non-blank line starts with a "$ "
// prompt, a shebang, sudo, or one of these common command names.
var commandWords = map[string]bool{
	"apt": true, "awk": true, "brew": true, "cargo": true, "cat": true,
	"cd": true, "chmod": true, "chown": true, "cp": true, "curl": true,
	"docker": true, "echo": true, "export": true, "find": true, "git": true,
	"go": true, "grep": true, "kubectl": true, "ls": true, "make": true,
	"mkdir": true, "mv": true, "npm": true, "pip": true, "python": true,
	"python3": true, "rm": true, "sed": true, "ssh": true, "tar": true,
	"touch": true, "wget": true,
}

// ExtractCommands scans the transcript for fenced code blocks tagged as a
// shell language and returns one command per non-blank, non-comment line
// inside them, in transcript order.
//
// Policy notes:
//   - A fence line is one whose trimmed form starts with ``` and whose first
//     word after the marker is the language tag.
//   - Untagged blocks are included only when they pass the shell heuristic
//     (see commandWords).
//   - An opening fence with no matching close before the end of the
//     transcript selects nothing.
//   - A leading "$ " prompt marker is stripped from each command line.
//
// The function is pure: the same transcript always yields the same sequence.
func ExtractCommands(transcript string) []domain.ExtractedCommand {
	var commands []domain.ExtractedCommand
	var blockLines []string
	var language string
	inBlock := false
	order := 0

	for _, line := range strings.Split(transcript, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inBlock {
				inBlock = false
				if isShellBlock(language, blockLines) {
					for _, cmd := range commandLines(blockLines) {
						commands = append(commands, domain.ExtractedCommand{Body: cmd, Order: order})
						order++
					}
				}
				blockLines = nil
				language = ""
				continue
			}
			inBlock = true
			rest := strings.TrimPrefix(trimmed, "```")
			language = firstWord(rest)
			continue
		}
		if inBlock {
			blockLines = append(blockLines, line)
		}
	}

	// An unterminated block is excluded, not an error.
	return commands
}

func isShellBlock(language string, lines []string) bool {
	if language != "" {
		return shellTags[strings.ToLower(language)]
	}
	return looksLikeShell(lines)
}

// looksLikeShell implements the untagged-fence heuristic on the first
// non-blank line of the block.
func looksLikeShell(lines []string) bool {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "$ ") || strings.HasPrefix(trimmed, "#!") || strings.HasPrefix(trimmed, "sudo ") {
			return true
		}
		return commandWords[firstWord(trimmed)]
	}
	return false
}

func commandLines(lines []string) []string {
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, strings.TrimPrefix(trimmed, "$ "))
	}
	return out
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
