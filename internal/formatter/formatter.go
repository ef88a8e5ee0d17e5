// Package formatter builds the natural-language prompt sent to the
// generative-text service.
package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// diffPromptLimit bounds how much diff text is embedded in the prompt.
const diffPromptLimit = 4000

var commitTypes = []string{
	"feat", "fix", "docs", "style", "refactor",
	"perf", "test", "build", "ci", "chore", "revert",
}

// BuildPrompt assembles the fixed natural-language prompt embedding the
// staged diff and the list of files it touches.
func BuildPrompt(role string, changedFiles []string, diff string) string {
	if len(diff) > diffPromptLimit {
		diff = truncateToValidUTF8(diff, diffPromptLimit) + "...(content is too long, truncated)"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder,
		"%s, based on the following git diff, generate a concise and descriptive commit message.\n\n", role)
	builder.WriteString(
		"The message must follow the conventional commit format (e.g., 'feat: add user authentication'), " +
			"picking the most relevant type from: " + strings.Join(commitTypes, ", ") + ".\n\n")
	if len(changedFiles) > 0 {
		fmt.Fprintf(&builder, "Files:\n%s\n\n", strings.Join(changedFiles, "\n"))
	}
	fmt.Fprintf(&builder, "Diff:\n%s\n", diff)
	builder.WriteString("\nRespond with the commit message only, without code fences or commentary.")

	return builder.String()
}

func truncateToValidUTF8(input string, maxBytes int) string {
	if len(input) <= maxBytes {
		return input
	}

	end := maxBytes
	for end > 0 && !utf8.ValidString(input[:end]) {
		end--
	}

	if end == 0 {
		return ""
	}

	return input[:end]
}
