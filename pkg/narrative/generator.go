package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	minLines = 3
	maxLines = 5

	systemPrompt = "You write short travel highlights for award travelers. " +
		"Answer with plain lines only, one highlight per line, no numbering and no preamble."
)

var ErrMalformed = errors.New("narrative: model output did not contain enough highlight lines")

// Completer is the subset of the LLM client the generator needs.
type Completer interface {
	Enabled() bool
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Generator struct {
	llm Completer
}

func NewGenerator(llm Completer) *Generator {
	return &Generator{llm: llm}
}

// Describe asks the model for 3 to 5 highlight lines about a stay.
func (g *Generator) Describe(ctx context.Context, destination string, nights int) ([]string, error) {
	if g.llm == nil || !g.llm.Enabled() {
		return nil, errors.New("narrative: generator disabled")
	}

	prompt := fmt.Sprintf(`Destination airport: %s
Length of stay: %d nights

Write between %d and %d short lines (under 15 words each) describing what a traveler
could do with that many nights there. One line per highlight.`,
		strings.ToUpper(destination), nights, minLines, maxLines)

	out, err := g.llm.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parseLines(out)
}

func parseLines(text string) ([]string, error) {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := cleanLine(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxLines {
			break
		}
	}
	if len(lines) < minLines {
		return nil, ErrMalformed
	}
	return lines, nil
}

// cleanLine strips list markers such as "-", "*", "•" and "1." or "2)".
func cleanLine(raw string) string {
	line := strings.TrimSpace(raw)
	line = strings.TrimLeft(line, "-*• ")
	if i := strings.IndexAny(line, ".)"); i > 0 && i <= 2 && isDigits(line[:i]) {
		line = line[i+1:]
	}
	return strings.TrimSpace(line)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
