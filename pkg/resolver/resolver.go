package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"awardfinder/internal/award"
	"awardfinder/pkg/logger"
)

const (
	maxCodes = 5

	SourcePassthrough = "passthrough"
	SourceLLM         = "llm"

	systemPrompt = "You map free-text travel destinations to IATA airport codes. " +
		`Reply with JSON only: {"airports":["XXX"],"confidence":"high|medium|low"}.`
)

var iataPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

type Completer interface {
	Enabled() bool
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Resolver turns a destination like "Tokyo" or "southern Italy" into airport
// codes. It never fails; anything unexpected degrades to passing the text
// through as a code.
type Resolver struct {
	llm    Completer
	logger logger.Client
}

var _ award.DestinationResolver = (*Resolver)(nil)

func New(llm Completer, log logger.Client) *Resolver {
	if log == nil {
		log = logger.Nop{}
	}
	return &Resolver{llm: llm, logger: log}
}

type llmAnswer struct {
	Airports   []string `json:"airports"`
	Confidence string   `json:"confidence"`
}

func (r *Resolver) Resolve(ctx context.Context, text string) award.Resolution {
	query := strings.TrimSpace(text)
	if iataPattern.MatchString(query) {
		return passthrough(text, "high")
	}
	if r.llm == nil || !r.llm.Enabled() {
		return passthrough(text, "low")
	}

	prompt := fmt.Sprintf("Destination: %q\nList up to %d airports a traveler would fly into, most relevant first.", query, maxCodes)
	out, err := r.llm.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		r.logger.Warn("destination resolution failed", logger.Field{Key: "query", Value: query}, logger.Field{Key: "err", Value: err})
		return passthrough(text, "low")
	}

	codes, confidence, err := parseAnswer(out)
	if err != nil {
		r.logger.Warn("unusable resolver answer", logger.Field{Key: "query", Value: query}, logger.Field{Key: "err", Value: err})
		return passthrough(text, "low")
	}

	r.logger.Debug("destination resolved",
		logger.Field{Key: "query", Value: query},
		logger.Field{Key: "codes", Value: codes},
	)
	return award.Resolution{Query: text, Codes: codes, Confidence: confidence, Source: SourceLLM}
}

func passthrough(text, confidence string) award.Resolution {
	return award.Resolution{
		Query:      text,
		Codes:      []string{strings.ToUpper(strings.TrimSpace(text))},
		Confidence: confidence,
		Source:     SourcePassthrough,
	}
}

// parseAnswer accepts the JSON object even when wrapped in prose or a code fence.
func parseAnswer(out string) ([]string, string, error) {
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end < start {
		return nil, "", fmt.Errorf("no json object in %q", out)
	}

	var ans llmAnswer
	if err := json.Unmarshal([]byte(out[start:end+1]), &ans); err != nil {
		return nil, "", err
	}

	seen := make(map[string]struct{}, len(ans.Airports))
	var codes []string
	for _, a := range ans.Airports {
		code := strings.ToUpper(strings.TrimSpace(a))
		if !iataPattern.MatchString(code) {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
		if len(codes) == maxCodes {
			break
		}
	}
	if len(codes) == 0 {
		return nil, "", fmt.Errorf("no airport codes in answer")
	}

	confidence := strings.ToLower(strings.TrimSpace(ans.Confidence))
	switch confidence {
	case "high", "medium", "low":
	default:
		confidence = "low"
	}
	return codes, confidence, nil
}
