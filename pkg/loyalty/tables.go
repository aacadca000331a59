package loyalty

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"awardfinder/internal/award"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

type cardEntry struct {
	Name       string  `yaml:"name"`
	Multiplier float64 `yaml:"multiplier"`
}

type document struct {
	Cards    []cardEntry               `yaml:"cards"`
	Programs []award.ProgramCapability `yaml:"programs"`
}

// Tables holds card multipliers and program capabilities. It is read-only
// after Load and safe for concurrent use.
type Tables struct {
	names       []string
	multipliers map[string]float64
	programs    award.ProgramTable
}

// Default loads the tables compiled into the binary.
func Default() (*Tables, error) {
	return Load(defaultTables)
}

// Load parses a YAML document with `cards` and `programs` lists.
func Load(data []byte) (*Tables, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse loyalty tables: %w", err)
	}

	t := &Tables{
		multipliers: make(map[string]float64, len(doc.Cards)),
		programs:    make(award.ProgramTable, len(doc.Programs)),
	}

	for _, c := range doc.Cards {
		if c.Multiplier <= 0 || c.Multiplier > 1 {
			return nil, fmt.Errorf("card %q: multiplier %v outside (0,1]", c.Name, c.Multiplier)
		}
		key := normalize(c.Name)
		if _, dup := t.multipliers[key]; dup {
			return nil, fmt.Errorf("card %q listed twice", c.Name)
		}
		t.multipliers[key] = c.Multiplier
		t.names = append(t.names, c.Name)
	}
	sort.Strings(t.names)

	for _, p := range doc.Programs {
		switch p.Tier {
		case award.TierLiveReliable, award.TierLimitedReliable:
		default:
			return nil, fmt.Errorf("program %q: unknown tier %q", p.Source, p.Tier)
		}
		p.Source = strings.ToLower(strings.TrimSpace(p.Source))
		t.programs[p.Source] = p
	}

	return t, nil
}

// Multiplier returns the points-to-miles rate for a card, or 0 for a card we
// don't know. Zero makes every option unaffordable.
func (t *Tables) Multiplier(card string) float64 {
	return t.multipliers[normalize(card)]
}

// Cards lists known card names in alphabetical order.
func (t *Tables) Cards() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *Tables) Programs() award.ProgramTable {
	return t.programs
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
