package content

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/fifteen-days/pkg/conditionals"
	"github.com/jwebster45206/fifteen-days/pkg/state"
)

// ScriptOption is one choice of a scripted day. Its effect is authored
// directly instead of being parsed from settlement text.
type ScriptOption struct {
	Label  string       `yaml:"label"`
	Result string       `yaml:"result"`
	Effect state.Effect `yaml:"effect"`
}

type ScriptDay struct {
	Day       int                     `yaml:"day"`
	Narrative string                  `yaml:"narrative"`
	Options   map[string]ScriptOption `yaml:"options"`
}

// Script is a level table with explicit effects per option.
type Script struct {
	Locale      string            `yaml:"locale"`
	Days        []ScriptDay       `yaml:"days"`
	Transitions map[int]string    `yaml:"transitions"`
	Special     map[string]string `yaml:"special"`
}

// LoadScript reads and validates a YAML level table.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level script %s: %w", path, err)
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse level script: %w", err)
	}
	seen := make(map[int]bool)
	for i, d := range sc.Days {
		if d.Day < 1 {
			return nil, fmt.Errorf("level script day %d: day must be positive", i)
		}
		if seen[d.Day] {
			return nil, fmt.Errorf("level script day %d is defined more than once", d.Day)
		}
		seen[d.Day] = true
		opts := make(map[string]ScriptOption, len(d.Options))
		for code, o := range d.Options {
			code = strings.ToUpper(strings.TrimSpace(code))
			if !slices.Contains(Codes, code) {
				return nil, fmt.Errorf("level script day %d: unknown option %q", d.Day, code)
			}
			opts[code] = o
		}
		sc.Days[i].Options = opts
	}
	for key := range sc.Special {
		if !slices.Contains(SpecialKeys, key) {
			return nil, fmt.Errorf("level script: unknown special block %q", key)
		}
	}
	return &sc, nil
}

// Day returns the scripted day, if any.
func (sc *Script) Day(day int) (ScriptDay, bool) {
	for _, d := range sc.Days {
		if d.Day == day {
			return d, true
		}
	}
	return ScriptDay{}, false
}

func (sc *Script) Transition(afterDay int) (string, bool) {
	t, ok := sc.Transitions[afterDay]
	return t, ok && t != ""
}

func (sc *Script) SpecialEnding(key string) (string, bool) {
	t, ok := sc.Special[key]
	return t, ok && t != ""
}

// LoadRequirements reads a YAML requirement table from disk.
func LoadRequirements(path string) (conditionals.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read requirement table %s: %w", path, err)
	}
	return conditionals.ParseTable(data)
}
