package conditionals

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects how the thresholds of a Requirement combine.
type Mode string

const (
	// ModeAll needs stamina, mana and the track all at or above their thresholds.
	ModeAll Mode = "all"
	// ModeAny needs at least one of them at or below its threshold.
	ModeAny Mode = "any"
)

// Requirement gates one option of one day.
type Requirement struct {
	Day      int    `yaml:"day" json:"day"`
	Option   string `yaml:"option" json:"option"`
	Track    string `yaml:"track" json:"track"`
	Mode     Mode   `yaml:"mode" json:"mode"`
	Stamina  int    `yaml:"stamina" json:"stamina"`
	Mana     int    `yaml:"mana" json:"mana"`
	Progress int    `yaml:"progress" json:"progress"`
}

// Source resolves the requirement for a (day, option) pair.
// ok is false when the option is not gated.
type Source interface {
	RequirementSpec(day int, code string) (Requirement, bool)
}

// Table is an ordered list of requirements. It implements Source.
type Table []Requirement

//go:embed requirements.yaml
var defaultTableYAML []byte

// DefaultTable returns the shipped requirement table.
func DefaultTable() Table {
	t, err := ParseTable(defaultTableYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded requirement table: %v", err))
	}
	return t
}

// ParseTable decodes and validates a YAML requirement table.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse requirement table: %w", err)
	}
	for i := range t {
		t[i].Option = strings.ToUpper(strings.TrimSpace(t[i].Option))
		t[i].Track = strings.ToLower(strings.TrimSpace(t[i].Track))
		if t[i].Mode == "" {
			t[i].Mode = ModeAll
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// RequirementSpec returns the first entry for day and code.
func (t Table) RequirementSpec(day int, code string) (Requirement, bool) {
	for _, r := range t {
		if r.Day == day && r.Option == code {
			return r, true
		}
	}
	return Requirement{}, false
}

// Validate reports every malformed entry in one joined error.
func (t Table) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, r := range t {
		key := fmt.Sprintf("%d/%s", r.Day, r.Option)
		if r.Day < 1 {
			errs = append(errs, fmt.Errorf("entry %d: day must be positive, got %d", i, r.Day))
		}
		switch r.Option {
		case "A", "B", "C":
		default:
			errs = append(errs, fmt.Errorf("entry %d: option must be A, B or C, got %q", i, r.Option))
		}
		switch r.Track {
		case "bribe", "sabotage", "legal", "mystery":
		default:
			errs = append(errs, fmt.Errorf("entry %d: unknown track %q", i, r.Track))
		}
		if r.Mode != ModeAll && r.Mode != ModeAny {
			errs = append(errs, fmt.Errorf("entry %d: unknown mode %q", i, r.Mode))
		}
		if seen[key] {
			errs = append(errs, fmt.Errorf("entry %d: duplicate requirement for day %d option %s", i, r.Day, r.Option))
		}
		seen[key] = true
	}
	return errors.Join(errs...)
}
