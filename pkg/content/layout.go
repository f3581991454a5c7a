package content

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"github.com/jwebster45206/fifteen-days/pkg/locale"
)

// Special block keys.
const (
	StoryBackground = "story-background"
	StaminaDepleted = "stamina-depleted"
	ManaDepleted    = "mana-depleted"
	BothDepleted    = "both-depleted"
)

// SpecialKeys lists every special block key.
var SpecialKeys = []string{StoryBackground, StaminaDepleted, ManaDepleted, BothDepleted}

// Codes lists the option codes in display order.
var Codes = []string{"A", "B", "C"}

// Columns names the literal source header for each semantic field.
// Empty threshold columns are allowed; the rest are required.
type Columns struct {
	Day         string
	Narrative   string
	Options     [3]string // indexed like Codes
	Results     [3]string
	Settlements [3]string

	StaminaMin string
	ManaMin    string
	Bribe      string
	Sabotage   string
	Legal      string
	Mystery    string
}

// Validate checks that required columns are named and no header is reused.
func (c Columns) Validate() error {
	var errs []error
	required := map[string]string{"day": c.Day, "narrative": c.Narrative}
	for i, code := range Codes {
		required["option "+code] = c.Options[i]
		required["result "+code] = c.Results[i]
		required["settlement "+code] = c.Settlements[i]
	}
	for field, header := range required {
		if strings.TrimSpace(header) == "" {
			errs = append(errs, fmt.Errorf("column for %s is not set", field))
		}
	}

	seen := make(map[string]bool)
	for _, h := range c.all() {
		if h == "" {
			continue
		}
		k := strings.ToLower(h)
		if seen[k] {
			errs = append(errs, fmt.Errorf("column %q is mapped more than once", h))
		}
		seen[k] = true
	}
	return errors.Join(errs...)
}

func (c Columns) all() []string {
	out := []string{c.Day, c.Narrative}
	out = append(out, c.Options[:]...)
	out = append(out, c.Results[:]...)
	out = append(out, c.Settlements[:]...)
	return append(out, c.StaminaMin, c.ManaMin, c.Bribe, c.Sabotage, c.Legal, c.Mystery)
}

// Layout is everything locale-specific about a content file.
type Layout struct {
	File    string
	Columns Columns
	// DayPattern must capture the day number text in group 1.
	DayPattern *regexp.Regexp
	// Special maps a special block key to the day-cell headers that select it.
	Special map[string][]string
}

// Validate checks the column table and the special header table.
func (l Layout) Validate() error {
	var errs []error
	if l.File == "" {
		errs = append(errs, errors.New("file name is not set"))
	}
	if l.DayPattern == nil || l.DayPattern.NumSubexp() < 1 {
		errs = append(errs, errors.New("day pattern must have a capture group"))
	}
	if err := l.Columns.Validate(); err != nil {
		errs = append(errs, err)
	}
	for _, key := range SpecialKeys {
		if len(l.Special[key]) == 0 {
			errs = append(errs, fmt.Errorf("no header for special block %s", key))
		}
	}
	return errors.Join(errs...)
}

// special returns the key selected by a day-cell value, if any.
func (l Layout) special(cell string) (string, bool) {
	norm := normalizeHeader(cell)
	if norm == "" {
		return "", false
	}
	for _, key := range SpecialKeys {
		for _, h := range l.Special[key] {
			if normalizeHeader(h) == norm {
				return key, true
			}
		}
	}
	return "", false
}

func normalizeHeader(s string) string {
	s = width.Fold.String(s)
	s = strings.ReplaceAll(s, "<=", "≤")
	s = strings.Join(strings.Fields(s), "")
	return strings.ToLower(s)
}

var layouts = map[locale.Locale]Layout{
	locale.Chinese: {
		File: "Chinese Text.csv",
		Columns: Columns{
			Day:         "天数",
			Narrative:   "叙述文本",
			Options:     [3]string{"A", "B", "C"},
			Results:     [3]string{"A结果文本", "B结果文本", "C结果文本"},
			Settlements: [3]string{"A系统结算", "B系统结算", "C系统结算"},
			StaminaMin:  "体力最小值（初始10）",
			ManaMin:     "魔力最小值（初始10）",
			Bribe:       "贿赂",
			Sabotage:    "破坏",
			Legal:       "文书",
			Mystery:     "？",
		},
		DayPattern: regexp.MustCompile(`第\s*(.+?)\s*天`),
		Special: map[string][]string{
			StoryBackground: {"故事背景"},
			StaminaDepleted: {"体力值≤0"},
			ManaDepleted:    {"魔力值≤0"},
			BothDepleted:    {"体力值魔力值同时≤0", "体力值和魔力值同时≤0"},
		},
	},
	locale.English: {
		File: "English Text.csv",
		Columns: Columns{
			Day:         "Days",
			Narrative:   "narrative text",
			Options:     [3]string{"A", "B", "C"},
			Results:     [3]string{"A Result text", "B Result text", "C Result Text"},
			Settlements: [3]string{"A System Settlement", "B System Settlement", "C System Settlement"},
			StaminaMin:  "Strength minimum (initial 10)",
			ManaMin:     "Magic minimum (initial 10)",
			Bribe:       "Bribe",
			Sabotage:    "Sabotage",
			Legal:       "Paperwork",
			Mystery:     "?",
		},
		DayPattern: regexp.MustCompile(`(?i)^day\s*([^\s:,.]+)`),
		Special: map[string][]string{
			StoryBackground: {"Story background", "Background"},
			StaminaDepleted: {"Strength≤0", "Stamina≤0", "HP≤0"},
			ManaDepleted:    {"Magic≤0", "Mana≤0", "MP≤0"},
			BothDepleted:    {"Strength and Magic≤0", "Stamina and Mana≤0", "HP and MP≤0"},
		},
	},
}

// LayoutFor returns the layout of a locale, falling back to the default locale.
func LayoutFor(l locale.Locale) Layout {
	if lay, ok := layouts[l]; ok {
		return lay
	}
	return layouts[locale.Default]
}
