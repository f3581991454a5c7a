package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jwebster45206/fifteen-days/pkg/conditionals"
	"github.com/jwebster45206/fifteen-days/pkg/content"
	"github.com/jwebster45206/fifteen-days/pkg/game"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
	"github.com/jwebster45206/fifteen-days/pkg/settlement"
)

// ContentValidator checks authored content. Errors fail the run;
// warnings are printed and tolerated, since the engine falls back to
// placeholder text for anything missing.
type ContentValidator struct {
	locale   locale.Locale
	parser   *settlement.Parser
	errors   []string
	warnings []string
}

// NewContentValidator uses fallback as the locale of CSV files whose name
// does not identify one.
func NewContentValidator(fallback string) *ContentValidator {
	return &ContentValidator{
		locale: locale.Parse(fallback),
		parser: settlement.New(),
	}
}

// ValidateFiles validates every path. Requirement tables are read first so
// content files in the same run are cross-checked against them.
func (v *ContentValidator) ValidateFiles(paths []string) error {
	v.errors, v.warnings = nil, nil

	var reqs conditionals.Table
	var csvs, scripts []string
	tables := 0
	for _, p := range paths {
		switch {
		case strings.EqualFold(filepath.Ext(p), ".csv"):
			csvs = append(csvs, p)
		case isRequirementTable(p):
			fmt.Printf("Validating %s...\n", p)
			t, err := content.LoadRequirements(p)
			if err != nil {
				v.addError("%s: %v", p, err)
				continue
			}
			reqs = append(reqs, t...)
			tables++
		case isYAML(p):
			scripts = append(scripts, p)
		default:
			v.addError("%s: unsupported file type", p)
		}
	}
	if tables == 0 {
		reqs = conditionals.DefaultTable()
	} else if err := reqs.Validate(); err != nil {
		v.addError("combined requirement tables: %v", err)
	}

	for _, p := range csvs {
		fmt.Printf("Validating %s...\n", p)
		v.validateCSV(p, reqs)
	}
	for _, p := range scripts {
		fmt.Printf("Validating %s...\n", p)
		v.validateScript(p, reqs)
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("%d validation errors:\n%s", len(v.errors), strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *ContentValidator) validateCSV(path string, reqs conditionals.Table) {
	loc := v.localeFor(path)
	store := content.Load(loc,
		content.WithFile(path),
		content.WithRequirements(reqs),
		content.WithLogger(slog.New(slog.DiscardHandler)))
	if store.Path() == "" {
		v.addError("%s: could not be read", path)
		return
	}

	days := store.Days()
	if len(days) == 0 {
		v.addError("%s: no day rows found", path)
		return
	}
	for d := 1; d <= game.MaxDays; d++ {
		if !slices.Contains(days, d) {
			v.addWarning("%s: day %d is missing", path, d)
		}
	}
	for _, d := range days {
		if d > game.MaxDays {
			v.addWarning("%s: day %d is past the last day and is never played", path, d)
		}
		rec, _ := store.Day(d)
		v.validateDay(path, rec)
	}

	for _, key := range content.SpecialKeys {
		if _, ok := store.SpecialEnding(key); !ok {
			v.addWarning("%s: special block %q is missing", path, key)
		}
	}

	for _, r := range reqs {
		rec, ok := store.Day(r.Day)
		if !ok {
			v.addError("%s: requirement for day %d option %s points at a missing day", path, r.Day, r.Option)
			continue
		}
		if rec.Options[r.Option] == "" {
			v.addError("%s: requirement for day %d option %s points at a missing option", path, r.Day, r.Option)
			continue
		}
		if r.Mode == conditionals.ModeAll && !rec.Thresholds.IsZero() {
			v.compareThresholds(path, r, rec.Thresholds)
		}
	}
}

func (v *ContentValidator) validateDay(path string, rec content.DayRecord) {
	if strings.TrimSpace(rec.Narrative) == "" {
		v.addError("%s: day %d has no narrative", path, rec.Day)
	}
	if len(rec.Options) == 0 {
		v.addError("%s: day %d has no options", path, rec.Day)
	}
	for _, code := range content.Codes {
		if rec.Options[code] == "" {
			continue
		}
		if strings.TrimSpace(rec.Results[code]) == "" {
			v.addError("%s: day %d option %s has no result text", path, rec.Day, code)
		}
		text := rec.Settlements[code]
		if strings.TrimSpace(text) == "" {
			v.addError("%s: day %d option %s has no settlement text", path, rec.Day, code)
			continue
		}
		if eff := v.parser.Parse(text); eff.IsEmpty() {
			v.addWarning("%s: day %d option %s settlement %q changes nothing", path, rec.Day, code, text)
		}
	}
}

// compareThresholds checks an all-mode requirement against the minimum
// columns authored on the same day.
func (v *ContentValidator) compareThresholds(path string, r conditionals.Requirement, t content.Thresholds) {
	progress := map[string]int{
		"bribe":    t.Bribe,
		"sabotage": t.Sabotage,
		"legal":    t.Legal,
		"mystery":  t.Mystery,
	}[r.Track]

	if r.Stamina != t.Stamina {
		v.addError("%s: day %d option %s requires stamina %d but the minimum column says %d", path, r.Day, r.Option, r.Stamina, t.Stamina)
	}
	if r.Mana != t.Mana {
		v.addError("%s: day %d option %s requires mana %d but the minimum column says %d", path, r.Day, r.Option, r.Mana, t.Mana)
	}
	if r.Progress != progress {
		v.addError("%s: day %d option %s requires %s progress %d but the column says %d", path, r.Day, r.Option, r.Track, r.Progress, progress)
	}
}

func (v *ContentValidator) validateScript(path string, reqs conditionals.Table) {
	sc, err := content.LoadScript(path)
	if err != nil {
		v.addError("%s: %v", path, err)
		return
	}
	if sc.Locale != "" && !locale.Locale(sc.Locale).IsSupported() {
		v.addWarning("%s: locale %q is not supported, %s is used", path, sc.Locale, locale.Parse(sc.Locale))
	}
	if len(sc.Days) == 0 {
		v.addError("%s: no days defined", path)
		return
	}
	for _, d := range sc.Days {
		if d.Day > game.MaxDays {
			v.addWarning("%s: day %d is past the last day and is never played", path, d.Day)
		}
		if strings.TrimSpace(d.Narrative) == "" {
			v.addError("%s: day %d has no narrative", path, d.Day)
		}
		if len(d.Options) == 0 {
			v.addError("%s: day %d has no options", path, d.Day)
		}
		for code, o := range d.Options {
			if strings.TrimSpace(o.Label) == "" {
				v.addError("%s: day %d option %s has no label", path, d.Day, code)
			}
			if strings.TrimSpace(o.Result) == "" {
				v.addError("%s: day %d option %s has no result text", path, d.Day, code)
			}
			if o.Effect.IsEmpty() {
				v.addWarning("%s: day %d option %s changes nothing", path, d.Day, code)
			}
		}
	}
	for _, r := range reqs {
		d, ok := sc.Day(r.Day)
		if !ok {
			v.addError("%s: requirement for day %d option %s points at a missing day", path, r.Day, r.Option)
			continue
		}
		if _, ok := d.Options[r.Option]; !ok {
			v.addError("%s: requirement for day %d option %s points at a missing option", path, r.Day, r.Option)
		}
	}
}

// localeFor picks the locale whose content file name matches path.
func (v *ContentValidator) localeFor(path string) locale.Locale {
	base := filepath.Base(path)
	for _, loc := range locale.Supported {
		if strings.EqualFold(base, content.LayoutFor(loc).File) {
			return loc
		}
	}
	return v.locale
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isRequirementTable(path string) bool {
	return isYAML(path) && strings.HasPrefix(strings.ToLower(filepath.Base(path)), "requirements")
}

func (v *ContentValidator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *ContentValidator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}
