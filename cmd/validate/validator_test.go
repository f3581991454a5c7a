package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const header = "Days,narrative text,A,B,C,A Result text,B Result text,C Result Text," +
	"A System Settlement,B System Settlement,C System Settlement," +
	"Strength minimum (initial 10),Magic minimum (initial 10),Bribe,Sabotage,Paperwork,?\n"

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestContentValidator_CSV(t *testing.T) {
	tests := []struct {
		name       string
		csv        string
		reqs       string
		wantErrors []string
	}{
		{
			name: "valid content with matching thresholds",
			csv: header +
				"Day 1,Scene.,Dig,Wait,,You dig.,You wait.,,Stamina-2,Mana+1,,25,25,,3,,\n",
			reqs: "- {day: 1, option: A, track: sabotage, stamina: 25, mana: 25, progress: 3}\n",
		},
		{
			name: "missing settlement and result",
			csv: header +
				"Day 1,Scene.,Dig,Wait,,You dig.,,,Stamina-2,,,,,,,,\n",
			reqs:       "- {day: 1, option: A, track: sabotage}\n",
			wantErrors: []string{"option B has no result text", "option B has no settlement text"},
		},
		{
			name: "requirement for a missing day",
			csv: header +
				"Day 1,Scene.,Dig,,,You dig.,,,Stamina-2,,,,,,,,\n",
			reqs:       "- {day: 9, option: A, track: bribe}\n",
			wantErrors: []string{"day 9 option A points at a missing day"},
		},
		{
			name: "requirement for a missing option",
			csv: header +
				"Day 1,Scene.,Dig,,,You dig.,,,Stamina-2,,,,,,,,\n",
			reqs:       "- {day: 1, option: C, track: bribe}\n",
			wantErrors: []string{"day 1 option C points at a missing option"},
		},
		{
			name: "thresholds disagree",
			csv: header +
				"Day 1,Scene.,Dig,Wait,,You dig.,You wait.,,Stamina-2,Mana+1,,20,25,,3,,\n",
			reqs:       "- {day: 1, option: A, track: sabotage, stamina: 25, mana: 25, progress: 3}\n",
			wantErrors: []string{"requires stamina 25 but the minimum column says 20"},
		},
		{
			name:       "no day rows",
			csv:        header,
			reqs:       "[]\n",
			wantErrors: []string{"no day rows found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			csv := writeFile(t, dir, "English Text.csv", tt.csv)
			reqs := writeFile(t, dir, "requirements.yaml", tt.reqs)

			v := NewContentValidator("zh")
			err := v.ValidateFiles([]string{csv, reqs})
			if len(tt.wantErrors) == 0 {
				if err != nil {
					t.Fatalf("expected no errors, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation errors")
			}
			for _, want := range tt.wantErrors {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected error containing %q, got %v", want, err)
				}
			}
		})
	}
}

func TestContentValidator_Warnings(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "English Text.csv", header+
		"Day 1,Scene.,Dig,,,You dig.,,,Nothing happens,,,,,,,,\n")
	reqs := writeFile(t, dir, "requirements.yaml", "[]\n")

	v := NewContentValidator("")
	if err := v.ValidateFiles([]string{csv, reqs}); err != nil {
		t.Fatalf("expected no errors, got %v", err)
	}
	joined := strings.Join(v.warnings, "\n")
	for _, want := range []string{"day 2 is missing", `changes nothing`, `special block "story-background" is missing`} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected warning containing %q, got:\n%s", want, joined)
		}
	}
}

func TestContentValidator_Script(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "levels.yaml", `
days:
  - day: 11
    narrative: The wall.
    options:
      A: {label: Dig, result: You dig., effect: {sabotage: 1}}
      B: {label: Wait, result: You wait., effect: {mana: 1}}
`)
	bad := writeFile(t, dir, "broken.yaml", `
days:
  - day: 1
    narrative: ""
    options:
      A: {label: "", result: ""}
`)

	v := NewContentValidator("en")
	reqs := writeFile(t, dir, "requirements.yaml", "- {day: 11, option: A, track: sabotage}\n")
	if err := v.ValidateFiles([]string{good, reqs}); err != nil {
		t.Fatalf("expected no errors, got %v", err)
	}

	err := v.ValidateFiles([]string{bad, reqs})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"day 1 has no narrative", "option A has no label", "option A has no result text", "day 11 option A points at a missing day"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error containing %q, got %v", want, err)
		}
	}
}

func TestContentValidator_UnsupportedFile(t *testing.T) {
	v := NewContentValidator("")
	err := v.ValidateFiles([]string{"notes.txt"})
	if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Errorf("expected unsupported file error, got %v", err)
	}
}

func TestContentValidator_ShippedData(t *testing.T) {
	v := NewContentValidator("")
	err := v.ValidateFiles([]string{
		"../../data/Chinese Text.csv",
		"../../data/English Text.csv",
		"../../data/requirements.yaml",
		"../../data/levels.yaml",
	})
	if err != nil {
		t.Fatalf("shipped content should validate: %v", err)
	}
	for _, w := range v.warnings {
		if strings.Contains(w, "missing") {
			t.Errorf("unexpected warning: %s", w)
		}
	}
}
