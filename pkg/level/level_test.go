package level

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/fifteen-days/pkg/content"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
	"github.com/jwebster45206/fifteen-days/pkg/state"
)

const testCSV = "Days,narrative text,A,B,C,A Result text,B Result text,C Result Text,A System Settlement,B System Settlement,C System Settlement\n" +
	"Day 1,The guard eyes you.,Talk,Sleep,Search,He laughs.,You rest.,You find a key.,Stamina-2,Stamina+5,\"Item: Rusty Key (advances sabotage route)\"\n" +
	",Night falls.,,,,,,,,,\n" +
	"Day 11,The wall is weak.,Break through,Wait,,You are out!,You wait.,,Stamina-20,Mana+1,\n"

func newCSVSource(t *testing.T) *CSVSource {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "English Text.csv"), []byte(testCSV), 0o644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	store := content.Load(locale.English, content.WithDirs(dir), content.WithLogger(slog.New(slog.DiscardHandler)))
	return NewCSVSource(store, nil)
}

func TestParseCode(t *testing.T) {
	for _, in := range []string{"a", " B ", "C"} {
		if _, err := ParseCode(in); err != nil {
			t.Errorf("ParseCode(%q) unexpected error: %v", in, err)
		}
	}
	for _, in := range []string{"", "D", "AB"} {
		if _, err := ParseCode(in); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("ParseCode(%q) expected ErrInvalidOption, got %v", in, err)
		}
	}
}

func TestCSVLevel(t *testing.T) {
	src := newCSVSource(t)

	if _, ok := src.Level(2); ok {
		t.Fatal("expected no level for a day missing from the content")
	}

	lvl, ok := src.Level(1)
	if !ok {
		t.Fatal("expected level for day 1")
	}
	if lvl.Narrative() != "The guard eyes you." {
		t.Errorf("unexpected narrative %q", lvl.Narrative())
	}
	opts := lvl.Options()
	if len(opts) != 3 || opts[0].Label != "Talk" || opts[2].Code != C {
		t.Errorf("unexpected options %+v", opts)
	}
	if lvl.IsComplete() {
		t.Error("level should not start complete")
	}

	ps := state.NewPlayerState()
	choice, err := lvl.HandleChoice(C, ps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !choice.Allowed || choice.Result != "You find a key." {
		t.Errorf("unexpected choice %+v", choice)
	}
	if choice.Effect.SabotageDelta != 1 || len(choice.Effect.ItemsGained) != 1 || choice.Effect.ItemsGained[0] != "Rusty Key" {
		t.Errorf("unexpected effect %+v", choice.Effect)
	}
	if ps.SabotageProgress != 0 || len(ps.Inventory) != 0 {
		t.Error("HandleChoice must not mutate the player state")
	}
	if !lvl.IsComplete() {
		t.Error("level should be complete after an allowed choice")
	}

	if _, err := lvl.HandleChoice(Code("D"), ps); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}

	if text, ok := src.Transition(1); !ok || text != "Night falls." {
		t.Errorf("unexpected transition %q", text)
	}
}

func TestCSVLevel_Gated(t *testing.T) {
	src := newCSVSource(t)
	lvl, _ := src.Level(11)

	ps := state.NewPlayerState()
	choice, err := lvl.HandleChoice(A, ps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if choice.Allowed {
		t.Fatal("expected option A to be gated for a fresh player")
	}
	if len(choice.Unmet) != 3 {
		t.Errorf("expected three unmet reasons, got %v", choice.Unmet)
	}
	if !choice.Effect.IsEmpty() || choice.Result != "" {
		t.Errorf("blocked choice must carry no effect or result, got %+v", choice)
	}
	if lvl.IsComplete() {
		t.Error("blocked choice must not complete the level")
	}

	choice, _ = lvl.HandleChoice(B, ps)
	if !choice.Allowed || choice.Effect.ManaDelta != 1 {
		t.Errorf("expected option B allowed with mana +1, got %+v", choice)
	}
}

const testScript = `days:
  - day: 1
    narrative: A quiet morning.
    options:
      A: {label: Exercise, result: You feel stronger., effect: {stamina: 4}}
      C: {result: "", effect: {clues: [Map]}}
  - day: 11
    options:
      A: {label: Climb, effect: {sabotage: 1}}
`

func TestScriptedLevel(t *testing.T) {
	sc, err := content.ParseScript([]byte(testScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src := NewScriptSource(sc, nil, locale.English)

	lvl, ok := src.Level(1)
	if !ok {
		t.Fatal("expected scripted day 1")
	}
	opts := lvl.Options()
	if len(opts) != 2 || opts[0].Code != A || opts[1].Label != "Option C" {
		t.Errorf("unexpected options %+v", opts)
	}

	ps := state.NewPlayerState()
	if _, err := lvl.HandleChoice(B, ps); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption for undefined option, got %v", err)
	}

	choice, err := lvl.HandleChoice(C, ps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if choice.Result != "Option C result text not found" || len(choice.Effect.CluesGained) != 1 {
		t.Errorf("unexpected choice %+v", choice)
	}

	gated, _ := src.Level(11)
	if gated.Narrative() != "Day 11 narrative text not found" {
		t.Errorf("unexpected narrative placeholder %q", gated.Narrative())
	}
	choice, _ = gated.HandleChoice(A, ps)
	if choice.Allowed {
		t.Error("expected requirement table to gate scripted day 11 A")
	}
}

func TestMarkComplete(t *testing.T) {
	src := newCSVSource(t)
	lvl, _ := src.Level(1)
	MarkComplete(lvl)
	if !lvl.IsComplete() {
		t.Error("expected level to be complete")
	}
}
