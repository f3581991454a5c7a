package main

import (
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/fifteen-days/pkg/content"
	"github.com/jwebster45206/fifteen-days/pkg/game"
	"github.com/jwebster45206/fifteen-days/pkg/level"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
)

const testScript = `
days:
  - day: 1
    narrative: You wake up in a cell.
    options:
      A: {label: Rest, result: You rest., effect: {stamina: 2}}
      B: {label: Gamble, result: You lose everything., effect: {stamina: -60}}
transitions:
  1: Night falls.
special:
  story-background: You were sentenced to die.
  stamina-depleted: Your legs give out.
`

func newTestUI(t *testing.T) ConsoleUI {
	t.Helper()
	sc, err := content.ParseScript([]byte(testScript))
	if err != nil {
		t.Fatalf("failed to parse script: %v", err)
	}
	src := level.NewScriptSource(sc, nil, locale.English)
	return NewConsoleUI(game.NewManager(src, locale.English, slog.New(slog.DiscardHandler)))
}

func press(t *testing.T, ui ConsoleUI, msgs ...tea.Msg) ConsoleUI {
	t.Helper()
	for _, msg := range msgs {
		model, _ := ui.Update(msg)
		var ok bool
		ui, ok = model.(ConsoleUI)
		if !ok {
			t.Fatalf("unexpected model type %T", model)
		}
	}
	return ui
}

func enter() tea.Msg { return tea.KeyMsg{Type: tea.KeyEnter} }

func typed(s string) tea.Msg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestConsoleUI_StartsWithIntro(t *testing.T) {
	ui := newTestUI(t)
	if ui.phase != phaseIntro {
		t.Fatalf("expected intro phase, got %d", ui.phase)
	}
	if !strings.Contains(ui.pageText(), "You were sentenced to die.") {
		t.Errorf("expected story background on the page, got %q", ui.pageText())
	}

	ui = press(t, ui, tea.WindowSizeMsg{Width: 120, Height: 40}, enter())
	if ui.phase != phaseChoose {
		t.Fatalf("expected choose phase, got %d", ui.phase)
	}
	page := ui.pageText()
	for _, want := range []string{"Day 1 of 15", "You wake up in a cell.", "A. Rest", "B. Gamble"} {
		if !strings.Contains(page, want) {
			t.Errorf("expected %q on the page", want)
		}
	}
	if strings.Contains(page, "C. ") {
		t.Error("undefined option C should not be listed")
	}
}

func TestConsoleUI_ChooseAndAdvance(t *testing.T) {
	ui := press(t, newTestUI(t), enter())

	ui = press(t, ui, typed("x"), enter())
	if ui.phase != phaseChoose || ui.status == "" {
		t.Fatalf("expected a hint for an invalid code, phase %d status %q", ui.phase, ui.status)
	}

	ui = press(t, ui, typed("a"), enter())
	if ui.phase != phaseResult {
		t.Fatalf("expected result phase, got %d", ui.phase)
	}
	if got := ui.game.Player().Stamina; got != 12 {
		t.Errorf("expected stamina 12, got %d", got)
	}

	ui = press(t, ui, enter())
	page := ui.pageText()
	if !strings.Contains(page, "Night falls.") {
		t.Error("expected the day 1 transition")
	}
	if ui.game.Day() != 2 {
		t.Errorf("expected day 2, got %d", ui.game.Day())
	}
	// Day 2 has no level, so the placeholder narrative is shown and Enter moves on.
	if ui.phase != phaseResult || !strings.Contains(page, "Day 2 narrative text not found") {
		t.Errorf("expected placeholder for day 2, phase %d", ui.phase)
	}
}

func TestConsoleUI_DepletionEnding(t *testing.T) {
	ui := press(t, newTestUI(t), enter(), typed("b"), enter())
	if ui.phase != phaseOver {
		t.Fatalf("expected game over, got phase %d", ui.phase)
	}
	if !strings.Contains(ui.pageText(), "Your legs give out.") {
		t.Errorf("expected stamina depletion ending, got %q", ui.pageText())
	}

	_, cmd := ui.Update(enter())
	if cmd == nil {
		t.Fatal("expected quit command after the ending")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestConsoleUI_QuitModal(t *testing.T) {
	ui := press(t, newTestUI(t), tea.KeyMsg{Type: tea.KeyEsc})
	if !ui.showQuitModal {
		t.Fatal("expected quit modal")
	}
	ui = press(t, ui, typed("n"))
	if ui.showQuitModal {
		t.Error("expected modal closed after N")
	}
}
