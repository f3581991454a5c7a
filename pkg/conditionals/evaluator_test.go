package conditionals

import (
	"strings"
	"testing"

	"github.com/jwebster45206/fifteen-days/pkg/locale"
)

type mockView struct {
	stamina, mana int
	progress      map[string]int
}

func (m mockView) GetStamina() int              { return m.stamina }
func (m mockView) GetMana() int                 { return m.mana }
func (m mockView) GetProgress(track string) int { return m.progress[track] }

func TestEvaluator_Evaluate(t *testing.T) {
	ev := NewEvaluator(DefaultTable(), locale.English)

	tests := []struct {
		name        string
		day         int
		code        string
		view        mockView
		expectOK    bool
		expectCount int
		contains    []string
	}{
		{
			name:        "ungated option",
			day:         3,
			code:        "A",
			view:        mockView{stamina: 0, mana: 0},
			expectOK:    true,
			expectCount: 0,
		},
		{
			name:        "all mode single unmet stamina",
			day:         11,
			code:        "A",
			view:        mockView{stamina: 20, mana: 30, progress: map[string]int{"sabotage": 5}},
			expectOK:    false,
			expectCount: 1,
			contains:    []string{"HP must be ≥25 (current: 20)"},
		},
		{
			name:        "all mode every condition unmet in order",
			day:         12,
			code:        "A",
			view:        mockView{stamina: 1, mana: 2, progress: map[string]int{"legal": 0}},
			expectOK:    false,
			expectCount: 3,
			contains:    []string{"HP must be ≥25 (current: 1)", "MP must be ≥25 (current: 2)", "Legal Progress must be ≥3 (current: 0)"},
		},
		{
			name:        "all mode exactly at thresholds",
			day:         14,
			code:        "A",
			view:        mockView{stamina: 25, mana: 25, progress: map[string]int{"bribe": 3}},
			expectOK:    true,
			expectCount: 0,
		},
		{
			name:        "any mode one weak value passes",
			day:         11,
			code:        "B",
			view:        mockView{stamina: 40, mana: 24, progress: map[string]int{"sabotage": 9}},
			expectOK:    true,
			expectCount: 0,
		},
		{
			name:        "any mode too strong gives one combined reason",
			day:         11,
			code:        "B",
			view:        mockView{stamina: 25, mana: 25, progress: map[string]int{"sabotage": 3}},
			expectOK:    false,
			expectCount: 1,
			contains:    []string{"HP≤24 OR MP≤24 OR Sabotage Progress≤2", "HP=25, MP=25, Sabotage Progress=3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reasons := ev.Evaluate(tt.day, tt.code, tt.view)
			if ok != tt.expectOK {
				t.Errorf("expected ok=%v, got %v", tt.expectOK, ok)
			}
			if len(reasons) != tt.expectCount {
				t.Fatalf("expected %d reasons, got %d: %v", tt.expectCount, len(reasons), reasons)
			}
			if tt.expectCount > 1 {
				for i, want := range tt.contains {
					if reasons[i] != want {
						t.Errorf("reason %d: expected %q, got %q", i, want, reasons[i])
					}
				}
				return
			}
			for _, want := range tt.contains {
				if !strings.Contains(strings.Join(reasons, "\n"), want) {
					t.Errorf("expected reasons to contain %q, got %v", want, reasons)
				}
			}
		})
	}
}

func TestEvaluator_ABMutuallyExclusive(t *testing.T) {
	ev := NewEvaluator(DefaultTable(), locale.Chinese)
	for _, day := range []int{11, 12, 14} {
		req, _ := DefaultTable().RequirementSpec(day, "A")
		for s := 20; s <= 30; s++ {
			for m := 20; m <= 30; m += 5 {
				for p := 0; p <= 5; p++ {
					view := mockView{stamina: s, mana: m, progress: map[string]int{req.Track: p}}
					a, _ := ev.Evaluate(day, "A", view)
					b, _ := ev.Evaluate(day, "B", view)
					if a == b {
						t.Fatalf("day %d stamina=%d mana=%d progress=%d: A=%v B=%v", day, s, m, p, a, b)
					}
				}
			}
		}
	}
}

func TestEvaluator_ChineseReasons(t *testing.T) {
	ev := NewEvaluator(DefaultTable(), locale.Chinese)
	ok, reasons := ev.Evaluate(11, "A", mockView{stamina: 20, mana: 30, progress: map[string]int{"sabotage": 5}})
	if ok {
		t.Fatal("expected gate to block")
	}
	if len(reasons) != 1 || reasons[0] != "体力需要≥25（当前：20）" {
		t.Errorf("unexpected reasons %v", reasons)
	}
}

func TestEvaluator_NilSource(t *testing.T) {
	var ev *Evaluator
	ok, reasons := ev.Evaluate(11, "A", mockView{})
	if !ok || reasons != nil {
		t.Errorf("nil evaluator should allow everything, got %v %v", ok, reasons)
	}
}

func TestParseTable(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		table, err := ParseTable([]byte("- day: 5\n  option: c\n  track: Legal\n  stamina: 3\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		req, ok := table.RequirementSpec(5, "C")
		if !ok {
			t.Fatal("expected requirement for day 5 option C")
		}
		if req.Mode != ModeAll || req.Track != "legal" {
			t.Errorf("unexpected normalisation %+v", req)
		}
	})

	t.Run("invalid entries", func(t *testing.T) {
		_, err := ParseTable([]byte("- day: 0\n  option: D\n  track: luck\n  mode: some\n"))
		if err == nil {
			t.Fatal("expected validation error")
		}
		for _, want := range []string{"day must be positive", "option must be", "unknown track", "unknown mode"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("expected error to mention %q, got %v", want, err)
			}
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := ParseTable([]byte("- {day: 1, option: A, track: bribe}\n- {day: 1, option: A, track: legal}\n"))
		if err == nil || !strings.Contains(err.Error(), "duplicate") {
			t.Errorf("expected duplicate error, got %v", err)
		}
	})

	t.Run("bad yaml", func(t *testing.T) {
		if _, err := ParseTable([]byte("day: [")); err == nil {
			t.Error("expected parse error")
		}
	})
}
