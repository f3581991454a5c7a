package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/fifteen-days/pkg/content"
	"github.com/jwebster45206/fifteen-days/pkg/level"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
	"github.com/jwebster45206/fifteen-days/pkg/state"
)

// MaxDays is the last playable day. The day counter runs 1..MaxDays+1,
// where MaxDays+1 means the fifteen days are over.
const MaxDays = 15

var (
	ErrGameOver      = errors.New("game is over")
	ErrNoLevel       = errors.New("no level for the current day")
	ErrAlreadyChosen = errors.New("a choice has already been made today")
)

// Ending names how a game finished.
type Ending string

const (
	EndingNone     Ending = ""
	EndingEscaped  Ending = "escaped"
	EndingExecuted Ending = "executed"
	EndingStamina  Ending = Ending(content.StaminaDepleted)
	EndingMana     Ending = Ending(content.ManaDepleted)
	EndingBoth     Ending = Ending(content.BothDepleted)
)

// Depletion reports whether e is one of the resource depletion endings.
func (e Ending) Depletion() bool {
	return e == EndingStamina || e == EndingMana || e == EndingBoth
}

// Turn is the result of one Choose call.
type Turn struct {
	level.Choice
	Outcome state.Outcome `json:"outcome"`
	Ending  Ending        `json:"ending,omitempty"`
}

// Manager owns the day counter and the player state of one game. It is
// not safe for concurrent use; callers serialise access per game.
type Manager struct {
	src     level.Source
	loc     locale.Locale
	msg     locale.Messages
	logger  *slog.Logger
	day     int
	player  *state.PlayerState
	current level.Level
	chosen  level.Code
	ending  Ending
}

func NewManager(src level.Source, loc locale.Locale, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		src:    src,
		loc:    loc,
		msg:    locale.For(loc),
		logger: logger,
		day:    1,
		player: state.NewPlayerState(),
	}
}

func (m *Manager) Day() int { return m.day }

func (m *Manager) Locale() locale.Locale { return m.loc }

// Player exposes the player state for display. Mutate it only through Choose.
func (m *Manager) Player() *state.PlayerState { return m.player }

// Chosen returns the option taken today, empty when none.
func (m *Manager) Chosen() level.Code { return m.chosen }

// CurrentLevel returns today's level, or false when the game is over or
// the content has no level for today.
func (m *Manager) CurrentLevel() (level.Level, bool) {
	if m.IsGameOver() {
		return nil, false
	}
	if m.current != nil && m.current.Day() == m.day {
		return m.current, true
	}
	lvl, ok := m.src.Level(m.day)
	if !ok {
		return nil, false
	}
	m.current = lvl
	return lvl, true
}

// AdvanceDay moves to the next day. The counter never moves by more than
// one and stops at MaxDays+1. It does nothing after a depletion ending.
func (m *Manager) AdvanceDay() {
	if m.ending.Depletion() || m.day > MaxDays {
		return
	}
	m.day++
	m.current = nil
	m.chosen = ""
	m.logger.Debug("Advanced day", "day", m.day)
}

// IsGameOver is true once the fifteen days have passed or a resource
// depletion ended the game.
func (m *Manager) IsGameOver() bool {
	return m.day > MaxDays || m.ending.Depletion()
}

// CheckWinCondition reports whether any escape route is complete. Each
// route has its own resource minimum.
func (m *Manager) CheckWinCondition() bool {
	p := m.player
	bribe := p.BribeProgress >= 5 && p.Stamina > 0
	sabotage := p.SabotageProgress >= 5 && p.Stamina > 2
	legal := p.LegalProgress >= 5 && p.Mana > 1
	return bribe || sabotage || legal
}

// CheckLossCondition is true when both resources are empty, or when the
// days have run out without a completed route.
func (m *Manager) CheckLossCondition() bool {
	if m.player.Stamina == 0 && m.player.Mana == 0 {
		return true
	}
	return m.day > MaxDays && !m.CheckWinCondition()
}

// Choose takes option code for today: it gates the option, applies the
// effect and records a depletion ending when a resource ran out. A gated
// option returns a Turn with Allowed false and changes nothing.
func (m *Manager) Choose(code level.Code) (Turn, error) {
	if m.IsGameOver() {
		return Turn{}, ErrGameOver
	}
	lvl, ok := m.CurrentLevel()
	if !ok {
		return Turn{}, fmt.Errorf("%w: day %d", ErrNoLevel, m.day)
	}
	if lvl.IsComplete() {
		return Turn{}, ErrAlreadyChosen
	}

	choice, err := lvl.HandleChoice(code, m.player)
	if err != nil {
		return Turn{}, err
	}
	turn := Turn{Choice: choice}
	if !choice.Allowed {
		m.logger.Debug("Option gated", "day", m.day, "code", code, "unmet", choice.Unmet)
		return turn, nil
	}

	turn.Outcome = m.player.ApplyChange(choice.Effect)
	m.chosen = code

	switch {
	case turn.Outcome.StaminaDepleted && turn.Outcome.ManaDepleted:
		m.ending = EndingBoth
	case turn.Outcome.StaminaDepleted:
		m.ending = EndingStamina
	case turn.Outcome.ManaDepleted:
		m.ending = EndingMana
	}
	turn.Ending = m.ending
	m.logger.Debug("Applied choice", "day", m.day, "code", code,
		"stamina", m.player.Stamina, "mana", m.player.Mana, "ending", m.ending)
	return turn, nil
}

// Ending resolves the ending once the game is over: a depletion ending,
// escape on a completed route, or execution. The text comes from the
// content's special blocks when authored.
func (m *Manager) Ending() (Ending, string) {
	if !m.IsGameOver() && !m.CheckLossCondition() {
		return EndingNone, ""
	}

	e := m.ending
	if e == EndingNone {
		switch {
		case m.player.Stamina == 0 && m.player.Mana == 0:
			e = EndingBoth
		case m.CheckWinCondition():
			e = EndingEscaped
		default:
			e = EndingExecuted
		}
	}

	switch e {
	case EndingEscaped:
		return e, m.msg.Escaped
	case EndingExecuted:
		return e, m.msg.Executed
	}
	if text, ok := m.src.SpecialEnding(string(e)); ok {
		return e, text
	}
	return e, m.msg.Depleted
}

// Intro returns the story background block.
func (m *Manager) Intro() (string, bool) {
	return m.src.SpecialEnding(content.StoryBackground)
}

// Transition returns the narrative shown between afterDay and the next day.
func (m *Manager) Transition(afterDay int) (string, bool) {
	return m.src.Transition(afterDay)
}

// DayDescription is the localised "Day N of 15" heading.
func (m *Manager) DayDescription() string {
	return m.msg.Day(min(m.day, MaxDays), MaxDays)
}

// StatusSnapshot returns every player field plus the day counters, for display.
func (m *Manager) StatusSnapshot() map[string]any {
	snap := m.player.Snapshot()
	snap["day"] = m.day
	snap["max_days"] = MaxDays
	return snap
}

// Save copies the game into a session record.
func (m *Manager) Save(sess *state.Session) {
	sess.Locale = m.loc.String()
	sess.Day = m.day
	sess.Chosen = string(m.chosen)
	sess.Player = *m.player.Clone()
	sess.Ending = string(m.ending)
	sess.UpdatedAt = time.Now()
}

// Restore loads a session record saved by Save.
func (m *Manager) Restore(sess *state.Session) error {
	if sess == nil {
		return errors.New("session is nil")
	}
	if sess.Day < 1 || sess.Day > MaxDays+1 {
		return fmt.Errorf("session day %d out of range", sess.Day)
	}
	var chosen level.Code
	if sess.Chosen != "" {
		c, err := level.ParseCode(sess.Chosen)
		if err != nil {
			return fmt.Errorf("session chosen option: %w", err)
		}
		chosen = c
	}

	m.day = sess.Day
	m.player = sess.Player.Clone()
	m.ending = Ending(sess.Ending)
	m.chosen = chosen
	m.current = nil
	if chosen != "" {
		if lvl, ok := m.CurrentLevel(); ok {
			level.MarkComplete(lvl)
		}
	}
	return nil
}
