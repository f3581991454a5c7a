package level

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/fifteen-days/pkg/conditionals"
	"github.com/jwebster45206/fifteen-days/pkg/state"
)

// Code is an option code.
type Code string

const (
	A Code = "A"
	B Code = "B"
	C Code = "C"
)

// Codes lists option codes in display order.
var Codes = []Code{A, B, C}

// ErrInvalidOption is returned for codes outside A, B, C, or for a code
// the level does not offer.
var ErrInvalidOption = errors.New("invalid option")

// ParseCode accepts "a", " B " and similar.
func ParseCode(s string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOption, s)
	}
	return c, nil
}

func (c Code) Valid() bool {
	return c == A || c == B || c == C
}

// Option is one labelled choice offered to the player.
type Option struct {
	Code  Code   `json:"code"`
	Label string `json:"label"`
}

// Choice is the outcome of handling one option. When Allowed is false the
// option was gated: Unmet explains why and nothing else is set.
type Choice struct {
	Code       Code         `json:"code"`
	Allowed    bool         `json:"allowed"`
	Unmet      []string     `json:"unmet,omitempty"`
	Result     string       `json:"result,omitempty"`
	Settlement string       `json:"settlement,omitempty"`
	Effect     state.Effect `json:"effect"`
}

// Level is one day's scene as the presentation layer sees it.
// HandleChoice does not mutate the player state; the caller applies
// Choice.Effect.
type Level interface {
	Day() int
	Narrative() string
	Options() []Option
	HandleChoice(code Code, view conditionals.StateView) (Choice, error)
	IsComplete() bool
}

// Source builds levels for one content variant and resolves the
// narrative-only blocks around them.
type Source interface {
	Level(day int) (Level, bool)
	Transition(afterDay int) (string, bool)
	SpecialEnding(key string) (string, bool)
}

type completer interface {
	markComplete()
}

// MarkComplete flags a level as already played, for restoring a session
// whose choice for the day has been applied.
func MarkComplete(l Level) {
	if c, ok := l.(completer); ok {
		c.markComplete()
	}
}

// gate runs the evaluator and returns a blocked Choice when the option is not allowed.
func gate(eval *conditionals.Evaluator, day int, code Code, view conditionals.StateView) (Choice, bool) {
	ok, unmet := eval.Evaluate(day, string(code), view)
	if ok {
		return Choice{}, true
	}
	return Choice{Code: code, Allowed: false, Unmet: unmet}, false
}
