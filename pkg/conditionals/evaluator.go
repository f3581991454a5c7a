package conditionals

import (
	"fmt"

	"github.com/jwebster45206/fifteen-days/pkg/locale"
)

// StateView provides the minimal interface needed to evaluate requirements.
// This avoids import cycles with the state package.
type StateView interface {
	GetStamina() int
	GetMana() int
	GetProgress(track string) int
}

// Evaluator checks gated options against a player state.
type Evaluator struct {
	src Source
	msg locale.Messages
}

func NewEvaluator(src Source, loc locale.Locale) *Evaluator {
	return &Evaluator{src: src, msg: locale.For(loc)}
}

// Evaluate reports whether the option may be taken. When it may not,
// reasons lists each unmet threshold in stamina, mana, track order for
// ModeAll, or a single combined explanation for ModeAny.
// Options without a requirement are always allowed.
func (e *Evaluator) Evaluate(day int, code string, view StateView) (bool, []string) {
	if e == nil || e.src == nil {
		return true, nil
	}
	req, ok := e.src.RequirementSpec(day, code)
	if !ok {
		return true, nil
	}
	return e.Check(req, view)
}

// Check evaluates a single requirement.
func (e *Evaluator) Check(req Requirement, view StateView) (bool, []string) {
	stamina := view.GetStamina()
	mana := view.GetMana()
	progress := view.GetProgress(req.Track)
	trackName := e.msg.Track(req.Track)

	if req.Mode == ModeAny {
		if stamina <= req.Stamina || mana <= req.Mana || progress <= req.Progress {
			return true, nil
		}
		return false, []string{fmt.Sprintf(e.msg.AnyOf,
			e.msg.Stamina, req.Stamina, e.msg.Mana, req.Mana, trackName, req.Progress,
			e.msg.Stamina, stamina, e.msg.Mana, mana, trackName, progress,
		)}
	}

	var unmet []string
	if stamina < req.Stamina {
		unmet = append(unmet, fmt.Sprintf(e.msg.AtLeast, e.msg.Stamina, req.Stamina, stamina))
	}
	if mana < req.Mana {
		unmet = append(unmet, fmt.Sprintf(e.msg.AtLeast, e.msg.Mana, req.Mana, mana))
	}
	if progress < req.Progress {
		unmet = append(unmet, fmt.Sprintf(e.msg.AtLeast, trackName, req.Progress, progress))
	}
	return len(unmet) == 0, unmet
}
