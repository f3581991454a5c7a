package level

import (
	"fmt"

	"github.com/jwebster45206/fifteen-days/pkg/conditionals"
	"github.com/jwebster45206/fifteen-days/pkg/content"
	"github.com/jwebster45206/fifteen-days/pkg/locale"
)

// ScriptSource serves levels from a YAML level table whose options carry
// their effects directly.
type ScriptSource struct {
	script *content.Script
	eval   *conditionals.Evaluator
	msg    locale.Messages
}

func NewScriptSource(sc *content.Script, reqs conditionals.Source, loc locale.Locale) *ScriptSource {
	if reqs == nil {
		reqs = conditionals.DefaultTable()
	}
	return &ScriptSource{
		script: sc,
		eval:   conditionals.NewEvaluator(reqs, loc),
		msg:    locale.For(loc),
	}
}

func (s *ScriptSource) Level(day int) (Level, bool) {
	d, ok := s.script.Day(day)
	if !ok {
		return nil, false
	}
	return &scriptedLevel{day: d, src: s}, true
}

func (s *ScriptSource) Transition(afterDay int) (string, bool) {
	return s.script.Transition(afterDay)
}

func (s *ScriptSource) SpecialEnding(key string) (string, bool) {
	return s.script.SpecialEnding(key)
}

type scriptedLevel struct {
	day      content.ScriptDay
	src      *ScriptSource
	complete bool
}

func (l *scriptedLevel) Day() int { return l.day.Day }

func (l *scriptedLevel) Narrative() string {
	if l.day.Narrative == "" {
		return l.src.msg.Narrative(l.day.Day)
	}
	return l.day.Narrative
}

// Options lists only the options the script defines.
func (l *scriptedLevel) Options() []Option {
	var out []Option
	for _, c := range Codes {
		o, ok := l.day.Options[string(c)]
		if !ok {
			continue
		}
		label := o.Label
		if label == "" {
			label = l.src.msg.Option(string(c))
		}
		out = append(out, Option{Code: c, Label: label})
	}
	return out
}

func (l *scriptedLevel) HandleChoice(code Code, view conditionals.StateView) (Choice, error) {
	if !code.Valid() {
		return Choice{}, ErrInvalidOption
	}
	o, ok := l.day.Options[string(code)]
	if !ok {
		return Choice{}, fmt.Errorf("%w: day %d has no option %s", ErrInvalidOption, l.day.Day, code)
	}
	if blocked, ok := gate(l.src.eval, l.day.Day, code, view); !ok {
		return blocked, nil
	}

	result := o.Result
	if result == "" {
		result = l.src.msg.Result(string(code))
	}
	l.complete = true
	return Choice{
		Code:    code,
		Allowed: true,
		Result:  result,
		Effect:  o.Effect,
	}, nil
}

func (l *scriptedLevel) IsComplete() bool { return l.complete }

func (l *scriptedLevel) markComplete() { l.complete = true }
