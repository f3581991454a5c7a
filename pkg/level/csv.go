package level

import (
	"github.com/jwebster45206/fifteen-days/pkg/conditionals"
	"github.com/jwebster45206/fifteen-days/pkg/content"
	"github.com/jwebster45206/fifteen-days/pkg/settlement"
)

// CSVSource serves levels backed by a content store, with effects parsed
// from settlement text.
type CSVSource struct {
	store  *content.Store
	parser *settlement.Parser
	eval   *conditionals.Evaluator
}

func NewCSVSource(store *content.Store, parser *settlement.Parser) *CSVSource {
	if parser == nil {
		parser = settlement.New()
	}
	return &CSVSource{
		store:  store,
		parser: parser,
		eval:   conditionals.NewEvaluator(store, store.Locale()),
	}
}

// Level returns the level for day, or false when the store has no such day.
func (s *CSVSource) Level(day int) (Level, bool) {
	if _, ok := s.store.Day(day); !ok {
		return nil, false
	}
	return &csvLevel{day: day, src: s}, true
}

func (s *CSVSource) Transition(afterDay int) (string, bool) {
	return s.store.Transition(afterDay)
}

func (s *CSVSource) SpecialEnding(key string) (string, bool) {
	return s.store.SpecialEnding(key)
}

type csvLevel struct {
	day      int
	src      *CSVSource
	complete bool
}

func (l *csvLevel) Day() int { return l.day }

func (l *csvLevel) Narrative() string { return l.src.store.Narrative(l.day) }

func (l *csvLevel) Options() []Option {
	labels := l.src.store.Options(l.day)
	out := make([]Option, 0, len(Codes))
	for _, c := range Codes {
		out = append(out, Option{Code: c, Label: labels[string(c)]})
	}
	return out
}

func (l *csvLevel) HandleChoice(code Code, view conditionals.StateView) (Choice, error) {
	if !code.Valid() {
		return Choice{}, ErrInvalidOption
	}
	if blocked, ok := gate(l.src.eval, l.day, code, view); !ok {
		return blocked, nil
	}

	rec, _ := l.src.store.Day(l.day)
	raw := rec.Settlements[string(code)]
	l.complete = true
	return Choice{
		Code:       code,
		Allowed:    true,
		Result:     l.src.store.Result(l.day, string(code)),
		Settlement: raw,
		Effect:     l.src.parser.Parse(raw),
	}, nil
}

func (l *csvLevel) IsComplete() bool { return l.complete }

func (l *csvLevel) markComplete() { l.complete = true }
