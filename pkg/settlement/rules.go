package settlement

import (
	"github.com/jwebster45206/fifteen-days/pkg/state"
)

// Stat identifies a resource pool a settlement line can change.
type Stat string

const (
	Stamina Stat = "stamina"
	Mana    Stat = "mana"
)

// Tag identifies a collection a tagged settlement line appends to.
type Tag string

const (
	ItemTag Tag = "item"
	ClueTag Tag = "clue"
)

// StatRule maps keyword patterns to a resource delta. The value is read
// from the first signed number that follows the keyword on the same line.
type StatRule struct {
	Stat     Stat
	Patterns []string
}

// TagRule maps a colon-terminated marker to an item or clue grant.
// The granted name is the text after the marker, up to the first '('.
type TagRule struct {
	Tag      Tag
	Patterns []string
}

// TrackRule advances a progress track by exactly one when a line holds one
// of Keywords together with one of Triggers. Matching is case-insensitive
// substring matching on the normalised line.
type TrackRule struct {
	Track    state.Track
	Keywords []string
	Triggers []string
}

// Rules is the keyword table a Parser is built from. Tables are additive:
// Merge appends another locale's rules without replacing existing ones.
type Rules struct {
	Stats  []StatRule
	Tags   []TagRule
	Tracks []TrackRule
}

// Merge returns a table holding the rules of r followed by those of o.
func (r Rules) Merge(o Rules) Rules {
	return Rules{
		Stats:  append(append([]StatRule{}, r.Stats...), o.Stats...),
		Tags:   append(append([]TagRule{}, r.Tags...), o.Tags...),
		Tracks: append(append([]TrackRule{}, r.Tracks...), o.Tracks...),
	}
}

// ChineseRules covers the authored zh settlement notation, e.g.
// "体力-5", "获得道具：钥匙（贿赂线推进）", "破坏线推进".
func ChineseRules() Rules {
	advance := []string{"推进", "+", "-"}
	return Rules{
		Stats: []StatRule{
			{Stat: Stamina, Patterns: []string{`体力`}},
			{Stat: Mana, Patterns: []string{`魔力`}},
		},
		Tags: []TagRule{
			{Tag: ItemTag, Patterns: []string{`获得道具\s*:`}},
			{Tag: ClueTag, Patterns: []string{`获得线索\s*:`}},
		},
		Tracks: []TrackRule{
			{Track: state.Bribe, Keywords: []string{"贿赂"}, Triggers: advance},
			{Track: state.Sabotage, Keywords: []string{"破坏"}, Triggers: advance},
			{Track: state.Legal, Keywords: []string{"文书", "法学"}, Triggers: advance},
			// The bare marker is too common to accept a sign as a trigger.
			{Track: state.Mystery, Keywords: []string{"?"}, Triggers: []string{"推进"}},
		},
	}
}

// EnglishRules covers the authored en settlement notation, e.g.
// "Strength -5", "Item: Rusty Key (advances sabotage route)", "Get clue: Ledger".
func EnglishRules() Rules {
	advance := []string{"advance", "progress", "line", "+", "-"}
	return Rules{
		Stats: []StatRule{
			{Stat: Stamina, Patterns: []string{`(?i)\bstamina\b`, `(?i)\bstrength\b`, `(?i)\bhp\b`}},
			{Stat: Mana, Patterns: []string{`(?i)\bmana\b`, `(?i)\bmagic\b`, `(?i)\bmp\b`}},
		},
		Tags: []TagRule{
			{Tag: ItemTag, Patterns: []string{`(?i)\b(?:get\s+item|item(?:\s+(?:granted|acquired|gained|received))?)\s*:`}},
			{Tag: ClueTag, Patterns: []string{`(?i)\b(?:get\s+clue|clue(?:\s+(?:granted|acquired|gained|found))?)\s*:`}},
		},
		Tracks: []TrackRule{
			{Track: state.Bribe, Keywords: []string{"bribe", "bribery"}, Triggers: advance},
			{Track: state.Sabotage, Keywords: []string{"sabotage", "destruction", "damage"}, Triggers: advance},
			{Track: state.Legal, Keywords: []string{"legal", "paperwork", "document"}, Triggers: advance},
			{Track: state.Mystery, Keywords: []string{"mystery"}, Triggers: advance},
			{Track: state.Mystery, Keywords: []string{"?"}, Triggers: []string{"advance"}},
		},
	}
}

// DefaultRules is the union of every shipped locale table.
func DefaultRules() Rules {
	return ChineseRules().Merge(EnglishRules())
}
