package state

// Effect is the structured result of parsing one settlement text: the full set
// of changes a single choice makes to a PlayerState. It is created per parse,
// consumed by ApplyChange and not retained.
type Effect struct {
	StaminaDelta  int `json:"stamina_delta,omitempty" yaml:"stamina,omitempty"`
	ManaDelta     int `json:"mana_delta,omitempty" yaml:"mana,omitempty"`
	BribeDelta    int `json:"bribe_delta,omitempty" yaml:"bribe,omitempty"`
	SabotageDelta int `json:"sabotage_delta,omitempty" yaml:"sabotage,omitempty"`
	LegalDelta    int `json:"legal_delta,omitempty" yaml:"legal,omitempty"`
	MysteryDelta  int `json:"mystery_delta,omitempty" yaml:"mystery,omitempty"`

	ItemsGained []string `json:"items_gained,omitempty" yaml:"items,omitempty"`
	CluesGained []string `json:"clues_gained,omitempty" yaml:"clues,omitempty"`
	ItemsLost   []string `json:"items_lost,omitempty" yaml:"items_lost,omitempty"`
	CluesLost   []string `json:"clues_lost,omitempty" yaml:"clues_lost,omitempty"`
}

// IsEmpty reports whether applying the effect would change nothing.
func (e *Effect) IsEmpty() bool {
	return e == nil || (e.StaminaDelta == 0 &&
		e.ManaDelta == 0 &&
		e.BribeDelta == 0 &&
		e.SabotageDelta == 0 &&
		e.LegalDelta == 0 &&
		e.MysteryDelta == 0 &&
		len(e.ItemsGained) == 0 &&
		len(e.CluesGained) == 0 &&
		len(e.ItemsLost) == 0 &&
		len(e.CluesLost) == 0)
}

// TrackDelta returns the delta for one progress track.
func (e Effect) TrackDelta(t Track) int {
	switch t {
	case Bribe:
		return e.BribeDelta
	case Sabotage:
		return e.SabotageDelta
	case Legal:
		return e.LegalDelta
	case Mystery:
		return e.MysteryDelta
	}
	return 0
}

// SetTrackDelta sets the delta for one progress track.
func (e *Effect) SetTrackDelta(t Track, v int) {
	switch t {
	case Bribe:
		e.BribeDelta = v
	case Sabotage:
		e.SabotageDelta = v
	case Legal:
		e.LegalDelta = v
	case Mystery:
		e.MysteryDelta = v
	}
}
