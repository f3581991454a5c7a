package state

import (
	"slices"
)

const (
	DefaultStamina    = 10
	DefaultMana       = 10
	DefaultMaxStamina = 50
	DefaultMaxMana    = 50
)

// Track names one of the route progress counters.
type Track string

const (
	Bribe    Track = "bribe"
	Sabotage Track = "sabotage"
	Legal    Track = "legal"
	Mystery  Track = "mystery"
)

// Tracks lists every progress track in display order.
var Tracks = []Track{Bribe, Sabotage, Legal, Mystery}

// Valid reports whether t names a known track.
func (t Track) Valid() bool {
	return slices.Contains(Tracks, t)
}

// PlayerState is the single mutable aggregate of a play session.
// It is mutated only through ApplyChange.
type PlayerState struct {
	Stamina    int `json:"stamina"`
	Mana       int `json:"mana"`
	MaxStamina int `json:"max_stamina"`
	MaxMana    int `json:"max_mana"`

	BribeProgress    int `json:"bribe_progress"`
	SabotageProgress int `json:"sabotage_progress"`
	LegalProgress    int `json:"legal_progress"`
	MysteryProgress  int `json:"mystery_progress"`

	Inventory []string `json:"inventory"`
	Clues     []string `json:"clues"`
}

// Outcome reports what an ApplyChange call would have done before clamping.
// A resource is depleted when its unclamped value reached zero or below.
type Outcome struct {
	StaminaDepleted bool `json:"stamina_depleted,omitempty"`
	ManaDepleted    bool `json:"mana_depleted,omitempty"`

	// RawStamina and RawMana are the unclamped sums.
	RawStamina int `json:"raw_stamina"`
	RawMana    int `json:"raw_mana"`
}

// Depleted reports whether either resource ran out.
func (o Outcome) Depleted() bool {
	return o.StaminaDepleted || o.ManaDepleted
}

func NewPlayerState() *PlayerState {
	return &PlayerState{
		Stamina:    DefaultStamina,
		Mana:       DefaultMana,
		MaxStamina: DefaultMaxStamina,
		MaxMana:    DefaultMaxMana,
		Inventory:  make([]string, 0),
		Clues:      make([]string, 0),
	}
}

// ApplyChange applies every field of e at once.
// Stamina and mana are clamped to [0, max]; progress tracks are floored at 0;
// items and clues keep first-seen order and ignore duplicates.
// Depletion is detected on the unclamped values before clamping.
func (ps *PlayerState) ApplyChange(e Effect) Outcome {
	out := Outcome{
		RawStamina: ps.Stamina + e.StaminaDelta,
		RawMana:    ps.Mana + e.ManaDelta,
	}
	out.StaminaDepleted = out.RawStamina <= 0
	out.ManaDepleted = out.RawMana <= 0

	ps.Stamina = clamp(out.RawStamina, 0, ps.MaxStamina)
	ps.Mana = clamp(out.RawMana, 0, ps.MaxMana)

	ps.BribeProgress = max(0, ps.BribeProgress+e.BribeDelta)
	ps.SabotageProgress = max(0, ps.SabotageProgress+e.SabotageDelta)
	ps.LegalProgress = max(0, ps.LegalProgress+e.LegalDelta)
	ps.MysteryProgress = max(0, ps.MysteryProgress+e.MysteryDelta)

	ps.Inventory = addUnique(ps.Inventory, e.ItemsGained)
	ps.Clues = addUnique(ps.Clues, e.CluesGained)
	ps.Inventory = removeAll(ps.Inventory, e.ItemsLost)
	ps.Clues = removeAll(ps.Clues, e.CluesLost)

	return out
}

// Progress returns the value of a progress track, or 0 for an unknown track.
func (ps *PlayerState) Progress(t Track) int {
	switch t {
	case Bribe:
		return ps.BribeProgress
	case Sabotage:
		return ps.SabotageProgress
	case Legal:
		return ps.LegalProgress
	case Mystery:
		return ps.MysteryProgress
	}
	return 0
}

// GetStamina, GetMana and GetProgress satisfy conditionals.StateView.
func (ps *PlayerState) GetStamina() int { return ps.Stamina }

func (ps *PlayerState) GetMana() int { return ps.Mana }

func (ps *PlayerState) GetProgress(track string) int { return ps.Progress(Track(track)) }

// Clone returns a deep copy.
func (ps *PlayerState) Clone() *PlayerState {
	c := *ps
	c.Inventory = slices.Clone(ps.Inventory)
	c.Clues = slices.Clone(ps.Clues)
	return &c
}

// Snapshot returns a flat key/value view of every field, for display only.
func (ps *PlayerState) Snapshot() map[string]any {
	return map[string]any{
		"stamina":           ps.Stamina,
		"mana":              ps.Mana,
		"max_stamina":       ps.MaxStamina,
		"max_mana":          ps.MaxMana,
		"bribe_progress":    ps.BribeProgress,
		"sabotage_progress": ps.SabotageProgress,
		"legal_progress":    ps.LegalProgress,
		"mystery_progress":  ps.MysteryProgress,
		"inventory":         slices.Clone(ps.Inventory),
		"clues":             slices.Clone(ps.Clues),
	}
}

func clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}

func addUnique(list, add []string) []string {
	if list == nil {
		list = make([]string, 0, len(add))
	}
	for _, s := range add {
		if !slices.Contains(list, s) {
			list = append(list, s)
		}
	}
	return list
}

func removeAll(list, remove []string) []string {
	if len(remove) == 0 {
		return list
	}
	return slices.DeleteFunc(list, func(s string) bool {
		return slices.Contains(remove, s)
	})
}
