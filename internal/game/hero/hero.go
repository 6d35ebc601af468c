// Package hero defines the hero domain model shared by the accrual
// scheduler, the effect resolver, and the store.
package hero

import (
	"time"

	"github.com/towerline/towerline/internal/game/stats"
)

// Status is a hero's current map state.
type Status string

// Map states. The two tower states are the "farming" states that accrue
// gold and experience while draining life and mana.
const (
	StatusDefensiveTower Status = "DEFENSIVE_TOWER"
	StatusAttackingTower Status = "ATTACKING_TOWER"
	StatusFountain       Status = "FOUNTAIN"
	StatusShop           Status = "SHOP"
)

// Valid reports whether s is one of the four known map states.
func (s Status) Valid() bool {
	switch s {
	case StatusDefensiveTower, StatusAttackingTower, StatusFountain, StatusShop:
		return true
	}
	return false
}

// IsFarming reports whether s accrues resources over time.
func (s Status) IsFarming() bool {
	return s == StatusDefensiveTower || s == StatusAttackingTower
}

// StatusEffect is one timed status applied to a hero. Entries stack; repeated
// application of the same type appends a new entry.
type StatusEffect struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"` // seconds
}

// Hero represents a player's avatar for one season.
//
// ID is set by the persistence layer; a zero ID indicates an unsaved hero.
// Invariant: CurrentLife is in [0, BaseHealth(Level, Strength)] and
// CurrentMana is in [0, BaseMana(Level, Intelligence)].
type Hero struct {
	ID       int64
	UserID   int64
	SeasonID int64

	Level        int
	Strength     int
	Dexterity    int
	Intelligence int

	// AttributePoints is the hero's unspent attribute point budget.
	AttributePoints int

	CurrentLife float64
	CurrentMana float64
	Money       float64
	Experience  float64

	Status     Status
	LastUpdate time.Time

	// Combat modifiers accumulated from equipped items and resolved
	// effects. Not persisted; rebuilt when a hero enters combat.
	BonusArmor           float64
	BonusMagicResistance float64
	BonusAccuracy        float64
	BonusDamage          float64
	BonusMagicDamage     float64

	StatusEffects []StatusEffect

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Derived returns the hero's derived combat stats.
func (h *Hero) Derived() stats.Derived {
	return stats.Compute(h.Level, h.Strength, h.Dexterity, h.Intelligence)
}

// AddStatusEffect appends a timed status entry. No deduplication is
// performed; stacking is resolved by whoever consumes the list.
func (h *Hero) AddStatusEffect(effectType string, duration int) {
	h.StatusEffects = append(h.StatusEffects, StatusEffect{Type: effectType, Duration: duration})
}

// ClampPools forces CurrentLife and CurrentMana back into their valid
// ranges. Callers invoke this after effect resolution, which deliberately
// does not clamp.
//
// Postcondition: 0 <= CurrentLife <= BaseHealth and 0 <= CurrentMana <= BaseMana.
func (h *Hero) ClampPools() {
	d := h.Derived()
	h.CurrentLife = clamp(h.CurrentLife, 0, float64(d.BaseHealth))
	h.CurrentMana = clamp(h.CurrentMana, 0, float64(d.BaseMana))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
