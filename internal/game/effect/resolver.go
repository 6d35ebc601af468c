package effect

import (
	"github.com/towerline/towerline/internal/game/hero"
	"github.com/towerline/towerline/internal/game/stats"
)

// defaultStatusDuration is used when a STATUS_EFFECT carries no duration.
const defaultStatusDuration = 1

// Outcome records one effect that actually applied. Effects skipped by a
// chance roll, an unresolvable target, or a malformed payload produce no
// outcome at all.
type Outcome struct {
	Effect  Effect
	Target  *hero.Hero
	Applied bool
}

// accessor reads and writes one modifiable stat on a hero. The table below
// is the closed dispatch from Stat to accessor pair; every stat in the enum
// has exactly one entry.
type accessor struct {
	get func(*hero.Hero) float64
	set func(*hero.Hero, float64)
}

var statAccessors = map[Stat]accessor{
	StatHealth: {
		get: func(h *hero.Hero) float64 { return h.CurrentLife },
		set: func(h *hero.Hero, v float64) { h.CurrentLife = v },
	},
	StatMana: {
		get: func(h *hero.Hero) float64 { return h.CurrentMana },
		set: func(h *hero.Hero, v float64) { h.CurrentMana = v },
	},
	StatStrength: {
		get: func(h *hero.Hero) float64 { return float64(h.Strength) },
		set: func(h *hero.Hero, v float64) { h.Strength = int(v) },
	},
	StatDexterity: {
		get: func(h *hero.Hero) float64 { return float64(h.Dexterity) },
		set: func(h *hero.Hero, v float64) { h.Dexterity = int(v) },
	},
	StatIntelligence: {
		get: func(h *hero.Hero) float64 { return float64(h.Intelligence) },
		set: func(h *hero.Hero, v float64) { h.Intelligence = int(v) },
	},
	StatArmor: {
		get: func(h *hero.Hero) float64 {
			return float64(stats.BaseArmor(h.Strength)) + h.BonusArmor
		},
		set: func(h *hero.Hero, v float64) {
			h.BonusArmor = v - float64(stats.BaseArmor(h.Strength))
		},
	},
	StatMagicResistance: {
		get: func(h *hero.Hero) float64 {
			return float64(stats.BaseMagicResistance(h.Intelligence)) + h.BonusMagicResistance
		},
		set: func(h *hero.Hero, v float64) {
			h.BonusMagicResistance = v - float64(stats.BaseMagicResistance(h.Intelligence))
		},
	},
	StatAccuracy: {
		get: func(h *hero.Hero) float64 {
			return float64(stats.BaseAccuracy(h.Dexterity)) + h.BonusAccuracy
		},
		set: func(h *hero.Hero, v float64) {
			h.BonusAccuracy = v - float64(stats.BaseAccuracy(h.Dexterity))
		},
	},
	StatDamage: {
		get: func(h *hero.Hero) float64 {
			return float64(stats.BaseDamage(h.Level, h.Strength, h.Dexterity)) + h.BonusDamage
		},
		set: func(h *hero.Hero, v float64) {
			h.BonusDamage = v - float64(stats.BaseDamage(h.Level, h.Strength, h.Dexterity))
		},
	},
	StatMagicDamage: {
		get: func(h *hero.Hero) float64 {
			return float64(stats.BaseMagicDamage(h.Level, h.Intelligence, h.Dexterity)) + h.BonusMagicDamage
		},
		set: func(h *hero.Hero, v float64) {
			h.BonusMagicDamage = v - float64(stats.BaseMagicDamage(h.Level, h.Intelligence, h.Dexterity))
		},
	},
}

// Resolver applies effect lists to heroes. It holds no mutable state of its
// own and is safe for concurrent use as long as each call's targets are not
// concurrently mutated elsewhere.
type Resolver struct {
	src Source
}

// NewResolver creates a Resolver drawing chance rolls from src.
//
// Precondition: src must be non-nil.
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve applies each effect in list order to the resolved target and
// returns the outcomes of the effects that actually applied.
//
// Chance-gated effects are skipped when a uniform [0,1) draw reaches or
// exceeds chance/100. OPPONENT effects are skipped when opponent is nil;
// AREA effects resolve to no entity. Malformed effects are skipped without
// error: catalog data is validated at authoring time, not at apply time.
//
// No clamping is performed; callers clamp life and mana afterwards.
//
// Precondition: source must be non-nil.
func (r *Resolver) Resolve(effects []Effect, source, opponent *hero.Hero) []Outcome {
	outcomes := make([]Outcome, 0, len(effects))

	for _, e := range effects {
		if e.Chance != nil && r.src.Float64() >= *e.Chance/100 {
			continue
		}

		target := resolveTarget(e.Target, source, opponent)
		if target == nil {
			continue
		}

		if !apply(e, target) {
			continue
		}
		outcomes = append(outcomes, Outcome{Effect: e, Target: target, Applied: true})
	}
	return outcomes
}

func resolveTarget(kind TargetKind, source, opponent *hero.Hero) *hero.Hero {
	switch kind {
	case TargetSelf:
		return source
	case TargetOpponent:
		return opponent
	case TargetArea:
		// No battle model defines the area yet.
		return nil
	}
	return nil
}

func apply(e Effect, target *hero.Hero) bool {
	switch e.Type {
	case TypeStatChange:
		delta, ok := e.NumericValue()
		if !ok {
			return false
		}
		acc, ok := statAccessors[e.Stat]
		if !ok {
			return false
		}
		acc.set(target, acc.get(target)+delta)
		return true

	case TypeStatusEffect:
		name, ok := e.StringValue()
		if !ok {
			return false
		}
		duration := defaultStatusDuration
		if e.Duration != nil {
			duration = *e.Duration
		}
		target.AddStatusEffect(name, duration)
		return true
	}
	return false
}
