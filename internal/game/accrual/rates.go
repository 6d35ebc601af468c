// Package accrual advances hero resources over elapsed wall-clock time:
// farming heroes earn gold and experience while their pools drain, drained
// heroes recover at the fountain.
package accrual

import "github.com/towerline/towerline/internal/game/hero"

// Rates holds the per-minute reward and drain figures for one map state.
// Drain percentages apply to the hero's base maximum, not the current pool.
type Rates struct {
	GoldPerMinute      float64
	XPPerMinute        float64
	LifeDrainPctPerMin float64
	ManaDrainPctPerMin float64
}

// farmingRates is the reward table for the two farming states. FOUNTAIN and
// SHOP earn nothing; fountain recovery is handled separately.
var farmingRates = map[hero.Status]Rates{
	hero.StatusDefensiveTower: {
		GoldPerMinute:      3.78,
		XPPerMinute:        3.02,
		LifeDrainPctPerMin: 0.294,
		ManaDrainPctPerMin: 0.294,
	},
	hero.StatusAttackingTower: {
		GoldPerMinute:      5.44,
		XPPerMinute:        4.08,
		LifeDrainPctPerMin: 0.421,
		ManaDrainPctPerMin: 0.421,
	},
}

// RecoveryPctPerMinute is the fountain recovery rate: each pool regains
// this percentage of its base maximum per minute.
const RecoveryPctPerMinute = 5.0

// FountainThreshold is the fraction of a base maximum at or below which a
// farming hero retreats to the fountain.
const FountainThreshold = 0.20

// RatesFor returns the reward rates for a farming status.
func RatesFor(s hero.Status) (Rates, bool) {
	r, ok := farmingRates[s]
	return r, ok
}
