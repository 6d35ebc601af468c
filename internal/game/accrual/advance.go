package accrual

import (
	"time"

	"github.com/towerline/towerline/internal/game/hero"
)

// Result reports what one Advance call did to a hero.
type Result struct {
	// Changed is false when the hero was left completely untouched
	// (non-positive elapsed time).
	Changed bool
	// FirstTick is true when the hero had no prior LastUpdate; only the
	// timestamp was set, no resources moved.
	FirstTick bool
	// ElapsedMinutes is the simulated span.
	ElapsedMinutes float64
	// GoldEarned and XPEarned are the accrued amounts.
	GoldEarned float64
	XPEarned   float64
	// EnteredFountain is true when the drain pushed a pool to or below the
	// fountain threshold and the hero's status flipped.
	EnteredFountain bool
}

// Advance applies elapsed-time accrual to h in place and stamps LastUpdate.
//
// A hero with a zero LastUpdate gets the timestamp set and nothing else:
// granting rewards for the span before the hero started farming would
// inflate the first tick. Non-positive elapsed time changes nothing at all.
//
// Farming heroes earn gold and experience and drain life and mana against
// their base maxima; each pool clamps at zero independently. When either
// pool lands at or below 20% of its base maximum the hero retreats to the
// fountain, one-way; returning to a tower is an external action. Fountain
// heroes recover 5% of each base maximum per minute, clamped at the
// maximum. Shop heroes only get their timestamp advanced.
//
// Precondition: h must be non-nil and its status valid.
// Postcondition: r.Changed implies h.LastUpdate.Equal(now).
func Advance(h *hero.Hero, now time.Time) Result {
	if h.LastUpdate.IsZero() {
		h.LastUpdate = now
		return Result{Changed: true, FirstTick: true}
	}

	elapsed := now.Sub(h.LastUpdate).Minutes()
	if elapsed <= 0 {
		return Result{}
	}

	r := Result{Changed: true, ElapsedMinutes: elapsed}
	d := h.Derived()
	maxLife := float64(d.BaseHealth)
	maxMana := float64(d.BaseMana)

	switch {
	case h.Status.IsFarming():
		rates, _ := RatesFor(h.Status)

		r.GoldEarned = rates.GoldPerMinute * elapsed
		r.XPEarned = rates.XPPerMinute * elapsed
		h.Money += r.GoldEarned
		h.Experience += r.XPEarned

		h.CurrentLife -= maxLife * rates.LifeDrainPctPerMin / 100 * elapsed
		if h.CurrentLife < 0 {
			h.CurrentLife = 0
		}
		h.CurrentMana -= maxMana * rates.ManaDrainPctPerMin / 100 * elapsed
		if h.CurrentMana < 0 {
			h.CurrentMana = 0
		}

		if h.CurrentLife <= FountainThreshold*maxLife || h.CurrentMana <= FountainThreshold*maxMana {
			h.Status = hero.StatusFountain
			r.EnteredFountain = true
		}

	case h.Status == hero.StatusFountain:
		h.CurrentLife += maxLife * RecoveryPctPerMinute / 100 * elapsed
		if h.CurrentLife > maxLife {
			h.CurrentLife = maxLife
		}
		h.CurrentMana += maxMana * RecoveryPctPerMinute / 100 * elapsed
		if h.CurrentMana > maxMana {
			h.CurrentMana = maxMana
		}
	}

	h.LastUpdate = now
	return r
}
