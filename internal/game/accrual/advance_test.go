package accrual_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/towerline/towerline/internal/game/accrual"
	"github.com/towerline/towerline/internal/game/hero"
)

var tickTime = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

// farmer returns a level-1 str-25 defensive-tower hero: baseHealth 15, baseMana 5.
func farmer() *hero.Hero {
	return &hero.Hero{
		ID:          1,
		Level:       1,
		Strength:    25,
		Status:      hero.StatusDefensiveTower,
		CurrentLife: 12,
		CurrentMana: 5,
		LastUpdate:  tickTime.Add(-10 * time.Minute),
	}
}

func TestAdvance_DefensiveTower_TenMinutes(t *testing.T) {
	h := farmer()
	res := accrual.Advance(h, tickTime)

	require.True(t, res.Changed)
	assert.InDelta(t, 10, res.ElapsedMinutes, 1e-9)
	assert.InDelta(t, 37.8, h.Money, 1e-9)
	assert.InDelta(t, 30.2, h.Experience, 1e-9)
	// drain applies against the base maximum (15), not the current pool
	assert.InDelta(t, 12-15*0.294/100*10, h.CurrentLife, 1e-9)
	assert.Equal(t, hero.StatusDefensiveTower, h.Status)
	assert.True(t, h.LastUpdate.Equal(tickTime))
}

func TestAdvance_AttackingTower_Rates(t *testing.T) {
	h := farmer()
	h.Status = hero.StatusAttackingTower
	res := accrual.Advance(h, tickTime)

	assert.InDelta(t, 54.4, res.GoldEarned, 1e-9)
	assert.InDelta(t, 40.8, res.XPEarned, 1e-9)
	assert.InDelta(t, 12-15*0.421/100*10, h.CurrentLife, 1e-9)
}

func TestAdvance_ZeroElapsed_Unchanged(t *testing.T) {
	h := farmer()
	h.LastUpdate = tickTime
	before := *h

	res := accrual.Advance(h, tickTime)
	assert.False(t, res.Changed)
	assert.Equal(t, before, *h)
}

func TestAdvance_NegativeElapsed_Unchanged(t *testing.T) {
	h := farmer()
	h.LastUpdate = tickTime.Add(time.Hour)
	before := *h

	res := accrual.Advance(h, tickTime)
	assert.False(t, res.Changed)
	assert.Equal(t, before, *h)
}

func TestAdvance_FirstTick_TimestampOnly(t *testing.T) {
	h := farmer()
	h.LastUpdate = time.Time{}

	res := accrual.Advance(h, tickTime)
	require.True(t, res.Changed)
	assert.True(t, res.FirstTick)
	assert.Equal(t, 0.0, h.Money)
	assert.Equal(t, 0.0, h.Experience)
	assert.Equal(t, 12.0, h.CurrentLife)
	assert.True(t, h.LastUpdate.Equal(tickTime))
}

func TestAdvance_FountainTransition(t *testing.T) {
	h := farmer()
	h.CurrentLife = 3.0 // threshold is 20% of 15 = 3.0
	h.LastUpdate = tickTime.Add(-1 * time.Minute)

	res := accrual.Advance(h, tickTime)
	require.True(t, res.EnteredFountain)
	assert.Equal(t, hero.StatusFountain, h.Status)
	// the tick's own gold/xp still accrued before the transition
	assert.InDelta(t, 3.78, h.Money, 1e-9)
}

func TestAdvance_FountainTransition_OnMana(t *testing.T) {
	h := farmer()
	h.CurrentMana = 0.9 // threshold is 20% of 5 = 1.0
	h.LastUpdate = tickTime.Add(-1 * time.Minute)

	res := accrual.Advance(h, tickTime)
	assert.True(t, res.EnteredFountain)
	assert.Equal(t, hero.StatusFountain, h.Status)
}

func TestAdvance_NoFurtherAccrualAfterTransition(t *testing.T) {
	h := farmer()
	h.CurrentLife = 2.0
	h.LastUpdate = tickTime.Add(-1 * time.Minute)

	accrual.Advance(h, tickTime)
	require.Equal(t, hero.StatusFountain, h.Status)
	moneyAfter := h.Money

	// next tick recovers instead of farming
	next := tickTime.Add(time.Minute)
	accrual.Advance(h, next)
	assert.Equal(t, moneyAfter, h.Money)
	assert.Greater(t, h.CurrentLife, 2.0)
}

func TestAdvance_DrainsClampIndependently(t *testing.T) {
	h := farmer()
	h.CurrentLife = 0.01
	h.CurrentMana = 5
	h.LastUpdate = tickTime.Add(-10 * time.Minute)

	accrual.Advance(h, tickTime)
	assert.Equal(t, 0.0, h.CurrentLife)
	// mana drained its full share even though life bottomed out
	assert.InDelta(t, 5-5*0.294/100*10, h.CurrentMana, 1e-9)
}

func TestAdvance_FountainRecovery(t *testing.T) {
	h := farmer()
	h.Status = hero.StatusFountain
	h.CurrentLife = 2
	h.CurrentMana = 1
	h.LastUpdate = tickTime.Add(-4 * time.Minute)

	res := accrual.Advance(h, tickTime)
	require.True(t, res.Changed)
	// 5% of base max per minute: 15*0.05*4 = 3.0 life, 5*0.05*4 = 1.0 mana
	assert.InDelta(t, 5.0, h.CurrentLife, 1e-9)
	assert.InDelta(t, 2.0, h.CurrentMana, 1e-9)
	assert.Equal(t, 0.0, h.Money)
}

func TestAdvance_FountainRecovery_ClampsAtMax(t *testing.T) {
	h := farmer()
	h.Status = hero.StatusFountain
	h.CurrentLife = 14.9
	h.CurrentMana = 4.9
	h.LastUpdate = tickTime.Add(-2 * time.Hour)

	accrual.Advance(h, tickTime)
	assert.Equal(t, 15.0, h.CurrentLife)
	assert.Equal(t, 5.0, h.CurrentMana)
}

func TestAdvance_Shop_TimestampOnly(t *testing.T) {
	h := farmer()
	h.Status = hero.StatusShop
	accrual.Advance(h, tickTime)
	assert.Equal(t, 0.0, h.Money)
	assert.Equal(t, 12.0, h.CurrentLife)
	assert.True(t, h.LastUpdate.Equal(tickTime))
}

func TestAdvance_PoolsNeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := &hero.Hero{
			Level:        rapid.IntRange(1, 30).Draw(t, "level"),
			Strength:     rapid.IntRange(0, 200).Draw(t, "str"),
			Intelligence: rapid.IntRange(0, 200).Draw(t, "intl"),
			Status:       hero.StatusAttackingTower,
			LastUpdate:   tickTime.Add(-time.Duration(rapid.IntRange(1, 100000).Draw(t, "mins")) * time.Minute),
		}
		d := h.Derived()
		h.CurrentLife = float64(d.BaseHealth)
		h.CurrentMana = float64(d.BaseMana)

		now := tickTime
		for i := 0; i < 5; i++ {
			accrual.Advance(h, now)
			assert.GreaterOrEqual(t, h.CurrentLife, 0.0)
			assert.GreaterOrEqual(t, h.CurrentMana, 0.0)
			now = now.Add(time.Duration(rapid.IntRange(0, 100000).Draw(t, "step")) * time.Minute)
		}
	})
}

func TestAdvance_MoneyExperienceMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := farmer()
		now := tickTime
		prevMoney, prevXP := h.Money, h.Experience
		for i := 0; i < 10; i++ {
			now = now.Add(time.Duration(rapid.IntRange(0, 600).Draw(t, "secs")) * time.Second)
			accrual.Advance(h, now)
			assert.GreaterOrEqual(t, h.Money, prevMoney)
			assert.GreaterOrEqual(t, h.Experience, prevXP)
			prevMoney, prevXP = h.Money, h.Experience
		}
	})
}
