package hero_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/towerline/towerline/internal/game/hero"
)

func TestStatus_Valid(t *testing.T) {
	for _, s := range []hero.Status{
		hero.StatusDefensiveTower, hero.StatusAttackingTower,
		hero.StatusFountain, hero.StatusShop,
	} {
		assert.True(t, s.Valid(), "status %q", s)
	}
	assert.False(t, hero.Status("JUNGLE").Valid())
}

func TestStatus_IsFarming(t *testing.T) {
	assert.True(t, hero.StatusDefensiveTower.IsFarming())
	assert.True(t, hero.StatusAttackingTower.IsFarming())
	assert.False(t, hero.StatusFountain.IsFarming())
	assert.False(t, hero.StatusShop.IsFarming())
}

func TestNew(t *testing.T) {
	h, err := hero.New(7, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, 0, h.Strength)
	assert.Equal(t, hero.InitialAttributePoints, h.AttributePoints)
	assert.Equal(t, hero.StatusShop, h.Status)
	// pools start full at the level-1 zero-attribute ceilings
	assert.Equal(t, 10.0, h.CurrentLife)
	assert.Equal(t, 5.0, h.CurrentMana)
}

func TestNew_InvalidIDs(t *testing.T) {
	_, err := hero.New(0, 3)
	assert.Error(t, err)
	_, err = hero.New(7, 0)
	assert.Error(t, err)
}

func TestDistributePoints(t *testing.T) {
	h, err := hero.New(7, 3)
	require.NoError(t, err)

	require.NoError(t, h.DistributePoints(5, 3, 2))
	assert.Equal(t, 5, h.Strength)
	assert.Equal(t, 3, h.Dexterity)
	assert.Equal(t, 2, h.Intelligence)
	assert.Equal(t, 0, h.AttributePoints)
}

func TestDistributePoints_OverBudget(t *testing.T) {
	h, err := hero.New(7, 3)
	require.NoError(t, err)

	err = h.DistributePoints(8, 8, 8)
	require.Error(t, err)
	assert.Equal(t, 0, h.Strength)
	assert.Equal(t, hero.InitialAttributePoints, h.AttributePoints)
}

func TestDistributePoints_Negative(t *testing.T) {
	h, err := hero.New(7, 3)
	require.NoError(t, err)
	assert.Error(t, h.DistributePoints(-1, 0, 0))
}

func TestClampPools(t *testing.T) {
	h := &hero.Hero{Level: 1, Strength: 25}
	h.CurrentLife = 99
	h.CurrentMana = -4
	h.ClampPools()
	assert.Equal(t, 15.0, h.CurrentLife) // ceiling = 10*1 + 25/5
	assert.Equal(t, 0.0, h.CurrentMana)
}

func TestAddStatusEffect_Stacks(t *testing.T) {
	h := &hero.Hero{}
	h.AddStatusEffect("BURN", 3)
	h.AddStatusEffect("BURN", 5)
	require.Len(t, h.StatusEffects, 2)
	assert.Equal(t, "BURN", h.StatusEffects[0].Type)
	assert.Equal(t, 5, h.StatusEffects[1].Duration)
}
