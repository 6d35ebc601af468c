package hero

import (
	"errors"
	"fmt"
)

// InitialAttributePoints is the one-time point budget granted at hero
// creation for distribution across strength, dexterity, and intelligence.
const InitialAttributePoints = 10

// New constructs a fresh level-1 hero for the given user and season.
// Attributes start at zero with the full initial point budget unspent, and
// both resource pools start full.
//
// Precondition: userID and seasonID must be > 0.
// Postcondition: Returns a hero ready for persistence, or a non-nil error.
func New(userID, seasonID int64) (*Hero, error) {
	if userID <= 0 {
		return nil, errors.New("user id must be positive")
	}
	if seasonID <= 0 {
		return nil, errors.New("season id must be positive")
	}

	h := &Hero{
		UserID:          userID,
		SeasonID:        seasonID,
		Level:           1,
		AttributePoints: InitialAttributePoints,
		Status:          StatusShop,
	}
	d := h.Derived()
	h.CurrentLife = float64(d.BaseHealth)
	h.CurrentMana = float64(d.BaseMana)
	return h, nil
}

// DistributePoints spends unspent attribute points on the primary
// attributes. Pools are not refilled; the ceilings simply grow.
//
// Precondition: all deltas must be >= 0.
// Postcondition: AttributePoints decreases by the sum of the deltas, or the
// hero is unchanged and an error is returned.
func (h *Hero) DistributePoints(strength, dexterity, intelligence int) error {
	if strength < 0 || dexterity < 0 || intelligence < 0 {
		return errors.New("attribute deltas must not be negative")
	}
	total := strength + dexterity + intelligence
	if total > h.AttributePoints {
		return fmt.Errorf("insufficient attribute points: need %d, have %d", total, h.AttributePoints)
	}

	h.Strength += strength
	h.Dexterity += dexterity
	h.Intelligence += intelligence
	h.AttributePoints -= total
	return nil
}
