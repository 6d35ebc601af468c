package store

import (
	"errors"
	"fmt"
)

// Not-found and conflict sentinels. The whole purchase fails when any line
// trips one of these; nothing is mutated.
var (
	// ErrHeroNotFound is returned when the purchasing hero does not exist.
	ErrHeroNotFound = errors.New("hero not found")
	// ErrItemNotFound is returned when a line references an unknown item.
	ErrItemNotFound = errors.New("item not found")
	// ErrSkillNotFound is returned when a line references an unknown skill.
	ErrSkillNotFound = errors.New("skill not found")
	// ErrItemOwned is returned when buying a non-consumable the hero already owns.
	ErrItemOwned = errors.New("item already owned")
	// ErrSkillKnown is returned when buying a skill the hero already learned.
	ErrSkillKnown = errors.New("skill already learned")
	// ErrItemNotOwned is returned when equipping an item absent from the inventory.
	ErrItemNotOwned = errors.New("item not in inventory")
	// ErrNotEquippable is returned when equipping a consumable.
	ErrNotEquippable = errors.New("item is not equippable")
	// ErrNoLines is returned for an empty purchase request.
	ErrNoLines = errors.New("purchase has no lines")
	// ErrInvalidQuantity is returned for a non-positive quantity, or a
	// quantity other than 1 on a non-consumable or skill line.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// RequirementError reports the first attribute threshold a hero fails for a
// skill purchase, with enough detail for the caller to explain the gap.
type RequirementError struct {
	SkillID   string
	Attribute string
	Required  int
	Actual    int
}

func (e *RequirementError) Error() string {
	return fmt.Sprintf("skill %s requires %s %d, hero has %d",
		e.SkillID, e.Attribute, e.Required, e.Actual)
}

// InsufficientFundsError reports a purchase total exceeding the hero's money.
type InsufficientFundsError struct {
	Required  float64
	Available float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %.2f, have %.2f", e.Required, e.Available)
}
