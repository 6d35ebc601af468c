// Package stats provides the pure derived-stat formulas shared by the
// accrual scheduler and the store. All functions are side-effect free and
// deterministic; quotients use integer (floor) division.
package stats

// Derived holds all combat stats computed from a hero's level and primary
// attributes. None of these are stored independently.
type Derived struct {
	BaseHealth          int
	BaseMana            int
	BaseArmor           int
	BaseMagicResistance int
	BaseAccuracy        int
	BaseDamage          int
	BaseMagicDamage     int
}

// BaseHealth returns the maximum life pool for the given level and strength.
func BaseHealth(level, strength int) int {
	return 10*level + strength/5
}

// BaseMana returns the maximum mana pool for the given level and intelligence.
func BaseMana(level, intelligence int) int {
	return 5*level + intelligence/5
}

// BaseArmor returns the physical damage reduction stat.
func BaseArmor(strength int) int {
	return strength / 5
}

// BaseMagicResistance returns the magical damage reduction stat.
func BaseMagicResistance(intelligence int) int {
	return intelligence / 5
}

// BaseAccuracy returns the hit-chance stat.
func BaseAccuracy(dexterity int) int {
	return dexterity / 5
}

// BaseDamage returns the physical attack stat.
func BaseDamage(level, strength, dexterity int) int {
	return 5*level + strength/10 + dexterity/10
}

// BaseMagicDamage returns the magical attack stat.
func BaseMagicDamage(level, intelligence, dexterity int) int {
	return 5*level + intelligence/10 + dexterity/10
}

// Compute returns all derived stats for the given level and primary
// attributes in a single struct.
//
// Precondition: inputs are validated non-negative by the caller.
// Postcondition: identical inputs always yield identical outputs.
func Compute(level, strength, dexterity, intelligence int) Derived {
	return Derived{
		BaseHealth:          BaseHealth(level, strength),
		BaseMana:            BaseMana(level, intelligence),
		BaseArmor:           BaseArmor(strength),
		BaseMagicResistance: BaseMagicResistance(intelligence),
		BaseAccuracy:        BaseAccuracy(dexterity),
		BaseDamage:          BaseDamage(level, strength, dexterity),
		BaseMagicDamage:     BaseMagicDamage(level, intelligence, dexterity),
	}
}
