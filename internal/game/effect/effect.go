// Package effect defines the structured effect value object attached to
// catalog items and skills, and the resolver that applies effect lists to
// heroes.
package effect

// Type discriminates the two effect variants.
type Type string

// Effect variants.
const (
	TypeStatChange   Type = "STAT_CHANGE"
	TypeStatusEffect Type = "STATUS_EFFECT"
)

// TargetKind selects which entity an effect applies to.
type TargetKind string

// Effect targets. AREA currently resolves to no entity; there is no battle
// or map model to define who is "in the area".
const (
	TargetSelf     TargetKind = "SELF"
	TargetOpponent TargetKind = "OPPONENT"
	TargetArea     TargetKind = "AREA"
)

// Stat is the closed set of stats a STAT_CHANGE effect may modify.
type Stat string

// Modifiable stats.
const (
	StatHealth          Stat = "HEALTH"
	StatMana            Stat = "MANA"
	StatStrength        Stat = "STRENGTH"
	StatDexterity       Stat = "DEXTERITY"
	StatIntelligence    Stat = "INTELLIGENCE"
	StatArmor           Stat = "ARMOR"
	StatMagicResistance Stat = "MAGIC_RESISTANCE"
	StatDamage          Stat = "DAMAGE"
	StatMagicDamage     Stat = "MAGIC_DAMAGE"
	StatAccuracy        Stat = "ACCURACY"
)

// Effect is one catalog-authored instruction: change a stat or apply a
// timed status, optionally chance-gated.
//
// Invariant: STAT_CHANGE carries a numeric Value and a Stat; STATUS_EFFECT
// carries a string Value. A nil Chance means the effect always applies.
type Effect struct {
	Type     Type       `yaml:"type" json:"type"`
	Target   TargetKind `yaml:"target" json:"target"`
	Value    any        `yaml:"value" json:"value"`
	Stat     Stat       `yaml:"stat,omitempty" json:"stat,omitempty"`
	Duration *int       `yaml:"duration,omitempty" json:"duration,omitempty"` // seconds
	Chance   *float64   `yaml:"chance,omitempty" json:"chance,omitempty"`     // percent, 0-100
}

// NumericValue returns the effect value as a float64 when it is a number.
// YAML and JSON decoding produce different concrete number types, so all of
// them are accepted.
func (e Effect) NumericValue() (float64, bool) {
	switch v := e.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// StringValue returns the effect value as a string when it is one.
func (e Effect) StringValue() (string, bool) {
	s, ok := e.Value.(string)
	return s, ok
}

// Validate checks the authoring-time shape invariants. The resolver never
// calls this; malformed effects are silently skipped at apply time.
func (e Effect) Validate() error {
	switch e.Type {
	case TypeStatChange:
		if _, ok := e.NumericValue(); !ok {
			return errNonNumericValue
		}
		if !validStat(e.Stat) {
			return errUnknownStat
		}
	case TypeStatusEffect:
		if _, ok := e.StringValue(); !ok {
			return errNonStringValue
		}
	default:
		return errUnknownType
	}

	switch e.Target {
	case TargetSelf, TargetOpponent, TargetArea:
	default:
		return errUnknownTarget
	}

	if e.Chance != nil && (*e.Chance < 0 || *e.Chance > 100) {
		return errChanceOutOfRange
	}
	return nil
}

func validStat(s Stat) bool {
	switch s {
	case StatHealth, StatMana, StatStrength, StatDexterity, StatIntelligence,
		StatArmor, StatMagicResistance, StatDamage, StatMagicDamage, StatAccuracy:
		return true
	}
	return false
}
