package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/towerline/towerline/internal/game/effect"
)

// Magic type constants for SkillDef.MagicType.
const (
	MagicPhysical = "PHYSICAL"
	MagicFire     = "FIRE"
	MagicFrost    = "FROST"
	MagicArcane   = "ARCANE"
	MagicNature   = "NATURE"
)

var validMagicTypes = map[string]bool{
	MagicPhysical: true,
	MagicFire:     true,
	MagicFrost:    true,
	MagicArcane:   true,
	MagicNature:   true,
}

// SkillDef defines the static properties of a learnable skill. Immutable
// except via admin edit.
type SkillDef struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Damage      int     `yaml:"damage"`
	ManaCost    int     `yaml:"mana_cost"`
	MagicType   string  `yaml:"magic_type"`
	Price       float64 `yaml:"price"`

	// Attribute thresholds the hero's current primary attributes must meet
	// before the skill can be purchased.
	RequiredStrength     int `yaml:"required_strength"`
	RequiredDexterity    int `yaml:"required_dexterity"`
	RequiredIntelligence int `yaml:"required_intelligence"`

	Effects []effect.Effect `yaml:"effects"`
}

// Validate checks that the SkillDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *SkillDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validMagicTypes[d.MagicType] {
		errs = append(errs, fmt.Errorf("MagicType must be one of PHYSICAL, FIRE, FROST, ARCANE, NATURE; got %q", d.MagicType))
	}
	if d.Price < 0 {
		errs = append(errs, errors.New("Price must be >= 0"))
	}
	if d.ManaCost < 0 {
		errs = append(errs, errors.New("ManaCost must be >= 0"))
	}
	if d.RequiredStrength < 0 || d.RequiredDexterity < 0 || d.RequiredIntelligence < 0 {
		errs = append(errs, errors.New("attribute requirements must be >= 0"))
	}
	for i, e := range d.Effects {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("effect %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("skill validation failed: %v", errs)
	}
	return nil
}

// LoadSkills reads all *.yaml and *.yml files from dir, parses each as a
// SkillDef, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid SkillDefs or the first encountered error.
func LoadSkills(dir string) ([]*SkillDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadSkills: cannot read directory %q: %w", dir, err)
	}

	var skills []*SkillDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadSkills: cannot read file %q: %w", path, err)
		}
		var d SkillDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadSkills: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadSkills: invalid skill in %q: %w", path, err)
		}
		skills = append(skills, &d)
	}
	return skills, nil
}
