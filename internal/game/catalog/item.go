// Package catalog defines the admin-authored item and skill definitions,
// their authoring-time validation, and YAML loading for the seeder.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/towerline/towerline/internal/game/effect"
)

// Slot constants for ItemDef.Slot.
const (
	SlotHead      = "HEAD"
	SlotChest     = "CHEST"
	SlotHands     = "HANDS"
	SlotLegs      = "LEGS"
	SlotFeet      = "FEET"
	SlotWeapon    = "WEAPON"
	SlotAccessory = "ACCESSORY"
)

// validSlots is the set of valid equipment slots.
var validSlots = map[string]bool{
	SlotHead:      true,
	SlotChest:     true,
	SlotHands:     true,
	SlotLegs:      true,
	SlotFeet:      true,
	SlotWeapon:    true,
	SlotAccessory: true,
}

// ItemDef defines the static properties of a store item. Immutable except
// via admin edit; inventory rows reference items, they never own them.
type ItemDef struct {
	ID              string          `yaml:"id"`
	Name            string          `yaml:"name"`
	Description     string          `yaml:"description"`
	Slot            string          `yaml:"slot"`
	Health          int             `yaml:"health"`
	Mana            int             `yaml:"mana"`
	Armor           int             `yaml:"armor"`
	MagicResistance int             `yaml:"magic_resistance"`
	Accuracy        int             `yaml:"accuracy"`
	Damage          int             `yaml:"damage"`
	MagicDamage     int             `yaml:"magic_damage"`
	Consumable      bool            `yaml:"consumable"`
	Price           float64         `yaml:"price"`
	Effects         []effect.Effect `yaml:"effects"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validSlots[d.Slot] {
		errs = append(errs, fmt.Errorf("Slot must be one of HEAD, CHEST, HANDS, LEGS, FEET, WEAPON, ACCESSORY; got %q", d.Slot))
	}
	if d.Price < 0 {
		errs = append(errs, errors.New("Price must be >= 0"))
	}
	for i, e := range d.Effects {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("effect %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as an
// ItemDef, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*ItemDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var d ItemDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, &d)
	}
	return items, nil
}
