package catalog

import "fmt"

// Registry holds loaded item and skill definitions indexed by ID. It backs
// the seeder and in-memory test fixtures; the postgres repositories are the
// runtime catalog source.
type Registry struct {
	items  map[string]*ItemDef
	skills map[string]*SkillDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		items:  make(map[string]*ItemDef),
		skills: make(map[string]*SkillDef),
	}
}

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns d; returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("catalog: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// RegisterSkill adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Skill(d.ID) returns d; returns error if d.ID already registered.
func (r *Registry) RegisterSkill(d *SkillDef) error {
	if _, exists := r.skills[d.ID]; exists {
		return fmt.Errorf("catalog: Registry.RegisterSkill: skill ID %q already registered", d.ID)
	}
	r.skills[d.ID] = d
	return nil
}

// Item returns the ItemDef for the given id, or nil if not found.
func (r *Registry) Item(id string) *ItemDef {
	return r.items[id]
}

// Skill returns the SkillDef for the given id, or nil if not found.
func (r *Registry) Skill(id string) *SkillDef {
	return r.skills[id]
}

// Items returns the number of registered items.
func (r *Registry) Items() int { return len(r.items) }

// Skills returns the number of registered skills.
func (r *Registry) Skills() int { return len(r.skills) }

// LoadRegistry loads and registers all items and skills from the given
// content directories.
//
// Postcondition: returns a fully populated Registry or the first error.
func LoadRegistry(itemsDir, skillsDir string) (*Registry, error) {
	reg := NewRegistry()

	items, err := LoadItems(itemsDir)
	if err != nil {
		return nil, err
	}
	for _, d := range items {
		if err := reg.RegisterItem(d); err != nil {
			return nil, err
		}
	}

	skills, err := LoadSkills(skillsDir)
	if err != nil {
		return nil, err
	}
	for _, d := range skills {
		if err := reg.RegisterSkill(d); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
