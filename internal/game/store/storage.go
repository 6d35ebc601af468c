package store

import (
	"context"
	"time"

	"github.com/towerline/towerline/internal/game/catalog"
	"github.com/towerline/towerline/internal/game/hero"
)

// InventoryEntry is one hero-owned stack of an item. Consumable mirrors the
// catalog definition so the storage layer can merge consumable stacks while
// refusing to merge single-copy items.
type InventoryEntry struct {
	InstanceID string
	HeroID     int64
	ItemID     string
	Quantity   int
	Consumable bool
	AcquiredAt time.Time
}

// HeroSkill is one learned skill at a given level.
type HeroSkill struct {
	HeroID  int64
	SkillID string
	Level   int
}

// Tx is the transactional view the engine works against. All reads and
// writes within one Purchase or Equip call go through a single Tx; the
// implementation holds the hero row locked for the duration.
type Tx interface {
	// Hero returns the locked hero row.
	Hero() *hero.Hero
	// SaveHero persists the hero's mutable columns inside the transaction.
	SaveHero(ctx context.Context, h *hero.Hero) error

	// ItemByID resolves a catalog item; found is false for unknown ids.
	ItemByID(ctx context.Context, id string) (def *catalog.ItemDef, found bool, err error)
	// SkillByID resolves a catalog skill; found is false for unknown ids.
	SkillByID(ctx context.Context, id string) (def *catalog.SkillDef, found bool, err error)

	// HasItem reports whether the hero has any inventory row for the item.
	HasItem(ctx context.Context, itemID string) (bool, error)
	// HasSkill reports whether the hero already learned the skill.
	HasSkill(ctx context.Context, skillID string) (bool, error)

	// AddInventory inserts a stack. Consumable entries merge quantity into
	// an existing row; single-copy entries must insert a fresh row.
	AddInventory(ctx context.Context, entry InventoryEntry) error
	// AddHeroSkill inserts a learned-skill row.
	AddHeroSkill(ctx context.Context, hs HeroSkill) error

	// EquipItem places the item in the slot, replacing any occupant.
	EquipItem(ctx context.Context, itemID, slot string) error
	// UnequipSlot clears the slot if occupied.
	UnequipSlot(ctx context.Context, slot string) error
}

// Storage opens per-hero transactions for the engine. WithHero must lock
// the hero's row for the duration of fn so concurrent purchases and
// scheduler saves for the same hero serialise; fn returning an error rolls
// every write back.
type Storage interface {
	WithHero(ctx context.Context, heroID int64, fn func(ctx context.Context, tx Tx) error) error
}
