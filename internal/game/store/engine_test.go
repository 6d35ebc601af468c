package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/towerline/towerline/internal/game/catalog"
	"github.com/towerline/towerline/internal/game/hero"
	"github.com/towerline/towerline/internal/game/store"
)

// memStorage is an in-memory store.Storage with snapshot/rollback
// semantics matching a real database transaction.
type memStorage struct {
	hero       *hero.Hero
	items      map[string]*catalog.ItemDef
	skills     map[string]*catalog.SkillDef
	inventory  map[string]store.InventoryEntry // item id -> stack
	heroSkills map[string]store.HeroSkill      // skill id -> row
	equipped   map[string]string               // slot -> item id

	failSaveHero     bool
	failAddInventory bool
}

func newMemStorage(h *hero.Hero) *memStorage {
	return &memStorage{
		hero:       h,
		items:      make(map[string]*catalog.ItemDef),
		skills:     make(map[string]*catalog.SkillDef),
		inventory:  make(map[string]store.InventoryEntry),
		heroSkills: make(map[string]store.HeroSkill),
		equipped:   make(map[string]string),
	}
}

type memTx struct {
	s    *memStorage
	hero *hero.Hero

	inventory  map[string]store.InventoryEntry
	heroSkills map[string]store.HeroSkill
	equipped   map[string]string
}

func (s *memStorage) WithHero(ctx context.Context, heroID int64, fn func(ctx context.Context, tx store.Tx) error) error {
	if s.hero == nil || s.hero.ID != heroID {
		return store.ErrHeroNotFound
	}

	heroCopy := *s.hero
	tx := &memTx{
		s:          s,
		hero:       &heroCopy,
		inventory:  make(map[string]store.InventoryEntry, len(s.inventory)),
		heroSkills: make(map[string]store.HeroSkill, len(s.heroSkills)),
		equipped:   make(map[string]string, len(s.equipped)),
	}
	for k, v := range s.inventory {
		tx.inventory[k] = v
	}
	for k, v := range s.heroSkills {
		tx.heroSkills[k] = v
	}
	for k, v := range s.equipped {
		tx.equipped[k] = v
	}

	if err := fn(ctx, tx); err != nil {
		return err // discard working copies
	}

	*s.hero = *tx.hero
	s.inventory = tx.inventory
	s.heroSkills = tx.heroSkills
	s.equipped = tx.equipped
	return nil
}

func (t *memTx) Hero() *hero.Hero { return t.hero }

func (t *memTx) SaveHero(ctx context.Context, h *hero.Hero) error {
	if t.s.failSaveHero {
		return errors.New("save failed")
	}
	t.hero = h
	return nil
}

func (t *memTx) ItemByID(ctx context.Context, id string) (*catalog.ItemDef, bool, error) {
	d, ok := t.s.items[id]
	return d, ok, nil
}

func (t *memTx) SkillByID(ctx context.Context, id string) (*catalog.SkillDef, bool, error) {
	d, ok := t.s.skills[id]
	return d, ok, nil
}

func (t *memTx) HasItem(ctx context.Context, itemID string) (bool, error) {
	_, ok := t.inventory[itemID]
	return ok, nil
}

func (t *memTx) HasSkill(ctx context.Context, skillID string) (bool, error) {
	_, ok := t.heroSkills[skillID]
	return ok, nil
}

func (t *memTx) AddInventory(ctx context.Context, entry store.InventoryEntry) error {
	if t.s.failAddInventory {
		return errors.New("insert failed")
	}
	if existing, ok := t.inventory[entry.ItemID]; ok {
		if !entry.Consumable {
			return errors.New("duplicate inventory row")
		}
		existing.Quantity += entry.Quantity
		t.inventory[entry.ItemID] = existing
		return nil
	}
	t.inventory[entry.ItemID] = entry
	return nil
}

func (t *memTx) AddHeroSkill(ctx context.Context, hs store.HeroSkill) error {
	t.heroSkills[hs.SkillID] = hs
	return nil
}

func (t *memTx) EquipItem(ctx context.Context, itemID, slot string) error {
	t.equipped[slot] = itemID
	return nil
}

func (t *memTx) UnequipSlot(ctx context.Context, slot string) error {
	delete(t.equipped, slot)
	return nil
}

func buyer() *hero.Hero {
	return &hero.Hero{ID: 1, UserID: 1, SeasonID: 1, Level: 1, Strength: 5, Money: 100}
}

func fixtures(s *memStorage) {
	s.items["iron-helm"] = &catalog.ItemDef{ID: "iron-helm", Name: "Iron Helm", Slot: catalog.SlotHead, Price: 60}
	s.items["war-axe"] = &catalog.ItemDef{ID: "war-axe", Name: "War Axe", Slot: catalog.SlotWeapon, Price: 90}
	s.items["healing-potion"] = &catalog.ItemDef{ID: "healing-potion", Name: "Healing Potion", Slot: catalog.SlotAccessory, Price: 10, Consumable: true}
	s.skills["cleave"] = &catalog.SkillDef{ID: "cleave", Name: "Cleave", MagicType: catalog.MagicPhysical, Price: 40, RequiredStrength: 10}
	s.skills["dash"] = &catalog.SkillDef{ID: "dash", Name: "Dash", MagicType: catalog.MagicPhysical, Price: 30}
}

func newEngine(s *memStorage) *store.Engine {
	return store.NewEngine(s, zap.NewNop(), store.WithNow(func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}))
}

func TestPurchase_SingleItem(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	receipt, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 40.0, receipt.RemainingMoney)
	assert.Equal(t, 40.0, s.hero.Money)

	require.Len(t, s.inventory, 1)
	entry := s.inventory["iron-helm"]
	assert.Equal(t, int64(1), entry.HeroID)
	assert.Equal(t, 1, entry.Quantity)
	assert.NotEmpty(t, entry.InstanceID)
	assert.False(t, entry.AcquiredAt.IsZero())
}

func TestPurchase_MultiLine_ItemAndSkill(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	receipt, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
		{Kind: store.KindSkill, RefID: "dash", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, receipt.RemainingMoney)
	assert.Len(t, s.inventory, 1)
	require.Contains(t, s.heroSkills, "dash")
	assert.Equal(t, 1, s.heroSkills["dash"].Level)
}

func TestPurchase_InsufficientFunds_Atomic(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
		{Kind: store.KindItem, RefID: "war-axe", Quantity: 1},
	})
	var fundsErr *store.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, 150.0, fundsErr.Required)
	assert.Equal(t, 100.0, fundsErr.Available)

	assert.Equal(t, 100.0, s.hero.Money)
	assert.Empty(t, s.inventory)
	assert.Empty(t, s.heroSkills)
}

func TestPurchase_UnknownItem_FailsWholeRequest(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
		{Kind: store.KindItem, RefID: "ghost-blade", Quantity: 1},
	})
	require.ErrorIs(t, err, store.ErrItemNotFound)
	assert.Equal(t, 100.0, s.hero.Money)
	assert.Empty(t, s.inventory)
}

func TestPurchase_DuplicateEquipment_Conflict(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
	})
	require.NoError(t, err)

	_, err = e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
	})
	require.ErrorIs(t, err, store.ErrItemOwned)
	assert.Equal(t, 40.0, s.hero.Money)
	assert.Len(t, s.inventory, 1)
}

func TestPurchase_DuplicateEquipmentLines_SameRequest(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	s.hero.Money = 500
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
	})
	require.ErrorIs(t, err, store.ErrItemOwned)

	// the request must fail whole: no charge, no copies
	assert.Equal(t, 500.0, s.hero.Money)
	assert.Empty(t, s.inventory)
}

func TestPurchase_DuplicateSkillLines_SameRequest(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindSkill, RefID: "dash", Quantity: 1},
		{Kind: store.KindSkill, RefID: "dash", Quantity: 1},
	})
	require.ErrorIs(t, err, store.ErrSkillKnown)
	assert.Equal(t, 100.0, s.hero.Money)
	assert.Empty(t, s.heroSkills)
}

func TestPurchase_DuplicateConsumableLines_SameRequest(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	receipt, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "healing-potion", Quantity: 2},
		{Kind: store.KindItem, RefID: "healing-potion", Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, receipt.RemainingMoney)

	require.Len(t, s.inventory, 1)
	assert.Equal(t, 5, s.inventory["healing-potion"].Quantity)
}

func TestPurchase_SkillRequirement_NamesAttribute(t *testing.T) {
	s := newMemStorage(buyer()) // strength 5
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindSkill, RefID: "cleave", Quantity: 1},
	})
	var reqErr *store.RequirementError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "strength", reqErr.Attribute)
	assert.Equal(t, 10, reqErr.Required)
	assert.Equal(t, 5, reqErr.Actual)
	assert.Contains(t, err.Error(), "strength")

	assert.Equal(t, 100.0, s.hero.Money)
	assert.Empty(t, s.heroSkills)
}

func TestPurchase_SkillAlreadyKnown_Conflict(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindSkill, RefID: "dash", Quantity: 1},
	})
	require.NoError(t, err)

	_, err = e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindSkill, RefID: "dash", Quantity: 1},
	})
	require.ErrorIs(t, err, store.ErrSkillKnown)
	assert.Equal(t, 70.0, s.hero.Money)
}

func TestPurchase_ConsumablesMergeIntoOneStack(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "healing-potion", Quantity: 2},
	})
	require.NoError(t, err)
	_, err = e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "healing-potion", Quantity: 3},
	})
	require.NoError(t, err)

	require.Len(t, s.inventory, 1)
	assert.Equal(t, 5, s.inventory["healing-potion"].Quantity)
	assert.Equal(t, 50.0, s.hero.Money)
}

func TestPurchase_NonConsumableQuantityOverOne(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 2},
	})
	assert.ErrorIs(t, err, store.ErrInvalidQuantity)
}

func TestPurchase_ZeroQuantity(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "healing-potion", Quantity: 0},
	})
	assert.ErrorIs(t, err, store.ErrInvalidQuantity)
}

func TestPurchase_NoLines(t *testing.T) {
	s := newMemStorage(buyer())
	e := newEngine(s)
	_, err := e.Purchase(context.Background(), 1, nil)
	assert.ErrorIs(t, err, store.ErrNoLines)
}

func TestPurchase_HeroNotFound(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 99, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
	})
	assert.ErrorIs(t, err, store.ErrHeroNotFound)
}

func TestPurchase_CommitFailureRollsBack(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	s.failAddInventory = true
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
	})
	require.Error(t, err)

	// the debit inside the failed transaction must not stick
	assert.Equal(t, 100.0, s.hero.Money)
	assert.Empty(t, s.inventory)
}

func TestEquip(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
	})
	require.NoError(t, err)

	require.NoError(t, e.Equip(context.Background(), 1, "iron-helm"))
	assert.Equal(t, "iron-helm", s.equipped[catalog.SlotHead])
}

func TestEquip_NotOwned(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	err := e.Equip(context.Background(), 1, "iron-helm")
	assert.ErrorIs(t, err, store.ErrItemNotOwned)
}

func TestEquip_ConsumableRejected(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "healing-potion", Quantity: 1},
	})
	require.NoError(t, err)

	err = e.Equip(context.Background(), 1, "healing-potion")
	assert.ErrorIs(t, err, store.ErrNotEquippable)
}

func TestUnequip(t *testing.T) {
	s := newMemStorage(buyer())
	fixtures(s)
	e := newEngine(s)

	_, err := e.Purchase(context.Background(), 1, []store.Line{
		{Kind: store.KindItem, RefID: "iron-helm", Quantity: 1},
	})
	require.NoError(t, err)
	require.NoError(t, e.Equip(context.Background(), 1, "iron-helm"))

	require.NoError(t, e.Unequip(context.Background(), 1, catalog.SlotHead))
	_, occupied := s.equipped[catalog.SlotHead]
	assert.False(t, occupied)

	// clearing an empty slot is a no-op
	assert.NoError(t, e.Unequip(context.Background(), 1, catalog.SlotHead))
}
