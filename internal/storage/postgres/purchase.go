package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/towerline/towerline/internal/game/catalog"
	"github.com/towerline/towerline/internal/game/hero"
	"github.com/towerline/towerline/internal/game/store"
)

// PurchaseStorage implements store.Storage on PostgreSQL. Every WithHero
// call runs inside one transaction with the hero row locked via
// SELECT ... FOR UPDATE, so concurrent purchases and scheduler saves for
// the same hero serialise instead of racing on a stale balance.
type PurchaseStorage struct {
	db *pgxpool.Pool
}

// NewPurchaseStorage creates a PurchaseStorage backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewPurchaseStorage(db *pgxpool.Pool) *PurchaseStorage {
	return &PurchaseStorage{db: db}
}

// WithHero opens a transaction, locks the hero row, and runs fn against it.
// Any error from fn rolls the whole transaction back.
//
// Postcondition: Returns store.ErrHeroNotFound for an unknown hero; all
// writes made by fn are committed atomically or not at all.
func (s *PurchaseStorage) WithHero(ctx context.Context, heroID int64, fn func(ctx context.Context, tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning purchase transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	row := tx.QueryRow(ctx, `SELECT `+heroColumns+` FROM heroes WHERE id = $1 FOR UPDATE`, heroID)
	h, err := scanHero(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrHeroNotFound
		}
		return fmt.Errorf("locking hero row: %w", err)
	}

	if err := fn(ctx, &purchaseTx{tx: tx, hero: h}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing purchase transaction: %w", err)
	}
	return nil
}

// purchaseTx adapts one pgx transaction to the store.Tx interface.
type purchaseTx struct {
	tx   pgx.Tx
	hero *hero.Hero
}

func (t *purchaseTx) Hero() *hero.Hero { return t.hero }

func (t *purchaseTx) SaveHero(ctx context.Context, h *hero.Hero) error {
	return saveHero(ctx, t.tx, h)
}

func (t *purchaseTx) ItemByID(ctx context.Context, id string) (*catalog.ItemDef, bool, error) {
	return itemByID(ctx, t.tx, id)
}

func (t *purchaseTx) SkillByID(ctx context.Context, id string) (*catalog.SkillDef, bool, error) {
	return skillByID(ctx, t.tx, id)
}

func (t *purchaseTx) HasItem(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM hero_inventory WHERE hero_id = $1 AND item_id = $2)`,
		t.hero.ID, itemID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking inventory: %w", err)
	}
	return exists, nil
}

func (t *purchaseTx) HasSkill(ctx context.Context, skillID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM hero_skills WHERE hero_id = $1 AND skill_id = $2)`,
		t.hero.ID, skillID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking hero skills: %w", err)
	}
	return exists, nil
}

// AddInventory inserts a stack. Only consumable entries may merge into an
// existing row; a single-copy entry inserts plainly, so the unique
// (hero_id, item_id) constraint rejects any duplicate the engine's
// validation somehow let through.
func (t *purchaseTx) AddInventory(ctx context.Context, entry store.InventoryEntry) error {
	if !entry.Consumable {
		_, err := t.tx.Exec(ctx, `
			INSERT INTO hero_inventory (instance_id, hero_id, item_id, quantity, acquired_at)
			VALUES ($1, $2, $3, $4, $5)`,
			entry.InstanceID, entry.HeroID, entry.ItemID, entry.Quantity, entry.AcquiredAt,
		)
		if err != nil {
			return fmt.Errorf("inserting inventory row: %w", err)
		}
		return nil
	}

	_, err := t.tx.Exec(ctx, `
		INSERT INTO hero_inventory (instance_id, hero_id, item_id, quantity, acquired_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (hero_id, item_id) DO UPDATE
			SET quantity = hero_inventory.quantity + EXCLUDED.quantity`,
		entry.InstanceID, entry.HeroID, entry.ItemID, entry.Quantity, entry.AcquiredAt,
	)
	if err != nil {
		return fmt.Errorf("inserting inventory row: %w", err)
	}
	return nil
}

func (t *purchaseTx) AddHeroSkill(ctx context.Context, hs store.HeroSkill) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO hero_skills (hero_id, skill_id, level) VALUES ($1, $2, $3)`,
		hs.HeroID, hs.SkillID, hs.Level,
	)
	if err != nil {
		return fmt.Errorf("inserting hero skill row: %w", err)
	}
	return nil
}

// EquipItem places the item in the slot. The unique (hero_id, slot)
// constraint makes equipping into an occupied slot an atomic replacement.
func (t *purchaseTx) EquipItem(ctx context.Context, itemID, slot string) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO equipped_items (hero_id, item_id, slot)
		VALUES ($1, $2, $3)
		ON CONFLICT (hero_id, slot) DO UPDATE
			SET item_id = EXCLUDED.item_id, equipped_at = NOW()`,
		t.hero.ID, itemID, slot,
	)
	if err != nil {
		return fmt.Errorf("equipping item: %w", err)
	}
	return nil
}

func (t *purchaseTx) UnequipSlot(ctx context.Context, slot string) error {
	_, err := t.tx.Exec(ctx, `
		DELETE FROM equipped_items WHERE hero_id = $1 AND slot = $2`,
		t.hero.ID, slot,
	)
	if err != nil {
		return fmt.Errorf("unequipping slot: %w", err)
	}
	return nil
}
