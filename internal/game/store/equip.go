package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Equip places an owned, non-consumable item into its slot. Equipping into
// an occupied slot atomically replaces the prior occupant; the invariant of
// at most one equipped item per (hero, slot) is enforced by the storage
// layer's unique constraint.
func (e *Engine) Equip(ctx context.Context, heroID int64, itemID string) error {
	err := e.storage.WithHero(ctx, heroID, func(ctx context.Context, tx Tx) error {
		item, found, err := tx.ItemByID(ctx, itemID)
		if err != nil {
			return fmt.Errorf("resolving item %s: %w", itemID, err)
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		if item.Consumable {
			return fmt.Errorf("%w: %s", ErrNotEquippable, itemID)
		}

		owned, err := tx.HasItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("checking ownership of %s: %w", itemID, err)
		}
		if !owned {
			return fmt.Errorf("%w: %s", ErrItemNotOwned, itemID)
		}

		return tx.EquipItem(ctx, itemID, item.Slot)
	})
	if err != nil {
		return err
	}

	e.logger.Info("item equipped",
		zap.Int64("hero_id", heroID),
		zap.String("item_id", itemID),
	)
	return nil
}

// Unequip clears the given slot. Clearing an empty slot is a no-op.
func (e *Engine) Unequip(ctx context.Context, heroID int64, slot string) error {
	return e.storage.WithHero(ctx, heroID, func(ctx context.Context, tx Tx) error {
		return tx.UnequipSlot(ctx, slot)
	})
}
