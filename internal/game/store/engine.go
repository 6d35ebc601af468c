// Package store implements the hero store: validated, all-or-nothing
// multi-line purchases of catalog items and skills, and equipment slot
// management.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/towerline/towerline/internal/game/catalog"
	"github.com/towerline/towerline/internal/game/hero"
)

// LineKind discriminates purchase lines.
type LineKind string

// Purchase line kinds.
const (
	KindItem  LineKind = "ITEM"
	KindSkill LineKind = "SKILL"
)

// Line is one entry of a purchase request.
type Line struct {
	Kind     LineKind
	RefID    string
	Quantity int
}

// Receipt is the successful outcome of a purchase.
type Receipt struct {
	RemainingMoney float64
}

// Engine validates and commits store requests. Each request runs inside a
// single storage transaction with the hero row locked, so two concurrent
// purchases can never both pass the funds check against a stale balance.
type Engine struct {
	storage Storage
	logger  *zap.Logger
	now     func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithNow overrides the clock used for AcquiredAt stamps.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a purchase engine over the given storage.
//
// Precondition: storage and logger must be non-nil.
func NewEngine(storage Storage, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// resolvedLine pairs a request line with its catalog definition and price.
type resolvedLine struct {
	line  Line
	item  *catalog.ItemDef
	skill *catalog.SkillDef
	cost  float64
}

// Purchase validates every line, then debits the hero and grants the goods,
// all inside one transaction. Validation failures and insufficient funds
// leave money, inventory, and hero skills completely unchanged; a
// persistence failure during the commit pass rolls everything back.
//
// Postcondition: on success, the hero's money decreased by the total cost,
// each item line produced or merged an inventory stack, each skill line
// produced a level-1 hero skill, and the receipt carries the new balance.
func (e *Engine) Purchase(ctx context.Context, heroID int64, lines []Line) (Receipt, error) {
	if len(lines) == 0 {
		return Receipt{}, ErrNoLines
	}

	var receipt Receipt
	err := e.storage.WithHero(ctx, heroID, func(ctx context.Context, tx Tx) error {
		h := tx.Hero()

		resolved, total, err := e.validate(ctx, tx, h, lines)
		if err != nil {
			return err
		}

		if h.Money < total {
			return &InsufficientFundsError{Required: total, Available: h.Money}
		}

		h.Money -= total
		if err := tx.SaveHero(ctx, h); err != nil {
			return fmt.Errorf("debiting hero: %w", err)
		}

		now := e.now()
		for _, rl := range resolved {
			switch rl.line.Kind {
			case KindItem:
				entry := InventoryEntry{
					InstanceID: uuid.New().String(),
					HeroID:     h.ID,
					ItemID:     rl.item.ID,
					Quantity:   rl.line.Quantity,
					Consumable: rl.item.Consumable,
					AcquiredAt: now,
				}
				if err := tx.AddInventory(ctx, entry); err != nil {
					return fmt.Errorf("granting item %s: %w", rl.item.ID, err)
				}
			case KindSkill:
				hs := HeroSkill{HeroID: h.ID, SkillID: rl.skill.ID, Level: 1}
				if err := tx.AddHeroSkill(ctx, hs); err != nil {
					return fmt.Errorf("granting skill %s: %w", rl.skill.ID, err)
				}
			}
		}

		receipt = Receipt{RemainingMoney: h.Money}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	e.logger.Info("purchase committed",
		zap.Int64("hero_id", heroID),
		zap.Int("lines", len(lines)),
		zap.Float64("remaining_money", receipt.RemainingMoney),
	)
	return receipt, nil
}

// validate runs the no-mutation pass over every line in order and returns
// the resolved lines and the total cost. Repeated single-copy lines within
// one request are conflicts: HasItem and HasSkill only see rows committed
// before the request, so the in-request sets below enforce the limit.
func (e *Engine) validate(ctx context.Context, tx Tx, h *hero.Hero, lines []Line) ([]resolvedLine, float64, error) {
	resolved := make([]resolvedLine, 0, len(lines))
	var total float64
	seenItems := make(map[string]bool, len(lines))
	seenSkills := make(map[string]bool, len(lines))

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, 0, fmt.Errorf("%w: line %s quantity %d", ErrInvalidQuantity, line.RefID, line.Quantity)
		}

		switch line.Kind {
		case KindItem:
			item, found, err := tx.ItemByID(ctx, line.RefID)
			if err != nil {
				return nil, 0, fmt.Errorf("resolving item %s: %w", line.RefID, err)
			}
			if !found {
				return nil, 0, fmt.Errorf("%w: %s", ErrItemNotFound, line.RefID)
			}
			if !item.Consumable {
				if line.Quantity != 1 {
					return nil, 0, fmt.Errorf("%w: non-consumable %s is single-copy", ErrInvalidQuantity, item.ID)
				}
				if seenItems[item.ID] {
					return nil, 0, fmt.Errorf("%w: %s", ErrItemOwned, item.ID)
				}
				owned, err := tx.HasItem(ctx, item.ID)
				if err != nil {
					return nil, 0, fmt.Errorf("checking ownership of %s: %w", item.ID, err)
				}
				if owned {
					return nil, 0, fmt.Errorf("%w: %s", ErrItemOwned, item.ID)
				}
				seenItems[item.ID] = true
			}
			cost := item.Price * float64(line.Quantity)
			resolved = append(resolved, resolvedLine{line: line, item: item, cost: cost})
			total += cost

		case KindSkill:
			skill, found, err := tx.SkillByID(ctx, line.RefID)
			if err != nil {
				return nil, 0, fmt.Errorf("resolving skill %s: %w", line.RefID, err)
			}
			if !found {
				return nil, 0, fmt.Errorf("%w: %s", ErrSkillNotFound, line.RefID)
			}
			if line.Quantity != 1 {
				return nil, 0, fmt.Errorf("%w: skill %s", ErrInvalidQuantity, skill.ID)
			}
			if seenSkills[skill.ID] {
				return nil, 0, fmt.Errorf("%w: %s", ErrSkillKnown, skill.ID)
			}
			known, err := tx.HasSkill(ctx, skill.ID)
			if err != nil {
				return nil, 0, fmt.Errorf("checking skill %s: %w", skill.ID, err)
			}
			if known {
				return nil, 0, fmt.Errorf("%w: %s", ErrSkillKnown, skill.ID)
			}
			seenSkills[skill.ID] = true
			if err := checkRequirements(h, skill); err != nil {
				return nil, 0, err
			}
			resolved = append(resolved, resolvedLine{line: line, skill: skill, cost: skill.Price})
			total += skill.Price

		default:
			return nil, 0, fmt.Errorf("unknown line kind %q", line.Kind)
		}
	}
	return resolved, total, nil
}

// checkRequirements compares the hero's current primary attributes, not
// derived values, against the skill's thresholds.
func checkRequirements(h *hero.Hero, skill *catalog.SkillDef) error {
	if h.Strength < skill.RequiredStrength {
		return &RequirementError{SkillID: skill.ID, Attribute: "strength", Required: skill.RequiredStrength, Actual: h.Strength}
	}
	if h.Dexterity < skill.RequiredDexterity {
		return &RequirementError{SkillID: skill.ID, Attribute: "dexterity", Required: skill.RequiredDexterity, Actual: h.Dexterity}
	}
	if h.Intelligence < skill.RequiredIntelligence {
		return &RequirementError{SkillID: skill.ID, Attribute: "intelligence", Required: skill.RequiredIntelligence, Actual: h.Intelligence}
	}
	return nil
}
