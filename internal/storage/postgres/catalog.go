package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/towerline/towerline/internal/game/catalog"
)

// ErrItemNotFound is returned when an item lookup yields no results.
var ErrItemNotFound = errors.New("item not found")

// ErrSkillNotFound is returned when a skill lookup yields no results.
var ErrSkillNotFound = errors.New("skill not found")

const itemColumns = `id, name, description, slot, health, mana, armor, magic_resistance,
	       accuracy, damage, magic_damage, consumable, price, effects`

const skillColumns = `id, name, description, damage, mana_cost, magic_type, price,
	       required_strength, required_dexterity, required_intelligence, effects`

// ItemRepository provides read access and seeding for the item catalog.
// The engine treats the catalog as read-only; Upsert exists for the admin
// seeder.
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates an ItemRepository backed by the given pool.
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

// GetByID retrieves an item definition.
//
// Postcondition: Returns the ItemDef or ErrItemNotFound.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*catalog.ItemDef, error) {
	d, found, err := itemByID(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrItemNotFound
	}
	return d, nil
}

// List returns the whole item catalog ordered by id.
func (r *ItemRepository) List(ctx context.Context) ([]*catalog.ItemDef, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := make([]*catalog.ItemDef, 0)
	for rows.Next() {
		d, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// Upsert inserts or replaces an item definition by id.
//
// Precondition: d must pass Validate.
func (r *ItemRepository) Upsert(ctx context.Context, d *catalog.ItemDef) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO items
			(id, name, description, slot, health, mana, armor, magic_resistance,
			 accuracy, damage, magic_damage, consumable, price, effects)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			slot = EXCLUDED.slot, health = EXCLUDED.health, mana = EXCLUDED.mana,
			armor = EXCLUDED.armor, magic_resistance = EXCLUDED.magic_resistance,
			accuracy = EXCLUDED.accuracy, damage = EXCLUDED.damage,
			magic_damage = EXCLUDED.magic_damage, consumable = EXCLUDED.consumable,
			price = EXCLUDED.price, effects = EXCLUDED.effects`,
		d.ID, d.Name, d.Description, d.Slot, d.Health, d.Mana, d.Armor, d.MagicResistance,
		d.Accuracy, d.Damage, d.MagicDamage, d.Consumable, d.Price, d.Effects,
	)
	if err != nil {
		return fmt.Errorf("upserting item %s: %w", d.ID, err)
	}
	return nil
}

// SkillRepository provides read access and seeding for the skill catalog.
type SkillRepository struct {
	db *pgxpool.Pool
}

// NewSkillRepository creates a SkillRepository backed by the given pool.
func NewSkillRepository(db *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{db: db}
}

// GetByID retrieves a skill definition.
//
// Postcondition: Returns the SkillDef or ErrSkillNotFound.
func (r *SkillRepository) GetByID(ctx context.Context, id string) (*catalog.SkillDef, error) {
	d, found, err := skillByID(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSkillNotFound
	}
	return d, nil
}

// List returns the whole skill catalog ordered by id.
func (r *SkillRepository) List(ctx context.Context) ([]*catalog.SkillDef, error) {
	rows, err := r.db.Query(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing skills: %w", err)
	}
	defer rows.Close()

	skills := make([]*catalog.SkillDef, 0)
	for rows.Next() {
		d, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		skills = append(skills, d)
	}
	return skills, rows.Err()
}

// Upsert inserts or replaces a skill definition by id.
//
// Precondition: d must pass Validate.
func (r *SkillRepository) Upsert(ctx context.Context, d *catalog.SkillDef) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO skills
			(id, name, description, damage, mana_cost, magic_type, price,
			 required_strength, required_dexterity, required_intelligence, effects)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description,
			damage = EXCLUDED.damage, mana_cost = EXCLUDED.mana_cost,
			magic_type = EXCLUDED.magic_type, price = EXCLUDED.price,
			required_strength = EXCLUDED.required_strength,
			required_dexterity = EXCLUDED.required_dexterity,
			required_intelligence = EXCLUDED.required_intelligence,
			effects = EXCLUDED.effects`,
		d.ID, d.Name, d.Description, d.Damage, d.ManaCost, d.MagicType, d.Price,
		d.RequiredStrength, d.RequiredDexterity, d.RequiredIntelligence, d.Effects,
	)
	if err != nil {
		return fmt.Errorf("upserting skill %s: %w", d.ID, err)
	}
	return nil
}

// itemByID runs against either the pool or a purchase transaction.
func itemByID(ctx context.Context, q queryer, id string) (*catalog.ItemDef, bool, error) {
	d, err := scanItem(q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying item: %w", err)
	}
	return d, true, nil
}

// skillByID runs against either the pool or a purchase transaction.
func skillByID(ctx context.Context, q queryer, id string) (*catalog.SkillDef, bool, error) {
	d, err := scanSkill(q.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("querying skill: %w", err)
	}
	return d, true, nil
}

func scanItem(row pgx.Row) (*catalog.ItemDef, error) {
	var d catalog.ItemDef
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.Slot, &d.Health, &d.Mana, &d.Armor,
		&d.MagicResistance, &d.Accuracy, &d.Damage, &d.MagicDamage,
		&d.Consumable, &d.Price, &d.Effects,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanSkill(row pgx.Row) (*catalog.SkillDef, error) {
	var d catalog.SkillDef
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.Damage, &d.ManaCost, &d.MagicType, &d.Price,
		&d.RequiredStrength, &d.RequiredDexterity, &d.RequiredIntelligence, &d.Effects,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
