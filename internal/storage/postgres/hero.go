package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/towerline/towerline/internal/game/hero"
)

// ErrHeroNotFound is returned when a hero lookup yields no results.
var ErrHeroNotFound = errors.New("hero not found")

// ErrHeroExists is returned when creating a second hero for the same user
// and season.
var ErrHeroExists = errors.New("hero already exists for user and season")

const heroColumns = `id, user_id, season_id, level, strength, dexterity, intelligence,
	       attribute_points, current_life, current_mana, money, experience,
	       status, last_update, status_effects, created_at, updated_at`

// HeroRepository provides hero persistence operations.
type HeroRepository struct {
	db *pgxpool.Pool
}

// NewHeroRepository creates a HeroRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewHeroRepository(db *pgxpool.Pool) *HeroRepository {
	return &HeroRepository{db: db}
}

// Create inserts a new hero and returns it with ID and timestamps set.
//
// Precondition: h.UserID and h.SeasonID must be positive.
// Postcondition: Returns the created hero with ID set, or ErrHeroExists when
// the user already has a hero this season.
func (r *HeroRepository) Create(ctx context.Context, h *hero.Hero) (*hero.Hero, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO heroes
			(user_id, season_id, level, strength, dexterity, intelligence,
			 attribute_points, current_life, current_mana, money, experience,
			 status, last_update, status_effects)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING `+heroColumns,
		h.UserID, h.SeasonID, h.Level, h.Strength, h.Dexterity, h.Intelligence,
		h.AttributePoints, h.CurrentLife, h.CurrentMana, h.Money, h.Experience,
		string(h.Status), nullableTime(h.LastUpdate), statusEffectsOrEmpty(h.StatusEffects),
	)
	out, err := scanHero(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrHeroExists
		}
		return nil, fmt.Errorf("inserting hero: %w", err)
	}
	return out, nil
}

// GetByID retrieves a hero by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Hero or ErrHeroNotFound.
func (r *HeroRepository) GetByID(ctx context.Context, id int64) (*hero.Hero, error) {
	row := r.db.QueryRow(ctx, `SELECT `+heroColumns+` FROM heroes WHERE id = $1`, id)
	h, err := scanHero(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHeroNotFound
		}
		return nil, fmt.Errorf("querying hero: %w", err)
	}
	return h, nil
}

// GetByUserAndSeason retrieves the hero a user plays in the given season.
//
// Postcondition: Returns the Hero or ErrHeroNotFound.
func (r *HeroRepository) GetByUserAndSeason(ctx context.Context, userID, seasonID int64) (*hero.Hero, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+heroColumns+` FROM heroes WHERE user_id = $1 AND season_id = $2`,
		userID, seasonID,
	)
	h, err := scanHero(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHeroNotFound
		}
		return nil, fmt.Errorf("querying hero by user and season: %w", err)
	}
	return h, nil
}

// FindFarming returns all heroes currently occupying a tower, ordered by id
// for deterministic batches.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *HeroRepository) FindFarming(ctx context.Context) ([]*hero.Hero, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+heroColumns+` FROM heroes
		WHERE status IN ($1, $2) ORDER BY id ASC`,
		string(hero.StatusDefensiveTower), string(hero.StatusAttackingTower),
	)
	if err != nil {
		return nil, fmt.Errorf("listing farming heroes: %w", err)
	}
	defer rows.Close()

	heroes := make([]*hero.Hero, 0)
	for rows.Next() {
		h, err := scanHero(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning hero row: %w", err)
		}
		heroes = append(heroes, h)
	}
	return heroes, rows.Err()
}

// Save persists all mutable hero columns.
//
// Precondition: h.ID must be > 0.
// Postcondition: Returns nil on success, ErrHeroNotFound if no row updated.
func (r *HeroRepository) Save(ctx context.Context, h *hero.Hero) error {
	return saveHero(ctx, r.db, h)
}

// saveHero runs against either the pool or a purchase transaction.
func saveHero(ctx context.Context, q queryer, h *hero.Hero) error {
	tag, err := q.Exec(ctx, `
		UPDATE heroes SET
			level = $2, strength = $3, dexterity = $4, intelligence = $5,
			attribute_points = $6, current_life = $7, current_mana = $8,
			money = $9, experience = $10, status = $11, last_update = $12,
			status_effects = $13, updated_at = NOW()
		WHERE id = $1`,
		h.ID, h.Level, h.Strength, h.Dexterity, h.Intelligence,
		h.AttributePoints, h.CurrentLife, h.CurrentMana,
		h.Money, h.Experience, string(h.Status), nullableTime(h.LastUpdate),
		statusEffectsOrEmpty(h.StatusEffects),
	)
	if err != nil {
		return fmt.Errorf("saving hero: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrHeroNotFound
	}
	return nil
}

// Delete removes a hero permanently. Admin use only.
//
// Postcondition: Returns nil on success, ErrHeroNotFound if no row deleted.
func (r *HeroRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM heroes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting hero: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrHeroNotFound
	}
	return nil
}

// scanHero reads one hero row in heroColumns order.
func scanHero(row pgx.Row) (*hero.Hero, error) {
	var h hero.Hero
	var status string
	var lastUpdate *time.Time
	err := row.Scan(
		&h.ID, &h.UserID, &h.SeasonID, &h.Level, &h.Strength, &h.Dexterity, &h.Intelligence,
		&h.AttributePoints, &h.CurrentLife, &h.CurrentMana, &h.Money, &h.Experience,
		&status, &lastUpdate, &h.StatusEffects, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.Status = hero.Status(status)
	if lastUpdate != nil {
		h.LastUpdate = *lastUpdate
	}
	return &h, nil
}

// nullableTime maps the zero time to NULL so "never ticked" survives the
// round trip.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// statusEffectsOrEmpty avoids writing SQL NULL for a nil slice.
func statusEffectsOrEmpty(effects []hero.StatusEffect) []hero.StatusEffect {
	if effects == nil {
		return []hero.StatusEffect{}
	}
	return effects
}
