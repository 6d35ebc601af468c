// Package testutil provides test helpers including database container
// management.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/towerline/towerline/internal/config"
	"github.com/towerline/towerline/internal/storage/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	RawPool   *pgxpool.Pool
	Config    config.DatabaseConfig
}

// NewPostgresContainer starts a PostgreSQL test container and returns
// a connected Pool.
//
// Precondition: Docker must be available.
// Postcondition: Returns a running container with a connected pool,
// or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v [%s]", err, time.Since(start))
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("getting container host: %v", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("getting mapped port: %v", err)
	}

	dbCfg := config.DatabaseConfig{
		Host:            host,
		Port:            mappedPort.Int(),
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		t.Fatalf("connecting to test postgres: %v [%s]", err, time.Since(start))
	}

	t.Logf("postgres container started [%s]", time.Since(start))

	pc := &PostgresContainer{
		container: container,
		Pool:      pool,
		RawPool:   pool.DB(),
		Config:    dbCfg,
	}

	t.Cleanup(func() {
		pool.Close()
		_ = container.Terminate(ctx)
	})

	return pc
}

// ApplyMigrations runs the schema creation SQL directly for tests.
// This avoids requiring the migrate tool in the test environment.
//
// Precondition: Pool must be connected.
// Postcondition: All engine tables exist in the test database.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	start := time.Now()

	schema := `
		CREATE TABLE IF NOT EXISTS heroes (
			id               BIGSERIAL        PRIMARY KEY,
			user_id          BIGINT           NOT NULL,
			season_id        BIGINT           NOT NULL,
			level            INTEGER          NOT NULL DEFAULT 1,
			strength         INTEGER          NOT NULL DEFAULT 0,
			dexterity        INTEGER          NOT NULL DEFAULT 0,
			intelligence     INTEGER          NOT NULL DEFAULT 0,
			attribute_points INTEGER          NOT NULL DEFAULT 0,
			current_life     DOUBLE PRECISION NOT NULL DEFAULT 0,
			current_mana     DOUBLE PRECISION NOT NULL DEFAULT 0,
			money            DOUBLE PRECISION NOT NULL DEFAULT 0,
			experience       DOUBLE PRECISION NOT NULL DEFAULT 0,
			status           VARCHAR(32)      NOT NULL DEFAULT 'SHOP',
			last_update      TIMESTAMPTZ      NULL,
			status_effects   JSONB            NOT NULL DEFAULT '[]',
			created_at       TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			CONSTRAINT heroes_user_season_key UNIQUE (user_id, season_id)
		);
		CREATE INDEX IF NOT EXISTS idx_heroes_status ON heroes (status);

		CREATE TABLE IF NOT EXISTS items (
			id               VARCHAR(64)      PRIMARY KEY,
			name             TEXT             NOT NULL,
			description      TEXT             NOT NULL DEFAULT '',
			slot             VARCHAR(32)      NOT NULL,
			health           INTEGER          NOT NULL DEFAULT 0,
			mana             INTEGER          NOT NULL DEFAULT 0,
			armor            INTEGER          NOT NULL DEFAULT 0,
			magic_resistance INTEGER          NOT NULL DEFAULT 0,
			accuracy         INTEGER          NOT NULL DEFAULT 0,
			damage           INTEGER          NOT NULL DEFAULT 0,
			magic_damage     INTEGER          NOT NULL DEFAULT 0,
			consumable       BOOLEAN          NOT NULL DEFAULT FALSE,
			price            DOUBLE PRECISION NOT NULL DEFAULT 0,
			effects          JSONB            NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS skills (
			id                    VARCHAR(64)      PRIMARY KEY,
			name                  TEXT             NOT NULL,
			description           TEXT             NOT NULL DEFAULT '',
			damage                INTEGER          NOT NULL DEFAULT 0,
			mana_cost             INTEGER          NOT NULL DEFAULT 0,
			magic_type            VARCHAR(32)      NOT NULL,
			price                 DOUBLE PRECISION NOT NULL DEFAULT 0,
			required_strength     INTEGER          NOT NULL DEFAULT 0,
			required_dexterity    INTEGER          NOT NULL DEFAULT 0,
			required_intelligence INTEGER          NOT NULL DEFAULT 0,
			effects               JSONB            NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS hero_inventory (
			instance_id VARCHAR(36) PRIMARY KEY,
			hero_id     BIGINT      NOT NULL REFERENCES heroes (id) ON DELETE CASCADE,
			item_id     VARCHAR(64) NOT NULL REFERENCES items (id),
			quantity    INTEGER     NOT NULL DEFAULT 1,
			acquired_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT hero_inventory_hero_item_key UNIQUE (hero_id, item_id)
		);

		CREATE TABLE IF NOT EXISTS hero_skills (
			hero_id  BIGINT      NOT NULL REFERENCES heroes (id) ON DELETE CASCADE,
			skill_id VARCHAR(64) NOT NULL REFERENCES skills (id),
			level    INTEGER     NOT NULL DEFAULT 1,
			PRIMARY KEY (hero_id, skill_id)
		);

		CREATE TABLE IF NOT EXISTS equipped_items (
			hero_id     BIGINT      NOT NULL REFERENCES heroes (id) ON DELETE CASCADE,
			item_id     VARCHAR(64) NOT NULL REFERENCES items (id),
			slot        VARCHAR(32) NOT NULL,
			equipped_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (hero_id, slot)
		);
	`

	_, err := pc.RawPool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	t.Logf("migrations applied [%s]", time.Since(start))
}

// NewPool starts a migrated test database and returns its raw pool.
// The container is terminated via t.Cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pc := NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return pc.RawPool
}

// DSN returns the connection string for the test database.
func (pc *PostgresContainer) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pc.Config.User, pc.Config.Password,
		pc.Config.Host, pc.Config.Port,
		pc.Config.Name, pc.Config.SSLMode,
	)
}
