// Package main provides an admin tool that loads item and skill YAML
// definitions and upserts them into the catalog tables.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/towerline/towerline/internal/config"
	"github.com/towerline/towerline/internal/game/catalog"
	"github.com/towerline/towerline/internal/observability"
	"github.com/towerline/towerline/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	itemsDir := flag.String("items-dir", "", "path to item YAML files (default: catalog.items_dir from config)")
	skillsDir := flag.String("skills-dir", "", "path to skill YAML files (default: catalog.skills_dir from config)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if *itemsDir == "" {
		*itemsDir = cfg.Catalog.ItemsDir
	}
	if *skillsDir == "" {
		*skillsDir = cfg.Catalog.SkillsDir
	}

	items, err := catalog.LoadItems(*itemsDir)
	if err != nil {
		logger.Fatal("loading item definitions", zap.Error(err))
	}
	skills, err := catalog.LoadSkills(*skillsDir)
	if err != nil {
		logger.Fatal("loading skill definitions", zap.Error(err))
	}
	logger.Info("catalog content loaded",
		zap.Int("items", len(items)),
		zap.Int("skills", len(skills)),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool.DB())
	for _, item := range items {
		if err := itemRepo.Upsert(ctx, item); err != nil {
			logger.Fatal("upserting item", zap.String("id", item.ID), zap.Error(err))
		}
	}

	skillRepo := postgres.NewSkillRepository(pool.DB())
	for _, skill := range skills {
		if err := skillRepo.Upsert(ctx, skill); err != nil {
			logger.Fatal("upserting skill", zap.String("id", skill.ID), zap.Error(err))
		}
	}

	logger.Info("catalog seeded",
		zap.Int("items", len(items)),
		zap.Int("skills", len(skills)),
		zap.Duration("elapsed", time.Since(start)),
	)
}
