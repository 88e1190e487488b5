package main

import (
	"context"
	"log"
	"log/slog"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"github.com/socialchef/sous/internal/config"
	"github.com/socialchef/sous/internal/db"
	"github.com/socialchef/sous/internal/logger"
)

const (
	adminEmail = "admin@recipegenerator.com"
	adminName  = "Recipe Generator Admin"

	insertConcurrency = 4
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	slog.SetDefault(logger.New(cfg.Env))

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := seed(ctx, db.New(pool)); err != nil {
		pool.Close()
		log.Fatalf("Database seeding failed: %v", err)
	}
	slog.Info("Database seeding completed")
}

func seed(ctx context.Context, q *db.Queries) error {
	admin, err := q.EnsureUser(ctx, adminEmail, adminName)
	if err != nil {
		return err
	}

	recipes, err := loadSeeds(seedRecipes, admin.ID)
	if err != nil {
		return err
	}

	cleared, err := q.DeleteAllRecipes(ctx)
	if err != nil {
		return err
	}
	slog.Info("Cleared existing recipes", "count", cleared)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(insertConcurrency)
	for _, p := range recipes {
		g.Go(func() error {
			created, err := q.CreateRecipe(gctx, p)
			if err != nil {
				return err
			}
			slog.Info("Created recipe", "recipe_id", created.ID, "title", created.Title)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Seeded recipes", "count", len(recipes))
	return nil
}
