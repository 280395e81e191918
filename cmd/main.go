package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Foodgram-Backend/cmd/config"
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/cmd/database/seed"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/pkg/jwt"

	"gorm.io/gorm"
)

func main() {
	migrate := flag.Bool("migrate", false, "run database migration and exit")
	seedData := flag.Bool("seed", false, "load tags and ingredients and exit")
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "ingredients seed file")
	tagsPath := flag.String("tags", "data/tags.json", "tags seed file")
	flag.Parse()

	utils.LoadConfig()
	logging.Init(logging.Config{
		Level:  utils.GetConfig("LOG_LEVEL"),
		Format: utils.GetConfig("LOG_FORMAT"),
	})

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	if *migrate || *seedData {
		if err := migration.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		if *seedData {
			if err := seed.Run(db, *ingredientsPath, *tagsPath); err != nil {
				log.Fatalf("Seeding failed: %v", err)
			}
		}
		return
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeRevokedTokens(ctx, db)

	go func() {
		if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// purgeRevokedTokens drops revocation entries whose token would have expired
// anyway.
func purgeRevokedTokens(ctx context.Context, db *gorm.DB) {
	repo := jwt.NewJWTRepository(db)
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		if err := repo.PurgeExpired(ctx, time.Now()); err != nil && ctx.Err() == nil {
			logging.Warn().Err(err).Msg("failed to purge revoked tokens")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
