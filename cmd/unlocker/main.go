package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"userhub/internal/account"
	"userhub/internal/config"
	"userhub/internal/database"
	"userhub/internal/pkg/logger"
	"userhub/internal/pkg/nickname"
	"userhub/internal/pkg/security"
	"userhub/internal/repository"
)

const batchSize = 100

// unlocker is a one-shot operational tool: it finds locked accounts and
// clears their lockout state.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, cleanup := logger.New(cfg.LogLevel, cfg.LogJSON)
	defer cleanup()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}

	svc := account.NewService(
		repository.NewUserRepository(db),
		database.NewExecutor(db, log),
		security.NewBcryptHasher(),
		security.NewUUIDTokenGenerator(),
		nickname.NewGenerator(),
		log,
		cfg.MaxLoginAttempts,
	)

	ctx := context.Background()
	filter := map[string]any{"is_locked": true}

	unlocked := 0
	for {
		locked, err := svc.Search(ctx, nil, filter, 0, batchSize)
		if err != nil {
			log.Fatal("search failed", zap.Error(err))
		}
		if len(locked) == 0 {
			break
		}
		for _, u := range locked {
			if err := svc.UnlockAccount(ctx, u.ID); err != nil {
				log.Fatal("unlock failed", zap.String("user_id", u.ID), zap.Error(err))
			}
			log.Info("account unlocked", zap.String("email", u.Email))
			unlocked++
		}
	}

	log.Info("unlock pass completed", zap.Int("unlocked", unlocked))
}
