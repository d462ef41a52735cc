package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"userhub/internal/account"
	"userhub/internal/config"
	"userhub/internal/database"
	"userhub/internal/domain"
	"userhub/internal/pkg/logger"
	"userhub/internal/pkg/mailer"
	"userhub/internal/pkg/nickname"
	"userhub/internal/pkg/security"
	"userhub/internal/repository"
)

// seed migrates the schema and registers the bootstrap user. Run against
// an empty database the user comes out as a verified ADMIN.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, cleanup := logger.New(cfg.LogLevel, cfg.LogJSON)
	defer cleanup()

	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}

	log.Info("running AutoMigrate")
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		log.Fatal("AutoMigrate failed", zap.Error(err))
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

	existing, err := svc.GetByEmail(ctx, cfg.SeedAdminEmail)
	if err != nil {
		log.Fatal("lookup failed", zap.Error(err))
	}
	if existing != nil {
		log.Info("seed user already present", zap.String("email", existing.Email))
		return
	}

	user, err := svc.Register(ctx, map[string]any{
		"email":    cfg.SeedAdminEmail,
		"password": cfg.SeedAdminPassword,
	}, mailer.NewConsole(log))
	if err != nil {
		log.Fatal("seed register failed", zap.Error(err))
	}

	log.Info("seed user created",
		zap.String("email", user.Email),
		zap.String("nickname", user.Nickname),
		zap.String("role", string(user.Role)),
		zap.Bool("email_verified", user.EmailVerified))
}
