package services

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/pirex/internal/config"
	"github.com/temcen/pirex/internal/database"
)

// Services is the ambient DI container: auth, health, and rate limiting.
// Recommendation generation itself lives in internal/engine.Orchestrator,
// wired directly in internal/app rather than through this container, since
// it depends on internal/tracking, internal/catalog, and
// internal/matrixfactorization rather than *database.Database alone.
type Services struct {
	Auth      *AuthService
	Health    *HealthService
	RateLimit *RateLimitService
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	authService := NewAuthService(cfg, logger, db.Redis)
	healthService := NewHealthService(cfg, logger, db)
	rateLimitService := NewRateLimitService(cfg, logger, db.Redis)

	return &Services{
		Auth:      authService,
		Health:    healthService,
		RateLimit: rateLimitService,
	}, nil
}
