package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/pirex/internal/catalog"
	"github.com/temcen/pirex/internal/config"
	"github.com/temcen/pirex/internal/engine"
	"github.com/temcen/pirex/internal/services"
	"github.com/temcen/pirex/internal/tracking"
)

// Handlers is the ambient HTTP handler set: health, admin config, and the
// two engine-facing endpoints (recommendations, actions). Trimmed from the
// teacher's content/interaction/user/GraphQL/metrics-dashboard surface,
// none of which this module's spec names.
type Handlers struct {
	Health         *HealthHandler
	Recommendation *RecommendationHandler
	Action         *ActionHandler
	Admin          *AdminHandler
}

func New(logger *logrus.Logger, svc *services.Services, cfg *config.Config, orchestrator *engine.Orchestrator, store *tracking.PostgresTrackingService, cat *catalog.PostgresCatalog) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(logger, svc.Health),
		Recommendation: NewRecommendationHandler(orchestrator, cfg.Engine, logger),
		Action:         NewActionHandler(store, logger),
		Admin:          NewAdminHandler(logger, cfg, cat),
	}
}
