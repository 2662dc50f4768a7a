package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/pirex/internal/config"
	"github.com/temcen/pirex/internal/engine"
	"github.com/temcen/pirex/pkg/models"
)

// RecommendationHandler wraps engine.Orchestrator. Unlike the teacher's
// handler, the user ID path parameter is a plain string: this module's
// identity space is whatever the upstream auth system issues, not a
// uuid.UUID the catalog mints.
type RecommendationHandler struct {
	orchestrator *engine.Orchestrator
	defaults     config.EngineConfig
	logger       *logrus.Logger
}

func NewRecommendationHandler(orchestrator *engine.Orchestrator, defaults config.EngineConfig, logger *logrus.Logger) *RecommendationHandler {
	return &RecommendationHandler{orchestrator: orchestrator, defaults: defaults, logger: logger}
}

// Get handles GET /api/v1/recommendations/:userId.
func (h *RecommendationHandler) Get(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_USER_ID",
				"message": "userId path parameter is required",
			},
		})
		return
	}

	opts := h.parseOptions(c)

	recs, err := h.orchestrator.Recommend(c.Request.Context(), userID, opts)
	if err != nil {
		h.respondEngineError(c, userID, err)
		return
	}

	c.JSON(http.StatusOK, models.RecommendationResponse{
		UserID:          userID,
		Recommendations: recs,
		GeneratedAt:     time.Now().UTC(),
		CacheHit:        false,
	})
}

func (h *RecommendationHandler) parseOptions(c *gin.Context) models.RecommendationOptions {
	opts := models.RecommendationOptions{
		Count:               h.defaults.DefaultCount,
		MinScore:            h.defaults.DefaultMinScore,
		DiversityFactor:     h.defaults.DefaultDiversity,
		ExcludeRated:        true,
		ExcludeWatchlist:    true,
		IncludeExplanations: false,
	}

	if countStr := c.Query("count"); countStr != "" {
		if count, err := strconv.Atoi(countStr); err == nil && count > 0 && count <= 100 {
			opts.Count = count
		}
	}

	if minScoreStr := c.Query("minScore"); minScoreStr != "" {
		if minScore, err := strconv.ParseFloat(minScoreStr, 64); err == nil && minScore >= 0 && minScore <= 1 {
			opts.MinScore = minScore
		}
	}

	if diversityStr := c.Query("diversityFactor"); diversityStr != "" {
		if diversity, err := strconv.ParseFloat(diversityStr, 64); err == nil && diversity >= 0 && diversity <= 1 {
			opts.DiversityFactor = diversity
		}
	}

	if excludeRated := c.Query("excludeRated"); excludeRated != "" {
		opts.ExcludeRated = excludeRated == "true"
	}

	if excludeWatchlist := c.Query("excludeWatchlist"); excludeWatchlist != "" {
		opts.ExcludeWatchlist = excludeWatchlist == "true"
	}

	opts.IncludeExplanations = c.Query("explain") == "true"

	return opts
}

func (h *RecommendationHandler) respondEngineError(c *gin.Context, userID string, err error) {
	switch {
	case errors.Is(err, engine.ErrEngineTimeout):
		h.logger.WithField("user_id", userID).Warn("recommendation request timed out")
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": gin.H{
				"code":    "ENGINE_TIMEOUT",
				"message": "Recommendation generation timed out",
			},
		})
	default:
		h.logger.WithError(err).WithField("user_id", userID).Error("failed to generate recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "ENGINE_INTERNAL_ERROR",
				"message": "Failed to generate recommendations",
			},
		})
	}
}
