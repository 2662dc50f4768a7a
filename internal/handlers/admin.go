package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/pirex/internal/catalog"
	"github.com/temcen/pirex/internal/config"
)

// AdminHandler exposes the engine's tunable configuration, grounded on the
// teacher's GetAlgorithmConfig (map internal config to an API shape),
// trimmed to a read-only view: the weight policy and cold-start
// thresholds this module uses come entirely from EngineConfig at startup,
// not from a live-editable admin surface.
type AdminHandler struct {
	logger  *logrus.Logger
	config  *config.Config
	catalog *catalog.PostgresCatalog
}

func NewAdminHandler(logger *logrus.Logger, cfg *config.Config, cat *catalog.PostgresCatalog) *AdminHandler {
	return &AdminHandler{logger: logger, config: cfg, catalog: cat}
}

// EngineConfigView is the API shape for the current engine tuning, named
// to mirror spec.md's §4.1/§4.6 terms rather than the internal struct
// field names.
type EngineConfigView struct {
	SequenceWindow      int     `json:"sequenceWindow"`
	SessionTimeout      string  `json:"sessionTimeout"`
	CacheTTL            string  `json:"cacheTTL"`
	OrchestratorTimeout string  `json:"orchestratorTimeout"`
	DefaultCount        int     `json:"defaultCount"`
	DefaultMinScore     float64 `json:"defaultMinScore"`
	DefaultDiversity    float64 `json:"defaultDiversityFactor"`
	RatingThreshold     float64 `json:"ratingThreshold"`
	MaturityTierLow     int     `json:"maturityTierLow"`
	MaturityTierMid     int     `json:"maturityTierMid"`
}

// GetEngineConfig returns the engine's active tuning parameters.
func (h *AdminHandler) GetEngineConfig(c *gin.Context) {
	e := h.config.Engine
	c.JSON(http.StatusOK, EngineConfigView{
		SequenceWindow:      e.SequenceWindow,
		SessionTimeout:      e.SessionTimeout.String(),
		CacheTTL:            e.CacheTTL.String(),
		OrchestratorTimeout: e.OrchestratorTimeout.String(),
		DefaultCount:        e.DefaultCount,
		DefaultMinScore:     e.DefaultMinScore,
		DefaultDiversity:    e.DefaultDiversity,
		RatingThreshold:     e.RatingThreshold,
		MaturityTierLow:     e.MaturityTierLow,
		MaturityTierMid:     e.MaturityTierMid,
	})
}

// BrowseCatalog lists active movies narrowed by genre and release-year
// range, for admin/catalog-inspection tooling that wants a filtered slice
// rather than the full candidate set the engine scores against.
func (h *AdminHandler) BrowseCatalog(c *gin.Context) {
	genre := c.Query("genre")
	if genre == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_GENRE",
				"message": "genre query parameter is required",
			},
		})
		return
	}

	minYear, err := strconv.Atoi(c.DefaultQuery("minYear", "1900"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "INVALID_MIN_YEAR", "message": "minYear must be an integer"},
		})
		return
	}

	maxYear, err := strconv.Atoi(c.DefaultQuery("maxYear", strconv.Itoa(minYear+200)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "INVALID_MAX_YEAR", "message": "maxYear must be an integer"},
		})
		return
	}

	movies, err := h.catalog.FetchByGenreYear(c.Request.Context(), genre, minYear, maxYear)
	if err != nil {
		h.logger.WithError(err).Error("failed to browse catalog")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "CATALOG_QUERY_FAILED", "message": "Failed to query catalog"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"movies": movies, "count": len(movies)})
}
