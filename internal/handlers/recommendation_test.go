package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/pirex/internal/config"
	"github.com/temcen/pirex/internal/engine"
	"github.com/temcen/pirex/pkg/models"
)

type stubTracking struct{}

func (stubTracking) GetUserActions(ctx context.Context, userID string, limit int, actionType string) ([]models.Action, error) {
	return nil, nil
}
func (stubTracking) GetRecentActions(ctx context.Context, userID string) ([]models.Action, error) {
	return nil, nil
}
func (stubTracking) FindSimilarUsers(ctx context.Context, userID string) ([]engine.SimilarUser, error) {
	return nil, nil
}
func (stubTracking) GetItemRatings(ctx context.Context, itemID int, userIDs []string) (map[string]float64, error) {
	return nil, nil
}

type stubCatalog struct{ movies []models.Movie }

func (s stubCatalog) FetchCandidates(ctx context.Context) ([]models.Movie, error) {
	return s.movies, nil
}

type stubCache struct{}

func (stubCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (stubCache) SetEX(ctx context.Context, key string, ttl time.Duration, value []byte) error {
	return nil
}

type stubMatrix struct{}

func (stubMatrix) Predict(ctx context.Context, userID string, itemIDs []int) ([]engine.Prediction, error) {
	return nil, nil
}

func newTestOrchestrator(movies []models.Movie) *engine.Orchestrator {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return engine.NewOrchestrator(stubTracking{}, stubMatrix{}, stubCatalog{movies: movies}, stubCache{}, nil, logger, engine.OrchestratorConfig{
		MaturityTierLow:     5,
		MaturityTierMid:     20,
		CacheTTL:            time.Minute,
		OrchestratorTimeout: time.Second,
	})
}

func TestRecommendationHandler_Get_MissingUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	h := NewRecommendationHandler(newTestOrchestrator(nil), config.EngineConfig{DefaultCount: 10}, logger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/", nil)

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendationHandler_Get_ReturnsRanked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	movies := []models.Movie{
		{ID: 1, Title: "A", Popularity: 0.9},
		{ID: 2, Title: "B", Popularity: 0.2},
	}
	h := NewRecommendationHandler(newTestOrchestrator(movies), config.EngineConfig{DefaultCount: 10}, logger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/user-1?count=5", nil)
	c.Params = gin.Params{{Key: "userId", Value: "user-1"}}

	h.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
}
