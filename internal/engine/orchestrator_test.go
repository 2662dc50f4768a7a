package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/pirex/pkg/models"
)

// fakeTracking, fakeCatalog, fakeCache, fakeMatrix are minimal in-memory
// stand-ins for the orchestrator's external dependencies, grounded on the
// teacher's own mock-based service tests (table-driven fakes rather than
// a mocking library, since these interfaces are small and local).
type fakeTracking struct {
	actions []models.Action
	similar []SimilarUser
	ratings map[string]float64
}

func (f *fakeTracking) GetUserActions(ctx context.Context, userID string, limit int, actionType string) ([]models.Action, error) {
	var out []models.Action
	for _, a := range f.actions {
		if actionType == "" || string(a.ActionType) == actionType {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeTracking) GetRecentActions(ctx context.Context, userID string) ([]models.Action, error) {
	return f.actions, nil
}

func (f *fakeTracking) FindSimilarUsers(ctx context.Context, userID string) ([]SimilarUser, error) {
	return f.similar, nil
}

func (f *fakeTracking) GetItemRatings(ctx context.Context, itemID int, userIDs []string) (map[string]float64, error) {
	return f.ratings, nil
}

type fakeCatalog struct {
	movies []models.Movie
}

func (f *fakeCatalog) FetchCandidates(ctx context.Context) ([]models.Movie, error) {
	return f.movies, nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.store[key]
	return v, ok, nil
}

func (f *fakeCache) SetEX(ctx context.Context, key string, ttl time.Duration, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[key] = value
	return nil
}

type fakeMatrix struct{}

func (fakeMatrix) Predict(ctx context.Context, userID string, itemIDs []int) ([]Prediction, error) {
	return nil, nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func TestOrchestrator_Recommend_EmptyCatalogYieldsEmptyList(t *testing.T) {
	o := NewOrchestrator(&fakeTracking{}, fakeMatrix{}, &fakeCatalog{}, newFakeCache(), nil, testLogger(), OrchestratorConfig{
		MaturityTierLow:     5,
		MaturityTierMid:     20,
		CacheTTL:            time.Minute,
		OrchestratorTimeout: time.Second,
	})

	recs, err := o.Recommend(context.Background(), "user-1", models.RecommendationOptions{Count: 10})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestOrchestrator_Recommend_RanksAndCutsOff(t *testing.T) {
	catalog := &fakeCatalog{movies: []models.Movie{
		{ID: 1, Title: "A", Genres: []string{"drama"}, Popularity: 0.9, AverageRating: 8.5},
		{ID: 2, Title: "B", Genres: []string{"comedy"}, Popularity: 0.1, AverageRating: 3.0},
	}}
	o := NewOrchestrator(&fakeTracking{}, fakeMatrix{}, catalog, newFakeCache(), nil, testLogger(), OrchestratorConfig{
		MaturityTierLow:     5,
		MaturityTierMid:     20,
		CacheTTL:            time.Minute,
		OrchestratorTimeout: time.Second,
	})

	recs, err := o.Recommend(context.Background(), "user-1", models.RecommendationOptions{Count: 10, MinScore: 0})
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
}

func TestOrchestrator_Recommend_CachesResult(t *testing.T) {
	catalog := &fakeCatalog{movies: []models.Movie{
		{ID: 1, Title: "A", Genres: []string{"drama"}, Popularity: 0.5},
	}}
	cache := newFakeCache()
	o := NewOrchestrator(&fakeTracking{}, fakeMatrix{}, catalog, cache, nil, testLogger(), OrchestratorConfig{
		MaturityTierLow:     5,
		MaturityTierMid:     20,
		CacheTTL:            time.Minute,
		OrchestratorTimeout: time.Second,
	})

	opts := models.RecommendationOptions{Count: 10}
	_, err := o.Recommend(context.Background(), "user-1", opts)
	require.NoError(t, err)

	key := cacheKey("user-1", opts)
	_, hit, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestOrchestrator_Recommend_ExcludesRatedItems(t *testing.T) {
	tracking := &fakeTracking{actions: []models.Action{
		{UserID: "user-1", ItemID: 1, ActionType: models.ActionRate, Value: 9},
	}}
	catalog := &fakeCatalog{movies: []models.Movie{
		{ID: 1, Title: "A"},
		{ID: 2, Title: "B"},
	}}
	o := NewOrchestrator(tracking, fakeMatrix{}, catalog, newFakeCache(), nil, testLogger(), OrchestratorConfig{
		MaturityTierLow:     5,
		MaturityTierMid:     20,
		CacheTTL:            time.Minute,
		OrchestratorTimeout: time.Second,
	})

	recs, err := o.Recommend(context.Background(), "user-1", models.RecommendationOptions{Count: 10, ExcludeRated: true, MinScore: 0})
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotEqual(t, 1, r.ItemID)
	}
}
