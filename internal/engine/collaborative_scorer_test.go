package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/pirex/pkg/models"
)

type noopTracking struct {
	similar []SimilarUser
	ratings map[string]float64
}

func (n noopTracking) GetUserActions(ctx context.Context, userID string, limit int, actionType string) ([]models.Action, error) {
	return nil, nil
}
func (n noopTracking) GetRecentActions(ctx context.Context, userID string) ([]models.Action, error) {
	return nil, nil
}
func (n noopTracking) FindSimilarUsers(ctx context.Context, userID string) ([]SimilarUser, error) {
	return n.similar, nil
}
func (n noopTracking) GetItemRatings(ctx context.Context, itemID int, userIDs []string) (map[string]float64, error) {
	return n.ratings, nil
}

type noopMatrix struct {
	predictions []Prediction
}

func (m noopMatrix) Predict(ctx context.Context, userID string, itemIDs []int) ([]Prediction, error) {
	return m.predictions, nil
}

func TestCollaborativeScorer_PrefersMatrixPrediction(t *testing.T) {
	scorer := NewCollaborativeScorer(noopMatrix{predictions: []Prediction{{ItemID: 1, Score: 8}}}, noopTracking{}, testLogger())
	candidates := []models.Movie{{ID: 1}}

	records := scorer.Score(context.Background(), "user-1", candidates)

	require.Len(t, records, 1)
	assert.Equal(t, "collaborative-matrix", records[0].Source)
}

func TestCollaborativeScorer_FallsBackToPopularityWithNoNeighbors(t *testing.T) {
	scorer := NewCollaborativeScorer(noopMatrix{}, noopTracking{}, testLogger())
	candidates := []models.Movie{{ID: 1, Popularity: 60, AverageRating: 7, RatingCount: 100}}

	records := scorer.Score(context.Background(), "user-1", candidates)

	require.Len(t, records, 1)
	assert.Equal(t, "collaborative-cold", records[0].Source)
	assert.Equal(t, popularityScore(candidates[0]), records[0].Score)
}

func TestCollaborativeScorer_UserBasedCFWeightsBySimilarity(t *testing.T) {
	tracking := noopTracking{
		similar: []SimilarUser{{UserID: "neighbor-1", Similarity: 1.0}},
		ratings: map[string]float64{"neighbor-1": 10},
	}
	scorer := NewCollaborativeScorer(noopMatrix{}, tracking, testLogger())
	candidates := []models.Movie{{ID: 1}}

	records := scorer.Score(context.Background(), "user-1", candidates)

	require.Len(t, records, 1)
	assert.Equal(t, "collaborative-user", records[0].Source)
	assert.Equal(t, normalize(10), records[0].Score)
}

// Invariant #13: cold-start parity — with no rating/session history, all
// four strategies fall back to the same item-intrinsic popularity score for
// the same candidate.
func TestColdStartParity_Invariant13(t *testing.T) {
	candidate := models.Movie{ID: 1, Popularity: 42, AverageRating: 6.5, RatingCount: 900}
	profile := models.UserProfile{RatingCount: 0, RecentActions: nil}

	content := NewContentScorer().Score(context.Background(), profile, []models.Movie{candidate})
	rule := NewRuleScorer().Score(context.Background(), profile, []models.Movie{candidate})
	sequence := NewSequenceScorer().Score(context.Background(), profile, []models.Movie{candidate})
	collaborative := NewCollaborativeScorer(noopMatrix{}, noopTracking{}, testLogger()).Score(context.Background(), "user-1", []models.Movie{candidate})

	want := popularityScore(candidate)
	require.Len(t, content, 1)
	require.Len(t, rule, 1)
	require.Len(t, sequence, 1)
	require.Len(t, collaborative, 1)
	assert.Equal(t, want, content[0].Score)
	assert.Equal(t, want, rule[0].Score)
	assert.Equal(t, want, sequence[0].Score)
	assert.Equal(t, want, collaborative[0].Score)
}
