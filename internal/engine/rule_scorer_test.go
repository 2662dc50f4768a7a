package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/pirex/pkg/models"
)

func TestRuleScorer_ColdStartFallsBackToPopularity(t *testing.T) {
	scorer := NewRuleScorer()
	candidates := []models.Movie{{ID: 1, Popularity: 50, AverageRating: 7, RatingCount: 200}}

	records := scorer.Score(context.Background(), models.UserProfile{RatingCount: 0}, candidates)

	require.Len(t, records, 1)
	assert.Equal(t, "rule-cold", records[0].Source)
	assert.Equal(t, popularityScore(candidates[0]), records[0].Score)
}

func TestRuleScorer_AllRulesMatch(t *testing.T) {
	scorer := NewRuleScorer()
	profile := models.UserProfile{
		RatingCount: 5,
		Preferences: models.Preferences{
			Genres:          map[string]float64{"drama": 1},
			RatingThreshold: 6.5,
			RuntimePref:     models.RuntimePref{Min: 90, Max: 150, Ideal: 120},
			YearPref:        models.YearPref{Min: 2000, Max: 2020},
		},
	}
	candidates := []models.Movie{{
		ID: 1, Genres: []string{"drama"}, AverageRating: 8, Runtime: 120, ReleaseYear: 2010,
	}}

	records := scorer.Score(context.Background(), profile, candidates)
	require.Len(t, records, 1)
	assert.InDelta(t, ruleWeightRating+ruleWeightRuntime+ruleWeightYear+ruleWeightGenre, records[0].Score, 1e-9)
}

func TestRuleScorer_GenreMatchIsCaseFolded(t *testing.T) {
	assert.True(t, matchesPreferredGenre(map[string]float64{"drama": 0.5}, []string{"Drama"}))
	assert.False(t, matchesPreferredGenre(map[string]float64{"drama": -0.5}, []string{"Drama"}))
}

func TestRuleScorer_NoRulesMatch(t *testing.T) {
	scorer := NewRuleScorer()
	profile := models.UserProfile{
		RatingCount: 5,
		Preferences: models.Preferences{
			Genres:          map[string]float64{"drama": 1},
			RatingThreshold: 9.5,
			RuntimePref:     models.RuntimePref{Min: 90, Max: 100, Ideal: 95},
			YearPref:        models.YearPref{Min: 2018, Max: 2020},
		},
	}
	candidates := []models.Movie{{
		ID: 1, Genres: []string{"horror"}, AverageRating: 2, Runtime: 200, ReleaseYear: 1990,
	}}

	records := scorer.Score(context.Background(), profile, candidates)
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].Score)
}
