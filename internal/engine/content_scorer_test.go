package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/pirex/pkg/models"
)

func TestContentScorer_ColdStartFallsBackToPopularity(t *testing.T) {
	scorer := NewContentScorer()
	candidates := []models.Movie{{ID: 1, Popularity: 80, AverageRating: 9, RatingCount: 500}}

	records := scorer.Score(context.Background(), models.UserProfile{RatingCount: 0}, candidates)

	require.Len(t, records, 1)
	assert.Equal(t, "content-cold", records[0].Source)
	assert.Equal(t, popularityScore(candidates[0]), records[0].Score)
}

func TestContentScorer_GenreKeyIsCaseFolded(t *testing.T) {
	scorer := NewContentScorer()
	profile := models.UserProfile{
		RatingCount: 3,
		Preferences: models.Preferences{
			Genres:    map[string]float64{"action": 1},
			Directors: map[string]float64{},
			Actors:    map[string]float64{},
		},
	}
	candidates := []models.Movie{{ID: 1, Genres: []string{"Action"}}}

	records := scorer.Score(context.Background(), profile, candidates)

	require.Len(t, records, 1)
	// With director/actor/runtime/year unscored (neutral 0.5 each) and a
	// case-folded genre match (adjustedWeight 1): raw = 0.4*1 + 0.2*0.5 +
	// 0.2*0.5 + 0.1*0.5 + 0.1*0.5 = 0.7. A case-sensitive miss would score
	// lower (genre sub-score 0.45 instead of 1, raw = 0.58).
	raw := 0.4*1 + 0.2*0.5 + 0.2*0.5 + 0.1*0.5 + 0.1*0.5
	assert.InDelta(t, normalize(raw*10), records[0].Score, 1e-9)
}

func TestDirectorScore_CaseFoldedLookup(t *testing.T) {
	prefs := models.Preferences{Directors: map[string]float64{"christopher nolan": 1}}
	m := models.Movie{Directors: []string{"Christopher Nolan"}}
	assert.InDelta(t, 1.0, directorScore(prefs, m), 1e-9)
}

func TestActorScore_CaseFoldedLookup(t *testing.T) {
	prefs := models.Preferences{Actors: map[string]float64{"tom hanks": 1}}
	m := models.Movie{Actors: []string{"Tom Hanks"}}
	assert.InDelta(t, 1.0, actorScore(prefs, m), 1e-9)
}
