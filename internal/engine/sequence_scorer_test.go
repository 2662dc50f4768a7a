package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/pirex/pkg/models"
)

func TestSequenceScorer_ColdStartFallsBackToPopularity(t *testing.T) {
	scorer := NewSequenceScorer()
	candidates := []models.Movie{{ID: 1, Popularity: 50, AverageRating: 7, RatingCount: 200}}

	records := scorer.Score(context.Background(), models.UserProfile{RecentActions: nil}, candidates)

	require.Len(t, records, 1)
	assert.Equal(t, "sequence-cold", records[0].Source)
	assert.Equal(t, popularityScore(candidates[0]), records[0].Score)
}

func TestSequenceScorer_GenreSignalIsCaseFolded(t *testing.T) {
	scorer := NewSequenceScorer()
	scorer.now = func() time.Time { return time.Unix(0, 0).Add(time.Hour) }

	profile := models.UserProfile{
		RecentActions: []models.Action{{
			ActionType: models.ActionRate,
			Value:      10,
			Timestamp:  time.Unix(0, 0),
			Metadata:   &models.ActionMetadata{Genres: []string{"Action"}},
		}},
	}
	candidates := []models.Movie{{ID: 1, Genres: []string{"action"}}}

	records := scorer.Score(context.Background(), profile, candidates)
	require.Len(t, records, 1)
	assert.Greater(t, records[0].Score, 0.0)
}
