package engine

import (
	"context"

	"github.com/temcen/pirex/pkg/models"
)

// RuleScorer applies deterministic, explainable preference matching rather
// than a learned model: each rule contributes a fixed share of the score
// when it holds, with shares summing to 1 so the result stays in [0,1]
// without any further normalization pass.
type RuleScorer struct{}

func NewRuleScorer() *RuleScorer {
	return &RuleScorer{}
}

const (
	ruleWeightRating  = 0.30
	ruleWeightRuntime = 0.25
	ruleWeightYear    = 0.20
	ruleWeightGenre   = 0.25
)

func (s *RuleScorer) Score(ctx context.Context, profile models.UserProfile, candidates []models.Movie) []models.ScoreRecord {
	if profile.RatingCount == 0 {
		return popularityFallback(candidates, "rule-cold")
	}

	records := make([]models.ScoreRecord, 0, len(candidates))
	for i := range candidates {
		m := candidates[i]
		var score float64

		if m.AverageRating >= profile.Preferences.RatingThreshold {
			score += ruleWeightRating
		}
		if m.Runtime >= profile.Preferences.RuntimePref.Min && m.Runtime <= profile.Preferences.RuntimePref.Max {
			score += ruleWeightRuntime
		}
		if m.ReleaseYear >= profile.Preferences.YearPref.Min && m.ReleaseYear <= profile.Preferences.YearPref.Max {
			score += ruleWeightYear
		}
		if matchesPreferredGenre(profile.Preferences.Genres, m.Genres) {
			score += ruleWeightGenre
		}

		records = append(records, models.ScoreRecord{
			ItemID: m.ID,
			Item:   &candidates[i],
			Score:  score,
			Source: "rule",
		})
	}
	return records
}

// matchesPreferredGenre reports whether any of the candidate's genres
// carries a positive learned preference signal.
func matchesPreferredGenre(prefs map[string]float64, genres []string) bool {
	for _, g := range genres {
		if w, ok := prefs[normalizeAttr(g)]; ok && w > 0 {
			return true
		}
	}
	return false
}
