package engine

import (
	"context"
	"math"
	"time"

	"github.com/temcen/pirex/pkg/models"
)

// SequenceScorer scores candidates by affinity with the session signal
// built from the user's most recent actions, weighted toward both recency
// and action strength.
type SequenceScorer struct {
	now func() time.Time
}

func NewSequenceScorer() *SequenceScorer {
	return &SequenceScorer{now: time.Now}
}

type sessionSignals struct {
	genres      map[string]float64
	directors   map[string]float64
	actors      map[string]float64
	totalWeight float64
}

func actionTypeBoost(actionType models.ActionType, value float64) float64 {
	switch actionType {
	case models.ActionWatchTime:
		return math.Min(1.2, value/60)
	case models.ActionRate:
		return value / 10
	case models.ActionAddWatchlist:
		return 0.7
	case models.ActionView:
		return 0.5
	default:
		return 0.4
	}
}

func (s *SequenceScorer) buildSignals(recentActions []models.Action, now time.Time) sessionSignals {
	signals := sessionSignals{
		genres:    map[string]float64{},
		directors: map[string]float64{},
		actors:    map[string]float64{},
	}

	for i, a := range recentActions {
		hoursSince := now.Sub(a.Timestamp).Hours()
		recencyWeight := math.Exp(-math.Ln2*hoursSince/24) * (1 - math.Min(0.3, float64(i)/40))
		actionWeight := recencyWeight * actionTypeBoost(a.ActionType, a.Value)

		signals.totalWeight += actionWeight
		if a.Metadata == nil {
			continue
		}
		for _, g := range a.Metadata.Genres {
			signals.genres[normalizeAttr(g)] += actionWeight
		}
		for _, d := range a.Metadata.Directors {
			signals.directors[normalizeAttr(d)] += actionWeight
		}
		for _, act := range a.Metadata.Actors {
			signals.actors[normalizeAttr(act)] += actionWeight
		}
	}
	return signals
}

func (s *SequenceScorer) Score(ctx context.Context, profile models.UserProfile, candidates []models.Movie) []models.ScoreRecord {
	if len(profile.RecentActions) == 0 {
		return popularityFallback(candidates, "sequence-cold")
	}

	signals := s.buildSignals(profile.RecentActions, s.now())

	records := make([]models.ScoreRecord, 0, len(candidates))
	for i := range candidates {
		m := candidates[i]
		if signals.totalWeight == 0 {
			records = append(records, models.ScoreRecord{ItemID: m.ID, Item: &candidates[i], Score: 0.4, Source: "sequence"})
			continue
		}

		raw := 0.5*signalMeanScore(signals.genres, signals.totalWeight, m.Genres) +
			0.3*signalMaxScore(signals.directors, signals.totalWeight, m.Directors) +
			0.2*signalMeanScore(signals.actors, signals.totalWeight, m.Actors)

		records = append(records, models.ScoreRecord{
			ItemID: m.ID,
			Item:   &candidates[i],
			Score:  normalize(raw * 10),
			Source: "sequence",
		})
	}
	return records
}

// signalMeanScore / signalMaxScore fold an accumulated weight map against a
// candidate's attribute list into a [0,1] strength, mirroring the content
// scorer's genre/actor mean and director max reductions, but normalized by
// total session weight rather than a [-1,1] preference signal.
func signalMeanScore(signal map[string]float64, totalWeight float64, attrs []string) float64 {
	if len(signal) == 0 {
		return 0.5
	}
	var sum float64
	var n int
	for _, a := range attrs {
		if w, ok := signal[normalizeAttr(a)]; ok {
			sum += w / totalWeight
			n++
		}
	}
	if n == 0 {
		return 0.45
	}
	return sum / float64(n)
}

func signalMaxScore(signal map[string]float64, totalWeight float64, attrs []string) float64 {
	if len(signal) == 0 {
		return 0.5
	}
	found := false
	max := 0.0
	for _, a := range attrs {
		if w, ok := signal[normalizeAttr(a)]; ok {
			frac := w / totalWeight
			if !found || frac > max {
				max = frac
			}
			found = true
		}
	}
	if !found {
		return 0.45
	}
	return max
}
