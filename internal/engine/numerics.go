package engine

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/temcen/pirex/pkg/models"
)

// normalize maps a raw 1-10 strength signal onto 0-1.
func normalize(x float64) float64 {
	if x < 1 {
		return 0
	}
	if x > 10 {
		return 1
	}
	return (x - 1) / 9
}

// normalizeRatingSignal maps a raw 0-10 rating onto -1..1, centered so that
// a 5.5 rating is neutral.
func normalizeRatingSignal(v float64) float64 {
	signal := (v - 5.5) / 4.5
	return clamp(signal, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// popularityScore is an item-intrinsic fallback signal, independent of user
// identity, used by every scorer's cold-start path.
func popularityScore(m models.Movie) float64 {
	ratingComponent := m.AverageRating / 10
	popularityComponent := m.Popularity / 100
	countComponent := math.Log(float64(m.RatingCount)+1) / math.Log(10000)
	return 0.4*popularityComponent + 0.4*ratingComponent + 0.2*countComponent
}

// ratingVariance is the population variance of a set of rating values; 0
// for fewer than two samples.
func ratingVariance(ratings []float64) float64 {
	if len(ratings) < 2 {
		return 0
	}
	mean := stat.Mean(ratings, nil)
	sumSq := 0.0
	for _, r := range ratings {
		d := r - mean
		sumSq += d * d
	}
	return sumSq / float64(len(ratings))
}

// groupBySessions partitions a chronologically-unsorted action slice into
// sessions: maximal runs with no intra-gap longer than timeout. Sessions
// are emitted in chronological order, each session oldest-first.
func groupBySessions(actions []models.Action, timeout time.Duration) [][]models.Action {
	if len(actions) == 0 {
		return nil
	}

	sorted := make([]models.Action, len(actions))
	copy(sorted, actions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var sessions [][]models.Action
	current := []models.Action{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Timestamp.Sub(sorted[i-1].Timestamp)
		if gap > timeout {
			sessions = append(sessions, current)
			current = []models.Action{sorted[i]}
			continue
		}
		current = append(current, sorted[i])
	}
	sessions = append(sessions, current)
	return sessions
}

// recencyScore decays from 1 toward 0 as time since the most recent action
// grows, halving every 24 hours. 0 if there are no actions.
func recencyScore(actions []models.Action, now time.Time) float64 {
	if len(actions) == 0 {
		return 0
	}
	mostRecent := actions[0].Timestamp
	for _, a := range actions[1:] {
		if a.Timestamp.After(mostRecent) {
			mostRecent = a.Timestamp
		}
	}
	hoursSince := now.Sub(mostRecent).Hours()
	score := math.Exp(-math.Ln2 * hoursSince / 24)
	return clamp(score, 0, 1)
}

// weightedMean is a small gonum-backed helper used by the profile builder
// (runtime/year ideals) to fold a (values, weights) pair into a single
// number without hand-rolled accumulation loops.
func weightedMean(values, weights []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	weightSum := floats.Sum(weights)
	if weightSum == 0 {
		return 0
	}
	dot := floats.Dot(values, weights)
	return dot / weightSum
}
