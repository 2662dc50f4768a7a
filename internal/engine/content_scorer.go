package engine

import (
	"context"
	"math"

	"github.com/temcen/pirex/pkg/models"
)

// ContentScorer scores candidates against the profile's learned attribute
// preferences. A user with no rating history at all bypasses the whole
// computation in favor of a popularity fallback (content-cold).
type ContentScorer struct{}

func NewContentScorer() *ContentScorer {
	return &ContentScorer{}
}

func (s *ContentScorer) Score(ctx context.Context, profile models.UserProfile, candidates []models.Movie) []models.ScoreRecord {
	if profile.RatingCount == 0 {
		return popularityFallback(candidates, "content-cold")
	}

	records := make([]models.ScoreRecord, 0, len(candidates))
	for i := range candidates {
		m := candidates[i]
		raw := 0.4*genreScore(profile.Preferences, m) +
			0.2*directorScore(profile.Preferences, m) +
			0.2*actorScore(profile.Preferences, m) +
			0.1*runtimeScore(profile.Preferences, m) +
			0.1*yearScore(profile.Preferences, m)

		records = append(records, models.ScoreRecord{
			ItemID: m.ID,
			Item:   &candidates[i],
			Score:  normalize(raw * 10),
			Source: "content",
		})
	}
	return records
}

func adjustedWeight(w float64) float64 {
	return (w + 1) / 2
}

func genreScore(prefs models.Preferences, m models.Movie) float64 {
	if len(prefs.Genres) == 0 {
		return 0.5
	}
	var sum float64
	var n int
	for _, g := range m.Genres {
		if w, ok := prefs.Genres[normalizeAttr(g)]; ok {
			sum += adjustedWeight(w)
			n++
		}
	}
	if n == 0 {
		return 0.45
	}
	return sum / float64(n)
}

func directorScore(prefs models.Preferences, m models.Movie) float64 {
	if len(prefs.Directors) == 0 {
		return 0.5
	}
	found := false
	max := 0.0
	for _, d := range m.Directors {
		if w, ok := prefs.Directors[normalizeAttr(d)]; ok {
			adj := adjustedWeight(w)
			if !found || adj > max {
				max = adj
			}
			found = true
		}
	}
	if !found {
		return 0.45
	}
	return max
}

func actorScore(prefs models.Preferences, m models.Movie) float64 {
	if len(prefs.Actors) == 0 {
		return 0.5
	}
	var sum float64
	var n int
	for _, a := range m.Actors {
		if w, ok := prefs.Actors[normalizeAttr(a)]; ok {
			sum += adjustedWeight(w)
			n++
		}
	}
	if n == 0 {
		return 0.45
	}
	return sum / float64(n)
}

// defaultRuntimePref and defaultYearPrefMin mark the degenerate windows the
// profile builder emits when no positively-signaled rating carried
// runtime/year metadata. Content scoring treats those, and an unset
// (zero-value) window, as "no learned preference" and returns the neutral
// 0.5, same as an empty genre/director/actor map.
var defaultRuntimePref = models.RuntimePref{Min: 70, Max: 190, Ideal: 120}

// defaultYearPrefMin is the profile builder's default YearPref.Min (1980);
// the default YearPref.Max tracks the current year, so only Min is stable
// enough to use as the "no learned preference" signal.
const defaultYearPrefMin = 1980

func runtimeScore(prefs models.Preferences, m models.Movie) float64 {
	if prefs.RuntimePref == defaultRuntimePref || prefs.RuntimePref == (models.RuntimePref{}) {
		return 0.5
	}
	rt := prefs.RuntimePref
	if m.Runtime < rt.Min || m.Runtime > rt.Max {
		return 0.2
	}
	maxSideDistance := math.Max(float64(rt.Ideal-rt.Min), float64(rt.Max-rt.Ideal))
	if maxSideDistance <= 0 {
		return 1
	}
	return 1 - math.Abs(float64(m.Runtime-rt.Ideal))/maxSideDistance
}

func yearScore(prefs models.Preferences, m models.Movie) float64 {
	if prefs.YearPref.Min == defaultYearPrefMin || prefs.YearPref == (models.YearPref{}) {
		return 0.5
	}
	yp := prefs.YearPref
	if m.ReleaseYear < yp.Min || m.ReleaseYear > yp.Max {
		return 0.3
	}
	return 1
}

// popularityFallback scores every candidate by item-intrinsic popularity
// only, used by every scorer's cold-start path.
func popularityFallback(candidates []models.Movie, source string) []models.ScoreRecord {
	records := make([]models.ScoreRecord, 0, len(candidates))
	for i := range candidates {
		m := candidates[i]
		records = append(records, models.ScoreRecord{
			ItemID: m.ID,
			Item:   &candidates[i],
			Score:  popularityScore(m),
			Source: source,
		})
	}
	return records
}
