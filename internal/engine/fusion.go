package engine

import (
	"sort"

	"github.com/temcen/pirex/pkg/models"
)

// fuse builds one HybridRecord per candidate seen by any scorer, weighting
// each strategy's contribution. A candidate missing an item reference
// (unresolved against the catalog) is skipped. Scorers are assumed not to
// emit duplicate itemIds; if one does, last write wins for that strategy's
// slot.
func fuse(content, collaborative, sequence, rule []models.ScoreRecord, weights models.Weights) map[int]*models.HybridRecord {
	records := make(map[int]*models.HybridRecord)

	ensure := func(r models.ScoreRecord) *models.HybridRecord {
		if r.Item == nil {
			return nil
		}
		hr, ok := records[r.ItemID]
		if !ok {
			hr = &models.HybridRecord{ItemID: r.ItemID, Item: r.Item, Weights: weights, Source: "hybrid"}
			records[r.ItemID] = hr
		}
		return hr
	}

	for _, r := range content {
		if hr := ensure(r); hr != nil {
			hr.ContentScore = r.Score
		}
	}
	for _, r := range collaborative {
		if hr := ensure(r); hr != nil {
			hr.CollaborativeScore = r.Score
		}
	}
	for _, r := range sequence {
		if hr := ensure(r); hr != nil {
			hr.SequenceScore = r.Score
		}
	}
	for _, r := range rule {
		if hr := ensure(r); hr != nil {
			hr.RuleScore = r.Score
		}
	}

	for _, hr := range records {
		hr.Score = hr.ContentScore*weights.Content +
			hr.CollaborativeScore*weights.Collaborative +
			hr.SequenceScore*weights.Sequence +
			hr.RuleScore*weights.Rule
	}

	return records
}

// explain assigns the fixed taxonomy of reason tags to a hybrid record
// whose (subScore, subWeight) pairs clear the documented thresholds.
func explain(hr *models.HybridRecord, weights models.Weights) []models.ExplanationReason {
	var reasons []models.ExplanationReason
	if hr.ContentScore > 0.7 && weights.Content > 0.2 {
		reasons = append(reasons, models.ReasonStrongContent)
	}
	if hr.CollaborativeScore > 0.7 && weights.Collaborative > 0.2 {
		reasons = append(reasons, models.ReasonSimilarUsers)
	}
	if hr.SequenceScore > 0.7 && weights.Sequence > 0.2 {
		reasons = append(reasons, models.ReasonSessionFlow)
	}
	if hr.RuleScore > 0.6 && weights.Rule > 0.1 {
		reasons = append(reasons, models.ReasonOnboardingMatch)
	}
	return reasons
}

// applyDiversity walks records in score-descending order, penalizing each
// record whose genres or directors overlap with already-selected items.
// Records are rescored, never dropped; diversityFactor <= 0 is a no-op.
func applyDiversity(records []*models.HybridRecord, diversityFactor float64) {
	if diversityFactor <= 0 {
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})

	selectedGenres := make(map[string]bool)
	selectedDirectors := make(map[string]bool)

	for _, hr := range records {
		if hr.Item == nil {
			continue
		}
		genreOverlap := anyIn(selectedGenres, hr.Item.Genres)
		directorOverlap := anyIn(selectedDirectors, hr.Item.Directors)

		penalty := 0.0
		if genreOverlap {
			penalty += 0.3
		}
		if directorOverlap {
			penalty += 0.2
		}
		hr.Score *= 1 - penalty*diversityFactor

		for _, g := range hr.Item.Genres {
			selectedGenres[g] = true
		}
		for _, d := range hr.Item.Directors {
			selectedDirectors[d] = true
		}
	}
}

func anyIn(set map[string]bool, values []string) bool {
	for _, v := range values {
		if set[v] {
			return true
		}
	}
	return false
}

// rankAndCutoff drops records below minScore, sorts the remainder
// descending by score (ties broken by itemId ascending for determinism),
// and truncates to count.
func rankAndCutoff(records []*models.HybridRecord, minScore float64, count int) []models.HybridRecord {
	kept := records[:0:0]
	for _, hr := range records {
		if hr.Score >= minScore {
			kept = append(kept, hr)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].ItemID < kept[j].ItemID
	})

	if len(kept) > count {
		kept = kept[:count]
	}

	out := make([]models.HybridRecord, len(kept))
	for i, hr := range kept {
		out[i] = *hr
	}
	return out
}
