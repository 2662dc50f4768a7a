package engine

import "github.com/temcen/pirex/pkg/models"

// WeightPolicy selects a base weight vector by maturity tier (ratingCount)
// and nudges the sequence share by engagement recency/depth, then
// normalizes so weights are non-negative and sum to 1.
type WeightPolicy struct {
	tierLow int // ratingCount threshold between tier 1 and tier 2
	tierMid int // ratingCount threshold between tier 2 and tier 3
}

func NewWeightPolicy(tierLow, tierMid int) *WeightPolicy {
	return &WeightPolicy{tierLow: tierLow, tierMid: tierMid}
}

func (p *WeightPolicy) Weights(profile models.UserProfile) models.Weights {
	var w models.Weights

	switch {
	case profile.RatingCount < p.tierLow:
		w = models.Weights{
			Content:       0.40,
			Collaborative: 0.10,
			Sequence:      0.20 + 0.1*profile.RecencyScore,
			Rule:          0.30,
		}
	case profile.RatingCount < p.tierMid:
		w = models.Weights{
			Content:       0.35,
			Collaborative: 0.25,
			Sequence:      0.25 + 0.05*profile.SessionDepth,
			Rule:          0.15,
		}
	default:
		w = models.Weights{
			Content:       0.25,
			Collaborative: 0.45,
			Sequence:      0.20 + 0.1*profile.RecencyScore,
			Rule:          0.10,
		}
	}

	return normalizeWeights(w)
}

func normalizeWeights(w models.Weights) models.Weights {
	content := nonNegative(w.Content)
	collaborative := nonNegative(w.Collaborative)
	sequence := nonNegative(w.Sequence)
	rule := nonNegative(w.Rule)

	sum := content + collaborative + sequence + rule
	if sum == 0 {
		sum = 1
	}

	return models.Weights{
		Content:       content / sum,
		Collaborative: collaborative / sum,
		Sequence:      sequence / sum,
		Rule:          rule / sum,
	}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
