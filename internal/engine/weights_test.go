package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/temcen/pirex/pkg/models"
)

func TestWeightPolicy_TierBoundary_S2(t *testing.T) {
	policy := NewWeightPolicy(5, 20)

	tier1 := policy.Weights(models.UserProfile{RatingCount: 4})
	assert.InDelta(t, 0.40/1.0, tier1.Content, 1e-9)
	assert.InDelta(t, 0.10, tier1.Collaborative, 1e-9)
	assert.InDelta(t, 0.30, tier1.Rule, 1e-9)

	tier2 := policy.Weights(models.UserProfile{RatingCount: 5})
	assert.InDelta(t, 0.35, tier2.Content, 1e-9)
	assert.InDelta(t, 0.25, tier2.Collaborative, 1e-9)
	assert.InDelta(t, 0.15, tier2.Rule, 1e-9)

	assert.NotEqual(t, tier1, tier2)
}

func TestWeightPolicy_TierMidBoundary(t *testing.T) {
	policy := NewWeightPolicy(5, 20)

	tier2 := policy.Weights(models.UserProfile{RatingCount: 19})
	tier3 := policy.Weights(models.UserProfile{RatingCount: 20})

	assert.InDelta(t, 0.35, tier2.Content, 1e-9)
	assert.InDelta(t, 0.25, tier3.Content, 1e-9)
	assert.InDelta(t, 0.45, tier3.Collaborative, 1e-9)
}

// Invariant #2: weight simplex — every tier's weights are non-negative and
// sum to 1 after normalization, regardless of the recency/engagement nudge.
func TestWeightPolicy_Simplex(t *testing.T) {
	cases := []models.UserProfile{
		{RatingCount: 0, RecencyScore: 1},
		{RatingCount: 4, RecencyScore: 0},
		{RatingCount: 10, SessionDepth: 1},
		{RatingCount: 100, RecencyScore: 1, SessionDepth: 1},
	}
	policy := NewWeightPolicy(5, 20)
	for _, p := range cases {
		w := policy.Weights(p)
		assert.GreaterOrEqual(t, w.Content, 0.0)
		assert.GreaterOrEqual(t, w.Collaborative, 0.0)
		assert.GreaterOrEqual(t, w.Sequence, 0.0)
		assert.GreaterOrEqual(t, w.Rule, 0.0)
		assert.InDelta(t, 1.0, w.Content+w.Collaborative+w.Sequence+w.Rule, 1e-9)
	}
}

// Invariant #11: weight maturity ordering — as rating count rises across
// tiers, collaborative share never decreases and rule share never increases.
func TestWeightPolicy_MaturityOrdering_Invariant11(t *testing.T) {
	policy := NewWeightPolicy(5, 20)
	tier1 := policy.Weights(models.UserProfile{RatingCount: 0})
	tier2 := policy.Weights(models.UserProfile{RatingCount: 10})
	tier3 := policy.Weights(models.UserProfile{RatingCount: 100})

	assert.LessOrEqual(t, tier1.Collaborative, tier2.Collaborative)
	assert.LessOrEqual(t, tier2.Collaborative, tier3.Collaborative)
	assert.GreaterOrEqual(t, tier1.Rule, tier2.Rule)
	assert.GreaterOrEqual(t, tier2.Rule, tier3.Rule)
}

// A zero sum is treated as 1 when dividing, so all-zero input stays zero.
func TestNormalizeWeights_AllZeroStaysZero(t *testing.T) {
	w := normalizeWeights(models.Weights{})
	assert.InDelta(t, 0.0, w.Content+w.Collaborative+w.Sequence+w.Rule, 1e-9)
}

func TestNormalizeWeights_NegativeClampedToZero(t *testing.T) {
	w := normalizeWeights(models.Weights{Content: -1, Collaborative: 1, Sequence: 0, Rule: 0})
	assert.Equal(t, 0.0, w.Content)
	assert.Equal(t, 1.0, w.Collaborative)
}
