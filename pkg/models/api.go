package models

import "time"

// RecommendationRequest is the HTTP-layer request for a single user's
// recommendation list; it maps onto RecommendationOptions after defaulting.
type RecommendationRequest struct {
	Count               int     `json:"count,omitempty" validate:"omitempty,min=1,max=100"`
	ExcludeRated        *bool   `json:"excludeRated,omitempty"`
	ExcludeWatchlist    *bool   `json:"excludeWatchlist,omitempty"`
	MinScore            *float64 `json:"minScore,omitempty" validate:"omitempty,min=0,max=1"`
	DiversityFactor     *float64 `json:"diversityFactor,omitempty"`
	IncludeExplanations bool    `json:"includeExplanations,omitempty"`
}

// RecommendationResponse wraps the ranked list with request metadata.
type RecommendationResponse struct {
	UserID          string         `json:"userId"`
	Recommendations []HybridRecord `json:"recommendations"`
	GeneratedAt     time.Time      `json:"generatedAt"`
	CacheHit        bool           `json:"cacheHit"`
}

// ActionIngestRequest is one item of a POST /api/v1/actions/batch body; the
// batch handler checks its validate tags before it becomes a persisted
// Action.
type ActionIngestRequest struct {
	UserID     string          `json:"userId" validate:"required"`
	ItemID     int             `json:"itemId" validate:"required"`
	ActionType string          `json:"actionType" validate:"required"`
	Value      float64         `json:"value"`
	Metadata   *ActionMetadata `json:"metadata,omitempty"`
}

// ActionBatchRequest ingests multiple actions in one call.
type ActionBatchRequest struct {
	Actions []ActionIngestRequest `json:"actions" validate:"required,min=1,max=200"`
}

// ActionBatchResponse reports per-item ingestion outcome so a caller can
// retry only the rejected entries.
type ActionBatchResponse struct {
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}
