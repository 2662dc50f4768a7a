package engine

import (
	"context"
	"time"

	"github.com/temcen/pirex/pkg/models"
)

// TrackingService is the external action store the engine reads from. It
// is consumed-only: the engine never writes actions.
type TrackingService interface {
	// GetUserActions returns up to limit actions for userId, newest first.
	// actionType, when non-empty, restricts the result to that type.
	GetUserActions(ctx context.Context, userID string, limit int, actionType string) ([]models.Action, error)

	// GetRecentActions returns an implementation-defined recent window of
	// actions for userId, newest first.
	GetRecentActions(ctx context.Context, userID string) ([]models.Action, error)

	// FindSimilarUsers returns users whose rating history correlates with
	// userId's, sorted by similarity descending. May return an empty slice
	// when no real neighbor finder is configured.
	FindSimilarUsers(ctx context.Context, userID string) ([]SimilarUser, error)

	// GetItemRatings returns the rating each of the given users (if any)
	// gave itemId, keyed by userId. Users who never rated the item are
	// absent from the map.
	GetItemRatings(ctx context.Context, itemID int, userIDs []string) (map[string]float64, error)
}

// SimilarUser is one neighbor returned by FindSimilarUsers.
type SimilarUser struct {
	UserID     string
	Similarity float64
}

// Prediction is a single latent-factor score for a candidate item.
type Prediction struct {
	ItemID int
	Score  float64
}

// MatrixFactorization is the external latent-factor model the collaborative
// scorer prefers. An empty result is a valid "no prediction" signal, not an
// error.
type MatrixFactorization interface {
	Predict(ctx context.Context, userID string, itemIDs []int) ([]Prediction, error)
}

// Catalog yields candidate items. The engine is responsible for excluding
// rated/watchlisted items before scoring; Catalog just returns the
// available set.
type Catalog interface {
	FetchCandidates(ctx context.Context) ([]models.Movie, error)
}

// Cache is the key-value store backing request-level recommendation
// caching. A miss is reported via the bool return, not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetEX(ctx context.Context, key string, ttl time.Duration, value []byte) error
}
