package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/temcen/pirex/pkg/models"
)

// canonicalizeOptions produces a stable, alphabetically-ordered key=value
// encoding of a RecommendationOptions value. encoding/json is deliberately
// not used here: Go does not guarantee stable struct-to-map field
// ordering across encodings in a way callers should depend on for a cache
// key, so two semantically-identical options could hash differently. This
// walks the known fields in a fixed, sorted order instead.
func canonicalizeOptions(opts models.RecommendationOptions) string {
	pairs := []string{
		"count=" + strconv.Itoa(opts.Count),
		"diversityFactor=" + formatFloat(opts.DiversityFactor),
		"excludeRated=" + strconv.FormatBool(opts.ExcludeRated),
		"excludeWatchlist=" + strconv.FormatBool(opts.ExcludeWatchlist),
		"includeExplanations=" + strconv.FormatBool(opts.IncludeExplanations),
		"minScore=" + formatFloat(opts.MinScore),
	}
	return strings.Join(pairs, "&")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cacheKey derives the cache key for a (userId, options) pair per spec §6.
func cacheKey(userID string, opts models.RecommendationOptions) string {
	return fmt.Sprintf("recommendations:%s:%s", userID, canonicalizeOptions(opts))
}
