package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/pirex/pkg/models"
)

// MetricsRecorder is the narrow metrics surface the orchestrator emits to.
// Implemented by internal/metrics.Recorder; kept as an interface here so
// the engine package never imports the metrics package directly.
type MetricsRecorder interface {
	RecordGenerated(count int)
	RecordAvgScore(avg float64)
}

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) RecordGenerated(int)    {}
func (noopMetricsRecorder) RecordAvgScore(float64) {}

// Orchestrator wires the profile builder, the four scorers, the weight
// policy, and the fusion/diversity/cutoff pipeline into the single
// recommend(userId, options) operation.
type Orchestrator struct {
	tracking TrackingService
	catalog  Catalog
	cache    Cache
	metrics  MetricsRecorder
	logger   *logrus.Logger

	profileBuilder *ProfileBuilder
	content        *ContentScorer
	collaborative  *CollaborativeScorer
	sequence       *SequenceScorer
	rule           *RuleScorer
	weightPolicy   *WeightPolicy

	cacheTTL            time.Duration
	orchestratorTimeout time.Duration
}

type OrchestratorConfig struct {
	SequenceWindow      int
	SessionTimeout      time.Duration
	RatingThreshold     float64
	MaturityTierLow     int
	MaturityTierMid     int
	CacheTTL            time.Duration
	OrchestratorTimeout time.Duration
}

func NewOrchestrator(tracking TrackingService, matrix MatrixFactorization, catalog Catalog, cache Cache, metrics MetricsRecorder, logger *logrus.Logger, cfg OrchestratorConfig) *Orchestrator {
	if metrics == nil {
		metrics = noopMetricsRecorder{}
	}
	return &Orchestrator{
		tracking:            tracking,
		catalog:             catalog,
		cache:               cache,
		metrics:             metrics,
		logger:              logger,
		profileBuilder:      NewProfileBuilder(tracking, cfg.SequenceWindow, cfg.SessionTimeout, cfg.RatingThreshold, logger),
		content:             NewContentScorer(),
		collaborative:       NewCollaborativeScorer(matrix, tracking, logger),
		sequence:            NewSequenceScorer(),
		rule:                NewRuleScorer(),
		weightPolicy:        NewWeightPolicy(cfg.MaturityTierLow, cfg.MaturityTierMid),
		cacheTTL:            cfg.CacheTTL,
		orchestratorTimeout: cfg.OrchestratorTimeout,
	}
}

// Recommend implements recommend(userId, options) -> list<HybridRecord>.
func (o *Orchestrator) Recommend(ctx context.Context, userID string, opts models.RecommendationOptions) ([]models.HybridRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, o.orchestratorTimeout)
	defer cancel()

	key := cacheKey(userID, opts)

	if cached, hit, err := o.cache.Get(ctx, key); err == nil && hit {
		var records []models.HybridRecord
		if jsonErr := json.Unmarshal(cached, &records); jsonErr == nil {
			return records, nil
		}
		o.logger.WithField("cache_key", key).Warn("failed to decode cached recommendations, recomputing")
	} else if err != nil {
		o.logger.WithError(err).WithField("cache_key", key).Warn("cache read failed, recomputing")
	}

	profile := o.profileBuilder.Build(ctx, userID)
	weights := o.weightPolicy.Weights(profile)

	candidates, err := o.catalog.FetchCandidates(ctx)
	if err != nil {
		o.logger.WithError(err).WithField("user_id", userID).Warn("catalog fetch failed, degrading to empty candidate set")
		candidates = nil
	}

	candidates, err = o.excludeSeen(ctx, userID, candidates, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrEngineTimeout
		}
		o.logger.WithError(err).WithField("user_id", userID).Warn("exclusion lookup failed, proceeding unfiltered")
	}

	if len(candidates) == 0 {
		return []models.HybridRecord{}, nil
	}

	contentScores, collabScores, seqScores, ruleScores := o.runScorersParallel(ctx, userID, profile, candidates)

	if ctx.Err() != nil {
		return nil, ErrEngineTimeout
	}

	fused := fuse(contentScores, collabScores, seqScores, ruleScores, weights)

	pointers := make([]*models.HybridRecord, 0, len(fused))
	for _, hr := range fused {
		pointers = append(pointers, hr)
	}

	applyDiversity(pointers, opts.DiversityFactor)

	if opts.IncludeExplanations {
		for _, hr := range pointers {
			hr.Explanation = explain(hr, weights)
		}
	}

	result := rankAndCutoff(pointers, opts.MinScore, opts.Count)

	if ctx.Err() != nil {
		return nil, ErrEngineTimeout
	}

	if encoded, err := json.Marshal(result); err != nil {
		o.logger.WithError(err).Error("failed to encode recommendations for caching")
	} else if err := o.cache.SetEX(ctx, key, o.cacheTTL, encoded); err != nil {
		o.logger.WithError(err).WithField("cache_key", key).Warn("cache write failed")
	}

	o.recordMetrics(result)

	return result, nil
}

// excludeSeen removes items the user has already rated or watchlisted, per
// the ExcludeRated/ExcludeWatchlist option flags.
func (o *Orchestrator) excludeSeen(ctx context.Context, userID string, candidates []models.Movie, opts models.RecommendationOptions) ([]models.Movie, error) {
	exclude := make(map[int]bool)

	if opts.ExcludeRated {
		rated, err := o.tracking.GetUserActions(ctx, userID, 1000, string(models.ActionRate))
		if err != nil {
			return candidates, fmt.Errorf("fetching rated actions: %w", err)
		}
		for _, a := range rated {
			exclude[a.ItemID] = true
		}
	}

	if opts.ExcludeWatchlist {
		watchlisted, err := o.tracking.GetUserActions(ctx, userID, 1000, string(models.ActionAddWatchlist))
		if err != nil {
			return candidates, fmt.Errorf("fetching watchlist actions: %w", err)
		}
		for _, a := range watchlisted {
			exclude[a.ItemID] = true
		}
	}

	if len(exclude) == 0 {
		return candidates, nil
	}

	filtered := make([]models.Movie, 0, len(candidates))
	for _, m := range candidates {
		if !exclude[m.ID] {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// runScorersParallel fans the four strategies out across goroutines. Each
// is wrapped in a recover() so a panic inside one scorer degrades to an
// empty result instead of crashing the request (SCORER_FAILURE).
func (o *Orchestrator) runScorersParallel(ctx context.Context, userID string, profile models.UserProfile, candidates []models.Movie) (content, collaborative, sequence, rule []models.ScoreRecord) {
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		defer o.recoverScorer("content")
		content = o.content.Score(ctx, profile, candidates)
	}()

	go func() {
		defer wg.Done()
		defer o.recoverScorer("collaborative")
		collaborative = o.collaborative.Score(ctx, userID, candidates)
	}()

	go func() {
		defer wg.Done()
		defer o.recoverScorer("sequence")
		sequence = o.sequence.Score(ctx, profile, candidates)
	}()

	go func() {
		defer wg.Done()
		defer o.recoverScorer("rule")
		rule = o.rule.Score(ctx, profile, candidates)
	}()

	wg.Wait()
	return
}

func (o *Orchestrator) recoverScorer(name string) {
	if r := recover(); r != nil {
		o.logger.WithError(errScorerFailure).WithFields(logrus.Fields{"scorer": name, "panic": r}).Error("scorer panicked, yielding empty result")
	}
}

func (o *Orchestrator) recordMetrics(result []models.HybridRecord) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.WithField("panic", r).Error("metrics recording failed, ignoring")
		}
	}()

	o.metrics.RecordGenerated(len(result))

	if len(result) == 0 {
		return
	}
	var sum float64
	for _, hr := range result {
		sum += hr.Score
	}
	o.metrics.RecordAvgScore(sum / float64(len(result)))
}
