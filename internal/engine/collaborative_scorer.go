package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/temcen/pirex/pkg/models"
)

// CollaborativeScorer prefers a latent-factor model prediction and falls
// back to a user-based CF computation over tracked ratings when the model
// yields nothing (cold model, new item, or a transient model error).
type CollaborativeScorer struct {
	matrix   MatrixFactorization
	tracking TrackingService
	logger   *logrus.Logger
}

func NewCollaborativeScorer(matrix MatrixFactorization, tracking TrackingService, logger *logrus.Logger) *CollaborativeScorer {
	return &CollaborativeScorer{matrix: matrix, tracking: tracking, logger: logger}
}

func (s *CollaborativeScorer) Score(ctx context.Context, userID string, candidates []models.Movie) []models.ScoreRecord {
	itemIDs := make([]int, len(candidates))
	byID := make(map[int]*models.Movie, len(candidates))
	for i := range candidates {
		itemIDs[i] = candidates[i].ID
		byID[candidates[i].ID] = &candidates[i]
	}

	predictions, err := s.matrix.Predict(ctx, userID, itemIDs)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Debug("matrix factorization prediction failed, falling back to user-based CF")
		predictions = nil
	}

	if len(predictions) > 0 {
		records := make([]models.ScoreRecord, 0, len(predictions))
		for _, p := range predictions {
			item := byID[p.ItemID]
			records = append(records, models.ScoreRecord{
				ItemID: p.ItemID,
				Item:   item,
				Score:  normalize(p.Score),
				Source: "collaborative-matrix",
			})
		}
		return records
	}

	return s.userBasedCF(ctx, userID, candidates)
}

func (s *CollaborativeScorer) userBasedCF(ctx context.Context, userID string, candidates []models.Movie) []models.ScoreRecord {
	similarUsers, err := s.tracking.FindSimilarUsers(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Debug("findSimilarUsers failed")
		similarUsers = nil
	}
	if len(similarUsers) == 0 {
		return popularityFallback(candidates, "collaborative-cold")
	}

	similarityByUser := make(map[string]float64, len(similarUsers))
	neighborIDs := make([]string, len(similarUsers))
	for i, su := range similarUsers {
		similarityByUser[su.UserID] = su.Similarity
		neighborIDs[i] = su.UserID
	}

	records := make([]models.ScoreRecord, 0, len(candidates))
	for i := range candidates {
		m := candidates[i]
		ratings, err := s.tracking.GetItemRatings(ctx, m.ID, neighborIDs)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{"user_id": userID, "item_id": m.ID}).Debug("GetItemRatings failed")
			records = append(records, models.ScoreRecord{ItemID: m.ID, Item: &candidates[i], Score: 0, Source: "collaborative-user"})
			continue
		}

		var weightedSum, similaritySum float64
		for neighborID, rating := range ratings {
			sim := similarityByUser[neighborID]
			weightedSum += rating * sim
			similaritySum += sim
		}

		score := 0.0
		if similaritySum > 0 {
			score = normalize(weightedSum / similaritySum)
		}

		records = append(records, models.ScoreRecord{
			ItemID: m.ID,
			Item:   &candidates[i],
			Score:  score,
			Source: "collaborative-user",
		})
	}
	return records
}
