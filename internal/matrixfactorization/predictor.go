package matrixfactorization

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gonum.org/v1/gonum/floats"

	"github.com/temcen/pirex/internal/engine"
)

// DatabaseQuerier is the narrow slice of *pgxpool.Pool this package needs,
// kept as an interface (grounded on the teacher's DatabaseQuerier in
// recommendation_algorithms.go) so tests can swap in pgxmock.
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// LatentFactorPredictor implements engine.MatrixFactorization by loading
// per-user and per-item latent vectors (refreshed by an offline trainer
// explicitly out of scope for this module) from Postgres and scoring via
// dot product. Returns an empty slice — a valid "no prediction" signal —
// when the user has no trained vector yet, which is exactly the cold-start
// trigger the collaborative scorer's fallback path expects.
type LatentFactorPredictor struct {
	db DatabaseQuerier
}

func NewLatentFactorPredictor(db DatabaseQuerier) *LatentFactorPredictor {
	return &LatentFactorPredictor{db: db}
}

func (p *LatentFactorPredictor) Predict(ctx context.Context, userID string, itemIDs []int) ([]engine.Prediction, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	userVector, err := p.loadUserVector(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user latent vector: %w", err)
	}
	if userVector == nil {
		return nil, nil
	}

	rows, err := p.db.Query(ctx, `
		SELECT item_id, vector FROM item_factors WHERE item_id = ANY($1)
	`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("loading item latent vectors: %w", err)
	}
	defer rows.Close()

	var predictions []engine.Prediction
	for rows.Next() {
		var itemID int
		var itemVector []float32
		if err := rows.Scan(&itemID, &itemVector); err != nil {
			return nil, fmt.Errorf("scanning item latent vector: %w", err)
		}
		if len(itemVector) != len(userVector) {
			continue
		}
		predictions = append(predictions, engine.Prediction{
			ItemID: itemID,
			Score:  dot(userVector, itemVector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item latent vectors: %w", err)
	}

	return predictions, nil
}

func (p *LatentFactorPredictor) loadUserVector(ctx context.Context, userID string) ([]float32, error) {
	var vector []float32
	err := p.db.QueryRow(ctx, `
		SELECT vector FROM user_factors WHERE user_id = $1
	`, userID).Scan(&vector)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return vector, nil
}

func dot(a, b []float32) float64 {
	af := make([]float64, len(a))
	bf := make([]float64, len(b))
	for i := range a {
		af[i] = float64(a[i])
		bf[i] = float64(b[i])
	}
	return floats.Dot(af, bf)
}
