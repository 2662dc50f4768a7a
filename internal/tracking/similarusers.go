package tracking

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/temcen/pirex/internal/engine"
)

// findSimilarUsersMinShared is the minimum number of co-rated items
// required before two users are compared, matching the teacher's
// collaborative-filtering similarity query.
const findSimilarUsersMinShared = 3

// FindSimilarUsers resolves the findSimilarUsers open question against
// Neo4j: Pearson correlation over shared rate actions, minimum 3 shared
// items, sorted descending. Grounded directly on the teacher's own
// findSimilarUsers query in recommendation_algorithms.go. When Neo4j isn't
// configured it returns an empty slice, preserving the documented
// collaborative-cold fallback.
func (s *PostgresTrackingService) FindSimilarUsers(ctx context.Context, userID string) ([]engine.SimilarUser, error) {
	if s.neo4j == nil {
		return nil, nil
	}

	session := s.neo4j.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u1:User {user_id: $userId})-[r1:RATED]->(item:Movie)<-[r2:RATED]-(u2:User)
		WHERE u1 <> u2
		WITH u1, u2, collect({item: item.movie_id, rating1: r1.value, rating2: r2.value}) AS shared_ratings
		WHERE size(shared_ratings) >= $minShared
		WITH u1, u2, shared_ratings,
			 reduce(sum = 0.0, rating IN shared_ratings | sum + rating.rating1) / size(shared_ratings) AS avg1,
			 reduce(sum = 0.0, rating IN shared_ratings | sum + rating.rating2) / size(shared_ratings) AS avg2
		WITH u2, shared_ratings, avg1, avg2,
			 reduce(num = 0.0, rating IN shared_ratings | num + (rating.rating1 - avg1) * (rating.rating2 - avg2)) AS numerator,
			 sqrt(reduce(sum = 0.0, rating IN shared_ratings | sum + (rating.rating1 - avg1)^2)) AS denom1,
			 sqrt(reduce(sum = 0.0, rating IN shared_ratings | sum + (rating.rating2 - avg2)^2)) AS denom2
		WITH u2,
			 CASE WHEN denom1 * denom2 = 0 THEN 0 ELSE numerator / (denom1 * denom2) END AS correlation
		WHERE correlation > 0
		RETURN u2.user_id AS user_id, correlation AS similarity
		ORDER BY correlation DESC
		LIMIT 50`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userId":    userID,
		"minShared": findSimilarUsersMinShared,
	})
	if err != nil {
		return nil, err
	}

	var users []engine.SimilarUser
	for result.Next(ctx) {
		record := result.Record()
		neighborID, _ := record.Values[0].(string)
		similarity, _ := record.Values[1].(float64)
		users = append(users, engine.SimilarUser{UserID: neighborID, Similarity: similarity})
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
