package tracking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/temcen/pirex/pkg/models"
)

// DatabaseQuerier is the narrow slice of *pgxpool.Pool this package needs,
// grounded on the teacher's recommendation_algorithms.go DatabaseQuerier —
// kept as an interface rather than a concrete pool so tests can swap in
// pgxmock.
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// PostgresTrackingService implements the engine's TrackingService contract
// over a Postgres-backed actions table, grounded on the teacher's
// user_interaction.go dynamic-SQL-building GetUserInteractions query.
type PostgresTrackingService struct {
	db    DatabaseQuerier
	neo4j neo4j.DriverWithContext
}

func NewPostgresTrackingService(db DatabaseQuerier, neo4jDriver neo4j.DriverWithContext) *PostgresTrackingService {
	return &PostgresTrackingService{db: db, neo4j: neo4jDriver}
}

// GetUserActions returns up to limit actions for userID, newest first.
// actionType, when non-empty, restricts the result to that type.
func (s *PostgresTrackingService) GetUserActions(ctx context.Context, userID string, limit int, actionType string) ([]models.Action, error) {
	query := `
		SELECT user_id, item_id, action_type, value, timestamp, metadata
		FROM actions
		WHERE user_id = $1`
	args := []interface{}{userID}
	argCount := 1

	if actionType != "" {
		argCount++
		query += fmt.Sprintf(" AND action_type = $%d", argCount)
		args = append(args, actionType)
	}

	query += " ORDER BY timestamp DESC"
	if limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, limit)
	}

	return s.queryActions(ctx, query, args...)
}

// GetRecentActions returns an implementation-defined recent window of
// actions for userID, newest first; the engine caps consumption at
// SEQUENCE_WINDOW regardless of how many this returns.
func (s *PostgresTrackingService) GetRecentActions(ctx context.Context, userID string) ([]models.Action, error) {
	query := `
		SELECT user_id, item_id, action_type, value, timestamp, metadata
		FROM actions
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT 50`
	return s.queryActions(ctx, query, userID)
}

func (s *PostgresTrackingService) queryActions(ctx context.Context, query string, args ...interface{}) ([]models.Action, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying actions: %w", err)
	}
	defer rows.Close()

	var actions []models.Action
	for rows.Next() {
		var a models.Action
		var actionType string
		var metadataJSON []byte

		if err := rows.Scan(&a.UserID, &a.ItemID, &actionType, &a.Value, &a.Timestamp, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning action row: %w", err)
		}
		a.ActionType = models.ActionType(actionType)

		if len(metadataJSON) > 0 {
			var meta models.ActionMetadata
			if err := json.Unmarshal(metadataJSON, &meta); err == nil {
				a.Metadata = &meta
			}
		}

		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating action rows: %w", err)
	}

	return actions, nil
}

// GetItemRatings returns the rating each of the given users (if any) gave
// itemID, keyed by userID.
func (s *PostgresTrackingService) GetItemRatings(ctx context.Context, itemID int, userIDs []string) (map[string]float64, error) {
	if len(userIDs) == 0 {
		return map[string]float64{}, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT user_id, value FROM actions
		WHERE item_id = $1 AND action_type = $2 AND user_id = ANY($3)
	`, itemID, string(models.ActionRate), userIDs)
	if err != nil {
		return nil, fmt.Errorf("querying item ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[string]float64)
	for rows.Next() {
		var userID string
		var value float64
		if err := rows.Scan(&userID, &value); err != nil {
			return nil, fmt.Errorf("scanning item rating row: %w", err)
		}
		ratings[userID] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rating rows: %w", err)
	}

	return ratings, nil
}

// Insert persists a validated action. Called by the HTTP ingestion handler
// and the Kafka consumer once validateAction has accepted the payload.
func (s *PostgresTrackingService) Insert(ctx context.Context, a models.Action) error {
	var metadataJSON []byte
	if a.Metadata != nil {
		encoded, err := json.Marshal(a.Metadata)
		if err != nil {
			return fmt.Errorf("encoding action metadata: %w", err)
		}
		metadataJSON = encoded
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO actions (user_id, item_id, action_type, value, timestamp, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.UserID, a.ItemID, string(a.ActionType), a.Value, a.Timestamp, metadataJSON)
	if err != nil {
		return fmt.Errorf("inserting action: %w", err)
	}
	return nil
}
