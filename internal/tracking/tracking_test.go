package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/pirex/pkg/models"
)

func TestPostgresTrackingService_GetUserActions(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	svc := NewPostgresTrackingService(mockDB, nil)

	t.Run("filters by action type and honors limit", func(t *testing.T) {
		now := time.Now()
		rows := pgxmock.NewRows([]string{"user_id", "item_id", "action_type", "value", "timestamp", "metadata"}).
			AddRow("user-1", 42, "rate", 8.0, now, []byte(nil))

		mockDB.ExpectQuery("SELECT").
			WithArgs("user-1", "rate", 10).
			WillReturnRows(rows)

		actions, err := svc.GetUserActions(context.Background(), "user-1", 10, "rate")
		require.NoError(t, err)
		require.Len(t, actions, 1)
		assert.Equal(t, models.ActionRate, actions[0].ActionType)
		assert.Equal(t, 42, actions[0].ItemID)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("no action type filter omits the clause", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"user_id", "item_id", "action_type", "value", "timestamp", "metadata"})
		mockDB.ExpectQuery("SELECT").
			WithArgs("user-2").
			WillReturnRows(rows)

		actions, err := svc.GetUserActions(context.Background(), "user-2", 0, "")
		require.NoError(t, err)
		assert.Empty(t, actions)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestPostgresTrackingService_GetItemRatings(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	svc := NewPostgresTrackingService(mockDB, nil)

	t.Run("empty neighbor list short-circuits without a query", func(t *testing.T) {
		ratings, err := svc.GetItemRatings(context.Background(), 1, nil)
		require.NoError(t, err)
		assert.Empty(t, ratings)
	})

	t.Run("builds a userID to rating map", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"user_id", "value"}).
			AddRow("user-1", 9.0).
			AddRow("user-2", 6.0)

		mockDB.ExpectQuery("SELECT").
			WithArgs(42, "rate", []string{"user-1", "user-2"}).
			WillReturnRows(rows)

		ratings, err := svc.GetItemRatings(context.Background(), 42, []string{"user-1", "user-2"})
		require.NoError(t, err)
		assert.Equal(t, 9.0, ratings["user-1"])
		assert.Equal(t, 6.0, ratings["user-2"])
		require.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestPostgresTrackingService_FindSimilarUsers_NoNeo4j(t *testing.T) {
	svc := NewPostgresTrackingService(nil, nil)
	users, err := svc.FindSimilarUsers(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, users)
}
