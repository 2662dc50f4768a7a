package matrixfactorization

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatentFactorPredictor_Predict_NoTrainedVector(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT vector FROM user_factors").
		WithArgs("user-1").
		WillReturnError(pgx.ErrNoRows)

	p := NewLatentFactorPredictor(mockDB)
	predictions, err := p.Predict(context.Background(), "user-1", []int{1, 2})
	require.NoError(t, err)
	assert.Empty(t, predictions)
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestLatentFactorPredictor_Predict_ScoresViaDotProduct(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	userVectorRow := pgxmock.NewRows([]string{"vector"}).AddRow([]float32{1, 0, 1})
	mockDB.ExpectQuery("SELECT vector FROM user_factors").
		WithArgs("user-1").
		WillReturnRows(userVectorRow)

	itemRows := pgxmock.NewRows([]string{"item_id", "vector"}).
		AddRow(10, []float32{1, 1, 1}).
		AddRow(11, []float32{0, 1, 0})
	mockDB.ExpectQuery("SELECT item_id, vector FROM item_factors").
		WithArgs([]int{10, 11}).
		WillReturnRows(itemRows)

	p := NewLatentFactorPredictor(mockDB)
	predictions, err := p.Predict(context.Background(), "user-1", []int{10, 11})
	require.NoError(t, err)
	require.Len(t, predictions, 2)
	assert.Equal(t, 10, predictions[0].ItemID)
	assert.Equal(t, 2.0, predictions[0].Score)
	assert.Equal(t, 11, predictions[1].ItemID)
	assert.Equal(t, 0.0, predictions[1].Score)
	require.NoError(t, mockDB.ExpectationsWereMet())
}
