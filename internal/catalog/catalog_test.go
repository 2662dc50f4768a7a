package catalog

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCatalog_FetchCandidates(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	cat := NewPostgresCatalog(mockDB, 100)

	rows := pgxmock.NewRows([]string{
		"id", "title", "genres", "directors", "actors",
		"release_year", "runtime", "average_rating", "rating_count", "popularity",
	}).AddRow(1, "Arrival", []string{"sci-fi"}, []string{"Denis Villeneuve"}, []string{"Amy Adams"},
		2016, 116, 7.9, 500000, 72.5)

	mockDB.ExpectQuery("SELECT").WithArgs(100).WillReturnRows(rows)

	movies, err := cat.FetchCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Arrival", movies[0].Title)
	assert.True(t, movies[0].Active)
	require.NoError(t, mockDB.ExpectationsWereMet())
}

func TestNewPostgresCatalog_DefaultsPageSize(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	cat := NewPostgresCatalog(mockDB, 0)
	assert.Equal(t, 2000, cat.pageSize)
}
