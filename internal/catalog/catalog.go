package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/temcen/pirex/pkg/models"
)

// DatabaseQuerier is the narrow slice of *pgxpool.Pool this package needs,
// kept as an interface (grounded on the teacher's DatabaseQuerier in
// recommendation_algorithms.go) so tests can swap in pgxmock.
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostgresCatalog resolves the getAvailableMovies open question: a real
// candidate source backed by a movies table, filtered on an active flag
// and paginated by a configurable page size. Grounded on the teacher's
// getPopularItemsFallback query shape in recommendation_algorithms.go.
type PostgresCatalog struct {
	db       DatabaseQuerier
	pageSize int
}

func NewPostgresCatalog(db DatabaseQuerier, pageSize int) *PostgresCatalog {
	if pageSize <= 0 {
		pageSize = 2000
	}
	return &PostgresCatalog{db: db, pageSize: pageSize}
}

func (c *PostgresCatalog) FetchCandidates(ctx context.Context) ([]models.Movie, error) {
	rows, err := c.db.Query(ctx, `
		SELECT id, title, genres, directors, actors, release_year, runtime,
		       average_rating, rating_count, popularity
		FROM movies
		WHERE active = true
		ORDER BY popularity DESC
		LIMIT $1
	`, c.pageSize)
	if err != nil {
		return nil, fmt.Errorf("querying movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Genres, &m.Directors, &m.Actors,
			&m.ReleaseYear, &m.Runtime, &m.AverageRating, &m.RatingCount, &m.Popularity,
		); err != nil {
			return nil, fmt.Errorf("scanning movie row: %w", err)
		}
		m.Active = true
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movie rows: %w", err)
	}

	return movies, nil
}

// FetchByGenreYear is a supplemental narrower query surface for callers
// (e.g. admin tooling) that want a filtered slice of the catalog rather
// than the full active set the engine scores against.
func (c *PostgresCatalog) FetchByGenreYear(ctx context.Context, genre string, minYear, maxYear int) ([]models.Movie, error) {
	rows, err := c.db.Query(ctx, `
		SELECT id, title, genres, directors, actors, release_year, runtime,
		       average_rating, rating_count, popularity
		FROM movies
		WHERE active = true AND $1 = ANY(genres) AND release_year BETWEEN $2 AND $3
		ORDER BY popularity DESC
		LIMIT $4
	`, genre, minYear, maxYear, c.pageSize)
	if err != nil {
		return nil, fmt.Errorf("querying movies by genre/year: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Genres, &m.Directors, &m.Actors,
			&m.ReleaseYear, &m.Runtime, &m.AverageRating, &m.RatingCount, &m.Popularity,
		); err != nil {
			return nil, fmt.Errorf("scanning movie row: %w", err)
		}
		m.Active = true
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movie rows: %w", err)
	}

	return movies, nil
}
