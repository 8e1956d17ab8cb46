package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinescope/cinescope/internal/domain"
)

// MoviesRepository provides persistence helpers for movie entities.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    genre,
    release_year,
    director,
    cast_members,
    synopsis,
    poster_url,
    trailer_url,
    duration,
    average_rating,
    total_ratings,
    featured,
    trending,
    created_at,
    updated_at
`

// MovieParams bundles the writable fields of a movie. The derived rating
// columns are deliberately absent.
type MovieParams struct {
	Title       string
	Genre       []string
	ReleaseYear int
	Director    string
	Cast        []string
	Synopsis    string
	PosterURL   string
	TrailerURL  *string
	Duration    *int
	Featured    bool
	Trending    bool
}

// MovieListFilters is a conjunction of independently-optional predicates
// plus sort and offset pagination.
type MovieListFilters struct {
	Genres    []string
	Year      *int
	MinRating *float32
	Search    *string
	Featured  *bool
	Trending  *bool
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// MovieListResult returns one page of movies plus the unpaged total.
type MovieListResult struct {
	Items []domain.Movie
	Total int
}

var movieSortColumns = map[string]string{
	"title":         "title",
	"releaseYear":   "release_year",
	"averageRating": "average_rating",
	"createdAt":     "created_at",
}

// Create inserts a new movie row and returns the stored entity.
func (r *MoviesRepository) Create(ctx context.Context, params MovieParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        INSERT INTO movies (id, title, genre, release_year, director, cast_members, synopsis,
                            poster_url, trailer_url, duration, featured, trending)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(), params.Title, params.Genre, params.ReleaseYear, params.Director,
		params.Cast, params.Synopsis, params.PosterURL, params.TrailerURL, params.Duration,
		params.Featured, params.Trending)
	return scanMovie(row)
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id string) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	movie, err := scanMovie(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// Update replaces the writable fields of a movie. average_rating and
// total_ratings are untouched; only the aggregator writes them.
func (r *MoviesRepository) Update(ctx context.Context, id string, params MovieParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        UPDATE movies
        SET title = $2,
            genre = $3,
            release_year = $4,
            director = $5,
            cast_members = $6,
            synopsis = $7,
            poster_url = $8,
            trailer_url = $9,
            duration = $10,
            featured = $11,
            trending = $12,
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query, id,
		params.Title, params.Genre, params.ReleaseYear, params.Director, params.Cast,
		params.Synopsis, params.PosterURL, params.TrailerURL, params.Duration,
		params.Featured, params.Trending)
	movie, err := scanMovie(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// Delete removes a movie. Its reviews and watchlist entries cascade away
// with it.
func (r *MoviesRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of movies matching the provided filters.
func (r *MoviesRepository) List(ctx context.Context, filters MovieListFilters) (MovieListResult, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.Limit <= 0 {
		filters.Limit = 12
	} else if filters.Limit > 50 {
		filters.Limit = 50
	}

	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filters.Genres) > 0 {
		where = append(where, fmt.Sprintf("genre && %s::text[]", arg(filters.Genres)))
	}
	if filters.Year != nil {
		where = append(where, fmt.Sprintf("release_year = %s", arg(*filters.Year)))
	}
	if filters.MinRating != nil {
		where = append(where, fmt.Sprintf("average_rating >= %s", arg(*filters.MinRating)))
	}
	if filters.Search != nil && strings.TrimSpace(*filters.Search) != "" {
		q := "%" + strings.TrimSpace(*filters.Search) + "%"
		p1 := arg(q)
		p2 := arg(q)
		p3 := arg(q)
		where = append(where, fmt.Sprintf("(title ILIKE %s OR synopsis ILIKE %s OR director ILIKE %s)", p1, p2, p3))
	}
	if filters.Featured != nil {
		where = append(where, fmt.Sprintf("featured = %s", arg(*filters.Featured)))
	}
	if filters.Trending != nil {
		where = append(where, fmt.Sprintf("trending = %s", arg(*filters.Trending)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM movies"+whereClause, args...).Scan(&total); err != nil {
		return MovieListResult{}, err
	}

	sortColumn, ok := movieSortColumns[filters.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		direction = "ASC"
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(movieColumns)
	queryBuilder.WriteString(" FROM movies")
	queryBuilder.WriteString(whereClause)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s", sortColumn, direction))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", filters.Limit, (filters.Page-1)*filters.Limit))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return MovieListResult{}, err
	}
	defer rows.Close()

	items := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return MovieListResult{}, err
		}
		items = append(items, movie)
	}
	if err := rows.Err(); err != nil {
		return MovieListResult{}, err
	}

	return MovieListResult{Items: items, Total: total}, nil
}

// Featured returns the top flagged movies by average rating.
func (r *MoviesRepository) Featured(ctx context.Context, limit int) ([]domain.Movie, error) {
	return r.flagged(ctx, "featured", limit)
}

// Trending returns the top trending movies by average rating.
func (r *MoviesRepository) Trending(ctx context.Context, limit int) ([]domain.Movie, error) {
	return r.flagged(ctx, "trending", limit)
}

func (r *MoviesRepository) flagged(ctx context.Context, column string, limit int) ([]domain.Movie, error) {
	if limit <= 0 {
		limit = 6
	}
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE %s ORDER BY average_rating DESC LIMIT %d`,
		movieColumns, column, limit)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovies(rows)
}

const movieSearchVector = `to_tsvector('english', title || ' ' || director || ' ' || synopsis)`

// Search performs a relevance-ranked full-text search over title,
// director, and synopsis. The minimum query length is enforced by the
// HTTP layer.
func (r *MoviesRepository) Search(ctx context.Context, q string, limit int) ([]domain.Movie, error) {
	if limit <= 0 {
		limit = 10
	} else if limit > 50 {
		limit = 50
	}
	query := fmt.Sprintf(`
        SELECT %s FROM movies
        WHERE %s @@ plainto_tsquery('english', $1)
        ORDER BY ts_rank(%s, plainto_tsquery('english', $1)) DESC
        LIMIT %d
    `, movieColumns, movieSearchVector, movieSearchVector, limit)

	rows, err := r.pool.Query(ctx, query, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMovies(rows)
}

func collectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	items := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.ReleaseYear,
		&movie.Director,
		&movie.Cast,
		&movie.Synopsis,
		&movie.PosterURL,
		&movie.TrailerURL,
		&movie.Duration,
		&movie.AverageRating,
		&movie.TotalRatings,
		&movie.Featured,
		&movie.Trending,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}
