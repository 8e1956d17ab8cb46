package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinescope/cinescope/internal/domain"
)

// WatchlistRepository persists per-user movie bookmarks.
type WatchlistRepository struct {
	pool *pgxpool.Pool
}

const watchlistEntryQuery = `
    SELECT w.id, w.user_id, w.movie_id, w.date_added,
           m.title, m.poster_url, m.release_year, m.average_rating, m.genre
    FROM watchlist w
    JOIN movies m ON m.id = w.movie_id
`

// Add bookmarks a movie for a user. A missing movie returns ErrNotFound;
// a duplicate bookmark returns ErrConflict.
func (r *WatchlistRepository) Add(ctx context.Context, userID, movieID string) (domain.WatchlistEntry, error) {
	var movieExists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, movieID).Scan(&movieExists); err != nil {
		return domain.WatchlistEntry{}, fmt.Errorf("check movie: %w", err)
	}
	if !movieExists {
		return domain.WatchlistEntry{}, ErrNotFound
	}

	const insert = `
        INSERT INTO watchlist (id, user_id, movie_id)
        VALUES ($1,$2,$3)
        RETURNING id
    `
	var id string
	if err := r.pool.QueryRow(ctx, insert, uuid.NewString(), userID, movieID).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return domain.WatchlistEntry{}, ErrConflict
		}
		return domain.WatchlistEntry{}, fmt.Errorf("insert watchlist entry: %w", err)
	}

	entry, err := scanWatchlistEntry(r.pool.QueryRow(ctx, watchlistEntryQuery+` WHERE w.id = $1`, id))
	if err != nil {
		return domain.WatchlistEntry{}, err
	}
	return entry, nil
}

// List returns one page of a user's watchlist, newest bookmarks first,
// plus the unpaged total.
func (r *WatchlistRepository) List(ctx context.Context, userID string, page, limit int) ([]domain.WatchlistEntry, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 12
	} else if limit > 50 {
		limit = 50
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM watchlist WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count watchlist: %w", err)
	}

	query := fmt.Sprintf(watchlistEntryQuery+`
        WHERE w.user_id = $1
        ORDER BY w.date_added DESC
        LIMIT %d OFFSET %d
    `, limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]domain.WatchlistEntry, 0)
	for rows.Next() {
		entry, err := scanWatchlistEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Remove deletes a user's bookmark for a movie.
func (r *WatchlistRepository) Remove(ctx context.Context, userID, movieID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM watchlist WHERE user_id = $1 AND movie_id = $2`, userID, movieID)
	if err != nil {
		return fmt.Errorf("delete watchlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Status reports whether a movie is bookmarked and when it was added.
func (r *WatchlistRepository) Status(ctx context.Context, userID, movieID string) (bool, *time.Time, error) {
	var dateAdded time.Time
	err := r.pool.QueryRow(ctx, `SELECT date_added FROM watchlist WHERE user_id = $1 AND movie_id = $2`, userID, movieID).Scan(&dateAdded)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil, nil
		}
		return false, nil, err
	}
	return true, &dateAdded, nil
}

func scanWatchlistEntry(row pgx.Row) (domain.WatchlistEntry, error) {
	var entry domain.WatchlistEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.MovieID,
		&entry.DateAdded,
		&entry.MovieTitle,
		&entry.MoviePoster,
		&entry.MovieYear,
		&entry.MovieRating,
		&entry.MovieGenre,
	)
	if err != nil {
		return domain.WatchlistEntry{}, err
	}
	return entry, nil
}
