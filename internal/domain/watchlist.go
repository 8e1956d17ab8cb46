package domain

import "time"

// WatchlistEntry bookmarks a movie for a user, independent of any review.
// A user holds at most one entry per movie.
type WatchlistEntry struct {
	ID        string
	UserID    string
	MovieID   string
	DateAdded time.Time

	// Movie card fields joined for display.
	MovieTitle  string
	MoviePoster string
	MovieYear   int
	MovieRating float32
	MovieGenre  []string
}
