package domain

import "time"

// User holds account identity and profile fields. PasswordHash never
// leaves the repository/auth layers.
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	Bio            *string
	ProfilePicture *string
	IsAdmin        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GenreStat is one entry of a user's favorite-genre breakdown.
type GenreStat struct {
	Genre         string
	Count         int
	AverageRating float32
}

// UserStats aggregates a user's review and watchlist activity.
type UserStats struct {
	TotalReviews       int
	AverageRating      float32
	RatingDistribution map[int]int
	WatchlistCount     int
	FavoriteGenres     []GenreStat
}
