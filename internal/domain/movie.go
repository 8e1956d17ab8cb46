package domain

import "time"

// Genres enumerates the tags a movie may carry.
var Genres = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy", "Crime",
	"Documentary", "Drama", "Family", "Fantasy", "Film-Noir", "History",
	"Horror", "Music", "Musical", "Mystery", "Romance", "Sci-Fi",
	"Sport", "Thriller", "War", "Western",
}

// IsGenre reports whether tag is a member of the genre enum.
func IsGenre(tag string) bool {
	for _, g := range Genres {
		if g == tag {
			return true
		}
	}
	return false
}

// Movie represents the canonical movie entity in the database/service.
// AverageRating and TotalRatings are derived from the review set and are
// written only by the rating aggregator.
type Movie struct {
	ID            string
	Title         string
	Genre         []string
	ReleaseYear   int
	Director      string
	Cast          []string
	Synopsis      string
	PosterURL     string
	TrailerURL    *string
	Duration      *int
	AverageRating float32
	TotalRatings  int
	Featured      bool
	Trending      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
