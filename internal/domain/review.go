package domain

import "time"

// Review represents a single user's review of a movie. A user holds at
// most one review per movie.
type Review struct {
	ID         string
	UserID     string
	MovieID    string
	Rating     int
	ReviewText string
	Helpful    int
	NotHelpful int
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Display fields joined from related rows; not stored on the review.
	Username    string
	MovieTitle  string
	MoviePoster string
}

// ReviewStats summarizes the reviews a single user has written.
type ReviewStats struct {
	TotalReviews  int
	AverageRating float32
}
