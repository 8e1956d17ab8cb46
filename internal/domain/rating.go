package domain

// RatingAggregate provides the derived average and count for a movie's
// review set.
type RatingAggregate struct {
	Average float32
	Count   int
}
