package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinescope/cinescope/internal/domain"
)

// AggregateRefresher recomputes a movie's stored rating aggregate from its
// current review set.
type AggregateRefresher interface {
	Refresh(ctx context.Context, movieID string) error
}

// RatingAggregator derives average_rating/total_ratings from the reviews
// table and persists them onto the movie row. No other code path writes
// those two columns.
type RatingAggregator struct {
	pool *pgxpool.Pool
}

// Refresh recomputes and stores the aggregate for one movie. The average
// is the unweighted mean over all reviews, rounded half-up to one decimal
// place; with no reviews both columns reset to zero. If the movie row no
// longer exists the refresh is a silent no-op.
func (a *RatingAggregator) Refresh(ctx context.Context, movieID string) error {
	agg, err := a.Aggregate(ctx, movieID)
	if err != nil {
		return err
	}

	const update = `
        UPDATE movies
        SET average_rating = $2, total_ratings = $3, updated_at = now()
        WHERE id = $1
    `
	if _, err := a.pool.Exec(ctx, update, movieID, agg.Average, agg.Count); err != nil {
		return fmt.Errorf("persist rating aggregate: %w", err)
	}
	return nil
}

// Aggregate computes the mean rating and review count for a movie without
// persisting anything.
func (a *RatingAggregator) Aggregate(ctx context.Context, movieID string) (domain.RatingAggregate, error) {
	const query = `
        SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0)::float4 AS average,
               COUNT(*)::int4 AS count
        FROM reviews
        WHERE movie_id = $1
    `
	var agg domain.RatingAggregate
	if err := a.pool.QueryRow(ctx, query, movieID).Scan(&agg.Average, &agg.Count); err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate reviews: %w", err)
	}
	return agg, nil
}
