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

// ReviewsRepository persists reviews and drives the rating aggregator.
// Every mutation that changes a movie's review set refreshes that movie's
// stored aggregate before returning.
type ReviewsRepository struct {
	pool       *pgxpool.Pool
	aggregates AggregateRefresher
}

// ReviewCreateParams captures the payload required to create a review.
type ReviewCreateParams struct {
	UserID     string
	MovieID    string
	Rating     int
	ReviewText string
}

// ReviewListParams controls pagination and ordering of review listings.
type ReviewListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (p *ReviewListParams) normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	} else if p.Limit > 50 {
		p.Limit = 50
	}
}

// Create persists a new review and refreshes the movie aggregate. It
// fails with ErrNotFound when the movie does not exist and ErrConflict
// when the user already reviewed it.
func (r *ReviewsRepository) Create(ctx context.Context, params ReviewCreateParams) (domain.Review, error) {
	var movieExists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, params.MovieID).Scan(&movieExists); err != nil {
		return domain.Review{}, fmt.Errorf("check movie: %w", err)
	}
	if !movieExists {
		return domain.Review{}, ErrNotFound
	}

	const insert = `
        INSERT INTO reviews (id, user_id, movie_id, rating, review_text)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id
    `
	var id string
	err := r.pool.QueryRow(ctx, insert, uuid.NewString(), params.UserID, params.MovieID, params.Rating, params.ReviewText).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Review{}, ErrConflict
		}
		return domain.Review{}, fmt.Errorf("insert review: %w", err)
	}

	if err := r.aggregates.Refresh(ctx, params.MovieID); err != nil {
		return domain.Review{}, err
	}

	return r.GetByID(ctx, id)
}

// Update mutates a review's rating and text, scoped to the owning user.
// A missing review and a review owned by someone else are the same
// outcome: ErrNotFound.
func (r *ReviewsRepository) Update(ctx context.Context, reviewID, requesterID string, rating int, reviewText string) (domain.Review, error) {
	const update = `
        UPDATE reviews
        SET rating = $3, review_text = $4, updated_at = now()
        WHERE id = $1 AND user_id = $2
        RETURNING movie_id
    `
	var movieID string
	err := r.pool.QueryRow(ctx, update, reviewID, requesterID, rating, reviewText).Scan(&movieID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, fmt.Errorf("update review: %w", err)
	}

	if err := r.aggregates.Refresh(ctx, movieID); err != nil {
		return domain.Review{}, err
	}

	return r.GetByID(ctx, reviewID)
}

// Delete removes a review, scoped to the owning user, and refreshes the
// aggregate of the movie it referenced.
func (r *ReviewsRepository) Delete(ctx context.Context, reviewID, requesterID string) error {
	const del = `
        DELETE FROM reviews
        WHERE id = $1 AND user_id = $2
        RETURNING movie_id
    `
	var movieID string
	err := r.pool.QueryRow(ctx, del, reviewID, requesterID).Scan(&movieID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("delete review: %w", err)
	}

	return r.aggregates.Refresh(ctx, movieID)
}

// RateHelpfulness bumps one of the two feedback counters by one. Votes
// are not deduplicated per user; repeat calls keep counting.
func (r *ReviewsRepository) RateHelpfulness(ctx context.Context, reviewID string, helpful bool) (helpfulCount, notHelpfulCount int, err error) {
	query := `UPDATE reviews SET not_helpful = not_helpful + 1 WHERE id = $1 RETURNING helpful, not_helpful`
	if helpful {
		query = `UPDATE reviews SET helpful = helpful + 1 WHERE id = $1 RETURNING helpful, not_helpful`
	}
	err = r.pool.QueryRow(ctx, query, reviewID).Scan(&helpfulCount, &notHelpfulCount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, 0, ErrNotFound
		}
		return 0, 0, fmt.Errorf("rate review: %w", err)
	}
	return helpfulCount, notHelpfulCount, nil
}

// GetByID fetches a single review with its author's username joined in.
func (r *ReviewsRepository) GetByID(ctx context.Context, reviewID string) (domain.Review, error) {
	const query = `
        SELECT r.id, r.user_id, r.movie_id, r.rating, r.review_text,
               r.helpful, r.not_helpful, r.created_at, r.updated_at,
               u.username
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.id = $1
    `
	var review domain.Review
	err := r.pool.QueryRow(ctx, query, reviewID).Scan(
		&review.ID, &review.UserID, &review.MovieID, &review.Rating, &review.ReviewText,
		&review.Helpful, &review.NotHelpful, &review.CreatedAt, &review.UpdatedAt,
		&review.Username,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}

// ListByMovie returns one page of a movie's reviews plus the unpaged total.
func (r *ReviewsRepository) ListByMovie(ctx context.Context, movieID string, params ReviewListParams) ([]domain.Review, int, error) {
	params.normalize()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE movie_id = $1`, movieID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	orderBy := "r.created_at"
	if params.SortBy == "rating" {
		orderBy = "r.rating"
	}
	direction := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
        SELECT r.id, r.user_id, r.movie_id, r.rating, r.review_text,
               r.helpful, r.not_helpful, r.created_at, r.updated_at,
               u.username
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.movie_id = $1
        ORDER BY %s %s
        LIMIT %d OFFSET %d
    `, orderBy, direction, params.Limit, (params.Page-1)*params.Limit)

	rows, err := r.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID, &review.UserID, &review.MovieID, &review.Rating, &review.ReviewText,
			&review.Helpful, &review.NotHelpful, &review.CreatedAt, &review.UpdatedAt,
			&review.Username,
		); err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListByUser returns one page of a user's reviews with movie card fields
// joined in, newest first.
func (r *ReviewsRepository) ListByUser(ctx context.Context, userID string, params ReviewListParams) ([]domain.Review, int, error) {
	params.normalize()

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := fmt.Sprintf(`
        SELECT r.id, r.user_id, r.movie_id, r.rating, r.review_text,
               r.helpful, r.not_helpful, r.created_at, r.updated_at,
               m.title, m.poster_url
        FROM reviews r
        JOIN movies m ON m.id = r.movie_id
        WHERE r.user_id = $1
        ORDER BY r.created_at DESC
        LIMIT %d OFFSET %d
    `, params.Limit, (params.Page-1)*params.Limit)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID, &review.UserID, &review.MovieID, &review.Rating, &review.ReviewText,
			&review.Helpful, &review.NotHelpful, &review.CreatedAt, &review.UpdatedAt,
			&review.MovieTitle, &review.MoviePoster,
		); err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// StatsByUser summarizes the reviews a user has written.
func (r *ReviewsRepository) StatsByUser(ctx context.Context, userID string) (domain.ReviewStats, error) {
	const query = `
        SELECT COUNT(*)::int4,
               COALESCE(ROUND(AVG(rating)::numeric, 1), 0)::float4
        FROM reviews
        WHERE user_id = $1
    `
	var stats domain.ReviewStats
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&stats.TotalReviews, &stats.AverageRating); err != nil {
		return domain.ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}
	return stats, nil
}
