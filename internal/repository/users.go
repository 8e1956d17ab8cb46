package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinescope/cinescope/internal/domain"
)

// UsersRepository provides persistence helpers for user accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `
    id,
    username,
    email,
    password_hash,
    bio,
    profile_picture,
    is_admin,
    created_at,
    updated_at
`

// UserCreateParams captures the payload required to register a user.
type UserCreateParams struct {
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// UserUpdateParams carries optional profile mutations; nil means
// unchanged.
type UserUpdateParams struct {
	Username       *string
	Email          *string
	Bio            *string
	ProfilePicture *string
}

// Create inserts a new user. A taken username or email returns
// ErrConflict.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	query := fmt.Sprintf(`
        INSERT INTO users (id, username, email, password_hash, is_admin)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING %s
    `, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query,
		uuid.NewString(), params.Username, params.Email, params.PasswordHash, params.IsAdmin))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByEmail fetches a user by email for login.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// Update applies the provided profile fields, leaving nil ones untouched.
// Uniqueness collisions on username/email return ErrConflict.
func (r *UsersRepository) Update(ctx context.Context, id string, params UserUpdateParams) (domain.User, error) {
	query := fmt.Sprintf(`
        UPDATE users
        SET username = COALESCE($2, username),
            email = COALESCE($3, email),
            bio = COALESCE($4, bio),
            profile_picture = COALESCE($5, profile_picture),
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, id,
		params.Username, params.Email, params.Bio, params.ProfilePicture))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Stats aggregates a user's review and watchlist activity: totals, mean
// rating given, per-star distribution, and the top five genres among the
// movies they reviewed.
func (r *UsersRepository) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	stats := domain.UserStats{RatingDistribution: map[int]int{}}

	const reviewStats = `
        SELECT COUNT(*)::int4,
               COALESCE(ROUND(AVG(rating)::numeric, 1), 0)::float4
        FROM reviews
        WHERE user_id = $1
    `
	if err := r.pool.QueryRow(ctx, reviewStats, userID).Scan(&stats.TotalReviews, &stats.AverageRating); err != nil {
		return domain.UserStats{}, fmt.Errorf("review stats: %w", err)
	}

	const distribution = `
        SELECT rating, COUNT(*)::int4
        FROM reviews
        WHERE user_id = $1
        GROUP BY rating
    `
	rows, err := r.pool.Query(ctx, distribution, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("rating distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return domain.UserStats{}, err
		}
		stats.RatingDistribution[rating] = count
	}
	if err := rows.Err(); err != nil {
		return domain.UserStats{}, err
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)::int4 FROM watchlist WHERE user_id = $1`, userID).Scan(&stats.WatchlistCount); err != nil {
		return domain.UserStats{}, fmt.Errorf("watchlist count: %w", err)
	}

	const favoriteGenres = `
        SELECT g.genre,
               COUNT(*)::int4,
               COALESCE(ROUND(AVG(r.rating)::numeric, 1), 0)::float4
        FROM reviews r
        JOIN movies m ON m.id = r.movie_id
        CROSS JOIN LATERAL unnest(m.genre) AS g(genre)
        WHERE r.user_id = $1
        GROUP BY g.genre
        ORDER BY COUNT(*) DESC, g.genre ASC
        LIMIT 5
    `
	genreRows, err := r.pool.Query(ctx, favoriteGenres, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("favorite genres: %w", err)
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var gs domain.GenreStat
		if err := genreRows.Scan(&gs.Genre, &gs.Count, &gs.AverageRating); err != nil {
			return domain.UserStats{}, err
		}
		stats.FavoriteGenres = append(stats.FavoriteGenres, gs)
	}
	if err := genreRows.Err(); err != nil {
		return domain.UserStats{}, err
	}

	return stats, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Bio,
		&user.ProfilePicture,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
