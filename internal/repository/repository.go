package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinescope/cinescope/internal/store"
)

// ErrNotFound indicates the requested entity does not exist. Ownership
// failures on review mutations surface as ErrNotFound as well, so callers
// cannot probe for other users' review ids.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict indicates a uniqueness rule was violated: duplicate review,
// duplicate watchlist entry, or taken username/email.
var ErrConflict = errors.New("repository: conflict")

// Repository aggregates all domain-specific repositories. The reviews
// repository receives the rating aggregator as an explicit collaborator;
// it is the only path that rewrites a movie's derived rating columns.
type Repository struct {
	Movies    *MoviesRepository
	Reviews   *ReviewsRepository
	Users     *UsersRepository
	Watchlist *WatchlistRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	aggregator := &RatingAggregator{pool: pool}
	return &Repository{
		Movies:    &MoviesRepository{pool: pool},
		Reviews:   &ReviewsRepository{pool: pool, aggregates: aggregator},
		Users:     &UsersRepository{pool: pool},
		Watchlist: &WatchlistRepository{pool: pool},
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
