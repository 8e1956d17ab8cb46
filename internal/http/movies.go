package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinescope/cinescope/internal/domain"
	"github.com/cinescope/cinescope/internal/repository"
)

type movieRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Genre       []string `json:"genre" validate:"required,min=1,dive,genretag"`
	ReleaseYear int      `json:"releaseYear" validate:"required,releaseyear"`
	Director    string   `json:"director" validate:"required,max=100"`
	Cast        []string `json:"cast" validate:"omitempty,dive,min=1,max=100"`
	Synopsis    string   `json:"synopsis" validate:"required,min=10,max=2000"`
	PosterURL   string   `json:"posterUrl" validate:"required,imageurl"`
	TrailerURL  *string  `json:"trailerUrl" validate:"omitempty,youtubeurl"`
	Duration    *int     `json:"duration" validate:"omitempty,gte=1,lte=600"`
	Featured    bool     `json:"featured"`
	Trending    bool     `json:"trending"`
}

type movieResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Genre         []string  `json:"genre"`
	ReleaseYear   int       `json:"releaseYear"`
	Director      string    `json:"director"`
	Cast          []string  `json:"cast"`
	Synopsis      string    `json:"synopsis"`
	PosterURL     string    `json:"posterUrl"`
	TrailerURL    *string   `json:"trailerUrl,omitempty"`
	Duration      *int      `json:"duration,omitempty"`
	AverageRating float32   `json:"averageRating"`
	TotalRatings  int       `json:"totalRatings"`
	Featured      bool      `json:"featured"`
	Trending      bool      `json:"trending"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type movieDetailResponse struct {
	movieResponse
	Reviews []reviewResponse `json:"reviews"`
}

type moviePagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalMovies int  `json:"totalMovies"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type movieListResponse struct {
	Movies     []movieResponse `json:"movies"`
	Pagination moviePagination `json:"pagination"`
}

var movieSortFields = map[string]struct{}{
	"title":         {},
	"releaseYear":   {},
	"averageRating": {},
	"createdAt":     {},
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	filters, err := buildMovieFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.repo.Movies.List(r.Context(), filters)
	if err != nil {
		s.logger.Printf("list movies error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching movies")
		return
	}

	movies := make([]movieResponse, 0, len(result.Items))
	for _, movie := range result.Items {
		movies = append(movies, toMovieResponse(movie))
	}

	totalPages, hasNext, hasPrev := pageMeta(filters.Page, filters.Limit, result.Total)
	s.respondJSON(w, http.StatusOK, movieListResponse{
		Movies: movies,
		Pagination: moviePagination{
			CurrentPage: filters.Page,
			TotalPages:  totalPages,
			TotalMovies: result.Total,
			HasNextPage: hasNext,
			HasPrevPage: hasPrev,
		},
	})
}

// buildMovieFilters parses and validates the listing query parameters.
// A page below 1 is rejected; limit is clamped to [1,50].
func buildMovieFilters(query url.Values) (repository.MovieListFilters, error) {
	filters := repository.MovieListFilters{Page: 1, Limit: 12, SortBy: "createdAt", SortOrder: "desc"}

	if val := strings.TrimSpace(query.Get("page")); val != "" {
		page, err := strconv.Atoi(val)
		if err != nil || page < 1 {
			return filters, fmt.Errorf("page must be a positive integer")
		}
		filters.Page = page
	}
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil {
			return filters, fmt.Errorf("invalid limit value")
		}
		if limit < 1 {
			limit = 1
		} else if limit > 50 {
			limit = 50
		}
		filters.Limit = limit
	}
	for _, g := range query["genre"] {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if !domain.IsGenre(g) {
			return filters, fmt.Errorf("invalid genre filter")
		}
		filters.Genres = append(filters.Genres, g)
	}
	if val := strings.TrimSpace(query.Get("year")); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil || year < 1888 || year > time.Now().Year()+5 {
			return filters, fmt.Errorf("invalid year filter")
		}
		filters.Year = &year
	}
	if val := strings.TrimSpace(query.Get("minRating")); val != "" {
		minRating, err := strconv.ParseFloat(val, 32)
		if err != nil || minRating < 0 || minRating > 5 {
			return filters, fmt.Errorf("minRating must be between 0 and 5")
		}
		rating := float32(minRating)
		filters.MinRating = &rating
	}
	if val := strings.TrimSpace(query.Get("search")); val != "" {
		filters.Search = &val
	}
	if query.Get("featured") == "true" {
		flag := true
		filters.Featured = &flag
	}
	if query.Get("trending") == "true" {
		flag := true
		filters.Trending = &flag
	}
	if val := strings.TrimSpace(query.Get("sortBy")); val != "" {
		if _, ok := movieSortFields[val]; !ok {
			return filters, fmt.Errorf("invalid sort field")
		}
		filters.SortBy = val
	}
	if val := strings.TrimSpace(query.Get("sortOrder")); val != "" {
		if val != "asc" && val != "desc" {
			return filters, fmt.Errorf("sort order must be asc or desc")
		}
		filters.SortOrder = val
	}

	return filters, nil
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	movie, err := s.repo.Movies.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		s.logger.Printf("get movie error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching movie")
		return
	}

	reviews, _, err := s.repo.Reviews.ListByMovie(r.Context(), id, repository.ReviewListParams{Limit: 50})
	if err != nil {
		s.logger.Printf("get movie reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching movie")
		return
	}

	detail := movieDetailResponse{
		movieResponse: toMovieResponse(movie),
		Reviews:       make([]reviewResponse, 0, len(reviews)),
	}
	for _, review := range reviews {
		detail.Reviews = append(detail.Reviews, toReviewResponse(review))
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"movie": detail})
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Director = strings.TrimSpace(req.Director)
	if fields := checkStruct(req); fields != nil {
		s.respondFieldErrors(w, fields)
		return
	}

	movie, err := s.repo.Movies.Create(r.Context(), movieParamsFromRequest(req))
	if err != nil {
		s.logger.Printf("create movie error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while creating movie")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Movie created successfully",
		"movie":   toMovieResponse(movie),
	})
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req movieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Director = strings.TrimSpace(req.Director)
	if fields := checkStruct(req); fields != nil {
		s.respondFieldErrors(w, fields)
		return
	}

	movie, err := s.repo.Movies.Update(r.Context(), id, movieParamsFromRequest(req))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		s.logger.Printf("update movie error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while updating movie")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Movie updated successfully",
		"movie":   toMovieResponse(movie),
	})
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.repo.Movies.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Movie not found")
			return
		}
		s.logger.Printf("delete movie error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while deleting movie")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"message": "Movie deleted successfully"})
}

func (s *Server) handleFeaturedMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.repo.Movies.Featured(r.Context(), 6)
	if err != nil {
		s.logger.Printf("featured movies error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching featured movies")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"movies": toMovieResponses(movies)})
}

func (s *Server) handleTrendingMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.repo.Movies.Trending(r.Context(), 6)
	if err != nil {
		s.logger.Printf("trending movies error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching trending movies")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"movies": toMovieResponses(movies)})
}

func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(q) < 2 {
		s.respondError(w, http.StatusBadRequest, "Search query must be at least 2 characters long")
		return
	}

	limit := 10
	if val := strings.TrimSpace(r.URL.Query().Get("limit")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 1 {
			s.respondError(w, http.StatusBadRequest, "invalid limit value")
			return
		}
		limit = parsed
	}

	movies, err := s.repo.Movies.Search(r.Context(), q, limit)
	if err != nil {
		s.logger.Printf("search movies error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while searching movies")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"movies": toMovieResponses(movies)})
}

func movieParamsFromRequest(req movieRequest) repository.MovieParams {
	cast := make([]string, 0, len(req.Cast))
	for _, member := range req.Cast {
		if trimmed := strings.TrimSpace(member); trimmed != "" {
			cast = append(cast, trimmed)
		}
	}
	return repository.MovieParams{
		Title:       req.Title,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
		Director:    req.Director,
		Cast:        cast,
		Synopsis:    strings.TrimSpace(req.Synopsis),
		PosterURL:   req.PosterURL,
		TrailerURL:  req.TrailerURL,
		Duration:    req.Duration,
		Featured:    req.Featured,
		Trending:    req.Trending,
	}
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:            movie.ID,
		Title:         movie.Title,
		Genre:         movie.Genre,
		ReleaseYear:   movie.ReleaseYear,
		Director:      movie.Director,
		Cast:          movie.Cast,
		Synopsis:      movie.Synopsis,
		PosterURL:     movie.PosterURL,
		TrailerURL:    movie.TrailerURL,
		Duration:      movie.Duration,
		AverageRating: movie.AverageRating,
		TotalRatings:  movie.TotalRatings,
		Featured:      movie.Featured,
		Trending:      movie.Trending,
		CreatedAt:     movie.CreatedAt,
		UpdatedAt:     movie.UpdatedAt,
	}
}

func toMovieResponses(movies []domain.Movie) []movieResponse {
	out := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		out = append(out, toMovieResponse(movie))
	}
	return out
}
