package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinescope/cinescope/internal/domain"
	"github.com/cinescope/cinescope/internal/repository"
)

type watchlistAddRequest struct {
	MovieID string `json:"movieId" validate:"required,uuid"`
}

type watchlistItemResponse struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	MovieID   string             `json:"movieId"`
	DateAdded time.Time          `json:"dateAdded"`
	Movie     watchlistMovieCard `json:"movie"`
}

type watchlistMovieCard struct {
	Title         string   `json:"title"`
	PosterURL     string   `json:"posterUrl"`
	ReleaseYear   int      `json:"releaseYear"`
	AverageRating float32  `json:"averageRating"`
	Genre         []string `json:"genre"`
}

type watchlistPagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	page := 1
	limit := 12
	if val := strings.TrimSpace(r.URL.Query().Get("page")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 1 {
			s.respondError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = parsed
	}
	if val := strings.TrimSpace(r.URL.Query().Get("limit")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid limit value")
			return
		}
		if parsed < 1 {
			parsed = 1
		} else if parsed > 50 {
			parsed = 50
		}
		limit = parsed
	}

	entries, total, err := s.repo.Watchlist.List(r.Context(), userID, page, limit)
	if err != nil {
		s.logger.Printf("list watchlist error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching watchlist")
		return
	}

	items := make([]watchlistItemResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toWatchlistItemResponse(entry))
	}

	totalPages, hasNext, hasPrev := pageMeta(page, limit, total)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"watchlist": items,
		"pagination": watchlistPagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			HasNextPage: hasNext,
			HasPrevPage: hasPrev,
		},
	})
}

func (s *Server) handleAddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req watchlistAddRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if fields := checkStruct(req); fields != nil {
		s.respondFieldErrors(w, fields)
		return
	}

	entry, err := s.repo.Watchlist.Add(r.Context(), requesterID(r), req.MovieID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "Movie not found")
		case errors.Is(err, repository.ErrConflict):
			s.respondError(w, http.StatusBadRequest, "Movie is already in your watchlist")
		default:
			s.logger.Printf("add to watchlist error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "Server error while adding to watchlist")
		}
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":       "Movie added to watchlist successfully",
		"watchlistItem": toWatchlistItemResponse(entry),
	})
}

func (s *Server) handleRemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieId")

	if err := s.repo.Watchlist.Remove(r.Context(), requesterID(r), movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Movie not found in watchlist")
			return
		}
		s.logger.Printf("remove from watchlist error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while removing from watchlist")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"message": "Movie removed from watchlist successfully"})
}

func (s *Server) handleCheckWatchlist(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "movieId")

	inWatchlist, dateAdded, err := s.repo.Watchlist.Status(r.Context(), requesterID(r), movieID)
	if err != nil {
		s.logger.Printf("check watchlist error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while checking watchlist status")
		return
	}

	payload := map[string]interface{}{"inWatchlist": inWatchlist}
	if dateAdded != nil {
		payload["dateAdded"] = dateAdded
	}
	s.respondJSON(w, http.StatusOK, payload)
}

func toWatchlistItemResponse(entry domain.WatchlistEntry) watchlistItemResponse {
	return watchlistItemResponse{
		ID:        entry.ID,
		UserID:    entry.UserID,
		MovieID:   entry.MovieID,
		DateAdded: entry.DateAdded,
		Movie: watchlistMovieCard{
			Title:         entry.MovieTitle,
			PosterURL:     entry.MoviePoster,
			ReleaseYear:   entry.MovieYear,
			AverageRating: entry.MovieRating,
			Genre:         entry.MovieGenre,
		},
	}
}
