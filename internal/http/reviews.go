package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinescope/cinescope/internal/domain"
	"github.com/cinescope/cinescope/internal/repository"
)

type reviewRequest struct {
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText string `json:"reviewText" validate:"required,min=10,max=2000"`
}

type rateReviewRequest struct {
	Helpful *bool `json:"helpful" validate:"required"`
}

type reviewResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	MovieID     string    `json:"movieId"`
	Rating      int       `json:"rating"`
	ReviewText  string    `json:"reviewText"`
	Helpful     int       `json:"helpful"`
	NotHelpful  int       `json:"notHelpful"`
	Username    string    `json:"username,omitempty"`
	MovieTitle  string    `json:"movieTitle,omitempty"`
	MoviePoster string    `json:"moviePoster,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type reviewPagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalReviews int  `json:"totalReviews"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

func (s *Server) handleListMovieReviews(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	params, err := buildReviewListParams(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reviews, total, err := s.repo.Reviews.ListByMovie(r.Context(), movieID, params)
	if err != nil {
		s.logger.Printf("list movie reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching reviews")
		return
	}

	s.respondReviewPage(w, reviews, params, total)
}

func (s *Server) handleListUserReviews(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	params, err := buildReviewListParams(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	reviews, total, err := s.repo.Reviews.ListByUser(r.Context(), userID, params)
	if err != nil {
		s.logger.Printf("list user reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching reviews")
		return
	}

	s.respondReviewPage(w, reviews, params, total)
}

func (s *Server) respondReviewPage(w http.ResponseWriter, reviews []domain.Review, params repository.ReviewListParams, total int) {
	out := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReviewResponse(review))
	}

	totalPages, hasNext, hasPrev := pageMeta(params.Page, params.Limit, total)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": out,
		"pagination": reviewPagination{
			CurrentPage:  params.Page,
			TotalPages:   totalPages,
			TotalReviews: total,
			HasNextPage:  hasNext,
			HasPrevPage:  hasPrev,
		},
	})
}

func buildReviewListParams(query url.Values) (repository.ReviewListParams, error) {
	params := repository.ReviewListParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"}

	if val := strings.TrimSpace(query.Get("page")); val != "" {
		page, err := strconv.Atoi(val)
		if err != nil || page < 1 {
			return params, errors.New("page must be a positive integer")
		}
		params.Page = page
	}
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil {
			return params, errors.New("invalid limit value")
		}
		if limit < 1 {
			limit = 1
		} else if limit > 50 {
			limit = 50
		}
		params.Limit = limit
	}
	if val := strings.TrimSpace(query.Get("sortBy")); val != "" {
		if val != "createdAt" && val != "rating" {
			return params, errors.New("invalid sort field")
		}
		params.SortBy = val
	}
	if val := strings.TrimSpace(query.Get("sortOrder")); val != "" {
		if val != "asc" && val != "desc" {
			return params, errors.New("sort order must be asc or desc")
		}
		params.SortOrder = val
	}

	return params, nil
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.ReviewText = strings.TrimSpace(req.ReviewText)
	if fields := checkStruct(req); fields != nil {
		s.respondFieldErrors(w, fields)
		return
	}

	review, err := s.repo.Reviews.Create(r.Context(), repository.ReviewCreateParams{
		UserID:     requesterID(r),
		MovieID:    movieID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "Movie not found")
		case errors.Is(err, repository.ErrConflict):
			s.respondError(w, http.StatusBadRequest, "You have already reviewed this movie")
		default:
			s.logger.Printf("create review error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "Server error while creating review")
		}
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Review created successfully",
		"review":  toReviewResponse(review),
	})
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewId")

	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.ReviewText = strings.TrimSpace(req.ReviewText)
	if fields := checkStruct(req); fields != nil {
		s.respondFieldErrors(w, fields)
		return
	}

	review, err := s.repo.Reviews.Update(r.Context(), reviewID, requesterID(r), req.Rating, req.ReviewText)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Review not found or you are not authorized to update it")
			return
		}
		s.logger.Printf("update review error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while updating review")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Review updated successfully",
		"review":  toReviewResponse(review),
	})
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewId")

	if err := s.repo.Reviews.Delete(r.Context(), reviewID, requesterID(r)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Review not found or you are not authorized to delete it")
			return
		}
		s.logger.Printf("delete review error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while deleting review")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"message": "Review deleted successfully"})
}

func (s *Server) handleRateReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewId")

	var req rateReviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if fields := checkStruct(req); fields != nil {
		s.respondFieldErrors(w, fields)
		return
	}

	helpful, notHelpful, err := s.repo.Reviews.RateHelpfulness(r.Context(), reviewID, *req.Helpful)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "Review not found")
			return
		}
		s.logger.Printf("rate review error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while rating review")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Review rating updated successfully",
		"review": map[string]int{
			"helpful":    helpful,
			"notHelpful": notHelpful,
		},
	})
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:          review.ID,
		UserID:      review.UserID,
		MovieID:     review.MovieID,
		Rating:      review.Rating,
		ReviewText:  review.ReviewText,
		Helpful:     review.Helpful,
		NotHelpful:  review.NotHelpful,
		Username:    review.Username,
		MovieTitle:  review.MovieTitle,
		MoviePoster: review.MoviePoster,
		CreatedAt:   review.CreatedAt,
		UpdatedAt:   review.UpdatedAt,
	}
}
