package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinescope/cinescope/internal/domain"
	"github.com/cinescope/cinescope/internal/repository"
)

type userUpdateRequest struct {
	Username       *string `json:"username" validate:"omitempty,min=3,max=30,usernamechars"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

type userResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            *string   `json:"bio,omitempty"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	IsAdmin        bool      `json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt"`
}

type reviewStatsResponse struct {
	TotalReviews  int     `json:"totalReviews"`
	AverageRating float32 `json:"averageRating"`
}

type genreStatResponse struct {
	Genre         string  `json:"genre"`
	Count         int     `json:"count"`
	AverageRating float32 `json:"averageRating"`
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	user, err := s.repo.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Printf("get user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching user profile")
		return
	}

	stats, err := s.repo.Reviews.StatsByUser(r.Context(), userID)
	if err != nil {
		s.logger.Printf("user review stats error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching user profile")
		return
	}

	recent, _, err := s.repo.Reviews.ListByUser(r.Context(), userID, repository.ReviewListParams{Limit: 5})
	if err != nil {
		s.logger.Printf("user recent reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching user profile")
		return
	}

	recentReviews := make([]reviewResponse, 0, len(recent))
	for _, review := range recent {
		recentReviews = append(recentReviews, toReviewResponse(review))
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": toUserResponse(user),
		"stats": reviewStatsResponse{
			TotalReviews:  stats.TotalReviews,
			AverageRating: stats.AverageRating,
		},
		"recentReviews": recentReviews,
	})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if userID != requesterID(r) && !requesterIsAdmin(r) {
		s.respondError(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	var req userUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		req.Username = &trimmed
	}
	if fields := checkStruct(req); fields != nil {
		s.respondFieldErrors(w, fields)
		return
	}

	user, err := s.repo.Users.Update(r.Context(), userID, repository.UserUpdateParams{
		Username:       req.Username,
		Email:          req.Email,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, repository.ErrConflict):
			s.respondError(w, http.StatusBadRequest, "Username or email is already taken")
		default:
			s.logger.Printf("update user error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "Server error while updating profile")
		}
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    toUserResponse(user),
	})
}

func (s *Server) handleGetUserStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	if _, err := s.repo.Users.GetByID(r.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Printf("get user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching user stats")
		return
	}

	stats, err := s.repo.Users.Stats(r.Context(), userID)
	if err != nil {
		s.logger.Printf("user stats error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching user stats")
		return
	}

	favoriteGenres := make([]genreStatResponse, 0, len(stats.FavoriteGenres))
	for _, gs := range stats.FavoriteGenres {
		favoriteGenres = append(favoriteGenres, genreStatResponse{
			Genre:         gs.Genre,
			Count:         gs.Count,
			AverageRating: gs.AverageRating,
		})
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"reviewStats": map[string]interface{}{
			"totalReviews":       stats.TotalReviews,
			"averageRating":      stats.AverageRating,
			"ratingDistribution": stats.RatingDistribution,
		},
		"watchlistCount": stats.WatchlistCount,
		"favoriteGenres": favoriteGenres,
	})
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		IsAdmin:        user.IsAdmin,
		CreatedAt:      user.CreatedAt,
	}
}
