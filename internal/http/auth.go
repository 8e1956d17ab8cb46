package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/repository"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,usernamechars"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if fields := checkStruct(req); fields != nil {
		s.respondFieldErrors(w, fields)
		return
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		s.logger.Printf("hash password error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), repository.UserCreateParams{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusBadRequest, "Username or email is already taken")
			return
		}
		s.logger.Printf("create user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	token, err := s.tokens.Generate(user.ID, user.IsAdmin)
	if err != nil {
		s.logger.Printf("generate token error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Account created successfully",
		"token":   token,
		"user":    toUserResponse(user),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if fields := checkStruct(req); fields != nil {
		s.respondFieldErrors(w, fields)
		return
	}

	user, err := s.repo.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.Printf("get user by email error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.tokens.Generate(user.ID, user.IsAdmin)
	if err != nil {
		s.logger.Printf("generate token error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    toUserResponse(user),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.repo.Users.GetByID(r.Context(), requesterID(r))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "User not found")
			return
		}
		s.logger.Printf("get user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Server error while fetching account")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user)})
}
