package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/cinescope/cinescope/internal/auth"
	"github.com/cinescope/cinescope/internal/repository"
	"github.com/cinescope/cinescope/internal/store"
)

type seedFile struct {
	Users   []seedUser   `json:"users"`
	Movies  []seedMovie  `json:"movies"`
	Reviews []seedReview `json:"reviews"`
}

type seedUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

type seedMovie struct {
	Title       string   `json:"title"`
	Genre       []string `json:"genre"`
	ReleaseYear int      `json:"releaseYear"`
	Director    string   `json:"director"`
	Cast        []string `json:"cast"`
	Synopsis    string   `json:"synopsis"`
	PosterURL   string   `json:"posterUrl"`
	TrailerURL  *string  `json:"trailerUrl"`
	Duration    *int     `json:"duration"`
	Featured    bool     `json:"featured"`
	Trending    bool     `json:"trending"`
}

// seedReview references its user and movie by email and title because the
// row ids are generated at insert time.
type seedReview struct {
	UserEmail  string `json:"userEmail"`
	MovieTitle string `json:"movieTitle"`
	Rating     int    `json:"rating"`
	ReviewText string `json:"reviewText"`
}

func main() {
	var (
		data  = flag.String("data", "seed.json", "path to seed data file")
		dbURL = flag.String("db", os.Getenv("DB_URL"), "postgres connection string")
	)
	flag.Parse()

	if *dbURL == "" {
		log.Fatal("no database URL: set -db or DB_URL")
	}

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read seed data: %v", err)
	}

	var payload seedFile
	if err := json.Unmarshal(file, &payload); err != nil {
		log.Fatalf("parse seed data: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.New(ctx, *dbURL, store.Options{})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	repo := repository.New(st)

	usersByEmail := make(map[string]string, len(payload.Users))
	for _, entry := range payload.Users {
		hash, err := auth.HashPassword(entry.Password, 0)
		if err != nil {
			log.Fatalf("hash password for %s: %v", entry.Email, err)
		}
		user, err := repo.Users.Create(ctx, repository.UserCreateParams{
			Username:     entry.Username,
			Email:        entry.Email,
			PasswordHash: hash,
			IsAdmin:      entry.IsAdmin,
		})
		if err != nil {
			log.Fatalf("seed user %s: %v", entry.Email, err)
		}
		usersByEmail[entry.Email] = user.ID
	}

	moviesByTitle := make(map[string]string, len(payload.Movies))
	for _, entry := range payload.Movies {
		movie, err := repo.Movies.Create(ctx, repository.MovieParams{
			Title:       entry.Title,
			Genre:       entry.Genre,
			ReleaseYear: entry.ReleaseYear,
			Director:    entry.Director,
			Cast:        entry.Cast,
			Synopsis:    entry.Synopsis,
			PosterURL:   entry.PosterURL,
			TrailerURL:  entry.TrailerURL,
			Duration:    entry.Duration,
			Featured:    entry.Featured,
			Trending:    entry.Trending,
		})
		if err != nil {
			log.Fatalf("seed movie %q: %v", entry.Title, err)
		}
		moviesByTitle[entry.Title] = movie.ID
	}

	for _, entry := range payload.Reviews {
		userID, ok := usersByEmail[entry.UserEmail]
		if !ok {
			log.Fatalf("review references unknown user %s", entry.UserEmail)
		}
		movieID, ok := moviesByTitle[entry.MovieTitle]
		if !ok {
			log.Fatalf("review references unknown movie %q", entry.MovieTitle)
		}
		if _, err := repo.Reviews.Create(ctx, repository.ReviewCreateParams{
			UserID:     userID,
			MovieID:    movieID,
			Rating:     entry.Rating,
			ReviewText: entry.ReviewText,
		}); err != nil {
			log.Fatalf("seed review by %s on %q: %v", entry.UserEmail, entry.MovieTitle, err)
		}
	}

	log.Printf("seeded %d users, %d movies, %d reviews",
		len(payload.Users), len(payload.Movies), len(payload.Reviews))
}
