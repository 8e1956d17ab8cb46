package httpserver

import (
	"net/url"
	"testing"
)

func TestBuildMovieFilters(t *testing.T) {
	values, _ := url.ParseQuery("genre=Action&genre=Drama&year=2010&minRating=3.5&search= nolan &featured=true&sortBy=averageRating&sortOrder=asc&page=2&limit=150")

	filters, err := buildMovieFilters(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filters.Genres) != 2 || filters.Genres[0] != "Action" || filters.Genres[1] != "Drama" {
		t.Fatalf("genres parse failed: %+v", filters.Genres)
	}
	if filters.Year == nil || *filters.Year != 2010 {
		t.Fatalf("year parse failed: %+v", filters.Year)
	}
	if filters.MinRating == nil || *filters.MinRating != 3.5 {
		t.Fatalf("minRating parse failed: %+v", filters.MinRating)
	}
	if filters.Search == nil || *filters.Search != "nolan" {
		t.Fatalf("search not trimmed: %+v", filters.Search)
	}
	if filters.Featured == nil || !*filters.Featured {
		t.Fatalf("featured parse failed")
	}
	if filters.Trending != nil {
		t.Fatalf("trending should be unset")
	}
	if filters.SortBy != "averageRating" || filters.SortOrder != "asc" {
		t.Fatalf("sort parse failed: %s %s", filters.SortBy, filters.SortOrder)
	}
	if filters.Page != 2 {
		t.Fatalf("page = %d, want 2", filters.Page)
	}
	if filters.Limit != 50 {
		t.Fatalf("limit not clamped: %d", filters.Limit)
	}
}

func TestBuildMovieFilters_Defaults(t *testing.T) {
	filters, err := buildMovieFilters(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filters.Page != 1 || filters.Limit != 12 {
		t.Fatalf("defaults = page %d limit %d, want 1/12", filters.Page, filters.Limit)
	}
	if filters.SortBy != "createdAt" || filters.SortOrder != "desc" {
		t.Fatalf("default sort = %s %s", filters.SortBy, filters.SortOrder)
	}
}

func TestBuildMovieFilters_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"invalid year", "year=abc"},
		{"year too early", "year=1700"},
		{"unknown genre", "genre=Polka"},
		{"page zero", "page=0"},
		{"negative page", "page=-3"},
		{"rating out of range", "minRating=6"},
		{"unknown sort field", "sortBy=budget"},
		{"bad sort order", "sortOrder=sideways"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			values, _ := url.ParseQuery(c.query)
			if _, err := buildMovieFilters(values); err == nil {
				t.Fatalf("expected error for %q", c.query)
			}
		})
	}
}

func TestBuildReviewListParams(t *testing.T) {
	values, _ := url.ParseQuery("page=3&limit=100&sortBy=rating&sortOrder=asc")
	params, err := buildReviewListParams(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 3 || params.Limit != 50 {
		t.Fatalf("page/limit = %d/%d, want 3/50", params.Page, params.Limit)
	}
	if params.SortBy != "rating" || params.SortOrder != "asc" {
		t.Fatalf("sort = %s %s", params.SortBy, params.SortOrder)
	}

	if _, err := buildReviewListParams(url.Values{"sortBy": []string{"helpful"}}); err == nil {
		t.Fatalf("expected error for unknown sort field")
	}
	if _, err := buildReviewListParams(url.Values{"page": []string{"0"}}); err == nil {
		t.Fatalf("expected error for page zero")
	}
}
