package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildMovieFilters(f *testing.F) {
	seeds := []string{
		"search=Inception&genre=Action&year=2010",
		"year=abc",
		"limit=200",
		"minRating=4.5&featured=true",
		"sortBy=averageRating&sortOrder=asc",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		filters, err := buildMovieFilters(values)
		if err != nil {
			return
		}
		if filters.Page < 1 {
			t.Fatalf("accepted page %d", filters.Page)
		}
		if filters.Limit < 1 || filters.Limit > 50 {
			t.Fatalf("limit %d outside [1,50]", filters.Limit)
		}
		if filters.MinRating != nil && (*filters.MinRating < 0 || *filters.MinRating > 5) {
			t.Fatalf("accepted minRating %v", *filters.MinRating)
		}
	})
}
