package httpserver

import (
	"net/http"
	"testing"
)

func BenchmarkHandleRateReview(b *testing.B) {
	srv := buildTestServer(b)

	movie := createTestMovie(b, srv, "Benchmark Movie")
	_, token := createTestUser(b, srv, "benchuser", false)

	rec := doRequest(srv, http.MethodPost, "/reviews/movie/"+movie.ID, token, map[string]interface{}{
		"rating":     4,
		"reviewText": "A review worth voting on over and over again.",
	})
	if rec.Code != http.StatusCreated {
		b.Fatalf("create review status = %d", rec.Code)
	}
	body := decodeBody(b, rec)
	review := body["review"].(map[string]interface{})
	reviewID := review["id"].(string)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doRequest(srv, http.MethodPost, "/reviews/"+reviewID+"/rate", token, map[string]bool{"helpful": true})
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
