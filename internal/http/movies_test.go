package httpserver

import "testing"

func TestPageMeta(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"first of three", 1, 12, 25, 3, true, false},
		{"middle", 2, 12, 25, 3, true, true},
		{"last", 3, 12, 25, 3, false, true},
		{"single page", 1, 12, 5, 1, false, false},
		{"empty", 1, 12, 0, 0, false, false},
		{"exact fit", 2, 10, 20, 2, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totalPages, hasNext, hasPrev := pageMeta(tt.page, tt.limit, tt.total)
			if totalPages != tt.totalPages || hasNext != tt.hasNext || hasPrev != tt.hasPrev {
				t.Fatalf("pageMeta(%d,%d,%d) = (%d,%v,%v), want (%d,%v,%v)",
					tt.page, tt.limit, tt.total,
					totalPages, hasNext, hasPrev,
					tt.totalPages, tt.hasNext, tt.hasPrev)
			}
		})
	}
}

func TestCheckStruct_MovieRequest(t *testing.T) {
	valid := movieRequest{
		Title:       "Interstellar",
		Genre:       []string{"Sci-Fi", "Drama"},
		ReleaseYear: 2014,
		Director:    "Christopher Nolan",
		Synopsis:    "A team of explorers travel through a wormhole in space.",
		PosterURL:   "https://img.example.com/interstellar.jpg",
	}
	if fields := checkStruct(valid); fields != nil {
		t.Fatalf("valid request rejected: %+v", fields)
	}

	invalid := valid
	invalid.Genre = []string{"Sci-Fi", "Polka"}
	fields := checkStruct(invalid)
	if len(fields) != 1 || fields[0].Field != "Genre[1]" {
		t.Fatalf("genre validation fields = %+v", fields)
	}

	invalid = valid
	invalid.ReleaseYear = 1492
	if fields := checkStruct(invalid); len(fields) != 1 {
		t.Fatalf("release year validation fields = %+v", fields)
	}

	invalid = valid
	invalid.PosterURL = "https://img.example.com/interstellar.exe"
	if fields := checkStruct(invalid); len(fields) != 1 {
		t.Fatalf("poster validation fields = %+v", fields)
	}

	trailer := "https://vimeo.com/12345"
	invalid = valid
	invalid.TrailerURL = &trailer
	if fields := checkStruct(invalid); len(fields) != 1 {
		t.Fatalf("trailer validation fields = %+v", fields)
	}
}
