package reviews

import (
	"testing"

	"cosnap/models"
)

func TestAverageRating(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		wantAvg float64
		wantN   int
	}{
		{"no reviews", nil, 0, 0},
		{"single review", []int{4}, 4, 1},
		{"mixed reviews", []int{5, 3, 4, 4}, 4, 4},
		{"all ones", []int{1, 1}, 1, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reviews := make([]models.Review, len(tc.ratings))
			for i, rating := range tc.ratings {
				reviews[i] = models.Review{Rating: rating}
			}
			avg, n := averageRating(reviews)
			if avg != tc.wantAvg || n != tc.wantN {
				t.Fatalf("got (%v, %d), want (%v, %d)", avg, n, tc.wantAvg, tc.wantN)
			}
		})
	}
}
