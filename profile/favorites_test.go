package profile

import (
	"testing"

	"cosnap/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestToggleUpdate(t *testing.T) {
	t.Run("absent member is added", func(t *testing.T) {
		update := toggleUpdate("favoritePhotographers", "p1", false)
		add, ok := update["$addToSet"].(bson.M)
		if !ok {
			t.Fatal("want $addToSet")
		}
		if add["favoritePhotographers"] != "p1" {
			t.Fatalf("got %v", add)
		}
	})

	t.Run("present member is removed", func(t *testing.T) {
		update := toggleUpdate("conventions", "con42", true)
		pull, ok := update["$pull"].(bson.M)
		if !ok {
			t.Fatal("want $pull")
		}
		if pull["conventions"] != "con42" {
			t.Fatalf("got %v", pull)
		}
	})
}

func TestSetField(t *testing.T) {
	user := models.User{
		FavoritePhotographers: []string{"p1"},
		FavoriteCosplayers:    []string{"c1", "c2"},
		Conventions:           []string{"con42"},
	}

	cases := []struct {
		field string
		want  int
	}{
		{"favoritePhotographers", 1},
		{"favoriteCosplayers", 2},
		{"conventions", 1},
		{"unknown", 0},
	}
	for _, tc := range cases {
		if got := len(setField(user, tc.field)); got != tc.want {
			t.Errorf("%s: want %d members, got %d", tc.field, tc.want, got)
		}
	}
}
