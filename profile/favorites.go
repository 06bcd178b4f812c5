package profile

import (
	"context"
	"log"
	"net/http"
	"time"

	"cosnap/globals"
	"cosnap/models"
	"cosnap/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// The named set fields on a user record a client may toggle membership in.
// Favorite photographers, favorite cosplayers and convention attendance are
// the same read-modify-write shape, so they share one toggle operation.
var toggleFields = map[string]string{
	"photographers": "favoritePhotographers",
	"cosplayers":    "favoriteCosplayers",
	"conventions":   "conventions",
}

// toggleUpdate builds the membership mutation: $pull when the member is
// already in the set, $addToSet otherwise.
func toggleUpdate(field, memberID string, present bool) bson.M {
	if present {
		return bson.M{"$pull": bson.M{field: memberID}}
	}
	return bson.M{"$addToSet": bson.M{field: memberID}}
}

// POST /api/favorites/:kind/:id — toggles the target in or out of the
// caller's named set and reports the resulting membership.
func (h *Handler) ToggleSetMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	field, ok := toggleFields[ps.ByName("kind")]
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "unknown set")
		return
	}
	memberID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := h.users.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("toggle lookup: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	present := utils.Contains(setField(user, field), memberID)
	if _, err := h.users.UpdateOne(ctx, bson.M{"userid": userID}, toggleUpdate(field, memberID, present)); err != nil {
		log.Printf("toggle update: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "active": !present})
}

func setField(user models.User, field string) []string {
	switch field {
	case "favoritePhotographers":
		return user.FavoritePhotographers
	case "favoriteCosplayers":
		return user.FavoriteCosplayers
	case "conventions":
		return user.Conventions
	}
	return nil
}
