package reviews

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"cosnap/db"
	"cosnap/globals"
	"cosnap/models"
	"cosnap/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Handler struct {
	reviews *mongo.Collection
	users   *mongo.Collection
}

func NewHandler(database *db.Database) *Handler {
	return &Handler{reviews: database.Reviews, users: database.Users}
}

// GET /api/reviews/:photographerId
func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := h.reviews.Find(ctx,
		bson.M{"photographerId": ps.ByName("photographerId")},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}
	defer cur.Close(ctx)

	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode reviews")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "reviews": reviews})
}

// POST /api/reviews/:photographerId — one review per reviewer per
// photographer.
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	photographerID := ps.ByName("photographerId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := h.reviews.CountDocuments(ctx, bson.M{"userId": userID, "photographerId": photographerID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "You have already reviewed this photographer")
		return
	}

	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil || review.Rating < 1 || review.Rating > 5 || review.Comment == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid review data")
		return
	}

	review.ReviewID = utils.GetUUID()
	review.UserID = userID
	review.PhotographerID = photographerID
	review.CreatedAt = time.Now()

	if _, err := h.reviews.InsertOne(ctx, review); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to insert review")
		return
	}

	h.recomputeRating(ctx, photographerID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "reviewId": review.ReviewID})
}

// DELETE /api/reviews/:photographerId/:reviewId — author only.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.reviews.DeleteOne(ctx, bson.M{"reviewId": ps.ByName("reviewId"), "userId": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}

	h.recomputeRating(ctx, ps.ByName("photographerId"))
	w.WriteHeader(http.StatusNoContent)
}

// recomputeRating denormalizes the average and count onto the
// photographer's user record after every review write.
func (h *Handler) recomputeRating(ctx context.Context, photographerID string) {
	cur, err := h.reviews.Find(ctx, bson.M{"photographerId": photographerID})
	if err != nil {
		log.Printf("recompute rating: %v", err)
		return
	}
	defer cur.Close(ctx)

	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		log.Printf("recompute rating: %v", err)
		return
	}

	avg, count := averageRating(reviews)
	_, err = h.users.UpdateOne(ctx,
		bson.M{"userid": photographerID},
		bson.M{"$set": bson.M{"ratingAvg": avg, "ratingCount": count}},
	)
	if err != nil {
		log.Printf("recompute rating: %v", err)
	}
}

func averageRating(reviews []models.Review) (float64, int) {
	if len(reviews) == 0 {
		return 0, 0
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return float64(sum) / float64(len(reviews)), len(reviews)
}
