package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cosnap/db"
	"cosnap/globals"
	"cosnap/models"
	"cosnap/rdx"
	"cosnap/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const picDir = "static/userpic"

type Handler struct {
	users *mongo.Collection
	conn  *redis.Client
}

func NewHandler(database *db.Database, conn *redis.Client) *Handler {
	return &Handler{users: database.Users, conn: conn}
}

// GET /api/profile/:id — the opaque user record lookup other modules
// consume (display name, photo, role, rating).
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := h.users.FindOne(ctx, bson.M{"userid": ps.ByName("id")}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("profile lookup: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "user": user})
}

// PUT /api/profile — edits the caller's own record.
func (h *Handler) EditProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	var body struct {
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
		Location    string `json:"location"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	fields := bson.M{}
	if body.DisplayName != "" {
		fields["displayName"] = body.DisplayName
	}
	if body.Bio != "" {
		fields["bio"] = body.Bio
	}
	if body.Location != "" {
		fields["location"] = body.Location
	}
	if body.NewPassword != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		fields["password"] = string(hashed)
	}
	if len(fields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := h.users.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": fields}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	if body.DisplayName != "" {
		if err := rdx.Set(ctx, h.conn, "users:"+userID, body.DisplayName); err != nil {
			log.Printf("failed to cache display name: %v", err)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// POST /api/profile/picture — multipart upload, resized to a square
// thumbnail before saving.
func (h *Handler) UploadProfilePic(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	file, header, err := r.FormFile("picture")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "missing picture")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid image")
		return
	}
	thumb := imaging.Fill(img, 256, 256, imaging.Center, imaging.Lanczos)

	if err := os.MkdirAll(picDir, 0755); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store picture")
		return
	}
	path := filepath.Join(picDir, fmt.Sprintf("%s.jpg", userID))
	if err := imaging.Save(thumb, path); err != nil {
		log.Printf("save profile pic: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to store picture")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := h.users.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": bson.M{"profilePic": "/" + path}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "profilePic": "/" + path})
}
