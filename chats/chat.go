package chats

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"cosnap/db"
	"cosnap/middleware"
	"cosnap/models"
	"cosnap/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type Handler struct {
	chats    *mongo.Collection
	messages *mongo.Collection
	hub      *Hub
}

func NewHandler(database *db.Database, hub *Hub) *Handler {
	return &Handler{chats: database.Chats, messages: database.Messages, hub: hub}
}

// POST /api/chats — opens (or returns) the conversation between the caller
// and one other user.
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var existing models.Chat
	err = h.chats.FindOne(ctx, bson.M{"users": bson.M{"$all": []string{claims.UserID, body.UserID}}}).Decode(&existing)
	if err == nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "chatId": existing.ChatID})
		return
	}
	if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	chat := models.Chat{
		ChatID:    utils.GetUUID(),
		Users:     []string{claims.UserID, body.UserID},
		CreatedAt: time.Now(),
	}
	if _, err := h.chats.InsertOne(ctx, chat); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "chatId": chat.ChatID})
}

// POST /api/chats/:chatid/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	chatID := ps.ByName("chatid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.isParticipant(ctx, chatID, claims.UserID) {
		utils.RespondWithError(w, http.StatusNotFound, "Chat not found")
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	msg := models.Message{
		MessageID: utils.GetUUID(),
		ChatID:    chatID,
		SenderID:  claims.UserID,
		Text:      body.Text,
		CreatedAt: time.Now(),
	}
	if _, err := h.messages.InsertOne(ctx, msg); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	if data, err := json.Marshal(msg); err == nil {
		h.hub.Broadcast(chatID, data)
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "message": msg})
}

// GET /api/chats/:chatid/messages — oldest first.
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	chatID := ps.ByName("chatid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !h.isParticipant(ctx, chatID, claims.UserID) {
		utils.RespondWithError(w, http.StatusNotFound, "Chat not found")
		return
	}

	cur, err := h.messages.Find(ctx, bson.M{"chatId": chatID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	messages := []models.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode messages")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "chatId": chatID, "messages": messages})
}

// GET /ws/chats/:chatid?token=<jwt> — live message feed for one chat.
func (h *Handler) ChatWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	chatID := ps.ByName("chatid")
	claims, err := middleware.ValidateRawJWT(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if !h.isParticipant(ctx, chatID, claims.UserID) {
		http.Error(w, "Chat not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("chat ws upgrade:", err)
		return
	}

	client := &Client{
		Send:   make(chan []byte, 256),
		Room:   chatID,
		UserID: claims.UserID,
	}
	h.hub.Register(client)

	go func() {
		for data := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				break
			}
		}
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.hub.Unregister(client)
	conn.Close()
}

func (h *Handler) isParticipant(ctx context.Context, chatID, userID string) bool {
	err := h.chats.FindOne(ctx, bson.M{
		"chatId": chatID,
		"users":  bson.M{"$in": []string{userID}},
	}).Err()
	return err == nil
}
