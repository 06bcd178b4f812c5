package booking

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"cosnap/middleware"
	"cosnap/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; tighten for production
		return true
	},
}

type wsFrame struct {
	Type string `json:"type"` // "timeSlots", "bookingRequests", "error"
	Data any    `json:"data"`
}

// DashboardWS streams the photographer's live slot and request snapshots
// over one socket. Both repository subscriptions are released when the
// client disconnects.
//
// GET /ws/dashboard/:photographerId?token=<jwt>
func (h *Handler) DashboardWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	photographerID := ps.ByName("photographerId")

	claims, err := middleware.ValidateRawJWT(r.URL.Query().Get("token"))
	if err != nil || claims.UserID != photographerID {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("dashboard ws upgrade:", err)
		return
	}

	var mu sync.Mutex
	send := func(frame wsFrame) {
		data, err := json.Marshal(frame)
		if err != nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
		}
	}
	sendErr := func(err error) {
		send(wsFrame{Type: "error", Data: err.Error()})
	}

	unsubSlots, err := h.Slots.SubscribeByPhotographer(photographerID,
		func(slots []models.TimeSlot) { send(wsFrame{Type: "timeSlots", Data: slots}) },
		sendErr,
	)
	if err != nil {
		log.Println("slot subscription:", err)
		conn.Close()
		return
	}

	unsubRequests, err := h.Requests.SubscribeByPhotographer(photographerID,
		func(requests []models.BookingRequest) {
			send(wsFrame{Type: "bookingRequests", Data: requests})
		},
		sendErr,
	)
	if err != nil {
		log.Println("request subscription:", err)
		unsubSlots()
		conn.Close()
		return
	}

	// Block until the client goes away, then release both watches.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	unsubSlots()
	unsubRequests()
	conn.Close()
}
