package booking

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"cosnap/globals"
	"cosnap/models"
	"cosnap/mq"
	"cosnap/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type Handler struct {
	Slots    *SlotRepo
	Requests *RequestRepo
	emitter  *mq.Emitter
}

func NewHandler(slots *SlotRepo, requests *RequestRepo, emitter *mq.Emitter) *Handler {
	return &Handler{Slots: slots, Requests: requests, emitter: emitter}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrStateConflict):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("booking: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
	}
}

func callerID(r *http.Request) string {
	id, _ := r.Context().Value(globals.UserIDKey).(string)
	return id
}

// POST /api/timeslots
func (h *Handler) CreateSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Date        time.Time `json:"date"`
		StartTime   string    `json:"startTime"`
		EndTime     string    `json:"endTime"`
		Price       float64   `json:"price"`
		Location    string    `json:"location"`
		Description string    `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	id, err := h.Slots.Create(r.Context(), callerID(r), body.Date, body.StartTime, body.EndTime, body.Price, body.Location, body.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "id": id})
}

// PUT /api/timeslots/:id — direct photographer edits of an own slot.
func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := h.Slots.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if slot.PhotographerID != callerID(r) {
		utils.RespondWithError(w, http.StatusForbidden, "not your time slot")
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.Slots.Update(r.Context(), slot.ID, bson.M(fields)); err != nil {
		writeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// DELETE /api/timeslots/:id — only the owner, only while "available".
func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := h.Slots.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if slot.PhotographerID != callerID(r) {
		utils.RespondWithError(w, http.StatusForbidden, "not your time slot")
		return
	}
	if slot.Status != models.SlotAvailable {
		utils.RespondWithError(w, http.StatusConflict, "only available slots can be deleted")
		return
	}
	if err := h.Slots.Delete(r.Context(), slot.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/timeslots/photographer/:id
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slots, err := h.Slots.ListFutureByPhotographer(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "timeSlots": slots})
}

// POST /api/bookings
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		TimeSlotID       string `json:"timeSlotId"`
		PhotographerID   string `json:"photographerId"`
		Message          string `json:"message"`
		CosplayCharacter string `json:"cosplayCharacter"`
		CosplayReference string `json:"cosplayReference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	cosplayerID := callerID(r)
	id, err := h.Requests.Create(r.Context(), body.TimeSlotID, body.PhotographerID, cosplayerID, body.Message, body.CosplayCharacter, body.CosplayReference)
	if err != nil {
		writeError(w, err)
		return
	}

	h.emitter.Emit(r.Context(), models.BookingEvent{
		Type:           EventRequestCreated,
		RequestID:      id,
		TimeSlotID:     body.TimeSlotID,
		PhotographerID: body.PhotographerID,
		CosplayerID:    cosplayerID,
		At:             time.Now(),
	})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"ok": true, "id": id})
}

// POST /api/bookings/:id/accept
func (h *Handler) AcceptRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.decide(w, r, ps.ByName("id"), EventAccept)
}

// POST /api/bookings/:id/reject
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.decide(w, r, ps.ByName("id"), EventReject)
}

// decide runs accept/reject, which only the photographer may do.
func (h *Handler) decide(w http.ResponseWriter, r *http.Request, requestID, event string) {
	req, err := h.Requests.GetByID(r.Context(), requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.PhotographerID != callerID(r) {
		utils.RespondWithError(w, http.StatusForbidden, "only the photographer can decide a request")
		return
	}

	if event == EventAccept {
		err = h.Requests.Accept(r.Context(), requestID)
	} else {
		err = h.Requests.Reject(r.Context(), requestID)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.emitter.Emit(r.Context(), models.BookingEvent{
		Type:           event,
		RequestID:      req.ID,
		TimeSlotID:     req.TimeSlotID,
		PhotographerID: req.PhotographerID,
		CosplayerID:    req.CosplayerID,
		At:             time.Now(),
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// POST /api/bookings/:id/cancel — either party, once accepted.
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req, err := h.Requests.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	caller := callerID(r)
	if caller != req.PhotographerID && caller != req.CosplayerID {
		utils.RespondWithError(w, http.StatusForbidden, "not a party to this booking")
		return
	}

	if err := h.Requests.Cancel(r.Context(), req.ID); err != nil {
		writeError(w, err)
		return
	}

	h.emitter.Emit(r.Context(), models.BookingEvent{
		Type:           EventCancel,
		RequestID:      req.ID,
		TimeSlotID:     req.TimeSlotID,
		PhotographerID: req.PhotographerID,
		CosplayerID:    req.CosplayerID,
		At:             time.Now(),
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// GET /api/bookings/photographer/:id
func (h *Handler) ListByPhotographer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requests, err := h.Requests.ListByPhotographer(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "bookingRequests": requests})
}

// GET /api/bookings/cosplayer/:id
func (h *Handler) ListByCosplayer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requests, err := h.Requests.ListByCosplayer(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "bookingRequests": requests})
}

// GET /api/bookings/photographer/:id/pending-count — header badge.
func (h *Handler) PendingCount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requests, err := h.Requests.ListByPhotographer(r.Context(), ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "pending": CountPending(requests)})
}
