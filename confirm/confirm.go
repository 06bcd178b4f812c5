package confirm

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"cosnap/booking"
	"cosnap/globals"
	"cosnap/models"
	"cosnap/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

var hmacSecret = []byte(secretFromEnv())

func secretFromEnv() string {
	if s := os.Getenv("CONFIRMATION_SECRET"); s != "" {
		return s
	}
	return "dev_confirmation_secret"
}

// SignPayload returns "requestId|timeSlotId|signature" for embedding in the
// confirmation QR code; the scanner side verifies the signature before
// trusting the ids.
func SignPayload(requestID, timeSlotID string) string {
	data := fmt.Sprintf("%s|%s", requestID, timeSlotID)
	h := hmac.New(sha256.New, hmacSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyPayload checks the signature produced by SignPayload.
func VerifyPayload(payload string) bool {
	i := lastPipe(payload)
	if i < 0 {
		return false
	}
	data, sig := payload[:i], payload[i+1:]
	h := hmac.New(sha256.New, hmacSecret)
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(want))
}

func lastPipe(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '|' {
			return i
		}
	}
	return -1
}

type Handler struct {
	requests *booking.RequestRepo
	slots    *booking.SlotRepo
}

func NewHandler(requests *booking.RequestRepo, slots *booking.SlotRepo) *Handler {
	return &Handler{requests: requests, slots: slots}
}

// GET /api/confirmations/:id — PDF with a signed QR code, only for
// accepted bookings and only for the two parties involved.
func (h *Handler) PrintConfirmation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	callerID, _ := r.Context().Value(globals.UserIDKey).(string)

	req, err := h.requests.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if callerID != req.PhotographerID && callerID != req.CosplayerID {
		utils.RespondWithError(w, http.StatusForbidden, "Not a party to this booking")
		return
	}
	if req.Status != models.RequestAccepted {
		utils.RespondWithError(w, http.StatusConflict, "Booking is not accepted")
		return
	}

	slot, err := h.slots.GetByID(r.Context(), req.TimeSlotID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Time slot not found")
		return
	}

	qrPNG, err := qrcode.Encode(SignPayload(req.ID, slot.ID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", slot.Date.Format("2006-01-02")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Time: %s - %s", slot.StartTime, slot.EndTime))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Location: %s", slot.Location))
	pdf.Ln(8)
	if req.CosplayCharacter != "" {
		pdf.Cell(0, 10, fmt.Sprintf("Character: %s", req.CosplayCharacter))
		pdf.Ln(8)
	}
	if slot.BookedByName != "" {
		pdf.Cell(0, 10, fmt.Sprintf("Booked by: %s", slot.BookedByName))
		pdf.Ln(8)
	}
	if slot.BookedAt != nil {
		pdf.Cell(0, 10, fmt.Sprintf("Confirmed at: %s", slot.BookedAt.Format(time.RFC822)))
		pdf.Ln(8)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=booking-"+req.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
