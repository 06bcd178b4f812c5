package routes

import (
	"net/http"

	"cosnap/auth"
	"cosnap/booking"
	"cosnap/chats"
	"cosnap/confirm"
	"cosnap/middleware"
	"cosnap/profile"
	"cosnap/ratelim"
	"cosnap/reviews"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/userpic/*filepath", http.Dir("static/userpic"))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(h.Register))
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(h.Logout))
	router.POST("/api/auth/token/refresh", rl.Limit(h.RefreshToken))
}

func AddBookingRoutes(router *httprouter.Router, h *booking.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/timeslots", rl.Limit(middleware.Authenticate(h.CreateSlot)))
	router.PUT("/api/timeslots/:id", middleware.Authenticate(h.UpdateSlot))
	router.DELETE("/api/timeslots/:id", middleware.Authenticate(h.DeleteSlot))
	router.GET("/api/timeslots/photographer/:id", middleware.OptionalAuth(h.ListSlots))

	router.POST("/api/bookings", rl.Limit(middleware.Authenticate(h.CreateRequest)))
	router.POST("/api/bookings/:id/accept", middleware.Authenticate(h.AcceptRequest))
	router.POST("/api/bookings/:id/reject", middleware.Authenticate(h.RejectRequest))
	router.POST("/api/bookings/:id/cancel", middleware.Authenticate(h.CancelRequest))
	router.GET("/api/bookings/photographer/:id", middleware.Authenticate(h.ListByPhotographer))
	router.GET("/api/bookings/cosplayer/:id", middleware.Authenticate(h.ListByCosplayer))
	router.GET("/api/bookings/photographer/:id/pending-count", middleware.Authenticate(h.PendingCount))

	router.GET("/ws/dashboard/:photographerId", h.DashboardWS)
}

func AddConfirmRoutes(router *httprouter.Router, h *confirm.Handler) {
	router.GET("/api/confirmations/:id", middleware.Authenticate(h.PrintConfirmation))
}

func AddProfileRoutes(router *httprouter.Router, h *profile.Handler) {
	router.GET("/api/profile/:id", middleware.OptionalAuth(h.GetProfile))
	router.PUT("/api/profile", middleware.Authenticate(h.EditProfile))
	router.POST("/api/profile/picture", middleware.Authenticate(h.UploadProfilePic))
	router.POST("/api/favorites/:kind/:id", middleware.Authenticate(h.ToggleSetMember))
}

func AddReviewRoutes(router *httprouter.Router, h *reviews.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/reviews/:photographerId", h.GetReviews)
	router.POST("/api/reviews/:photographerId", rl.Limit(middleware.Authenticate(h.AddReview)))
	router.DELETE("/api/reviews/:photographerId/:reviewId", middleware.Authenticate(h.DeleteReview))
}

func AddChatRoutes(router *httprouter.Router, h *chats.Handler) {
	router.POST("/api/chats", h.CreateChat)
	router.POST("/api/chats/:chatid/messages", h.SendMessage)
	router.GET("/api/chats/:chatid/messages", h.GetMessages)
	router.GET("/ws/chats/:chatid", h.ChatWS)
}
