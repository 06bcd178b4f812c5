package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosnap/auth"
	"cosnap/booking"
	"cosnap/chats"
	"cosnap/confirm"
	"cosnap/db"
	"cosnap/mq"
	"cosnap/profile"
	"cosnap/ratelim"
	"cosnap/rdx"
	"cosnap/reviews"
	"cosnap/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := envOr("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	database, err := db.Connect(connectCtx, envOr("MONGODB_URI", "mongodb://localhost:27017"), envOr("MONGODB_DB", "cosnap"))
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	redisConn := rdx.Connect(envOr("REDIS_ADDR", "localhost:6379"))

	rateLimiter := ratelim.NewRateLimiter()
	emitter := mq.NewEmitter(redisConn)
	go mq.StartNotificationWorker(ctx, redisConn, database)

	slotRepo := booking.NewSlotRepo(database)
	requestRepo := booking.NewRequestRepo(database)
	bookingHandler := booking.NewHandler(slotRepo, requestRepo, emitter)

	hub := chats.NewHub()
	go hub.Run()

	router := httprouter.New()
	router.GET("/health", healthCheck)
	routes.AddStaticRoutes(router)
	routes.AddAuthRoutes(router, auth.NewHandler(database, redisConn), rateLimiter)
	routes.AddBookingRoutes(router, bookingHandler, rateLimiter)
	routes.AddConfirmRoutes(router, confirm.NewHandler(requestRepo, slotRepo))
	routes.AddProfileRoutes(router, profile.NewHandler(database, redisConn))
	routes.AddReviewRoutes(router, reviews.NewHandler(database), rateLimiter)
	routes.AddChatRoutes(router, chats.NewHandler(database, hub))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		hub.Stop()
		stop()
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	if err := database.Close(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect: %v", err)
	}
	if err := redisConn.Close(); err != nil {
		log.Printf("Redis close: %v", err)
	}

	log.Println("Server stopped cleanly")
}
