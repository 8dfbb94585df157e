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

	"slotboard/admin"
	"slotboard/config"
	"slotboard/ratelim"
	"slotboard/rdx"
	"slotboard/reserve"
	"slotboard/routes"
	"slotboard/sqlstore"
	"slotboard/store"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
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
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// openStore picks the backend once at startup: KV_URL set means Redis,
// otherwise a local SQLite file. A failed connection returns nil and the
// server still comes up, answering 503 on every storage route.
func openStore(cfg *config.Config) store.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cfg.KVURL != "" {
		s, err := rdx.New(ctx, cfg.KVURL)
		if err != nil {
			log.Printf("ERROR: could not connect to Redis: %v", err)
			return nil
		}
		log.Println("INFO: running in REDIS mode")
		return s
	}
	s, err := sqlstore.New(cfg.SQLitePath)
	if err != nil {
		log.Printf("ERROR: could not open SQLite store: %v", err)
		return nil
	}
	log.Println("INFO: running in SQLITE mode")
	return s
}

// initDB creates missing schema and seeds the default slot catalog.
// Idempotent: an already-seeded catalog is left alone.
func initDB(cfg *config.Config) {
	st := openStore(cfg)
	if st == nil {
		log.Fatal("init-db: backend unavailable")
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.Bootstrap(ctx); err != nil {
		log.Fatalf("init-db failed: %v", err)
	}
	log.Println("SUCCESS: storage initialized with default time slots")
}

func setupRouter(cfg *config.Config, st store.Store, rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	engine := reserve.NewEngine(st)
	scheduleHandler := reserve.NewHandler(engine, cfg.SpecialDateName)
	adminHandler := admin.NewHandler(st, cfg)

	routes.AddScheduleRoutes(router, scheduleHandler, st, rateLimiter)
	routes.AddAdminRoutes(router, adminHandler, st, rateLimiter)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := config.FromEnv()

	if len(os.Args) > 1 && os.Args[1] == "init-db" {
		initDB(cfg)
		return
	}

	st := openStore(cfg)
	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(cfg, st, rateLimiter)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		if st != nil {
			if err := st.Close(); err != nil {
				log.Printf("store close: %v", err)
			}
		}
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
