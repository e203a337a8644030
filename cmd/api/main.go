// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/auth"
	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/common/database"
	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/config"
	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/matching"
	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/profile"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🏃 Starting The Social Runner API")
	log.Println("========================================")

	// 1. Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Printf("✅ Configuration loaded (environment: %s)", cfg.Environment)

	// 3. Connect to PostgreSQL
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL")

	// 4. Connect to Redis (optional; match caching degrades gracefully)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without match caching", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis")
		}
	}

	// 5. Run database migrations
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations:", err)
	}
	log.Println("✅ Database migrations completed")

	sqlxDB := sqlx.NewDb(db, "postgres")

	// 6. Initialize repositories
	profileRepo := profile.NewPostgresRepository(sqlxDB)
	matchingRepo := matching.NewPostgresRepository(sqlxDB)

	// 7. Initialize the matching engine
	scorer := matching.NewScorer()

	var estimator matching.DistanceEstimator
	if cfg.EnableGeocoding {
		geocoder := matching.NewStaticGeocoder(matching.DefaultCityTable())
		estimator = matching.NewHaversineEstimator(geocoder, float64(cfg.DefaultRadiusKm))
		log.Println("✅ Using geocoded Haversine distance estimation")
	} else {
		estimator = matching.NewRandomEstimator()
		log.Println("⚠️  Using placeholder random distance estimation")
	}

	var matchCache *matching.MatchCache
	if redisClient != nil {
		matchCache = matching.NewMatchCache(redisClient, cfg.MatchCacheTTL)
	}

	defaults := matching.MatchDefaults{
		MaxDistanceKm: cfg.DefaultRadiusKm,
		AgeRangeMin:   cfg.DefaultMinAge,
		AgeRangeMax:   cfg.DefaultMaxAge,
	}
	matchingService := matching.NewService(matchingRepo, profileRepo, scorer, estimator, matchCache, defaults)
	matchingHandler := matching.NewHandler(matchingService)
	log.Println("✅ Matching module initialized")

	// 8. Setup routes
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	matching.RegisterRoutes(router, matchingHandler, authMiddleware)
	log.Println("✅ Routes registered")

	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 9. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️  Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","time":"%s"}`, time.Now().UTC().Format(time.RFC3339))
}

// requestIDMiddleware tags every request with a correlation id
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s (%v)", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations creates the schema this service owns. The users table is
// owned by the account service; it is created here only so local
// development works against an empty database.
func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			profile_image_url TEXT,
			location VARCHAR(255),
			date_of_birth DATE,
			gender VARCHAR(30),
			experience_level VARCHAR(20),
			preferred_distance VARCHAR(30),
			pace VARCHAR(20),
			goals TEXT[] NOT NULL DEFAULT '{}',
			available_days TEXT[] NOT NULL DEFAULT '{}',
			preferred_time VARCHAR(20),
			bio TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS buddy_preferences (
			user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			max_distance_km INT NOT NULL DEFAULT 25,
			age_range_min INT NOT NULL DEFAULT 18,
			age_range_max INT NOT NULL DEFAULT 65,
			pace_flexibility VARCHAR(20) NOT NULL DEFAULT 'moderate',
			experience_levels TEXT[] NOT NULL DEFAULT '{any}',
			gender_preference VARCHAR(30) NOT NULL DEFAULT 'any',
			communication_style VARCHAR(50) NOT NULL DEFAULT 'supportive',
			goal_alignment BOOLEAN NOT NULL DEFAULT TRUE,
			schedule_flexibility VARCHAR(20) NOT NULL DEFAULT 'moderate',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS buddy_requests (
			id BIGSERIAL PRIMARY KEY,
			requester_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recipient_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			status VARCHAR(20) NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'accepted', 'declined', 'blocked')),
			match_score INT NOT NULL DEFAULT 0 CHECK (match_score BETWEEN 0 AND 100),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			responded_at TIMESTAMPTZ,
			CHECK (requester_id <> recipient_id)
		)`,

		// One request per unordered actor pair, enforced at the storage
		// layer so concurrent sends cannot slip past the application
		// pre-check.
		`CREATE UNIQUE INDEX IF NOT EXISTS buddy_requests_pair_idx
			ON buddy_requests (
				LEAST(requester_id, recipient_id),
				GREATEST(requester_id, recipient_id)
			)`,

		`CREATE INDEX IF NOT EXISTS buddy_requests_requester_idx ON buddy_requests (requester_id)`,
		`CREATE INDEX IF NOT EXISTS buddy_requests_recipient_idx ON buddy_requests (recipient_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
