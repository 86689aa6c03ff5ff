package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/tripforge/trip-match-api/internal/catalog"
	"github.com/tripforge/trip-match-api/internal/config"
	"github.com/tripforge/trip-match-api/internal/database"
	"github.com/tripforge/trip-match-api/internal/engine"
	"github.com/tripforge/trip-match-api/internal/handlers"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	logger := newLogger(cfg.LogLevel)

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Engine and Handlers
	eng := engine.New(catalog.New(db), cfg.EngineConfig(), logger)
	searchHandler := handlers.NewSearchHandler(eng, logger)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, searchHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
