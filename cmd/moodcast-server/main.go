package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jmottin/moodcast-server/internal/api"
	"github.com/jmottin/moodcast-server/internal/calendar"
	"github.com/jmottin/moodcast-server/internal/config"
	"github.com/jmottin/moodcast-server/internal/db"
	"github.com/jmottin/moodcast-server/internal/mood"
	"github.com/jmottin/moodcast-server/internal/music"
	"github.com/jmottin/moodcast-server/internal/reports"
	"github.com/jmottin/moodcast-server/internal/scheduler"
	"github.com/jmottin/moodcast-server/internal/weather"
	"github.com/jmottin/moodcast-server/internal/weights"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting moodcast-server...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Unknown timezone %q, falling back to UTC", cfg.Timezone)
		loc = time.UTC
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	reportStore := reports.NewStore(cfg.ReportsPath)
	engine := mood.NewEngine()
	tracker := weights.NewTracker(database)

	// Input adapters. Each is optional; a missing one degrades to the
	// source's no-data state.
	var calendarSource scheduler.CalendarSource
	if len(cfg.ICSURLs) > 0 {
		calendarSource = calendar.NewClient(cfg.ICSURLs)
		log.Printf("Calendar: %d ICS source(s)", len(cfg.ICSURLs))
	} else {
		log.Println("Calendar: no ICS sources configured")
	}

	weatherSource := weather.NewClient(cfg.Latitude, cfg.Longitude, cfg.Timezone)

	var musicSource scheduler.MusicSource
	if cfg.SpotifyID != "" && cfg.SpotifySecret != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		source, err := music.NewFromCredentials(ctx, cfg.SpotifyID, cfg.SpotifySecret)
		cancel()
		if err != nil {
			log.Printf("WARNING: Spotify unavailable, music runs neutral: %v", err)
		} else {
			musicSource = source
			log.Println("Spotify connected")
		}
	} else {
		log.Println("Spotify not configured, music runs neutral")
	}

	// Create router
	router := api.NewRouter(cfg, database, engine, tracker, loc)

	// Create and start scheduler
	sched, err := scheduler.New(database, engine, tracker, reportStore,
		calendarSource, weatherSource, musicSource,
		scheduler.Config{Timezone: cfg.Timezone})
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Start server
	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down gracefully...")

	// Give ongoing requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Stopping scheduler...")
	if err := sched.Stop(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}

	log.Println("Closing database...")
	if err := database.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Shutdown complete")
}
