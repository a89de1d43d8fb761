package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/ekitools/reach-go/api/handlers"
	"github.com/ekitools/reach-go/internal/config"
	"github.com/ekitools/reach-go/pkg/reach"
)

func main() {
	var (
		configFile      = flag.String("config", "", "YAML config file (optional)")
		port            = flag.String("port", "", "Server port (overrides config)")
		stationsFile    = flag.String("stations-file", "", "Stations JSON file (overrides config)")
		connectionsFile = flag.String("connections-file", "", "Connections JSON file (overrides config)")
		speedProfile    = flag.String("speed-profile", "", "Travel time profile: flat or linetype (overrides config)")
	)
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Flags win over the config file
	if *port != "" {
		p, err := strconv.Atoi(*port)
		if err != nil || p <= 0 {
			log.Fatalf("Invalid port %q", *port)
		}
		cfg.Server.Port = p
	}
	if *stationsFile != "" {
		cfg.Dataset.StationsFile = *stationsFile
	}
	if *connectionsFile != "" {
		cfg.Dataset.ConnectionsFile = *connectionsFile
	}
	if *speedProfile != "" {
		cfg.Dataset.SpeedProfile = *speedProfile
	}

	clientCfg := reach.Config{
		StationsFile:    cfg.Dataset.StationsFile,
		ConnectionsFile: cfg.Dataset.ConnectionsFile,
		SpeedProfile:    cfg.Dataset.SpeedProfile,
		ReloadInterval:  time.Duration(cfg.Dataset.ReloadIntervalSeconds) * time.Second,
	}

	client, err := reach.NewLocal(clientCfg)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	defer client.Close()

	// Create HTTP server
	r := mux.NewRouter()
	h := handlers.NewHandler(client, cfg.Server.CacheSize,
		time.Duration(cfg.Server.CacheTTLSeconds)*time.Second)
	h.RegisterRoutes(r)

	r.Use(loggingMiddleware)

	corsOptions := cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}
	if len(corsOptions.AllowedOrigins) == 0 {
		corsOptions.AllowedOrigins = []string{"*"}
	}

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      cors.New(corsOptions).Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}
