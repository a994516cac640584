// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
	"github.com/retailops/shelfbrief/internal/api"
	"github.com/retailops/shelfbrief/internal/cache"
	"github.com/retailops/shelfbrief/internal/config"
	"github.com/retailops/shelfbrief/internal/engine"
	"github.com/retailops/shelfbrief/internal/provider/postgres"
	"github.com/retailops/shelfbrief/internal/service"
	"github.com/retailops/shelfbrief/internal/storage"
	"github.com/retailops/shelfbrief/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	briefCache, err := cache.NewBriefCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		briefCache = cache.NewNoopBriefCache()
	}

	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		archive, err = storage.NewMinioClient(cfg.Archive)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Archive unavailable, continuing without it")
			archive = nil
		}
	}

	repo := postgres.NewRepository(db)
	eng := engine.New(thresholdsFromConfig(cfg.Thresholds))
	briefService := service.NewBriefService(repo, repo, eng, briefCache, archive)

	router := api.NewRouter(&api.Services{BriefService: briefService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	opsSrv := newOpsServer(cfg.Server.OpsPort, db)

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	go func() {
		logger.Log.Info().Str("port", cfg.Server.OpsPort).Msg("Starting ops listener")
		if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error().Err(err).Msg("Ops listener stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := opsSrv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Ops listener forced to shutdown")
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// newOpsServer exposes liveness and readiness on a separate port so load
// balancer probes never compete with API traffic.
func newOpsServer(port string, db *postgres.DB) *http.Server {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db unreachable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}).Methods(http.MethodGet)

	return &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
}

func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func thresholdsFromConfig(t config.ThresholdsConfig) engine.Thresholds {
	return engine.Thresholds{
		HighVelocity:        t.HighVelocity,
		LowVelocity:         t.LowVelocity,
		LowStockDays:        t.LowStockDays,
		CriticalStockDays:   t.CriticalStockDays,
		HighMarginPercent:   t.HighMarginPercent,
		MinStockForDiscount: t.MinStockForDiscount,
		SlowMoverDays:       t.SlowMoverDays,
		ImpactWindowDays:    t.ImpactWindowDays,
		MaxBriefActions:     t.MaxBriefActions,
	}
}
