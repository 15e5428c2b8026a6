package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"shift_scheduler_backend/internal/config"
	"shift_scheduler_backend/internal/database"
	"shift_scheduler_backend/internal/notify"
	"shift_scheduler_backend/internal/router"
	"shift_scheduler_backend/pkg/utils"
	"shift_scheduler_backend/pkg/workerpool"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file (defaults to $SHIFTS_CONFIG)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		utils.InitLogger("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	utils.InitLogger(cfg.LogLevel, !cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.ApplySchema {
		if err := database.ApplySchema(db, cfg.Database.Driver); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database schema")
		}
	}

	tokens, err := utils.NewTokenManager(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session token manager")
	}

	notifier, err := notify.New(cfg.Notify.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create notifier")
	}
	pool := workerpool.New(cfg.Notify.Workers, cfg.Notify.QueueSize)

	engine := router.NewEngine(router.Options{
		DB:             db,
		Tokens:         tokens,
		Dispatcher:     notify.NewDispatcher(pool, notifier),
		CookieSecure:   cfg.Session.CookieSecure,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "environment": cfg.Environment})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.LogError(err, "Server forced to shut down")
	}
	if err := pool.Close(ctx); err != nil {
		utils.LogError(err, "Notification queue not drained before shutdown")
	}
	utils.LogInfo("Server exited")
}
