package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Staunch-Software/Drs-backend/config"
	"github.com/Staunch-Software/Drs-backend/internal/api/handler"
	"github.com/Staunch-Software/Drs-backend/internal/api/router"
	"github.com/Staunch-Software/Drs-backend/internal/repository"
	"github.com/Staunch-Software/Drs-backend/internal/service"
	"github.com/Staunch-Software/Drs-backend/pkg/blob"
	"github.com/Staunch-Software/Drs-backend/pkg/database"
	"github.com/Staunch-Software/Drs-backend/pkg/jwt"
	"github.com/Staunch-Software/Drs-backend/pkg/logger"
	"github.com/Staunch-Software/Drs-backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("connecting to database failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("acquiring sql handle failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, log); err != nil {
		log.Fatal("running migrations failed", zap.Error(err))
	}

	// Redis backs the token blacklist and login rate limit; the service
	// degrades gracefully without it.
	rdb, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, token revocation and rate limiting disabled", zap.Error(err))
		rdb = nil
	}
	defer rdb.Close()

	signer, err := blob.NewSigner(&cfg.Blob)
	if err != nil {
		log.Fatal("initializing blob signer failed", zap.Error(err))
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, signer, log)
	h := handler.NewHandler(svc, log)
	engine := router.New(cfg, h, jwtMgr, rdb, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	sqlDB.Close()

	log.Info("server stopped")
}
