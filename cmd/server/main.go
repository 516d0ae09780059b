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
	"go.uber.org/zap"

	"catalog/internal/cache"
	"catalog/internal/config"
	mydb "catalog/internal/db"
	"catalog/internal/logging"
	"catalog/internal/server"
	"catalog/internal/storage"
	"catalog/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := logging.Setup(cfg.LogMode, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if cfg.UsesDevSecret() {
		log.Warn("SESSION_SECRET is not set; using the development fallback")
	}

	db, err := mydb.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := mydb.Migrate(db); err != nil {
		log.Fatal(err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	var products store.Products = store.NewProductStore(db)
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warnf("product cache disabled: %v", err)
		} else {
			defer client.Close()
			products = cache.NewProducts(products, client, cfg.CacheTTL)
			log.Infof("product cache enabled at %s", cfg.RedisAddr)
		}
	}

	var uploader storage.Uploader
	if s3, err := storage.NewS3(cfg.S3); err != nil {
		log.Warnf("image uploads disabled: %v", err)
	} else {
		uploader = s3
	}

	r, err := server.NewRouter(server.Deps{
		DB:             db,
		Products:       products,
		Uploader:       uploader,
		SessionSecret:  cfg.SessionSecret,
		UploadMaxBytes: cfg.UploadMaxBytes,
		Logger:         logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Errorf("shutdown: %v", err)
	}
	log.Info("server stopped")
}
