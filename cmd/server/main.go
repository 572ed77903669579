package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kmikhaylov/shop_backend/internal/config"
	"github.com/kmikhaylov/shop_backend/internal/db"
	"github.com/kmikhaylov/shop_backend/internal/es"
	"github.com/kmikhaylov/shop_backend/internal/events"
	"github.com/kmikhaylov/shop_backend/internal/httpserver"
	"github.com/kmikhaylov/shop_backend/internal/logging"
	loggingmw "github.com/kmikhaylov/shop_backend/internal/middleware/logging"
	"github.com/kmikhaylov/shop_backend/internal/repo"
	"github.com/kmikhaylov/shop_backend/internal/search"
	"github.com/kmikhaylov/shop_backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "shop_backend")
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	gormRepo := &repo.GormRepo{DB: gormDB}

	authHandler := &httpserver.AuthHTTP{
		Svc: &service.AuthService{
			Repo:          gormRepo,
			JWTSecret:     cfg.JWTSecret,
			RefreshSecret: cfg.RefreshSecret,
		},
		Producer: producer,
	}

	productHandler := &httpserver.ProductHTTP{
		Svc:      &service.ProductService{Repo: gormRepo},
		Producer: producer,
	}

	var searchHandler *httpserver.SearchHTTP
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		productHandler.Indexer = search.NewIndexer(esClient, cfg.ProductIndex)
		searchHandler = httpserver.NewSearchHTTP(esClient, cfg.ProductIndex)
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    authHandler,
		ProductHandler: productHandler,
		SearchHandler:  searchHandler,
		JWTSecret:      cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("shop_backend listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("shop_backend stopped")
}
