package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	accountusecase "github.com/rentease/listing-service/internal/account/usecase"
	httpadapter "github.com/rentease/listing-service/internal/adapter/http"
	"github.com/rentease/listing-service/internal/adapter/messaging/nats"
	"github.com/rentease/listing-service/internal/adapter/repository/cache"
	"github.com/rentease/listing-service/internal/adapter/repository/mongodb"
	"github.com/rentease/listing-service/internal/adapter/storage/s3"
	"github.com/rentease/listing-service/internal/config"
	contactusecase "github.com/rentease/listing-service/internal/contact/usecase"
	"github.com/rentease/listing-service/internal/listing/usecase"
	"github.com/rentease/listing-service/internal/mailer"
	"github.com/rentease/listing-service/internal/platform/logger"
	"github.com/rentease/listing-service/internal/platform/tracer"
)

func main() {
	log := logger.New()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Error("main: failed to load configuration", "error", err.Error())
		os.Exit(1)
	}

	tp := tracer.Init("listing-service")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("main: tracer shutdown failed", "error", err.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Error("main: failed to connect to MongoDB", "error", err.Error())
		os.Exit(1)
	}
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		log.Error("main: MongoDB is unreachable", "error", err.Error())
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn("main: MongoDB disconnect failed", "error", err.Error())
		}
	}()
	db := mongoClient.Database(cfg.MongoDB)

	if err := mongodb.EnsureIndexes(db); err != nil {
		log.Error("main: failed to ensure indexes", "error", err.Error())
		os.Exit(1)
	}

	listingCache, err := cache.NewListingCache(cfg.RedisAddress)
	if err != nil {
		// The service degrades to store-only reads without Redis.
		log.Warn("main: Redis unavailable, running without cache", "error", err.Error())
		listingCache = nil
	}

	storage, err := s3.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, log)
	if err != nil {
		log.Error("main: failed to initialize object storage", "error", err.Error())
		os.Exit(1)
	}

	publisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Warn("main: NATS unavailable, running without events", "error", err.Error())
		publisher = nil
	} else {
		defer publisher.Close()
	}

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)

	listingRepo := mongodb.NewListingRepository(db, log)
	commentRepo := mongodb.NewCommentRepository(db, log)
	reviewRepo := mongodb.NewReviewRepository(db, log)
	accountRepo := mongodb.NewAccountRepository(db, log)
	contactRepo := mongodb.NewContactRepository(db, log)

	imageUC := usecase.NewImageUsecase(storage, log)

	var cacheIface usecase.ListingCache
	if listingCache != nil {
		cacheIface = listingCache
	}
	listingUC := usecase.NewListingUsecase(listingRepo, commentRepo, reviewRepo, accountRepo, imageUC, cacheIface, log)
	recoveryUC := accountusecase.NewRecoveryUsecase(accountRepo, smtpMailer, log)
	contactUC := contactusecase.NewContactUsecase(contactRepo, log)

	handler := httpadapter.NewHandler(listingUC, recoveryUC, contactUC, publisher, log)
	router := httpadapter.NewRouter(handler, cfg.JWTSecret, log)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("main: HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("main: HTTP server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("main: shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("main: forced shutdown", "error", err.Error())
	}
	log.Info("main: server stopped")
}
