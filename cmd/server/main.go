// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal service
// packages.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/dispatch"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/history"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/message"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/messaging"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/platform/config"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/platform/database"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/platform/httpserver"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/platform/logger"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/platform/metrics"
	platformredis "github.com/Sundsvallskommun/api-service-postportalservice/internal/platform/redis"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/precheck"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/registry"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/store"
	httptransport "github.com/Sundsvallskommun/api-service-postportalservice/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	m := metrics.New()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("database setup failed", "error", err)
		os.Exit(1)
	}

	var messageStore store.MessageStore
	var recipientStore store.RecipientStore
	if db != nil {
		pg := store.NewPostgresStore(db)
		messageStore, recipientStore = pg, pg
		defer db.Close()
	} else {
		log.Warn("no DATABASE_URL configured, using in-memory storage")
		mem := store.NewInMemoryStore()
		messageStore, recipientStore = mem, mem
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	var mailboxCache *precheck.MailboxCache
	if redisClient != nil {
		mailboxCache = precheck.NewMailboxCache(redisClient.Client, cfg.MailboxCacheTTL, log)
		defer redisClient.Close()
	}

	var events history.Publisher = history.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := history.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("kafka setup failed", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		events = kafka
	}

	precheckService := precheck.NewService(
		registry.NewHTTPIdentityClient(registry.HTTPClientConfig{BaseURL: cfg.PartyRegistryURL}),
		registry.NewHTTPCitizenClient(registry.HTTPClientConfig{BaseURL: cfg.CitizenRegistryURL}),
		registry.NewHTTPMailboxClient(registry.HTTPClientConfig{BaseURL: cfg.MailboxRegistryURL}),
		mailboxCache,
		log,
		m,
	)

	coordinator := dispatch.NewCoordinator(
		messaging.NewHTTPGateway(messaging.HTTPGatewayConfig{BaseURL: cfg.MessagingURL}),
		recipientStore,
		messageStore,
		events,
		semaphore.NewWeighted(cfg.SendConcurrency),
		m,
		log,
	)

	messageService := message.NewService(precheckService, coordinator, messageStore, log)

	router := httptransport.NewRouter(log,
		httptransport.NewPrecheckHandler(precheckService, log),
		httptransport.NewMessageHandler(messageService, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting post-portal service", "addr", cfg.Addr, "send_concurrency", cfg.SendConcurrency)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
