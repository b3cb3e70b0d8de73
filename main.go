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
	"github.com/sirupsen/logrus"

	"retailco/shopper/apiclient"
	"retailco/shopper/app"
	"retailco/shopper/catalog"
	"retailco/shopper/checkout"
	"retailco/shopper/config"
	"retailco/shopper/database"
	"retailco/shopper/handlers"
	"retailco/shopper/metrics"
	"retailco/shopper/middleware"
	"retailco/shopper/store"
	"retailco/shopper/telemetry"
	"retailco/shopper/utils"
)

func main() {
	cfg, err := config.Load(config.NewLogger("info"))
	if err != nil {
		config.NewLogger("info").Fatalf("Invalid configuration: %v", err)
	}
	log := cfg.Logger()

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.NewCollector("shopper")

	// --- Session store ---
	slot, closeSlot := openCredentialSlot(ctx, cfg, log)
	defer closeSlot()
	session := store.OpenSessionStore(ctx, slot, log)

	client := apiclient.New(cfg.APIBaseURL, session, nil)

	// --- Telemetry ---
	sink, closeSink := openTelemetrySink(ctx, cfg, client, log)
	defer closeSink()
	events := telemetry.NewQueue(sink, cfg.TelemetryQueueSize, log, collector)
	events.Start(ctx)
	defer events.Close()

	// --- Session runtime ---
	settings := app.Settings{
		LookupOnly: cfg.AuthMode == config.AuthModeLookup,
		Checkout: checkout.Options{
			PaymentMethod:          cfg.PaymentMethod,
			DefaultShippingAddress: cfg.DefaultShippingAddress,
		},
	}
	sessionID := utils.NewSessionID()
	rt := app.NewRuntime(app.NewState(sessionID, settings), app.Services{
		Catalog:  catalog.NewGateway(client, log),
		API:      client,
		Session:  session,
		Events:   events,
		Recorder: collector,
		Log:      log.WithField("session_id", sessionID),
	})
	rt.Dispatch(ctx, app.Init{})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware(cfg.FEOrigin))
	handlers.Register(r, rt)
	r.GET("/metrics", gin.WrapH(collector.Handler()))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Infof("Shopper session API starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Shopper session API failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting.")
}

func openCredentialSlot(ctx context.Context, cfg *config.Config, log *logrus.Logger) (store.CredentialStore, func()) {
	switch cfg.CredentialStore {
	case config.CredentialStorePostgres:
		dbClient, err := database.NewPostgresDB(cfg.DatabaseURL, log)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL credential store: %v", err)
		}
		slot := store.NewPostgresCredentialStore(dbClient.DB)
		if err := slot.EnsureSchema(ctx); err != nil {
			dbClient.Close()
			log.Fatalf("Failed to prepare credential table: %v", err)
		}
		return slot, dbClient.Close
	case config.CredentialStoreMemory:
		return store.NewMemoryCredentialStore(""), func() {}
	default:
		return store.NewFileCredentialStore(cfg.CredentialFile), func() {}
	}
}

func openTelemetrySink(ctx context.Context, cfg *config.Config, client *apiclient.Client, log *logrus.Logger) (telemetry.Sink, func()) {
	switch cfg.TelemetrySink {
	case config.TelemetrySinkClickHouse:
		chClient, err := database.NewClickHouseDB(ctx, cfg.ClickHouse, log)
		if err != nil {
			log.Fatalf("Failed to initialize ClickHouse telemetry store: %v", err)
		}
		telemetryStore := store.NewTelemetryStore(chClient)
		if err := telemetryStore.EnsureSchema(ctx); err != nil {
			chClient.Close()
			log.Fatalf("Failed to prepare telemetry table: %v", err)
		}
		return telemetry.NewClickHouseSink(telemetryStore), chClient.Close
	case config.TelemetrySinkNone:
		return telemetry.Discard{}, func() {}
	default:
		return telemetry.NewHTTPSink(client), func() {}
	}
}
