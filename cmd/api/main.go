package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus-explorer-api/internal/application/campus"
	"github.com/campus-explorer-api/internal/application/session"
	"github.com/campus-explorer-api/internal/config"
	"github.com/campus-explorer-api/internal/infrastructure/dynamo"
	"github.com/campus-explorer-api/internal/infrastructure/identity"
	jwtinfra "github.com/campus-explorer-api/internal/infrastructure/jwt"
	"github.com/campus-explorer-api/internal/infrastructure/notify"
	"github.com/campus-explorer-api/internal/infrastructure/smtp"
	"github.com/campus-explorer-api/internal/infrastructure/sns"
	"github.com/campus-explorer-api/internal/metrics"
	"github.com/campus-explorer-api/internal/pkg/logger"
	transporthttp "github.com/campus-explorer-api/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logger.SetupDefault(os.Stdout, cfg.LogLevel)
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		fatal("dynamodb client", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	identityRepo := dynamo.NewIdentityRepo(dynamoClient, cfg.DynamoTables.Identities)
	verificationRepo := dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications)
	universityRepo := dynamo.NewUniversityRepo(dynamoClient, cfg.DynamoTables.Universities)
	buildingRepo := dynamo.NewBuildingRepo(dynamoClient, cfg.DynamoTables.Buildings)
	roomRepo := dynamo.NewRoomRepo(dynamoClient, cfg.DynamoTables.Rooms)
	adminRepo := dynamo.NewAdminRepo(dynamoClient, cfg.DynamoTables.Admins, universityRepo)
	keyRepo := dynamo.NewSecretKeyRepo(dynamoClient, cfg.DynamoTables.SecretKeys)

	// Provider access tokens are required: without keys nobody can sign in.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		fatal("jwt provider", err)
	}

	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional; keys still go out by email).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(ctx, cfg); err == nil {
		smsSender = sender
	} else {
		slog.Warn("SNS sender not available", "err", err)
	}

	idp := identity.NewProvider(identityRepo, verificationRepo, jwtProvider, mailer, identity.Options{
		RequireEmailConfirmation: cfg.RequireEmailConfirmation,
		PublicBaseURL:            cfg.PublicBaseURL,
	})

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(promReg)

	registry := session.NewRegistry(session.ServiceDeps{
		Directory:    adminRepo,
		Universities: universityRepo,
		Keys:         keyRepo,
		Dispatcher:   notify.NewKeyDispatcher(mailer, smsSender, cfg.SuperAdminPhone, cfg.SuperAdminKeyTTL),
		Metrics:      collector,
		Config: session.Config{
			OperatorEmail: cfg.SuperAdminEmail,
			KeyTTL:        cfg.SuperAdminKeyTTL,
			SessionTTL:    cfg.SuperAdminSessionTTL,
		},
	}, func() session.IdentityClient { return idp.NewClient() }, cfg.ConsoleIdleTimeout, time.Minute)

	campusSvc := campus.NewService(campus.ServiceDeps{
		UniversityRepo: universityRepo,
		BuildingRepo:   buildingRepo,
		RoomRepo:       roomRepo,
		AdminRepo:      adminRepo,
	})

	router, stopRouter := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Consoles: registry,
		Campus:   campusSvc,
		Metrics:  collector,
		Gatherer: promReg,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
	}
	stopRouter()
	registry.Close()
	slog.Info("server stopped")
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
