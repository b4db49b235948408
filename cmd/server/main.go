package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talent-screen/backend/internal/audit"
	auditrepo "talent-screen/backend/internal/audit/repository"
	authhandler "talent-screen/backend/internal/auth/handler"
	authservice "talent-screen/backend/internal/auth/service"
	"talent-screen/backend/internal/config"
	"talent-screen/backend/internal/db"
	"talent-screen/backend/internal/mail"
	"talent-screen/backend/internal/security"
	"talent-screen/backend/internal/server"
	"talent-screen/backend/internal/server/middleware"
	"talent-screen/backend/internal/session"
	"talent-screen/backend/internal/telemetry"
	telemetryotel "talent-screen/backend/internal/telemetry/otel"
	"talent-screen/backend/internal/usage"
	usagehandler "talent-screen/backend/internal/usage/handler"
	userdomain "talent-screen/backend/internal/user/domain"
	userrepo "talent-screen/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or set DATABASE_URL")
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "talent-screen-backend", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	accessSecret := cfg.JWTAccessSecret
	refreshSecret := cfg.JWTRefreshSecret
	if accessSecret == "" || refreshSecret == "" {
		// Config validation rejects this in production.
		logger.Warn("JWT secrets not set, using development defaults")
		accessSecret = "dev-access-secret"
		refreshSecret = "dev-refresh-secret"
	}
	tokens := security.NewTokenProvider(
		[]byte(accessSecret), []byte(refreshSecret),
		cfg.JWTIssuer, cfg.AccessTTL(), cfg.RefreshTTL())
	hasher := security.NewHasher(cfg.BcryptCost)

	users := userrepo.NewPostgresRepository(conn)
	sessions := session.NewPostgresStore(conn)
	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(conn), middleware.ClientIPFromContext)

	var mailer mail.Mailer = mail.NewSMTPMailer(mail.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		User:      cfg.SMTPUser,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		BaseURL:   cfg.AppBaseURL,
	}, logger)

	authSvc := authservice.NewAuthService(
		users, sessions, hasher, tokens, mailer, auditor, logger,
		cfg.VerificationTokenTTL(), cfg.ResetTokenTTL())

	limits := usage.DefaultLimits()
	limits[userdomain.CounterSelectedCandidate] = cfg.SelectedCandidateLimit
	usageSvc := usage.NewService(users, limits, auditor, logger)

	handler := server.NewHandler(server.Deps{
		Auth:         authhandler.NewAuthHandler(authSvc, cfg.IsProduction(), cfg.RefreshTTL()),
		Usage:        usagehandler.NewUsageHandler(usageSvc),
		Tokens:       tokens,
		HealthPinger: conn,
		Logger:       logger,
		Emitter:      telemetryotel.NewEventEmitter(providers.LoggerProvider),
		Meter:        providers.MeterProvider.Meter("talentscreen.http"),
		Tracer:       providers.TracerProvider.Tracer("talentscreen.http"),
		CORSOrigins:  cfg.CORSOrigins(),
	})

	srv := server.New(cfg.HTTPAddr, handler)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.String("error", err.Error()))
	}

	// Let in-flight async telemetry emits drain before closing providers.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown", slog.String("error", err.Error()))
	}
	logger.Info("http server stopped")
}
