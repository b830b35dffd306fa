package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/config"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/oauth"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/observability/logging"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/observability/metrics"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/ratelimit"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/service"
	impl "github.com/abdullah-iqbal-cbs/CBS-main/internal/service/impl"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/store"
	httpx "github.com/abdullah-iqbal-cbs/CBS-main/internal/transport/http"
	"github.com/abdullah-iqbal-cbs/CBS-main/pkg/db"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "crm",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1) DB
	gdb, err := db.OpenGorm(db.Config{
		DSN:          cfg.DatabaseURL,
		LogSQL:       cfg.LogSQL,
		MaxOpenConns: 20,
		MaxIdleConns: 5,
		ConnMaxIdle:  5 * time.Minute,
	})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	st := store.New(gdb)
	if err := st.Migrate(ctx); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	metrics.MustRegister("crm")

	// 2) Services
	pw := impl.NewPasswordServiceBcrypt(cfg.BcryptCost)
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:           cfg.Issuer,
		Audience:         cfg.Audience,
		SessionTTL:       cfg.JWTExpiresIn,
		SessionSecret:    []byte(cfg.JWTSecret),
		ActivationTTL:    cfg.ActivationTTL,
		ActivationSecret: []byte(cfg.ActivationSecret),
	})

	var mailer service.EmailService = impl.LogEmailService{}
	if cfg.SMTPHost != "" {
		smtp, err := impl.NewSMTPEmailService(impl.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			logger.Error("smtp config", "error", err)
			os.Exit(1)
		}
		mailer = smtp
	} else {
		logger.Warn("SMTP_HOST not set, emails will only be logged")
	}

	as := impl.NewAuthServiceImpl(st, pw, ts, impl.NewIdentityResolverImpl(st), mailer, impl.AuthConfig{
		FrontendURL:   cfg.FrontendURL,
		ResetTokenTTL: cfg.ResetTokenTTL,
	})
	ds := impl.NewDirectoryServiceImpl(st)

	providers, err := oauth.FromConfig(cfg)
	if err != nil {
		logger.Error("oauth providers", "error", err)
		os.Exit(1)
	}
	logger.Info("oauth providers enabled", "providers", providers.Enabled())

	// 3) Rate limiting, shared through redis when configured
	rl := httpx.RateLimit{Max: cfg.RateLimitMax, Window: cfg.RateLimitWindow}
	if cfg.RedisURL != "" {
		rdb, err := db.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("redis connect", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		rl.Limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
	}

	// 4) HTTP
	handler := httpx.NewRouter(httpx.Deps{
		Auth:           as,
		Directory:      ds,
		Tokens:         ts,
		OAuth:          providers,
		RateLimit:      rl,
		TrustProxy:     cfg.TrustProxy,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.Environment != "dev",
		Ready:          st.Ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("crm service listening", "addr", srv.Addr, "issuer", cfg.Issuer)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}
}
