package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/palclasses/site-api/internal/config"
	"github.com/palclasses/site-api/internal/database"
	"github.com/palclasses/site-api/internal/handler"
	"github.com/palclasses/site-api/internal/middleware"
	"github.com/palclasses/site-api/internal/notify"
	"github.com/palclasses/site-api/internal/queue"
	"github.com/palclasses/site-api/internal/repository"
	"github.com/palclasses/site-api/internal/router"
	"github.com/palclasses/site-api/internal/service"
	"github.com/palclasses/site-api/internal/validation"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	opts.Level = slog.LevelDebug
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		logger.Warn("redis unavailable, using in-process rate limiting and no page cache", "err", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	mailer, err := notify.NewMailer(cfg.Mail, logger)
	if err != nil {
		return err
	}
	var events notify.EventPublisher
	if cfg.RabbitMQURL != "" {
		events = service.NewLeadEventPublisher(cfg.RabbitMQURL)
	}
	dispatcher := notify.NewDispatcher(mailer, cfg.Mail.AdminAddress, events, logger)

	v := validation.New()
	pageCache := middleware.NewPageCache(cfg.Cache, rdb, logger)
	leads := service.NewLeadService(repository.NewLeadRepo(db), dispatcher, v)
	cms := service.NewCMSService(
		repository.NewContentRepo(db),
		repository.NewImageRepo(db),
		repository.NewListItemRepo(db),
		service.CMSOptions{StrictKeys: cfg.CMSStrictKeys, Cache: pageCache, Logger: logger},
	)

	e := newEcho(cfg, logger)
	router.Register(e, router.Deps{
		DB:        db,
		Auth:      handler.NewAuthHandler(repository.NewUserRepo(db), cfg.JWTSecret, cfg.BcryptCost, v),
		Leads:     handler.NewLeadHandler(leads),
		CMS:       handler.NewCMSHandler(cms),
		JWTSecret: cfg.JWTSecret,
		RateLimit: middleware.NewTokenBucket(cfg.RateLimit, rdb, logger),
		PageCache: middleware.NewRedisCache(cfg.Cache, rdb),
	})

	if cfg.ConsumerEnabled && cfg.RabbitMQURL != "" {
		go func() {
			if err := queue.StartLeadConsumer(ctx, cfg.RabbitMQURL, cfg.LeadLogDir, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("lead consumer stopped", "err", err)
			}
		}()
	}

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newEcho(cfg config.Config, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewErrorHandler(logger)

	e.Server.ReadHeaderTimeout = 10 * time.Second
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = cfg.RequestTimeout + 15*time.Second
	e.Server.IdleTimeout = 2 * time.Minute

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				logger.Warn("request", append(attrs, "err", v.Error)...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{Timeout: cfg.RequestTimeout}))
	return e
}
