package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/room-escape-reservation/internal/config" // Internal config loader
	"github.com/iliyamo/room-escape-reservation/internal/database"
	"github.com/iliyamo/room-escape-reservation/internal/handler"
	"github.com/iliyamo/room-escape-reservation/internal/middleware"
	"github.com/iliyamo/room-escape-reservation/internal/queue"
	"github.com/iliyamo/room-escape-reservation/internal/repository"
	"github.com/iliyamo/room-escape-reservation/internal/router" // Internal router setup
	"github.com/iliyamo/room-escape-reservation/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
	logrus.Info("server stopped")
}

func setupLogging(cfg config.Config) {
	if cfg.IsProd() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// run wires the application and blocks until ctx is cancelled or the HTTP
// server or event consumer fails.
func run(ctx context.Context, cfg config.Config) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	members := repository.NewMemberRepo(db)
	times := repository.NewTimeRepo(db)
	themes := repository.NewThemeRepo(db)
	reservations := repository.NewReservationRepo(db)

	memberSvc := service.NewMemberService(members, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)
	if cfg.AdminEmail != "" {
		if err := memberSvc.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPass); err != nil {
			return err
		}
	}

	// A nil interface, not a nil *AMQPPublisher, turns events off.
	var events service.EventPublisher
	if cfg.AMQPURL != "" {
		events = queue.NewAMQPPublisher(cfg.AMQPURL)
	}
	clock := service.SystemClock{Location: cfg.Location}
	resSvc := service.NewReservationService(reservations, times, themes, members, clock, events)

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Stack(logrus.StandardLogger())...)

	router.Register(e, db, router.Handlers{
		Auth:         handler.NewAuthHandler(memberSvc),
		Reservations: handler.NewReservationHandler(resSvc),
		Catalog:      handler.NewCatalogHandler(service.NewTimeService(times, reservations), service.NewThemeService(themes, reservations)),
	}, router.Options{
		JWTSecret:   cfg.JWTSecret,
		Cache:       middleware.NewRedisCache(cacheCfg, rdb),
		Invalidate:  middleware.NewCacheInvalidator(cacheCfg, rdb),
		RateLimiter: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "db": cfg.DBDriver}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownWait)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	if cfg.AMQPURL != "" && cfg.RunConsumer {
		consumer := queue.NewAuditConsumer(cfg.AMQPURL, cfg.AuditLogDir)
		g.Go(func() error {
			if err := consumer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
