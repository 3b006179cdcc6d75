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

	"soulfilmes/filmesapi"
	"soulfilmes/httpserver"
	"soulfilmes/movie"
	"soulfilmes/pkg/config"
	"soulfilmes/pkg/logger"
	"soulfilmes/pkg/metrics"
	"soulfilmes/pkg/sentry"
	"soulfilmes/postgres"
	"soulfilmes/user"
	"soulfilmes/usermovies"

	sentrygo "github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

type gateway interface {
	usermovies.Gateway
	usermovies.UserDirectory
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		slog.Error("Cannot build logger", "error", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Fatalw("Cannot init sentry", "error", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	gw, err := newGateway(cfg, log)
	if err != nil {
		new(sentry.Sentry).WithTags(map[string]string{"gateway": cfg.Gateway}).Fatal(err)
		log.Fatalw("Cannot build gateway", "gateway", cfg.Gateway, "error", err)
	}

	server := httpserver.Default(cfg)
	server.Addr = fmt.Sprintf(":%d", cfg.Port)
	server.Logger = log
	server.Sessions = usermovies.NewRegistry(usermovies.RegistryOptions{
		Gateway:    gw,
		Directory:  gw,
		Logger:     log,
		Metrics:    metrics.NewUserMovies(server.Metrics),
		ReturnPath: cfg.ReturnPath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go server.Sessions.RunSweeper(ctx, sweepInterval, cfg.Session.MaxIdle)

	go func() {
		log.Infow("server started!", "addr", server.Addr, "gateway", cfg.Gateway)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("server stopped with error", "error", err)
			new(sentry.Sentry).WithTags(map[string]string{"addr": server.Addr}).Error(err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}

// newGateway builds the user-movies gateway: the REST API by default, or the
// database directly when GATEWAY=postgres.
func newGateway(cfg *config.Config, log *zap.SugaredLogger) (gateway, error) {
	if cfg.Gateway != config.GatewayPostgres {
		return filmesapi.New(filmesapi.Options{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
			Logger:  log.Named("filmesapi"),
		}), nil
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	return usermovies.NewLocalGateway(
		user.NewUsecase(postgres.NewUserRepository(db)),
		movie.NewUsecase(postgres.NewMovieRepository(db)),
	), nil
}
