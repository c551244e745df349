// Package identity собирает HTTP-сервис учётных записей и сессий:
// хранилище, кэш проекций, брокер уведомлений, маршруты и жизненный цикл сервера.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/sanitation-identity/internal/cache"
	"github.com/magabrotheeeer/sanitation-identity/internal/config"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/token"
	"github.com/magabrotheeeer/sanitation-identity/internal/migrations"
	"github.com/magabrotheeeer/sanitation-identity/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/sanitation-identity/internal/services/auth"
	"github.com/magabrotheeeer/sanitation-identity/internal/storage/repository"
	"github.com/streadway/amqp"
)

// App — собранное HTTP-приложение сервиса учётных записей.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует зависимости и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetCodeQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	tokenMaker := token.NewMaker(cfg.SessionToken.SecretKey, cfg.SessionToken.TokenTTL)
	publisher := &rabbitmq.ChannelPublisher{Ch: ch}

	authService := authservice.NewAuthService(db, tokenMaker, publisher, cacheRedis, logger,
		cfg.SecretCodes.VerificationTTL, cfg.SecretCodes.ResetTTL)

	// Secure-флаг куки включается вне dev-окружения.
	secureCookie := cfg.Env != "local" && cfg.Env != "dev"

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, cfg.SessionToken.TokenTTL, secureCookie)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", connErr))
		}
		a.db.DB.Close()
		return err
	}
}
