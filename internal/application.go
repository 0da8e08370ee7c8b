package application

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

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/registry"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/transport/rest"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/transport/websocket"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mirror, closeMirror, err := newRoomMirror(ctx, log, conf.Redis)
	if err != nil {
		return err
	}
	defer closeMirror()

	appMetrics := metrics.New()
	hub := websocket.NewHub(logger, appMetrics)

	roomCoordinator := usecase.NewRoomCoordinator(
		logger,
		appMetrics,
		registry.New(),
		repository.NewRoomStore(),
		mirror,
		hub,
		pkg.RoomIDGenerator(conf.Room.IDLength),
		conf.Room.IDAttempts,
	)

	wsServer := websocket.New(logger, conf.WebSocket, conf.CORS.AllowedOrigins, appMetrics, hub, roomCoordinator)
	router := rest.NewRouter(conf.CORS.AllowedOrigins, appMetrics.Handler(), wsServer)
	httpServer := rest.New(conf.HTTPPort, router)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := httpServer.ListenAndServe(); httpErr != nil && !errors.Is(httpErr, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	err = httpServer.Shutdown(shutdownCtx)

	// hijacked websocket connections are not closed by Shutdown
	wsServer.Close()

	if err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	return nil
}

// newRoomMirror - connects the Redis mirror when enabled, otherwise returns a no-op one.
func newRoomMirror(ctx context.Context, log *slog.Logger, conf config.Redis) (repository.RoomRepository, func(), error) {
	if !conf.Enabled {
		log.Info("Redis mirror disabled")
		return repository.NopRoomRepository{}, func() {}, nil
	}

	redisAddrString := conf.GetRedisAddr()
	if conf.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	log.Info("Redis mirror enabled", "addr", redisAddrString)

	closeStorage := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewRoomRepository(redisStorage, conf.TTL), closeStorage, nil
}
