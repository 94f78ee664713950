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

	"github.com/jonboulle/clockwork"

	"github.com/mpeyrovian/TubeLytics/internal/config"
	"github.com/mpeyrovian/TubeLytics/internal/hub"
	"github.com/mpeyrovian/TubeLytics/internal/logging"
	"github.com/mpeyrovian/TubeLytics/internal/poll"
	"github.com/mpeyrovian/TubeLytics/internal/seen"
	"github.com/mpeyrovian/TubeLytics/internal/server"
	"github.com/mpeyrovian/TubeLytics/internal/youtube"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupSeenStore(cfg *config.Config) (seen.Store, *seen.RedisStore) {
	if cfg.RedisURL == "" {
		slog.Info("Seen-video cache running in memory", "capacity", cfg.SeenCacheCapacity)
		return seen.NewMemoryStore(cfg.SeenCacheCapacity), nil
	}

	store, err := seen.NewRedisStore(cfg.RedisURL, cfg.SeenCacheCapacity)
	if err != nil {
		slog.Error("Failed to create redis seen store", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	slog.Info("Seen-video cache backed by Redis", "capacity", cfg.SeenCacheCapacity)
	return store, store
}

func runGracefulShutdown(srv *server.Server, h *hub.Hub, p *poll.Poller) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		h.Stop()
		p.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	gateway := youtube.NewClient(youtube.Config{
		APIKey:     cfg.YouTubeAPIKey,
		BaseURL:    cfg.YouTubeAPIBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.GatewayTimeout},
	})

	seenStore, redisStore := setupSeenStore(cfg)
	if redisStore != nil {
		defer func() { _ = redisStore.Close() }()
	}

	// The hub and poller reference each other through callbacks, so the hub
	// is created first with late-bound keyword hooks.
	var poller *poll.Poller
	onKeywordWatched := func(keyword string) { poller.Watch(keyword) }
	onKeywordReleased := func(keyword string) { poller.Unwatch(keyword) }

	h := hub.New(onKeywordWatched, onKeywordReleased, clock, cfg.HeartbeatInterval, cfg.MaxClients)
	poller = poll.New(gateway, seenStore, h, clock, cfg.PollInterval, cfg.GatewayTimeout, cfg.SearchMaxResults)

	// Pass nil explicitly in memory mode to avoid a typed-nil interface value.
	var srv *server.Server
	if redisStore != nil {
		srv = server.NewServer(cfg, h, gateway, gateway, redisStore)
	} else {
		srv = server.NewServer(cfg, h, gateway, gateway, nil)
	}

	done := runGracefulShutdown(srv, h, poller)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
