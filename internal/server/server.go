package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mpeyrovian/TubeLytics/internal/config"
	"github.com/mpeyrovian/TubeLytics/internal/domain"
	apperrors "github.com/mpeyrovian/TubeLytics/internal/errors"
	"github.com/mpeyrovian/TubeLytics/internal/hub"
)

// defaultSearchResults is the result count for one-shot search requests.
const defaultSearchResults = 10

// initReadTimeout bounds how long a fresh connection may wait before
// sending its subscription message.
const initReadTimeout = 15 * time.Second

// pinger is the subset of the seen-video redis store used for readiness.
type pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	hub       *hub.Hub
	search    domain.SearchGateway
	channels  domain.ChannelGateway
	redis     pinger // nil in memory mode
	upgrader  websocket.Upgrader
	startTime time.Time
}

// NewServer wires the HTTP surface. redisPinger may be nil when the
// seen-video cache runs in memory.
func NewServer(cfg *config.Config, h *hub.Hub, search domain.SearchGateway, channels domain.ChannelGateway, redisPinger pinger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:     e,
		config:   cfg,
		hub:      h,
		search:   search,
		channels: channels,
		redis:    redisPinger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Subscribers connect from arbitrary pages.
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		startTime: time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
