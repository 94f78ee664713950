package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// One-shot lookups
	s.echo.GET("/api/search", s.handleSearch)
	s.echo.GET("/api/channels/:id", s.handleChannelProfile)
	s.echo.GET("/api/videos/:id/tags", s.handleVideoTags)

	// Live subscription transport
	s.echo.GET("/ws", s.handleWebSocket)
}
