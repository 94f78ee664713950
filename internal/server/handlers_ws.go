package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/mpeyrovian/TubeLytics/internal/domain"
)

// handleWebSocket runs the lifecycle of one live connection: upgrade, read
// the init message, register with the hub, then pump inbound frames until
// the transport closes. Every exit funnels through hub.Unregister.
func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return nil
	}

	keywords, err := readInitMessage(conn)
	if err != nil {
		slog.Info("Rejecting connection", "remote", conn.RemoteAddr().String(), "error", err)
		closeWithPolicyViolation(conn, err.Error())
		return nil
	}

	if err := s.hub.Register(conn, keywords); err != nil {
		if errors.Is(err, domain.ErrEmptySubscription) {
			closeWithPolicyViolation(conn, "subscription requires at least one keyword")
		} else {
			slog.Error("Failed to register connection", "error", err)
			_ = conn.Close()
		}
		return nil
	}

	// Read pump. Messages after init carry no meaning; unknown shapes are
	// logged and ignored, a read error means the transport is gone.
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		slog.Debug("Ignoring message on subscribed connection", "payload_bytes", len(msg))
	}

	s.hub.Unregister(conn)
	return nil
}

// readInitMessage waits for the first frame and parses it as an init
// message with a non-empty normalized keyword list.
func readInitMessage(conn *websocket.Conn) ([]string, error) {
	_ = conn.SetReadDeadline(time.Now().Add(initReadTimeout))
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, errors.New("no init message received")
	}

	var init domain.InitMessage
	if err := json.Unmarshal(msg, &init); err != nil {
		return nil, errors.New("init message is not valid JSON")
	}
	if init.Type != domain.MessageTypeInit {
		return nil, errors.New("first message must have type \"init\"")
	}

	keywords := domain.NormalizeKeywords(init.Keywords)
	if len(keywords) == 0 {
		return nil, domain.ErrEmptySubscription
	}
	return keywords, nil
}

func closeWithPolicyViolation(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_ = conn.WriteMessage(websocket.CloseMessage, msg)
	_ = conn.Close()
}
