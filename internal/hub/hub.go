package hub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/mpeyrovian/TubeLytics/internal/domain"
	"github.com/mpeyrovian/TubeLytics/internal/metrics"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
)

// hubCmd is the command interface for the Hub actor.
type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type registerCmd struct {
	baseHubCmd
	connection   *websocket.Conn
	keywords     []string
	errorChannel chan error
}

type unregisterCmd struct {
	baseHubCmd
	connection *websocket.Conn
}

type notifyCmd struct {
	baseHubCmd
	keyword string
	video   domain.Video
}

type clientCountCmd struct {
	baseHubCmd
	replyChannel chan int
}

type watcherCountCmd struct {
	baseHubCmd
	keyword      string
	replyChannel chan int
}

type stopCmd struct {
	baseHubCmd
}

// client is the hub-side state of one live connection.
type client struct {
	id       uuid.UUID
	writer   *clientWriter
	keywords []string
}

// Hub tracks live connections and the keywords each one watches, and fans
// out video notifications and heartbeats to the right connections.
type Hub struct {
	cmdCh             chan hubCmd
	clock             clockwork.Clock
	conns             map[*websocket.Conn]*client
	watchers          map[string]map[*websocket.Conn]*client
	onKeywordWatched  func(keyword string)
	onKeywordReleased func(keyword string)
	heartbeatInterval time.Duration
	maxClients        int
	done              chan struct{}
	doneOnce          sync.Once
}

// New creates a hub and starts its actor goroutine.
// onKeywordWatched fires when a keyword gains its first watcher,
// onKeywordReleased when it loses its last one. Both run on the actor
// goroutine and must not block; the poll scheduler's Watch/Unwatch qualify.
func New(onKeywordWatched, onKeywordReleased func(string), clock clockwork.Clock, heartbeatInterval time.Duration, maxClients int) *Hub {
	h := &Hub{
		cmdCh:             make(chan hubCmd, 256),
		clock:             clock,
		conns:             make(map[*websocket.Conn]*client),
		watchers:          make(map[string]map[*websocket.Conn]*client),
		onKeywordWatched:  onKeywordWatched,
		onKeywordReleased: onKeywordReleased,
		heartbeatInterval: heartbeatInterval,
		maxClients:        maxClients,
		done:              make(chan struct{}),
	}
	go h.run()
	return h
}

// Register adds a connection with its normalized keyword set. Keywords must
// already be normalized and deduplicated; an empty set is rejected with
// domain.ErrEmptySubscription and no watch is created.
func (h *Hub) Register(conn *websocket.Conn, keywords []string) error {
	if len(keywords) == 0 {
		return domain.ErrEmptySubscription
	}

	errCh := make(chan error, 1)
	h.cmdCh <- registerCmd{connection: conn, keywords: keywords, errorChannel: errCh}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-timer.Chan():
		return fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a connection from every keyword it watched.
// Idempotent: unknown connections are a no-op.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.cmdCh <- unregisterCmd{connection: conn}
}

// NotifyVideo delivers a video notification to every connection watching the
// keyword. Delivery failures affect only the failing connection.
func (h *Hub) NotifyVideo(keyword string, video domain.Video) {
	h.cmdCh <- notifyCmd{keyword: keyword, video: video}
}

// ClientCount returns the number of open connections, or -1 on timeout.
func (h *Hub) ClientCount() int {
	return h.count(clientCountCmd{replyChannel: make(chan int, 1)})
}

// WatcherCount returns how many connections watch a keyword, or -1 on timeout.
func (h *Hub) WatcherCount(keyword string) int {
	return h.count(watcherCountCmd{keyword: keyword, replyChannel: make(chan int, 1)})
}

func (h *Hub) count(cmd hubCmd) int {
	var replyCh chan int
	switch c := cmd.(type) {
	case clientCountCmd:
		replyCh = c.replyChannel
	case watcherCountCmd:
		replyCh = c.replyChannel
	}
	h.cmdCh <- cmd

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case n := <-replyCh:
		return n
	case <-timer.Chan():
		slog.Warn("Hub count command timed out", "timeout", commandTimeout)
		return -1
	}
}

// Stop shuts down the hub, closing all connections. Blocks until the actor
// goroutine has exited or the stop timeout is reached.
func (h *Hub) Stop() {
	h.cmdCh <- stopCmd{}

	timer := h.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-h.done:
		slog.Info("Hub stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Hub stop timeout exceeded, forcing exit", "timeout", stopTimeout)
		metrics.HubStopTimeoutsTotal.Inc()
		h.closeDone()
	}
}

// closeDone closes the done channel exactly once. Both the actor's normal
// exit and the stop-timeout path reach it, in either order.
func (h *Hub) closeDone() {
	h.doneOnce.Do(func() { close(h.done) })
}

func (h *Hub) run() {
	defer h.closeDone()

	ticker := h.clock.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-h.cmdCh:
			switch c := cmd.(type) {
			case registerCmd:
				h.handleRegister(c)
			case unregisterCmd:
				h.handleUnregister(c.connection)
			case notifyCmd:
				h.handleNotify(c)
			case clientCountCmd:
				c.replyChannel <- len(h.conns)
			case watcherCountCmd:
				c.replyChannel <- len(h.watchers[c.keyword])
			case stopCmd:
				h.handleStop()
				return
			default:
				slog.Warn("Hub received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
			}
		case <-ticker.Chan():
			h.handleHeartbeat()
		}
	}
}

func (h *Hub) handleRegister(c registerCmd) {
	if len(h.conns) >= h.maxClients {
		slog.Warn("Rejecting client: max clients reached", "max_clients", h.maxClients)
		_ = c.connection.Close()
		c.errorChannel <- fmt.Errorf("max clients (%d) reached", h.maxClients)
		return
	}

	cl := &client{
		id:       uuid.New(),
		writer:   newClientWriter(c.connection, h.clock),
		keywords: c.keywords,
	}
	h.conns[c.connection] = cl

	for _, kw := range c.keywords {
		set, exists := h.watchers[kw]
		if !exists {
			set = make(map[*websocket.Conn]*client)
			h.watchers[kw] = set
			if h.onKeywordWatched != nil {
				h.onKeywordWatched(kw)
			}
		}
		set[c.connection] = cl
	}

	metrics.ConnectedClients.Set(float64(len(h.conns)))
	slog.Debug("Client registered", "client_id", cl.id.String(), "keywords", c.keywords, "total_clients", len(h.conns))
	c.errorChannel <- nil
}

func (h *Hub) handleUnregister(conn *websocket.Conn) {
	cl, exists := h.conns[conn]
	if !exists {
		return
	}

	cl.writer.stop()
	delete(h.conns, conn)

	for _, kw := range cl.keywords {
		set, ok := h.watchers[kw]
		if !ok {
			continue
		}
		delete(set, conn)
		if len(set) == 0 {
			delete(h.watchers, kw)
			if h.onKeywordReleased != nil {
				h.onKeywordReleased(kw)
			}
		}
	}

	metrics.ConnectedClients.Set(float64(len(h.conns)))
	slog.Debug("Client unregistered", "client_id", cl.id.String(), "remaining_clients", len(h.conns))
}

func (h *Hub) handleNotify(c notifyCmd) {
	set, exists := h.watchers[c.keyword]
	if !exists {
		return
	}

	data, err := json.Marshal(domain.NewVideoMessage(c.keyword, c.video))
	if err != nil {
		slog.Error("Failed to marshal video message", "error", err)
		return
	}

	h.fanOut(set, data)
	metrics.VideosBroadcastTotal.Inc()
	slog.Debug("Video broadcast", "keyword", c.keyword, "video_id", c.video.ID, "watchers", len(set))
}

func (h *Hub) handleHeartbeat() {
	if len(h.conns) == 0 {
		return
	}

	data, err := json.Marshal(domain.HeartbeatMessage{Type: domain.MessageTypeHeartbeat})
	if err != nil {
		slog.Error("Failed to marshal heartbeat message", "error", err)
		return
	}

	h.fanOut(h.conns, data)
	metrics.HeartbeatsTotal.Inc()
}

// fanOut delivers data to every connection in the set via non-blocking sends.
// Connections with a full buffer are evicted through the unregister path so
// one stuck client never stalls the rest.
func (h *Hub) fanOut(set map[*websocket.Conn]*client, data []byte) {
	var slow []*websocket.Conn
	for conn, cl := range set {
		select {
		case cl.writer.sendChannel <- data:
		default:
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("Disconnecting slow client", "client_id", h.conns[conn].id.String())
		metrics.SlowClientsEvicted.Inc()
		h.handleUnregister(conn)
	}
}

func (h *Hub) handleStop() {
	total := len(h.conns)
	slog.Info("Hub shutting down", "clients", total)

	for conn, cl := range h.conns {
		cl.writer.stopGraceful("Server shutting down")
		delete(h.conns, conn)
	}
	for kw := range h.watchers {
		delete(h.watchers, kw)
		if h.onKeywordReleased != nil {
			h.onKeywordReleased(kw)
		}
	}

	metrics.ConnectedClients.Set(0)
	slog.Info("Hub shutdown complete", "disconnected_clients", total)
}
