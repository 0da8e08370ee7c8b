package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

const (
	readBufferSize  = 1024
	writeBufferSize = 1024
)

type uRoom interface {
	CreateRoom(ctx context.Context, conn usecase.Conn) error
	JoinRoom(ctx context.Context, conn usecase.Conn, roomID string) error
	ApplyMove(ctx context.Context, conn usecase.Conn, cell int) error
	SendChatMessage(ctx context.Context, conn usecase.Conn, payload any) error
	RelayAudio(ctx context.Context, conn usecase.Conn, payload any) error
	HandleDisconnect(ctx context.Context, conn usecase.Conn)
}

type Server struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	config  config.WebSocket

	uRoom    uRoom
	hub      *Hub
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, client *Client, message *Message) error

	// connections counts the running read loops
	connections sync.WaitGroup
}

func New(logger *slog.Logger, cfg config.WebSocket, allowedOrigins []string, m *metrics.Metrics, hub *Hub, uRoom uRoom) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket_server"),
		metrics: m,
		config:  cfg,

		uRoom: uRoom,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},

		handlers: make(map[string]func(context.Context, *Client, *Message) error),
	}

	server.handlers[actionCreate] = server.handleCreate
	server.handlers[actionJoin] = server.handleJoin
	server.handlers[actionPlay] = server.handlePlay
	server.handlers[actionSendMessage] = server.handleSendMessage
	server.handlers[actionSendAudio] = server.handleSendAudio
	server.handlers[actionLeave] = server.handleLeave
	server.handlers[actionDisconnect] = server.handleLeave

	return server
}

// ServeHTTP - upgrades the request and serves the connection until it closes.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	that.connections.Add(1)
	defer that.connections.Done()

	client := newClient(pkg.GenerateConnectionID(), conn, that.hub, that.logger, that.metrics, that.config.SendBuffer)

	that.hub.register(client)
	that.metrics.ConnectionsActive.Inc()

	log.Info("WebSocket connection established", "connID", client.ID())

	go client.writePump(that.config.PingInterval, that.config.WriteWait)

	that.handleMessages(req.Context(), client)
}

// Close - closes every open connection and waits until their cleanup is done.
func (that *Server) Close() {
	that.hub.CloseAll()
	that.connections.Wait()
}

// handleMessages - processes messages from the client until the connection fails.
func (that *Server) handleMessages(ctx context.Context, client *Client) {
	log := that.logger.With("method", "handleMessages", "connID", client.ID())

	defer func() {
		that.uRoom.HandleDisconnect(context.WithoutCancel(ctx), client)
		that.hub.unregister(client)
		client.close()
		that.metrics.ConnectionsActive.Dec()

		log.Info("WebSocket connection closed")
	}()

	client.conn.SetReadLimit(that.config.MaxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(that.config.PongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(that.config.PongWait))
	})

	for {
		messageType, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("error reading message", "error", err)
			}
			return
		}

		// any traffic proves the peer is alive
		_ = client.conn.SetReadDeadline(time.Now().Add(that.config.PongWait))

		that.dispatch(ctx, client, messageType, data)
	}
}

// checkOrigin - accepts requests without an Origin header and those on the allow list.
func checkOrigin(allowedOrigins []string) func(req *http.Request) bool {
	allowAll := slices.Contains(allowedOrigins, "*")

	return func(req *http.Request) bool {
		origin := req.Header.Get("Origin")
		if allowAll || origin == "" {
			return true
		}

		return slices.Contains(allowedOrigins, origin)
	}
}
