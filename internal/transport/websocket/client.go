package websocket

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/metrics"
)

var (
	ErrConnectionClosed = errors.New("connection is closed")
	ErrSendQueueFull    = errors.New("send queue is full")
)

// Client is one upgraded connection. Reads happen on the server goroutine,
// writes on writePump only.
type Client struct {
	id     string
	conn   *websocket.Conn
	hub    *Hub
	logger *slog.Logger

	metrics *metrics.Metrics

	send      chan frame
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, hub *Hub, logger *slog.Logger, m *metrics.Metrics, sendBuffer int) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		hub:    hub,
		logger: logger.With("connID", id),

		metrics: m,

		send: make(chan frame, max(sendBuffer, 1)),
		done: make(chan struct{}),
	}
}

func (that *Client) ID() string {
	return that.id
}

// Emit - queues an event for this connection only.
func (that *Client) Emit(action string, payload any) error {
	f, err := encodeFrame(action, payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", action, err)
	}

	return that.enqueue(f)
}

func (that *Client) JoinGroup(group string) {
	that.hub.join(group, that)
}

func (that *Client) LeaveGroup(group string) {
	that.hub.leave(group, that)
}

// enqueue - never blocks; a full queue drops the frame.
func (that *Client) enqueue(f frame) error {
	select {
	case <-that.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case that.send <- f:
		return nil
	default:
		that.metrics.DroppedMessages.Inc()
		return ErrSendQueueFull
	}
}

// close - stops writePump. Safe to call more than once.
func (that *Client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

// writePump - drains the queue in order and keeps the peer alive with pings.
func (that *Client) writePump(pingInterval, writeWait time.Duration) {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		that.close()
		_ = that.conn.Close()
	}()

	for {
		select {
		case f := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(f.messageType, f.data); err != nil {
				log.Debug("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("failed to write ping", "error", err)
				return
			}
		case <-that.done:
			closeMessage := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = that.conn.WriteControl(websocket.CloseMessage, closeMessage, time.Now().Add(writeWait))
			return
		}
	}
}
