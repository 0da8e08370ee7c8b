package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/tictactoe"
)

// Conn is the connection an event came from.
type Conn interface {
	ID() string
	Emit(event string, payload any) error
	JoinGroup(group string)
	LeaveGroup(group string)
}

// Broadcaster fans events out to the connections of a group.
type Broadcaster interface {
	SendToGroup(group, event string, payload any)
	SendToGroupExcept(group, senderID, event string, payload any)
}

type connectionRegistry interface {
	Bind(connID, roomID string)
	Lookup(connID string) (string, bool)
	UnbindFrom(connID, roomID string) bool
}

type roomStore interface {
	Create(newID func() (string, error), attempts int, ownerID string) (*entity.Room, error)
	Update(id string, fn func(room *entity.Room) error) (bool, error)
}

type roomMirror interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	DeleteByID(ctx context.Context, id string) error
}

type RoomCoordinator struct {
	logger  *slog.Logger
	metrics *metrics.Metrics

	registry connectionRegistry
	rooms    roomStore
	mirror   roomMirror
	hub      Broadcaster

	newRoomID  func() (string, error)
	idAttempts int
}

func NewRoomCoordinator(
	logger *slog.Logger,
	m *metrics.Metrics,
	registry connectionRegistry,
	rooms roomStore,
	mirror roomMirror,
	hub Broadcaster,
	newRoomID func() (string, error),
	idAttempts int,
) *RoomCoordinator {
	return &RoomCoordinator{
		logger:  logger.With("component", "room_coordinator"),
		metrics: m,

		registry: registry,
		rooms:    rooms,
		mirror:   mirror,
		hub:      hub,

		newRoomID:  newRoomID,
		idAttempts: idAttempts,
	}
}

// CreateRoom - opens a room owned by conn and replies with its id.
func (that *RoomCoordinator) CreateRoom(ctx context.Context, conn Conn) error {
	log := that.logger.With("method", "CreateRoom", "connID", conn.ID())

	prevRoomID, bound := that.registry.Lookup(conn.ID())

	room, err := that.rooms.Create(that.newRoomID, that.idAttempts, conn.ID())
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	that.registry.Bind(conn.ID(), room.ID)
	conn.JoinGroup(room.ID)
	that.metrics.RoomsActive.Inc()
	that.saveMirror(ctx, room)

	that.emit(conn, entity.EventCreate, room.ID)

	log.Info("room created", "roomID", room.ID)

	// the previous seat is given up only once the new room exists
	if bound {
		that.leaveRoom(ctx, conn, prevRoomID)
	}

	return nil
}

// JoinRoom - seats conn in roomID with the pending symbol.
func (that *RoomCoordinator) JoinRoom(ctx context.Context, conn Conn, roomID string) error {
	log := that.logger.With("method", "JoinRoom", "connID", conn.ID(), "roomID", roomID)

	prevRoomID, bound := that.registry.Lookup(conn.ID())

	var (
		mark   entity.Mark
		seated bool
	)
	_, err := that.rooms.Update(roomID, func(room *entity.Room) error {
		// a repeated join from a seated member only resends the snapshot
		if room.HasPlayer(conn.ID()) {
			that.emit(conn, entity.EventJoin, entity.JoinReply{Room: room.Clone(), ConnectionID: conn.ID()})
			return nil
		}

		if room.IsFull() {
			return apperror.ErrRoomFull
		}

		mark = room.AddPlayer(conn.ID())
		seated = true

		that.registry.Bind(conn.ID(), room.ID)
		conn.JoinGroup(room.ID)
		that.saveMirror(ctx, room)

		that.emit(conn, entity.EventJoin, entity.JoinReply{Room: room.Clone(), ConnectionID: conn.ID()})
		that.hub.SendToGroup(room.ID, entity.EventPlayerConnected, entity.PlayerConnectedMessage)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to join room %s: %w", roomID, err)
	}

	log.Info("player joined room", "mark", mark)

	// the old room is left after the target lock is released, so rooms are never locked in pairs
	if seated && bound && prevRoomID != roomID {
		that.leaveRoom(ctx, conn, prevRoomID)
	}

	return nil
}

// ApplyMove - places the symbol of conn on cell and broadcasts the result to the room.
func (that *RoomCoordinator) ApplyMove(ctx context.Context, conn Conn, cell int) error {
	roomID, ok := that.registry.Lookup(conn.ID())
	if !ok {
		return apperror.ErrNotInRoom
	}

	log := that.logger.With("method", "ApplyMove", "connID", conn.ID(), "roomID", roomID)

	_, err := that.rooms.Update(roomID, func(room *entity.Room) error {
		outcome, err := tictactoe.MakeTurn(room, conn.ID(), cell)
		if err != nil {
			return err
		}

		switch {
		case outcome.Won:
			that.hub.SendToGroup(room.ID, entity.EventWinner, entity.Winner{
				Message: fmt.Sprintf("Player %s wins!", outcome.Mark),
				Pattern: outcome.Pattern,
			})
			that.metrics.GamesFinished.WithLabelValues("win").Inc()
			log.Info("game won", "mark", outcome.Mark, "pattern", outcome.Pattern)
		case outcome.Draw:
			that.metrics.GamesFinished.WithLabelValues("draw").Inc()
			log.Info("game drawn")
		}

		that.hub.SendToGroup(room.ID, entity.EventPlay, room.Board)
		that.saveMirror(ctx, room)

		return nil
	})
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidRoom, roomID)
	}

	if err != nil {
		return fmt.Errorf("failed to make turn: %w", err)
	}

	return nil
}

// SendChatMessage - relays payload to everyone else in the room of conn.
func (that *RoomCoordinator) SendChatMessage(_ context.Context, conn Conn, payload any) error {
	return that.relay(conn, entity.EventReceiveMessage, payload)
}

// RelayAudio - relays an audio chunk to everyone else in the room of conn.
// It never takes the room lock.
func (that *RoomCoordinator) RelayAudio(_ context.Context, conn Conn, payload any) error {
	return that.relay(conn, entity.EventReceiveAudio, payload)
}

// HandleDisconnect - removes conn from its room and tells the others.
func (that *RoomCoordinator) HandleDisconnect(ctx context.Context, conn Conn) {
	roomID, ok := that.registry.Lookup(conn.ID())
	if !ok {
		return
	}

	that.leaveRoom(ctx, conn, roomID)
}

func (that *RoomCoordinator) relay(conn Conn, event string, payload any) error {
	roomID, ok := that.registry.Lookup(conn.ID())
	if !ok {
		return apperror.ErrNotInRoom
	}

	that.hub.SendToGroupExcept(roomID, conn.ID(), event, payload)

	return nil
}

// leaveRoom - removes conn from roomID. A binding to another room is left alone.
func (that *RoomCoordinator) leaveRoom(ctx context.Context, conn Conn, roomID string) {
	log := that.logger.With("method", "leaveRoom", "connID", conn.ID(), "roomID", roomID)

	removed, err := that.rooms.Update(roomID, func(room *entity.Room) error {
		conn.LeaveGroup(room.ID)
		that.registry.UnbindFrom(conn.ID(), room.ID)

		if !room.RemovePlayer(conn.ID()) {
			return nil
		}

		if room.IsEmpty() {
			that.deleteMirror(ctx, room.ID)
			return nil
		}

		that.saveMirror(ctx, room)
		that.hub.SendToGroup(room.ID, entity.EventPlayerDisconnected, entity.PlayerDisconnectedMessage)

		return nil
	})
	if err != nil {
		log.Debug("room already gone", "error", err)
	}

	conn.LeaveGroup(roomID)
	that.registry.UnbindFrom(conn.ID(), roomID)

	if removed {
		that.metrics.RoomsActive.Dec()
		log.Info("room deleted")
		return
	}

	log.Info("player left room")
}

func (that *RoomCoordinator) emit(conn Conn, event string, payload any) {
	if err := conn.Emit(event, payload); err != nil {
		that.logger.Warn("failed to emit", "connID", conn.ID(), "event", event, "error", err)
	}
}

func (that *RoomCoordinator) saveMirror(ctx context.Context, room *entity.Room) {
	if err := that.mirror.CreateOrUpdate(ctx, room); err != nil {
		that.logger.Warn("failed to mirror room", "roomID", room.ID, "error", err)
	}
}

func (that *RoomCoordinator) deleteMirror(ctx context.Context, roomID string) {
	if err := that.mirror.DeleteByID(ctx, roomID); err != nil && !errors.Is(err, apperror.ErrRoomNotFound) {
		that.logger.Warn("failed to delete mirrored room", "roomID", roomID, "error", err)
	}
}
