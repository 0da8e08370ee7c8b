package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Inbound actions.
const (
	actionCreate      = "create"
	actionJoin        = "join"
	actionPlay        = "play"
	actionSendMessage = "send_message"
	actionSendAudio   = "send_audio"
	actionLeave       = "leave"
	actionDisconnect  = "_disconnect"
)

// dispatch - routes one inbound frame. Binary frames are audio chunks.
func (that *Server) dispatch(ctx context.Context, client *Client, messageType int, data []byte) {
	if messageType == websocket.BinaryMessage {
		that.metrics.EventsTotal.WithLabelValues(actionSendAudio).Inc()

		if err := that.uRoom.RelayAudio(ctx, client, entity.AudioChunk(data)); err != nil {
			that.sendErrorResponse(client, actionSendAudio, err)
		}

		return
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		that.sendErrorResponse(client, "", fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err))
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		that.sendErrorResponse(client, message.Action, apperror.ErrUnknownAction)
		return
	}

	that.metrics.EventsTotal.WithLabelValues(message.Action).Inc()

	if err := handler(ctx, client, &message); err != nil {
		that.sendErrorResponse(client, message.Action, err)
	}
}

func (that *Server) handleCreate(ctx context.Context, client *Client, _ *Message) error {
	return that.uRoom.CreateRoom(ctx, client)
}

func (that *Server) handleJoin(ctx context.Context, client *Client, msg *Message) error {
	var roomID string
	if err := json.Unmarshal(msg.Payload, &roomID); err != nil {
		return fmt.Errorf("%w: room id must be a string: %w", apperror.ErrInvalidPayload, err)
	}

	return that.uRoom.JoinRoom(ctx, client, roomID)
}

func (that *Server) handlePlay(ctx context.Context, client *Client, msg *Message) error {
	var cell int
	if err := json.Unmarshal(msg.Payload, &cell); err != nil {
		return fmt.Errorf("%w: cell must be an integer: %w", apperror.ErrInvalidPayload, err)
	}

	return that.uRoom.ApplyMove(ctx, client, cell)
}

func (that *Server) handleSendMessage(ctx context.Context, client *Client, msg *Message) error {
	return that.uRoom.SendChatMessage(ctx, client, rawPayload(msg))
}

func (that *Server) handleSendAudio(ctx context.Context, client *Client, msg *Message) error {
	return that.uRoom.RelayAudio(ctx, client, rawPayload(msg))
}

func (that *Server) handleLeave(ctx context.Context, client *Client, _ *Message) error {
	that.uRoom.HandleDisconnect(ctx, client)
	return nil
}

// rawPayload - keeps the payload bytes as received; a missing payload is relayed as null.
func rawPayload(msg *Message) json.RawMessage {
	if len(msg.Payload) == 0 {
		return json.RawMessage("null")
	}

	return msg.Payload
}

func (that *Server) sendErrorResponse(client *Client, action string, err error) {
	log := that.logger.With("method", "sendErrorResponse", "connID", client.ID(), "action", action)

	reason := apperror.Reason(err)
	that.metrics.ErrorsTotal.WithLabelValues(reason).Inc()

	if reason == "internal" {
		log.Error("failed to process message", "error", err)
	} else {
		log.Info("rejected message", "reason", reason, "error", err)
	}

	if err = client.Emit(entity.EventError, apperror.ClientMessage(err)); err != nil && !errors.Is(err, ErrConnectionClosed) {
		log.Warn("failed to send error response", "error", err)
	}
}
