package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// frame is an encoded message waiting in a client queue.
type frame struct {
	messageType int
	data        []byte
}

// encodeFrame - audio chunks go out as binary frames, everything else as a JSON envelope.
func encodeFrame(action string, payload any) (frame, error) {
	if chunk, ok := payload.(entity.AudioChunk); ok {
		return frame{messageType: websocket.BinaryMessage, data: chunk}, nil
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return frame{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return frame{}, fmt.Errorf("failed to marshal response: %w", err)
	}

	return frame{messageType: websocket.TextMessage, data: data}, nil
}
