package entity

// JoinReply is sent to a connection that joined a room.
type JoinReply struct {
	*Room
	ConnectionID string `json:"connectionId"`
}

// Winner is broadcast when a move completes a line.
type Winner struct {
	Message string `json:"message"`
	Pattern [3]int `json:"pattern"`
}

// AudioChunk is an opaque binary audio frame relayed without decoding.
type AudioChunk []byte

// Outbound event names.
const (
	EventCreate             = "create"
	EventJoin               = "join"
	EventPlay               = "play"
	EventWinner             = "winner"
	EventReceiveMessage     = "receive_message"
	EventReceiveAudio       = "receive_audio"
	EventPlayerConnected    = "player_connected"
	EventPlayerDisconnected = "player_disconnected"
	EventError              = "error"
)

const (
	PlayerConnectedMessage    = "Player connected!"
	PlayerDisconnectedMessage = "Player disconnected!"
)
