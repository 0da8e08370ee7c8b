package entity

import (
	"encoding/json"
	"maps"
)

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""

	// MaxPlayers - a room seats exactly two players.
	MaxPlayers = 2
	BoardSize  = 9
)

// Mark is a symbol placed on the board. The empty mark is encoded as JSON null.
type Mark string

func (that Mark) MarshalJSON() ([]byte, error) {
	if that == EmptyCell {
		return []byte("null"), nil
	}

	return json.Marshal(string(that))
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	var value *string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	if value == nil {
		*that = EmptyCell
		return nil
	}

	*that = Mark(*value)

	return nil
}

// Toggle - returns the opposite symbol.
func (that Mark) Toggle() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

type Board [BoardSize]Mark

// IsValidCell - reports whether cell addresses the board.
func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// Room is a two-seat session hosting one board.
type Room struct {
	ID            string          `json:"id"`
	Players       map[string]Mark `json:"players"`
	CurrentPlayer Mark            `json:"currentPlayer"`
	PendingSymbol Mark            `json:"pendingSymbol"`
	Board         Board           `json:"board"`
}

// NewRoom - creates a room owned by ownerID, who plays X. O is reserved for the next joiner.
func NewRoom(id, ownerID string) *Room {
	return &Room{
		ID:            id,
		Players:       map[string]Mark{ownerID: PlayerX},
		CurrentPlayer: PlayerX,
		PendingSymbol: PlayerO,
	}
}

// IsOpen - a room accepts its reserved symbol until somebody takes it.
func (that *Room) IsOpen() bool {
	return that.PendingSymbol != EmptyCell
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxPlayers
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

func (that *Room) HasPlayer(connID string) bool {
	_, ok := that.Players[connID]
	return ok
}

// AddPlayer - seats connID with the pending symbol and closes the room.
func (that *Room) AddPlayer(connID string) Mark {
	mark := that.PendingSymbol
	that.Players[connID] = mark
	that.PendingSymbol = EmptyCell

	return mark
}

// RemovePlayer - frees the seat of connID. The pending symbol is not restored.
func (that *Room) RemovePlayer(connID string) bool {
	if !that.HasPlayer(connID) {
		return false
	}

	delete(that.Players, connID)

	return true
}

func (that *Room) ResetBoard() {
	that.Board = Board{}
}

// Clone - returns a deep copy that is safe to read without holding the room lock.
func (that *Room) Clone() *Room {
	clone := *that
	clone.Players = maps.Clone(that.Players)

	return &clone
}
