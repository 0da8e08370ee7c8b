package apperror

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrNotInRoom       = errors.New("connection is not in a room")
	ErrRoomNotReady    = errors.New("room is waiting for the second player")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrInvalidRoom     = errors.New("invalid room")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrUnknownAction   = errors.New("unknown action")
	ErrRoomIDExhausted = errors.New("could not generate a free room id")
)

const defaultClientMessage = "Something went wrong!"

// clientMessages keeps the strings clients already match on.
var clientMessages = []struct {
	err     error
	message string
}{
	{ErrRoomNotFound, "Room not found!"},
	{ErrRoomFull, "Room is full!"},
	{ErrNotInRoom, "Join a room first!"},
	{ErrInvalidRoom, "Invalid room!"},
	{ErrRoomNotReady, "Please wait while player connect!"},
	{ErrCellOccupied, "Cell already occupied!"},
	{ErrNotYourTurn, "Wait for your turn!"},
	{ErrInvalidCell, "Invalid cell!"},
	{ErrInvalidPayload, "Invalid payload!"},
	{ErrUnknownAction, "Unknown event!"},
	{ErrRoomIDExhausted, "Could not create room!"},
}

// ClientMessage - returns the human-readable string sent with the error event.
func ClientMessage(err error) string {
	for _, m := range clientMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}

	return defaultClientMessage
}

// Reason - returns a short label for err, used as a metrics dimension.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, ErrInvalidRoom):
		return "invalid_room"
	case errors.Is(err, ErrRoomNotReady):
		return "room_not_ready"
	case errors.Is(err, ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrInvalidCell):
		return "invalid_cell"
	case errors.Is(err, ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, ErrRoomIDExhausted):
		return "room_id_exhausted"
	default:
		return "internal"
	}
}
