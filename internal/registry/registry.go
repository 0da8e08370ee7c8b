package registry

import "sync"

// ConnectionRegistry maps an active connection to the room it belongs to.
// All methods are safe for concurrent use.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	rooms map[string]string // connID -> roomID
}

func New() *ConnectionRegistry {
	return &ConnectionRegistry{
		rooms: make(map[string]string),
	}
}

// Bind - records that connID belongs to roomID, overwriting any previous binding.
func (that *ConnectionRegistry) Bind(connID, roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.rooms[connID] = roomID
}

// Lookup - returns the room connID is bound to.
func (that *ConnectionRegistry) Lookup(connID string) (string, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	roomID, ok := that.rooms[connID]

	return roomID, ok
}

// Unbind - removes the binding of connID. No-op if absent.
func (that *ConnectionRegistry) Unbind(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, connID)
}

// UnbindFrom - removes the binding of connID only while it still points at roomID.
func (that *ConnectionRegistry) UnbindFrom(connID, roomID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.rooms[connID]; !ok || current != roomID {
		return false
	}

	delete(that.rooms, connID)

	return true
}

func (that *ConnectionRegistry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}
