package repository

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// lockedRoom guards one room. removed is set once the room left the table,
// so a caller holding a stale pointer sees it as gone.
type lockedRoom struct {
	mu      sync.Mutex
	room    *entity.Room
	removed bool
}

// RoomStore is the in-memory table of live rooms with one lock per room.
//
// Lock order is room, then table. Table locks are never held while waiting for a room lock.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*lockedRoom
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*lockedRoom),
	}
}

// Create - inserts a new room under the first generated id that is not live.
func (that *RoomStore) Create(newID func() (string, error), attempts int, ownerID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for range max(attempts, 1) {
		id, err := newID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room id: %w", err)
		}

		if _, exists := that.rooms[id]; exists {
			continue
		}

		room := entity.NewRoom(id, ownerID)
		that.rooms[id] = &lockedRoom{room: room}

		return room.Clone(), nil
	}

	return nil, apperror.ErrRoomIDExhausted
}

// Update - runs fn with exclusive access to the room. When fn leaves the room
// without players, the room is removed from the table before the lock is released.
func (that *RoomStore) Update(id string, fn func(room *entity.Room) error) (bool, error) {
	entry, ok := that.get(id)
	if !ok {
		return false, apperror.ErrRoomNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.removed {
		return false, apperror.ErrRoomNotFound
	}

	if err := fn(entry.room); err != nil {
		return false, err
	}

	if !entry.room.IsEmpty() {
		return false, nil
	}

	entry.removed = true

	that.mu.Lock()
	delete(that.rooms, id)
	that.mu.Unlock()

	return true, nil
}

// Get - returns a copy of the room.
func (that *RoomStore) Get(id string) (*entity.Room, bool) {
	entry, ok := that.get(id)
	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.removed {
		return nil, false
	}

	return entry.room.Clone(), true
}

func (that *RoomStore) Exists(id string) bool {
	_, ok := that.get(id)
	return ok
}

func (that *RoomStore) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

func (that *RoomStore) get(id string) (*lockedRoom, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	entry, ok := that.rooms[id]

	return entry, ok
}
