package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/registry"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-rooms/mocks/usecase"
	"github.com/rocketscienceinc/tictactoe-rooms/testing/suite"
)

var errRedisDown = errors.New("redis down")

type sentEvent struct {
	Event   string
	Payload any
}

// fakeHub keeps groups of fakeConn and records every delivery on the receiving conn.
type fakeHub struct {
	mu     sync.Mutex
	groups map[string]map[string]*fakeConn
}

func newFakeHub() *fakeHub {
	return &fakeHub{groups: make(map[string]map[string]*fakeConn)}
}

func (that *fakeHub) conn(id string) *fakeConn {
	return &fakeConn{id: id, hub: that}
}

func (that *fakeHub) SendToGroup(group, event string, payload any) {
	that.SendToGroupExcept(group, "", event, payload)
}

func (that *fakeHub) SendToGroupExcept(group, senderID, event string, payload any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, member := range that.groups[group] {
		if id == senderID {
			continue
		}
		_ = member.Emit(event, payload)
	}
}

type fakeConn struct {
	id  string
	hub *fakeHub

	mu   sync.Mutex
	sent []sentEvent
}

func (that *fakeConn) ID() string { return that.id }

func (that *fakeConn) Emit(event string, payload any) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sent = append(that.sent, sentEvent{Event: event, Payload: payload})

	return nil
}

func (that *fakeConn) JoinGroup(group string) {
	that.hub.mu.Lock()
	defer that.hub.mu.Unlock()

	if that.hub.groups[group] == nil {
		that.hub.groups[group] = make(map[string]*fakeConn)
	}
	that.hub.groups[group][that.id] = that
}

func (that *fakeConn) LeaveGroup(group string) {
	that.hub.mu.Lock()
	defer that.hub.mu.Unlock()

	delete(that.hub.groups[group], that.id)
	if len(that.hub.groups[group]) == 0 {
		delete(that.hub.groups, group)
	}
}

func (that *fakeConn) events() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	names := make([]string, 0, len(that.sent))
	for _, s := range that.sent {
		names = append(names, s.Event)
	}

	return names
}

// last - returns the payload of the latest event with the given name.
func (that *fakeConn) last(event string) (any, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i := len(that.sent) - 1; i >= 0; i-- {
		if that.sent[i].Event == event {
			return that.sent[i].Payload, true
		}
	}

	return nil, false
}

func (that *fakeConn) reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sent = nil
}

type fixture struct {
	coordinator *RoomCoordinator
	hub         *fakeHub
	registry    *registry.ConnectionRegistry
	rooms       *repository.RoomStore
	metrics     *metrics.Metrics
}

func sequence(ids ...string) func() (string, error) {
	var i int
	return func() (string, error) {
		id := ids[i%len(ids)]
		i++
		return id, nil
	}
}

func newFixture(t *testing.T, mirror roomMirror, ids ...string) *fixture {
	t.Helper()

	if len(ids) == 0 {
		ids = []string{"ROOM0001", "ROOM0002", "ROOM0003"}
	}

	f := &fixture{
		hub:      newFakeHub(),
		registry: registry.New(),
		rooms:    repository.NewRoomStore(),
		metrics:  metrics.New(),
	}
	f.coordinator = NewRoomCoordinator(
		suite.NewLogger(t), f.metrics, f.registry, f.rooms, mirror, f.hub, sequence(ids...), 3,
	)

	return f
}

// seatedRoom - owner creates ROOM0001 and guest joins it.
func (that *fixture) seatedRoom(t *testing.T, ctx context.Context) (*fakeConn, *fakeConn) {
	t.Helper()

	owner, guest := that.hub.conn("conn-x"), that.hub.conn("conn-o")
	require.NoError(t, that.coordinator.CreateRoom(ctx, owner))
	require.NoError(t, that.coordinator.JoinRoom(ctx, guest, "ROOM0001"))

	owner.reset()
	guest.reset()

	return owner, guest
}

func (that *fixture) play(t *testing.T, ctx context.Context, owner, guest *fakeConn, cells ...int) {
	t.Helper()

	for i, cell := range cells {
		mover := owner
		if i%2 == 1 {
			mover = guest
		}
		require.NoError(t, that.coordinator.ApplyMove(ctx, mover, cell))
	}
}

func TestRoomCoordinator_CreateRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a room and binds the creator", func(t *testing.T) {
		// Given: a coordinator with no rooms
		f := newFixture(t, repository.NopRoomRepository{})
		owner := f.hub.conn("conn-x")

		// When: the connection creates a room
		err := f.coordinator.CreateRoom(ctx, owner)

		// Then: it receives the room id and owns X
		require.NoError(t, err)

		payload, ok := owner.last(entity.EventCreate)
		require.True(t, ok)
		assert.Equal(t, "ROOM0001", payload)

		roomID, ok := f.registry.Lookup("conn-x")
		require.True(t, ok)
		assert.Equal(t, "ROOM0001", roomID)

		room, ok := f.rooms.Get("ROOM0001")
		require.True(t, ok)
		assert.Equal(t, entity.PlayerX, room.Players["conn-x"])
		assert.Equal(t, entity.PlayerO, room.PendingSymbol)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.RoomsActive), 0)
	})

	t.Run("Fails when no free id is found", func(t *testing.T) {
		// Given: ROOM0001 is taken and the generator only yields ROOM0001
		f := newFixture(t, repository.NopRoomRepository{}, "ROOM0001")
		require.NoError(t, f.coordinator.CreateRoom(ctx, f.hub.conn("conn-1")))

		// When: another connection creates a room
		other := f.hub.conn("conn-2")
		err := f.coordinator.CreateRoom(ctx, other)

		// Then: ErrRoomIDExhausted is returned and nothing is bound
		require.ErrorIs(t, err, apperror.ErrRoomIDExhausted)
		assert.Empty(t, other.events())

		_, ok := f.registry.Lookup("conn-2")
		assert.False(t, ok)
	})

	t.Run("Failed create keeps the current seat", func(t *testing.T) {
		// Given: a seated pair and a generator that only yields the taken id
		f := newFixture(t, repository.NopRoomRepository{}, "ROOM0001")
		owner, guest := f.seatedRoom(t, ctx)

		// When: the guest creates a room
		err := f.coordinator.CreateRoom(ctx, guest)

		// Then: ErrRoomIDExhausted and the guest is still seated
		require.ErrorIs(t, err, apperror.ErrRoomIDExhausted)
		assert.Empty(t, owner.events())
		assert.Empty(t, guest.events())

		roomID, ok := f.registry.Lookup("conn-o")
		require.True(t, ok)
		assert.Equal(t, "ROOM0001", roomID)

		room, ok := f.rooms.Get("ROOM0001")
		require.True(t, ok)
		assert.Equal(t, entity.PlayerO, room.Players["conn-o"])
		assert.Contains(t, f.hub.groups["ROOM0001"], "conn-o")
	})

	t.Run("Leaves the current room once the new one exists", func(t *testing.T) {
		// Given: two seated players
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)

		// When: the guest creates a new room
		require.NoError(t, f.coordinator.CreateRoom(ctx, guest))

		// Then: the owner is told and the guest is bound to the new room only
		assert.Equal(t, []string{entity.EventPlayerDisconnected}, owner.events())

		roomID, _ := f.registry.Lookup("conn-o")
		assert.Equal(t, "ROOM0002", roomID)

		room, ok := f.rooms.Get("ROOM0001")
		require.True(t, ok)
		assert.False(t, room.HasPlayer("conn-o"))
	})
}

func TestRoomCoordinator_JoinRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("Seats the joiner with O", func(t *testing.T) {
		// Given: an open room
		f := newFixture(t, repository.NopRoomRepository{})
		owner := f.hub.conn("conn-x")
		require.NoError(t, f.coordinator.CreateRoom(ctx, owner))
		owner.reset()

		// When: a second connection joins
		guest := f.hub.conn("conn-o")
		err := f.coordinator.JoinRoom(ctx, guest, "ROOM0001")

		// Then: the joiner gets the snapshot and everyone hears about it
		require.NoError(t, err)

		payload, ok := guest.last(entity.EventJoin)
		require.True(t, ok)

		reply, ok := payload.(entity.JoinReply)
		require.True(t, ok)
		assert.Equal(t, "conn-o", reply.ConnectionID)
		assert.Equal(t, "ROOM0001", reply.ID)
		assert.Equal(t, entity.PlayerO, reply.Players["conn-o"])
		assert.Equal(t, entity.EmptyCell, reply.PendingSymbol)

		assert.Equal(t, []string{entity.EventJoin, entity.EventPlayerConnected}, guest.events())
		assert.Equal(t, []string{entity.EventPlayerConnected}, owner.events())

		roomID, _ := f.registry.Lookup("conn-o")
		assert.Equal(t, "ROOM0001", roomID)
	})

	t.Run("Unknown room", func(t *testing.T) {
		f := newFixture(t, repository.NopRoomRepository{})
		guest := f.hub.conn("conn-o")

		err := f.coordinator.JoinRoom(ctx, guest, "MISSING1")

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
		assert.Empty(t, guest.events())
	})

	t.Run("Third connection is rejected", func(t *testing.T) {
		// Given: a full room
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)

		// When: a third connection joins
		third := f.hub.conn("conn-3")
		err := f.coordinator.JoinRoom(ctx, third, "ROOM0001")

		// Then: ErrRoomFull and nobody else is notified
		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Empty(t, owner.events())
		assert.Empty(t, guest.events())

		_, ok := f.registry.Lookup("conn-3")
		assert.False(t, ok)
	})

	t.Run("Failed join keeps the current seat", func(t *testing.T) {
		// Given: a seated pair in ROOM0001 and a full ROOM0002
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)

		other, otherGuest := f.hub.conn("conn-a"), f.hub.conn("conn-b")
		require.NoError(t, f.coordinator.CreateRoom(ctx, other))
		require.NoError(t, f.coordinator.JoinRoom(ctx, otherGuest, "ROOM0002"))
		other.reset()
		otherGuest.reset()

		tests := []struct {
			name   string
			roomID string
			err    error
		}{
			{name: "Unknown room", roomID: "MISSING1", err: apperror.ErrRoomNotFound},
			{name: "Full room", roomID: "ROOM0002", err: apperror.ErrRoomFull},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// When: the guest tries to switch rooms
				err := f.coordinator.JoinRoom(ctx, guest, tt.roomID)

				// Then: the error is returned and nothing moved
				require.ErrorIs(t, err, tt.err)

				roomID, ok := f.registry.Lookup("conn-o")
				require.True(t, ok)
				assert.Equal(t, "ROOM0001", roomID)

				room, ok := f.rooms.Get("ROOM0001")
				require.True(t, ok)
				assert.Equal(t, map[string]entity.Mark{"conn-x": entity.PlayerX, "conn-o": entity.PlayerO}, room.Players)
				assert.Contains(t, f.hub.groups["ROOM0001"], "conn-o")
				assert.NotContains(t, f.hub.groups["ROOM0002"], "conn-o")

				assert.Empty(t, owner.events())
				assert.Empty(t, guest.events())
				assert.Empty(t, other.events())
				assert.Empty(t, otherGuest.events())
			})
		}
	})

	t.Run("Lone owner joining a full room keeps its own room", func(t *testing.T) {
		// Given: a full ROOM0001 and a lone owner in ROOM0002
		f := newFixture(t, repository.NopRoomRepository{})
		f.seatedRoom(t, ctx)

		lone := f.hub.conn("conn-lone")
		require.NoError(t, f.coordinator.CreateRoom(ctx, lone))
		lone.reset()

		// When: the lone owner joins the full room
		err := f.coordinator.JoinRoom(ctx, lone, "ROOM0001")

		// Then: its own room survives and it stays bound to it
		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Empty(t, lone.events())

		room, ok := f.rooms.Get("ROOM0002")
		require.True(t, ok)
		assert.Equal(t, entity.PlayerX, room.Players["conn-lone"])

		roomID, _ := f.registry.Lookup("conn-lone")
		assert.Equal(t, "ROOM0002", roomID)
		assert.InDelta(t, 2, testutil.ToFloat64(f.metrics.RoomsActive), 0)
	})

	t.Run("Switching rooms leaves the old one", func(t *testing.T) {
		// Given: a seated pair and an open ROOM0002
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)

		host := f.hub.conn("conn-host")
		require.NoError(t, f.coordinator.CreateRoom(ctx, host))
		host.reset()

		// When: the guest joins ROOM0002
		require.NoError(t, f.coordinator.JoinRoom(ctx, guest, "ROOM0002"))

		// Then: the guest is bound to ROOM0002 only and the owner is told
		roomID, ok := f.registry.Lookup("conn-o")
		require.True(t, ok)
		assert.Equal(t, "ROOM0002", roomID)

		assert.Equal(t, []string{entity.EventPlayerDisconnected}, owner.events())
		assert.Equal(t, []string{entity.EventPlayerConnected}, host.events())
		assert.Equal(t, []string{entity.EventJoin, entity.EventPlayerConnected}, guest.events())

		room, _ := f.rooms.Get("ROOM0001")
		assert.False(t, room.HasPlayer("conn-o"))
		assert.NotContains(t, f.hub.groups["ROOM0001"], "conn-o")
		assert.Contains(t, f.hub.groups["ROOM0002"], "conn-o")
	})

	t.Run("Repeated join resends the snapshot", func(t *testing.T) {
		// Given: two seated players
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)

		// When: the guest joins the same room again
		err := f.coordinator.JoinRoom(ctx, guest, "ROOM0001")

		// Then: only the guest gets a reply and the seat is unchanged
		require.NoError(t, err)
		assert.Equal(t, []string{entity.EventJoin}, guest.events())
		assert.Empty(t, owner.events())

		room, _ := f.rooms.Get("ROOM0001")
		assert.Equal(t, entity.PlayerO, room.Players["conn-o"])
	})

	t.Run("Joiner after a leaver gets no symbol", func(t *testing.T) {
		// Given: the O player left a seated room
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)
		f.coordinator.HandleDisconnect(ctx, guest)

		// When: a new connection joins
		late := f.hub.conn("conn-late")
		require.NoError(t, f.coordinator.JoinRoom(ctx, late, "ROOM0001"))

		// Then: it is seated without a symbol and can never move
		room, _ := f.rooms.Get("ROOM0001")
		mark, ok := room.Players["conn-late"]
		require.True(t, ok)
		assert.Equal(t, entity.EmptyCell, mark)

		require.NoError(t, f.coordinator.ApplyMove(ctx, owner, 0))
		require.ErrorIs(t, f.coordinator.ApplyMove(ctx, late, 1), apperror.ErrNotYourTurn)
	})
}

func TestRoomCoordinator_ApplyMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Broadcasts the board and flips the turn", func(t *testing.T) {
		// Given: two seated players
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)

		// When: X plays the centre
		err := f.coordinator.ApplyMove(ctx, owner, 4)

		// Then: both see the board and it is O's turn
		require.NoError(t, err)

		for _, conn := range []*fakeConn{owner, guest} {
			payload, ok := conn.last(entity.EventPlay)
			require.True(t, ok)

			board, ok := payload.(entity.Board)
			require.True(t, ok)
			assert.Equal(t, entity.PlayerX, board[4])
		}

		room, _ := f.rooms.Get("ROOM0001")
		assert.Equal(t, entity.PlayerO, room.CurrentPlayer)
	})

	t.Run("Not in a room", func(t *testing.T) {
		f := newFixture(t, repository.NopRoomRepository{})

		err := f.coordinator.ApplyMove(ctx, f.hub.conn("conn-x"), 0)

		require.ErrorIs(t, err, apperror.ErrNotInRoom)
	})

	t.Run("Bound to a room that is gone", func(t *testing.T) {
		// Given: a stale binding
		f := newFixture(t, repository.NopRoomRepository{})
		f.registry.Bind("conn-x", "MISSING1")

		// When: the connection moves
		err := f.coordinator.ApplyMove(ctx, f.hub.conn("conn-x"), 0)

		// Then: the room is reported as invalid
		require.ErrorIs(t, err, apperror.ErrInvalidRoom)
	})

	t.Run("Room waiting for the second player wins over a bad cell", func(t *testing.T) {
		// Given: the owner is alone
		f := newFixture(t, repository.NopRoomRepository{})
		owner := f.hub.conn("conn-x")
		require.NoError(t, f.coordinator.CreateRoom(ctx, owner))

		// When: the owner plays an out of range cell
		err := f.coordinator.ApplyMove(ctx, owner, 42)

		// Then: readiness is reported first
		require.ErrorIs(t, err, apperror.ErrRoomNotReady)
	})

	t.Run("Rejected moves", func(t *testing.T) {
		tests := []struct {
			name    string
			byGuest bool
			cell    int
			wantErr error
		}{
			{name: "Cell below range", cell: -1, wantErr: apperror.ErrInvalidCell},
			{name: "Cell above range", cell: 9, wantErr: apperror.ErrInvalidCell},
			{name: "Occupied cell", byGuest: true, cell: 0, wantErr: apperror.ErrCellOccupied},
			{name: "Occupied cell is checked before turn", cell: 0, wantErr: apperror.ErrCellOccupied},
			{name: "Out of turn", cell: 1, wantErr: apperror.ErrNotYourTurn},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// Given: X already played cell 0
				f := newFixture(t, repository.NopRoomRepository{})
				owner, guest := f.seatedRoom(t, ctx)
				require.NoError(t, f.coordinator.ApplyMove(ctx, owner, 0))
				owner.reset()
				guest.reset()

				// When: a bad move is made
				mover := owner
				if tt.byGuest {
					mover = guest
				}
				err := f.coordinator.ApplyMove(ctx, mover, tt.cell)

				// Then: it is rejected and nothing is broadcast
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, owner.events())
				assert.Empty(t, guest.events())

				room, _ := f.rooms.Get("ROOM0001")
				assert.Equal(t, entity.PlayerO, room.CurrentPlayer)
			})
		}
	})

	t.Run("Winning move announces the line and resets the board", func(t *testing.T) {
		// Given: X holds 0 and 1, O holds 3 and 4
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)
		f.play(t, ctx, owner, guest, 0, 3, 1, 4)
		guest.reset()

		// When: X completes the top row
		require.NoError(t, f.coordinator.ApplyMove(ctx, owner, 2))

		// Then: winner comes before the cleared board
		assert.Equal(t, []string{entity.EventWinner, entity.EventPlay}, guest.events())

		payload, _ := guest.last(entity.EventWinner)
		assert.Equal(t, entity.Winner{Message: "Player X wins!", Pattern: [3]int{0, 1, 2}}, payload)

		payload, _ = guest.last(entity.EventPlay)
		assert.Equal(t, entity.Board{}, payload)

		room, _ := f.rooms.Get("ROOM0001")
		assert.Equal(t, entity.PlayerX, room.CurrentPlayer)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.GamesFinished.WithLabelValues("win")), 0)
	})

	t.Run("Full board without a line keeps the final position", func(t *testing.T) {
		// Given: eight cells played with no line
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)
		f.play(t, ctx, owner, guest, 0, 1, 2, 4, 3, 5, 7, 6)
		guest.reset()

		// When: X fills the last cell
		require.NoError(t, f.coordinator.ApplyMove(ctx, owner, 8))

		// Then: only the full board is broadcast and the turn passes to O
		assert.Equal(t, []string{entity.EventPlay}, guest.events())

		x, o := entity.PlayerX, entity.PlayerO
		payload, _ := guest.last(entity.EventPlay)
		assert.Equal(t, entity.Board{x, o, x, x, o, o, o, x, x}, payload)

		room, _ := f.rooms.Get("ROOM0001")
		assert.Equal(t, entity.PlayerO, room.CurrentPlayer)
		assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.GamesFinished.WithLabelValues("draw")), 0)

		// And: the board stays full until someone wins a later game
		require.ErrorIs(t, f.coordinator.ApplyMove(ctx, guest, 0), apperror.ErrCellOccupied)
	})
}

func TestRoomCoordinator_Relay(t *testing.T) {
	ctx := context.Background()

	t.Run("Chat reaches the other member only", func(t *testing.T) {
		// Given: two seated players and a second room
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)
		stranger := f.hub.conn("conn-stranger")
		require.NoError(t, f.coordinator.CreateRoom(ctx, stranger))
		stranger.reset()

		// When: the owner sends a message
		err := f.coordinator.SendChatMessage(ctx, owner, "hello")

		// Then: the guest gets it unchanged, nobody else does
		require.NoError(t, err)

		payload, ok := guest.last(entity.EventReceiveMessage)
		require.True(t, ok)
		assert.Equal(t, "hello", payload)

		assert.Empty(t, owner.events())
		assert.Empty(t, stranger.events())
	})

	t.Run("Audio reaches the other member only", func(t *testing.T) {
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)

		err := f.coordinator.RelayAudio(ctx, guest, entity.AudioChunk{0x01, 0x02})

		require.NoError(t, err)
		assert.Equal(t, []string{entity.EventReceiveAudio}, owner.events())
		assert.Empty(t, guest.events())
	})

	t.Run("Unbound sender", func(t *testing.T) {
		f := newFixture(t, repository.NopRoomRepository{})
		conn := f.hub.conn("conn-x")

		require.ErrorIs(t, f.coordinator.SendChatMessage(ctx, conn, "hi"), apperror.ErrNotInRoom)
		require.ErrorIs(t, f.coordinator.RelayAudio(ctx, conn, entity.AudioChunk{0x01}), apperror.ErrNotInRoom)
	})
}

func TestRoomCoordinator_HandleDisconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("Remaining member is told", func(t *testing.T) {
		// Given: two seated players
		f := newFixture(t, repository.NopRoomRepository{})
		owner, guest := f.seatedRoom(t, ctx)

		// When: the guest disconnects
		f.coordinator.HandleDisconnect(ctx, guest)

		// Then: only the owner hears about it and the room survives
		assert.Equal(t, []string{entity.EventPlayerDisconnected}, owner.events())
		assert.Empty(t, guest.events())

		_, ok := f.registry.Lookup("conn-o")
		assert.False(t, ok)

		room, ok := f.rooms.Get("ROOM0001")
		require.True(t, ok)
		assert.Len(t, room.Players, 1)
		assert.Equal(t, entity.EmptyCell, room.PendingSymbol)
	})

	t.Run("Last member leaving deletes the room", func(t *testing.T) {
		// Given: the owner is alone
		f := newFixture(t, repository.NopRoomRepository{})
		owner := f.hub.conn("conn-x")
		require.NoError(t, f.coordinator.CreateRoom(ctx, owner))

		// When: the owner disconnects
		f.coordinator.HandleDisconnect(ctx, owner)

		// Then: the room is gone and joining it fails
		assert.False(t, f.rooms.Exists("ROOM0001"))
		assert.InDelta(t, 0, testutil.ToFloat64(f.metrics.RoomsActive), 0)
		require.ErrorIs(t, f.coordinator.JoinRoom(ctx, f.hub.conn("conn-o"), "ROOM0001"), apperror.ErrRoomNotFound)
	})

	t.Run("Unbound connection is a no-op", func(t *testing.T) {
		f := newFixture(t, repository.NopRoomRepository{})

		assert.NotPanics(t, func() {
			f.coordinator.HandleDisconnect(ctx, f.hub.conn("conn-x"))
		})
	})
}

func TestRoomCoordinator_Mirror(t *testing.T) {
	ctx := context.Background()

	t.Run("Room lifecycle is written through", func(t *testing.T) {
		// Given: a mirror expecting the room twice and a delete
		mirror := mockedUseCase.NewMockroomMirror(t)
		f := newFixture(t, mirror)

		mirror.EXPECT().
			CreateOrUpdate(mock.Anything, mock.MatchedBy(func(room *entity.Room) bool { return room.ID == "ROOM0001" })).
			Return(nil).
			Times(3)
		mirror.EXPECT().
			DeleteByID(mock.Anything, "ROOM0001").
			Return(nil).
			Once()

		owner, guest := f.hub.conn("conn-x"), f.hub.conn("conn-o")

		// When: a room is created, joined and left by everybody
		require.NoError(t, f.coordinator.CreateRoom(ctx, owner))
		require.NoError(t, f.coordinator.JoinRoom(ctx, guest, "ROOM0001"))
		f.coordinator.HandleDisconnect(ctx, guest)
		f.coordinator.HandleDisconnect(ctx, owner)

		// Then: the expectations are asserted on cleanup
	})

	t.Run("Mirror errors do not fail the operation", func(t *testing.T) {
		// Given: a mirror that is down
		mirror := mockedUseCase.NewMockroomMirror(t)
		f := newFixture(t, mirror)

		mirror.EXPECT().
			CreateOrUpdate(mock.Anything, mock.Anything).
			Return(errRedisDown)

		// When: a room is created
		owner := f.hub.conn("conn-x")
		err := f.coordinator.CreateRoom(ctx, owner)

		// Then: the owner still gets the room
		require.NoError(t, err)
		assert.Equal(t, []string{entity.EventCreate}, owner.events())
	})
}
