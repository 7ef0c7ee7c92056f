package server

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/airhockey/internal/loop/config"
	"github.com/tomz197/airhockey/internal/object"
	"github.com/tomz197/airhockey/internal/physics"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SendCommand(clientID int, cmd MalletCommand)
	GetSnapshot() *WorldSnapshot
}

// Server owns the match and processes commands from all clients.
type Server struct {
	match        *Match
	logger       *log.Logger
	snapshot     atomic.Pointer[WorldSnapshot]
	clients      map[int]*ClientHandle
	seats        map[object.Side]*ClientHandle
	nextClientID int
	commandCh    chan ClientCommand
	mu           sync.RWMutex
}

const maxFrameDelta = time.Duration(config.MaxFrameDeltaSecs * float64(time.Second))

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // Events sent to client (goals, seat changes, shutdown)

	// Guarded by the server's mutex.
	side       object.Side
	command    MalletCommand
	hasCommand bool
}

// ClientCommand is a mallet command from a specific client.
type ClientCommand struct {
	ClientID int
	Command  MalletCommand
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type  ClientEventType
	Side  object.Side // New side for EventSeatChanged, scorer for EventGoal
	Score Score
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventGoal ClientEventType = iota
	EventSeatChanged
	EventServerShutdown
)

// WorldSnapshot is an immutable snapshot of the game for rendering.
type WorldSnapshot struct {
	MatchSnapshot
	HomePlayer string // Empty when the seat is free
	AwayPlayer string
	Spectators int
	Delta      time.Duration
}

// NewServer creates a game server with a fresh match. The physics engine
// logs through logger; opts override its defaults.
func NewServer(logger *log.Logger, opts ...physics.Option) *Server {
	engine := physics.NewEngine(append([]physics.Option{
		physics.WithMaxVelocity(config.MaxPuckVelocity),
		physics.WithEpsilon(config.CollisionEpsilon),
		physics.WithLogger(logger),
	}, opts...)...)

	s := &Server{
		match:        NewMatch(engine, logger),
		logger:       logger,
		clients:      make(map[int]*ClientHandle),
		seats:        make(map[object.Side]*ClientHandle),
		nextClientID: 1,
		commandCh:    make(chan ClientCommand, 256),
	}

	s.createSnapshot(0)
	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		delta := min(frameStart.Sub(lastTime), maxFrameDelta)
		lastTime = frameStart

		s.step(delta)

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// step runs one server tick: collect commands, steer the mallets, advance
// the match and publish a snapshot.
func (s *Server) step(delta time.Duration) {
	s.collectCommands()

	s.mu.Lock()
	dt := delta.Seconds()
	for side, handle := range s.seats {
		if !handle.hasCommand {
			continue
		}
		s.match.ApplyCommand(side, handle.command, dt)
		handle.command.Teleport = false
	}

	if scorer, ok := s.match.Step(dt); ok {
		s.broadcastLocked(ClientEvent{Type: EventGoal, Side: scorer, Score: s.match.Score()})
	}
	s.mu.Unlock()

	s.createSnapshot(delta)
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	s.broadcastLocked(ClientEvent{Type: EventServerShutdown})
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client and seats it at the first free side
// of the table. Clients arriving at a full table spectate.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
		side:     object.SideSpectator,
	}
	s.nextClientID++
	s.clients[handle.ID] = handle

	for _, side := range []object.Side{object.SideHome, object.SideAway} {
		if _, taken := s.seats[side]; !taken {
			s.seatLocked(handle, side)
			break
		}
	}
	s.logger.Info("client joined", "id", handle.ID, "user", username, "side", handle.side)
	return handle
}

// UnregisterClient removes a client from the server. A vacated seat goes to
// the longest-waiting spectator and the match starts over.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	delete(s.clients, clientID)
	close(handle.EventsCh)
	s.logger.Info("client left", "id", clientID, "user", handle.Username)

	side := handle.side
	if side == object.SideSpectator {
		return
	}
	delete(s.seats, side)
	s.match.Reset()

	if next := s.longestWaitingLocked(); next != nil {
		s.seatLocked(next, side)
	}
}

// Side returns the side a client currently plays.
func (s *Server) Side(clientID int) object.Side {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if handle, ok := s.clients[clientID]; ok {
		return handle.side
	}
	return object.SideSpectator
}

// SendCommand sends a mallet command from a client to the server.
func (s *Server) SendCommand(clientID int, cmd MalletCommand) {
	select {
	case s.commandCh <- ClientCommand{ClientID: clientID, Command: cmd}:
	default:
		// Command channel full, drop command
	}
}

// GetSnapshot returns the current world snapshot.
func (s *Server) GetSnapshot() *WorldSnapshot {
	return s.snapshot.Load()
}

// seatLocked gives a side to a client and tells it so.
func (s *Server) seatLocked(handle *ClientHandle, side object.Side) {
	handle.side = side
	handle.command = MalletCommand{}
	handle.hasCommand = false
	s.seats[side] = handle

	select {
	case handle.EventsCh <- ClientEvent{Type: EventSeatChanged, Side: side}:
	default:
	}
}

func (s *Server) longestWaitingLocked() *ClientHandle {
	ids := make([]int, 0, len(s.clients))
	for id, h := range s.clients {
		if h.side == object.SideSpectator {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Ints(ids)
	return s.clients[ids[0]]
}

// broadcastLocked sends an event to every client, dropping it for clients
// whose queue is full. Requires at least a read lock.
func (s *Server) broadcastLocked(ev ClientEvent) {
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// collectCommands keeps the latest command from each seated client. A
// teleport stays pending until the next tick applies it.
func (s *Server) collectCommands() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case cc := <-s.commandCh:
			handle, ok := s.clients[cc.ClientID]
			if !ok || handle.side == object.SideSpectator {
				continue
			}
			teleport := handle.command.Teleport || cc.Command.Teleport
			handle.command = cc.Command
			handle.command.Teleport = teleport
			handle.hasCommand = true
		default:
			return
		}
	}
}

// createSnapshot publishes an immutable snapshot of the match.
func (s *Server) createSnapshot(delta time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &WorldSnapshot{
		MatchSnapshot: s.match.Snapshot(),
		Spectators:    len(s.clients) - len(s.seats),
		Delta:         delta,
	}
	if h, ok := s.seats[object.SideHome]; ok {
		snapshot.HomePlayer = h.Username
	}
	if h, ok := s.seats[object.SideAway]; ok {
		snapshot.AwayPlayer = h.Username
	}

	s.snapshot.Store(snapshot)
}
