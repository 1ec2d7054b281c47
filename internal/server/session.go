// internal/server/session.go
package server

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mlenda000/dfg-server/internal/cache"
	"github.com/mlenda000/dfg-server/internal/game"
	"github.com/mlenda000/dfg-server/internal/protocol"
)

// Session owns every piece of mutable game state served by this process
// instance: the room registry, the global player roster, and the live
// connections. The hosting setup gives each party its own process, so all
// state here belongs to one sequential event stream; inside Go that
// guarantee is provided by the single mutex below, which every connect,
// message, and disconnect event crosses. The stores themselves are
// lock-free by design.
type Session struct {
	mu        sync.Mutex
	logger    *logrus.Logger
	rooms     *game.RoomStore
	players   *game.PlayerStore
	conns     map[string]*Conn
	rng       *rand.Rand
	historian *cache.Historian
}

// NewSession builds an empty session. historian may be nil, in which case
// score history publishing is disabled.
func NewSession(logger *logrus.Logger, historian *cache.Historian) *Session {
	return &Session{
		logger:    logger,
		rooms:     game.NewRoomStore(),
		players:   game.NewPlayerStore(),
		conns:     make(map[string]*Conn),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		historian: historian,
	}
}

// Connect admits a new connection. Game connections are rejected with
// game.ErrRoomFull once the player cap is reached; the caller announces the
// rejection and closes the socket. Admitted connections get a welcome
// notice and the rest of the party is told someone arrived.
func (s *Session) Connect(conn *Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !conn.Lobby && s.players.Count() >= game.MaxRoomSize {
		s.logger.Infof("conn %s rejected: party already has %d players", conn.ID, game.MaxRoomSize)
		return game.ErrRoomFull
	}

	s.conns[conn.ID] = conn
	if !conn.Lobby {
		conn.Write(protocol.NewAnnouncement(fmt.Sprintf(protocol.WelcomeFormat, conn.ID)))
	}
	s.broadcast(protocol.NewAnnouncement(fmt.Sprintf(protocol.JoinedFormat, conn.ID)), conn.ID)
	return nil
}

// Disconnect tears a connection down: the player is removed from its room
// and the global roster, the departure is announced, and the room is
// deleted if it emptied.
func (s *Session) Disconnect(conn *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conns[conn.ID]; !ok {
		return
	}
	delete(s.conns, conn.ID)

	if !conn.Lobby {
		s.broadcast(protocol.NewAnnouncement(fmt.Sprintf(protocol.LeftFormat, conn.ID)))
		s.removePlayer(conn.ID, "")
	}
}

// HandleMessage processes one inbound frame. Malformed or unknown messages
// are logged and dropped; no inbound frame can crash the process or leak an
// error to another client.
func (s *Session) HandleMessage(conn *Conn, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		s.logger.Warnf("conn %s: dropping message: %v", conn.ID, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch m := msg.(type) {
	case protocol.EnteredLobby:
		s.handleEnteredLobby(m)
	case protocol.PlayerEnters:
		s.handlePlayerEnters(conn, m)
	case protocol.PlayerLeft:
		s.removePlayer(conn.ID, m.Room)
	case protocol.Influencer:
		s.handleInfluencer(conn, m)
	case protocol.PlayerReady:
		s.handlePlayerReady(conn, m)
	case protocol.AllReady:
		s.handleAllReady(conn)
	case protocol.StartingDeck:
		s.handleStartingDeck(m)
	case protocol.EndOfRound:
		s.handleEndOfRound(conn, m)
	}
}

// handleEnteredLobby aggregates the named room's occupancy from the global
// roster and broadcasts it, so lobby screens can show live counts.
func (s *Session) handleEnteredLobby(m protocol.EnteredLobby) {
	agg := &game.Room{Name: m.Room}
	for _, p := range s.players.List() {
		if p.Room == m.Room {
			agg.Players = append(agg.Players, p)
		}
	}
	agg.Count = len(agg.Players)
	s.broadcast(protocol.NewLobbyUpdate(agg))
}

// handlePlayerEnters creates the player under the connection's id, joins
// (or lazily creates) the room, hands the client its id and any
// already-fixed deck, and broadcasts the new membership. A connection holds
// at most one player in one room; repeated playerEnters frames are dropped
// so a player can never be double-counted or sit in two rooms.
func (s *Session) handlePlayerEnters(conn *Conn, m protocol.PlayerEnters) {
	if _, exists := s.players.Get(conn.ID); exists {
		s.logger.Warnf("playerEnters from %s ignored: connection already holds a player", conn.ID)
		return
	}

	player := &game.Player{
		ID:     conn.ID,
		Name:   m.Player.Name,
		Room:   m.Room,
		Avatar: m.Player.Avatar,
	}

	room, err := s.rooms.Join(m.Room, player)
	if err != nil {
		s.logger.Infof("room %s: join rejected for %s: %v", m.Room, conn.ID, err)
		conn.Write(protocol.NewAnnouncement(protocol.RoomFullText))
		conn.Write(closeRequest{code: RoomFullCode, reason: "room is full"})
		return
	}
	s.players.Add(player)

	conn.Write(protocol.NewAssignedID(conn.ID))
	if room.Deck != nil && room.Deck.Shuffled() {
		conn.Write(protocol.NewShuffledDeck(room.Name, room.Deck.Cards))
	}
	s.broadcast(protocol.NewRoomUpdate(room))
}

// handleInfluencer records the round's answer key on the sender's room and
// reveals only the villain identity to the party.
func (s *Session) handleInfluencer(conn *Conn, m protocol.Influencer) {
	room, ok := s.rooms.FindByPlayer(conn.ID)
	if !ok {
		s.logger.Warnf("influencer from %s ignored: sender is in no room", conn.ID)
		return
	}
	room.Influencer = game.InfluencerCard{Villain: m.Villain, Tactics: m.Tactic}
	s.broadcast(protocol.NewVillainUpdate(m.Villain))
}

// handlePlayerReady marks the sender ready, merges any ready states the
// client asserts for other players, and broadcasts the roster.
func (s *Session) handlePlayerReady(conn *Conn, m protocol.PlayerReady) {
	room, ok := s.rooms.FindByPlayer(conn.ID)
	if !ok {
		s.logger.Warnf("playerReady from %s ignored: sender is in no room", conn.ID)
		return
	}
	if p, ok := s.players.Get(conn.ID); ok {
		p.Ready = true
	}
	for _, state := range m.Players {
		if p, ok := s.players.Get(state.ID); ok {
			p.Ready = state.Ready
		}
	}
	s.broadcast(protocol.NewReadyRoster(room.Players))
}

// handleAllReady reports whether every member of the sender's room is ready.
func (s *Session) handleAllReady(conn *Conn) {
	room, ok := s.rooms.FindByPlayer(conn.ID)
	if !ok {
		s.logger.Warnf("allReady from %s ignored: sender is in no room", conn.ID)
		return
	}
	all := len(room.Players) > 0
	for _, p := range room.Players {
		if !p.Ready {
			all = false
			break
		}
	}
	s.broadcast(protocol.NewAllReadyNotice(all))
}

// handleStartingDeck attaches the source deck to the room on first receipt
// and shuffles it exactly once; later startingDeck messages rebroadcast the
// same fixed order.
func (s *Session) handleStartingDeck(m protocol.StartingDeck) {
	room, ok := s.rooms.Get(m.Room)
	if !ok {
		s.logger.Warnf("startingDeck for unknown room %q ignored", m.Room)
		return
	}
	if room.Deck == nil {
		room.Deck = game.NewDeck(m.Data)
	}
	room.Deck.Shuffle(s.rng)
	s.broadcast(protocol.NewShuffledDeck(room.Name, room.Deck.Cards))
}

// handleEndOfRound runs the scoring pass. The scoreUpdate broadcast is
// withheld until every registered player has been scored; until then the
// round stays pending and later submission batches fill in the gaps. Once
// complete, the result is broadcast, queued for the score historian, and
// the room rolls over to the next round.
func (s *Session) handleEndOfRound(conn *Conn, m protocol.EndOfRound) {
	room, ok := s.rooms.FindByPlayer(conn.ID)
	if !ok {
		s.logger.Warnf("endOfRound from %s ignored: sender is in no room", conn.ID)
		return
	}

	updated := game.ScoreRound(room.Players, m.Players, room.Influencer,
		game.CorrectTacticValue, game.WrongTacticValue, room.Round)
	room.Players = updated
	s.players.Replace(updated)

	if !game.AllScored(updated) {
		s.logger.Infof("room %s: round %d still pending, holding scoreUpdate", room.Name, room.Round)
		return
	}

	// Broadcast a copy: the live snapshots are reset for the next round
	// right away, while write pumps marshal asynchronously.
	final := make([]*game.Player, len(updated))
	for i, p := range updated {
		cp := *p
		final[i] = &cp
	}
	s.broadcast(protocol.NewScoreUpdate(room.Round, final))

	if err := s.historian.PublishScoreUpdate(context.Background(), cache.ScoreRecord{
		Room:      room.Name,
		Round:     room.Round,
		Players:   final,
		Timestamp: time.Now().Unix(),
	}); err != nil {
		s.logger.Warnf("room %s: score history publish failed: %v", room.Name, err)
	}

	game.ResetRound(room.Players)
	// The answer key is per round: the next round scores nothing until a
	// fresh influencer message arrives.
	room.Influencer = game.InfluencerCard{}
	room.Round++
}

// removePlayer takes a player out of both registries and announces the new
// membership. roomName may be empty (disconnect events carry none); the
// room is then located through the registry.
func (s *Session) removePlayer(playerID, roomName string) {
	if roomName == "" {
		if room, ok := s.rooms.FindByPlayer(playerID); ok {
			roomName = room.Name
		}
	}
	s.players.Remove(playerID)
	s.broadcast(protocol.NewPlayerLeftNotice(playerID))

	room, existed := s.rooms.Leave(roomName, playerID)
	if !existed {
		s.logger.Infof("player %s left with no active room", playerID)
		return
	}
	s.broadcast(protocol.NewRoomUpdate(room))
}

// broadcast queues msg on every live connection except the listed ids.
// Delivery is the write pumps' problem; a slow client drops messages rather
// than stalling the event stream.
func (s *Session) broadcast(msg interface{}, except ...string) {
	for id, conn := range s.conns {
		skip := false
		for _, ex := range except {
			if id == ex {
				skip = true
				break
			}
		}
		if !skip {
			conn.Write(msg)
		}
	}
}
