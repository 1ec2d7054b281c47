// internal/game/rooms.go
package game

import "errors"

// MaxRoomSize is the hard cap on concurrent players per room. The sixth
// join attempt is rejected and its connection closed.
const MaxRoomSize = 5

// ErrRoomFull is returned when a join would push a room past MaxRoomSize.
var ErrRoomFull = errors.New("room is full")

// InfluencerCard is the hidden answer key for the current round: the villain
// identity (broadcast to clients) and the correct tactic tokens (kept
// server-side until scoring).
type InfluencerCard struct {
	Villain string   `json:"villain"`
	Tactics []string `json:"tactic"`
}

// Room groups up to five players around one shuffled deck. The room name is
// a grouping key, not a global identifier; a room exists only while it has
// members.
type Room struct {
	Name    string    `json:"name"`
	Count   int       `json:"count"`
	Players []*Player `json:"players"`

	// Deck is shared by reference with every member; nil until the first
	// startingDeck message attaches one.
	Deck *Deck `json:"-"`

	// Round starts at 1 and is advanced by the dispatcher once a round's
	// scores have been broadcast.
	Round int `json:"-"`

	// Influencer is this round's answer key, set via the influencer message.
	Influencer InfluencerCard `json:"-"`
}

// RoomStore tracks every active room by name. Rooms are created lazily on
// first join and deleted as soon as the last member leaves; the store is
// owned by the session's serialized event handler and carries no lock.
type RoomStore struct {
	rooms map[string]*Room
}

// NewRoomStore returns an empty registry.
func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*Room)}
}

// Get returns the room with the given name.
func (s *RoomStore) Get(name string) (*Room, bool) {
	r, ok := s.rooms[name]
	return r, ok
}

// Join adds p to the named room, creating the room if absent. The member
// cap is normally enforced at connect time; Join rejects oversized rooms as
// a backstop so the invariant holds regardless of caller.
func (s *RoomStore) Join(name string, p *Player) (*Room, error) {
	room, ok := s.rooms[name]
	if !ok {
		room = &Room{Name: name, Round: 1}
		s.rooms[name] = room
	}
	if len(room.Players) >= MaxRoomSize {
		return nil, ErrRoomFull
	}
	room.Players = append(room.Players, p)
	room.Count = len(room.Players)
	return room, nil
}

// Leave removes the player from the named room and deletes the room if it
// is now empty. It returns the updated room snapshot (already out of the
// registry when emptied) and whether the room existed at all.
func (s *RoomStore) Leave(name, playerID string) (*Room, bool) {
	room, ok := s.rooms[name]
	if !ok {
		return nil, false
	}
	for i, p := range room.Players {
		if p.ID == playerID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}
	room.Count = len(room.Players)
	if room.Count == 0 {
		delete(s.rooms, name)
	}
	return room, true
}

// FindByPlayer locates the room holding the given player id. Used on
// disconnect, when the close event carries no room name.
func (s *RoomStore) FindByPlayer(playerID string) (*Room, bool) {
	for _, room := range s.rooms {
		for _, p := range room.Players {
			if p.ID == playerID {
				return room, true
			}
		}
	}
	return nil, false
}
