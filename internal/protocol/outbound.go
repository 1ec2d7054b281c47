// internal/protocol/outbound.go
package protocol

import (
	"fmt"

	"github.com/mlenda000/dfg-server/internal/game"
)

// Announcement texts kept verbatim from the game client contract.
const (
	RoomFullText  = "Room is full. Only 5 players are allowed."
	WelcomeFormat = "Welcome, %s"
	JoinedFormat  = "Heads up! %s joined the party!"
	LeftFormat    = "So sad! %s left the party!"
)

// Announcement is a free-text notice shown in the client's feed.
type Announcement struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

func NewAnnouncement(text string) Announcement {
	return Announcement{Type: TypeAnnouncement, Text: text}
}

// AssignedID tells a freshly joined connection which player id it was
// given. The id+ prefix is what the client expects.
type AssignedID struct {
	Type MessageType `json:"type"`
	ID   string      `json:"id"`
}

func NewAssignedID(connID string) AssignedID {
	return AssignedID{Type: TypeAssignedID, ID: fmt.Sprintf("id+%s", connID)}
}

// LobbyUpdate carries a room name's aggregated occupancy for lobby views.
type LobbyUpdate struct {
	Type     MessageType `json:"type"`
	Room     string      `json:"room"`
	Count    int         `json:"count"`
	RoomData *game.Room  `json:"roomData"`
}

func NewLobbyUpdate(room *game.Room) LobbyUpdate {
	return LobbyUpdate{Type: TypeLobbyUpdate, Room: room.Name, Count: room.Count, RoomData: room}
}

// RoomUpdate broadcasts a room's membership after a join or leave.
type RoomUpdate struct {
	Type     MessageType `json:"type"`
	Room     string      `json:"room"`
	RoomData *game.Room  `json:"roomData"`
}

func NewRoomUpdate(room *game.Room) RoomUpdate {
	return RoomUpdate{Type: TypeRoomUpdate, Room: room.Name, RoomData: room}
}

// PlayerLeftNotice tells the room which player id departed.
type PlayerLeftNotice struct {
	Type     MessageType `json:"type"`
	PlayerID string      `json:"playerId"`
}

func NewPlayerLeftNotice(playerID string) PlayerLeftNotice {
	return PlayerLeftNotice{Type: TypePlayerLeft, PlayerID: playerID}
}

// VillainUpdate reveals the round's villain identity. The answer key's
// tactics are deliberately absent.
type VillainUpdate struct {
	Type    MessageType `json:"type"`
	Villain string      `json:"villain"`
}

func NewVillainUpdate(villain string) VillainUpdate {
	return VillainUpdate{Type: TypeVillain, Villain: villain}
}

// ReadyRoster broadcasts the room roster with current ready flags.
type ReadyRoster struct {
	Type    MessageType    `json:"type"`
	Players []*game.Player `json:"players"`
}

func NewReadyRoster(players []*game.Player) ReadyRoster {
	return ReadyRoster{Type: TypePlayerReady, Players: players}
}

// AllReadyNotice reports whether every registered player is ready.
type AllReadyNotice struct {
	Type     MessageType `json:"type"`
	AllReady bool        `json:"allReady"`
}

func NewAllReadyNotice(allReady bool) AllReadyNotice {
	return AllReadyNotice{Type: TypeAllReady, AllReady: allReady}
}

// ShuffledDeck distributes a room's fixed play order.
type ShuffledDeck struct {
	Type MessageType `json:"type"`
	Room string      `json:"room"`
	Deck []game.Card `json:"deck"`
}

func NewShuffledDeck(room string, deck []game.Card) ShuffledDeck {
	return ShuffledDeck{Type: TypeShuffledDeck, Room: room, Deck: deck}
}

// ScoreUpdate broadcasts the full player list once every player has been
// scored for the round.
type ScoreUpdate struct {
	Type    MessageType    `json:"type"`
	Round   int            `json:"round"`
	Players []*game.Player `json:"players"`
}

func NewScoreUpdate(round int, players []*game.Player) ScoreUpdate {
	return ScoreUpdate{Type: TypeScoreUpdate, Round: round, Players: players}
}
