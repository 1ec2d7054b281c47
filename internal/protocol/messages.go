// internal/protocol/messages.go
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mlenda000/dfg-server/internal/game"
)

// MessageType discriminates every message on the wire, inbound and
// outbound. Several types are symmetric: the client sends playerReady, the
// server answers with a playerReady roster.
type MessageType string

const (
	// Inbound.
	TypeEnteredLobby MessageType = "enteredLobby"
	TypePlayerEnters MessageType = "playerEnters"
	TypePlayerLeft   MessageType = "playerLeft"
	TypeInfluencer   MessageType = "influencer"
	TypePlayerReady  MessageType = "playerReady"
	TypeAllReady     MessageType = "allReady"
	TypeStartingDeck MessageType = "startingDeck"
	TypeEndOfRound   MessageType = "endOfRound"

	// Outbound only.
	TypeAnnouncement MessageType = "announcement"
	TypeLobbyUpdate  MessageType = "lobbyUpdate"
	TypeRoomUpdate   MessageType = "roomUpdate"
	TypeVillain      MessageType = "villain"
	TypeShuffledDeck MessageType = "shuffledDeck"
	TypeScoreUpdate  MessageType = "scoreUpdate"
	TypeAssignedID   MessageType = "id"
)

// ErrUnknownType is returned by Decode for type tags outside the closed
// inbound set. The dispatcher logs and drops such messages.
var ErrUnknownType = errors.New("unknown message type")

// Inbound is the closed set of client messages. Exactly the structs below
// implement it; Decode never returns anything else.
type Inbound interface {
	inbound()
}

// EnteredLobby asks for the aggregated occupancy of a room name.
type EnteredLobby struct {
	Room string `json:"room"`
}

// PlayerInfo is the client-supplied identity inside a playerEnters message.
// The authoritative player id is assigned server-side from the connection.
type PlayerInfo struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// PlayerEnters joins the sender to a room, creating it if needed.
type PlayerEnters struct {
	Room   string     `json:"room"`
	Player PlayerInfo `json:"player"`
}

// PlayerLeft removes the sender from its room.
type PlayerLeft struct {
	Room string `json:"room"`
}

// Influencer sets this round's answer key. Only the villain identity is
// rebroadcast; the tactic set stays server-side.
type Influencer struct {
	Villain string   `json:"villain"`
	Tactic  []string `json:"tactic"`
}

// ReadyState is a client-asserted ready flag for one player.
type ReadyState struct {
	ID    string `json:"id"`
	Ready bool   `json:"ready"`
}

// PlayerReady marks the sender ready and merges any ready states the client
// asserts for the rest of the roster.
type PlayerReady struct {
	Players []ReadyState `json:"players"`
}

// AllReady asks whether every registered player is ready.
type AllReady struct{}

// StartingDeck supplies the source deck for a room. The deck is shuffled at
// most once regardless of how many times this message arrives.
type StartingDeck struct {
	Room string      `json:"room"`
	Data []game.Card `json:"data"`
}

// EndOfRound delivers the round's batch of tactic submissions.
type EndOfRound struct {
	Players []game.Submission `json:"players"`
}

func (EnteredLobby) inbound() {}
func (PlayerEnters) inbound() {}
func (PlayerLeft) inbound()   {}
func (Influencer) inbound()   {}
func (PlayerReady) inbound()  {}
func (AllReady) inbound()     {}
func (StartingDeck) inbound() {}
func (EndOfRound) inbound()   {}

// Decode parses a raw client message into its typed variant, validating the
// shape required by each type. Any failure is a reason to drop the message,
// never to close the connection or crash.
func Decode(data []byte) (Inbound, error) {
	var env struct {
		Type MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	switch env.Type {
	case TypeEnteredLobby:
		var m EnteredLobby
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("enteredLobby: %w", err)
		}
		if m.Room == "" {
			return nil, errors.New("enteredLobby: missing room")
		}
		return m, nil
	case TypePlayerEnters:
		var m PlayerEnters
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("playerEnters: %w", err)
		}
		if m.Room == "" {
			return nil, errors.New("playerEnters: missing room")
		}
		if m.Player.Name == "" {
			return nil, errors.New("playerEnters: missing player name")
		}
		return m, nil
	case TypePlayerLeft:
		var m PlayerLeft
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("playerLeft: %w", err)
		}
		return m, nil
	case TypeInfluencer:
		var m Influencer
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("influencer: %w", err)
		}
		if m.Villain == "" {
			return nil, errors.New("influencer: missing villain")
		}
		return m, nil
	case TypePlayerReady:
		var m PlayerReady
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("playerReady: %w", err)
		}
		return m, nil
	case TypeAllReady:
		return AllReady{}, nil
	case TypeStartingDeck:
		var m StartingDeck
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("startingDeck: %w", err)
		}
		if m.Room == "" {
			return nil, errors.New("startingDeck: missing room")
		}
		if len(m.Data) == 0 {
			return nil, errors.New("startingDeck: empty deck")
		}
		return m, nil
	case TypeEndOfRound:
		var m EndOfRound
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("endOfRound: %w", err)
		}
		if len(m.Players) == 0 {
			return nil, errors.New("endOfRound: no submissions")
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}
