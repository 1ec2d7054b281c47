// internal/game/player.go
package game

// Player is one connected participant. The id is assigned by the connection
// layer and lives exactly as long as the connection does; everything below
// Score/Streak is per-round transient state cleared by ResetRound.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Room      string `json:"room"`
	Avatar    string `json:"avatar"`
	Score     int    `json:"score"`
	Streak    int    `json:"streak"`
	HasStreak bool   `json:"hasStreak"`
	Ready     bool   `json:"ready"`

	// TacticsUsed holds the tactic tokens the player submitted this round.
	TacticsUsed []string `json:"tacticsUsed,omitempty"`

	// Scored marks that this round's delta has been applied (at most once
	// per round). WasCorrect records whether any submitted tactic matched.
	Scored     bool `json:"-"`
	WasCorrect bool `json:"-"`
}

// PlayerStore is the flat roster of every player connected to this process
// instance. It mirrors per-room membership for global occupancy counts and
// lobby aggregation. The store carries no lock of its own: it is owned by
// the session's serialized event handler.
type PlayerStore struct {
	players []*Player
}

// NewPlayerStore returns an empty roster.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{}
}

// Add appends p to the roster.
func (s *PlayerStore) Add(p *Player) {
	s.players = append(s.players, p)
}

// Remove drops the player with the given id, if present.
func (s *PlayerStore) Remove(id string) {
	for i, p := range s.players {
		if p.ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return
		}
	}
}

// Get returns the player with the given id.
func (s *PlayerStore) Get(id string) (*Player, bool) {
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Count returns the number of connected players.
func (s *PlayerStore) Count() int {
	return len(s.players)
}

// List returns the roster slice. Callers must not mutate it outside the
// owning event handler.
func (s *PlayerStore) List() []*Player {
	return s.players
}

// Replace swaps in updated snapshots for any roster entries with matching
// ids, keeping the global roster and room membership pointing at the same
// player state after a scoring pass.
func (s *PlayerStore) Replace(updated []*Player) {
	for _, u := range updated {
		for i, p := range s.players {
			if p.ID == u.ID {
				s.players[i] = u
				break
			}
		}
	}
}
