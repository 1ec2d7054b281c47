// internal/game/deck.go
package game

import (
	"encoding/json"
	"math/rand"
)

// Card is one opaque deck entry. Card content is defined by the client
// that supplies the starting deck; the server only orders and distributes it.
type Card = json.RawMessage

// Deck is a room's shared play order. It is shuffled at most once per
// session; after the first shuffle the order is fixed, so repeated deck
// requests always return the same sequence.
type Deck struct {
	Cards    []Card
	shuffled bool
}

// NewDeck wraps cards in an unshuffled deck.
func NewDeck(cards []Card) *Deck {
	return &Deck{Cards: cards}
}

// Shuffle permutes the deck in place with a single Fisher-Yates pass over r:
// for each index i from last to first, swap with a uniformly random index in
// [0, i]. A second call is a no-op so an already-distributed order never
// changes underneath the players.
func (d *Deck) Shuffle(r *rand.Rand) {
	if d.shuffled {
		return
	}
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
	d.shuffled = true
}

// Shuffled reports whether the deck order is already fixed.
func (d *Deck) Shuffled() bool {
	return d.shuffled
}
