// internal/game/deck_test.go
package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCards(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card(fmt.Sprintf(`{"card":%d}`, i))
	}
	return cards
}

func cardCounts(cards []Card) map[string]int {
	counts := make(map[string]int, len(cards))
	for _, c := range cards {
		counts[string(c)]++
	}
	return counts
}

// TestShuffleIsPermutation verifies the shuffled output is a reordering of
// the same multiset of cards.
func TestShuffleIsPermutation(t *testing.T) {
	original := testCards(20)
	deck := NewDeck(testCards(20))

	deck.Shuffle(rand.New(rand.NewSource(7)))

	require.Len(t, deck.Cards, len(original))
	assert.Equal(t, cardCounts(original), cardCounts(deck.Cards))
}

// TestShuffleDeterministic confirms identical seeds produce identical play
// orders.
func TestShuffleDeterministic(t *testing.T) {
	a := NewDeck(testCards(30))
	b := NewDeck(testCards(30))

	a.Shuffle(rand.New(rand.NewSource(42)))
	b.Shuffle(rand.New(rand.NewSource(42)))

	assert.Equal(t, a.Cards, b.Cards)
}

// TestShuffleOnlyOnce checks the shuffle-once guard: a second shuffle with
// a fresh random source must not alter the fixed order.
func TestShuffleOnlyOnce(t *testing.T) {
	deck := NewDeck(testCards(15))
	deck.Shuffle(rand.New(rand.NewSource(1)))
	require.True(t, deck.Shuffled())

	fixed := make([]Card, len(deck.Cards))
	copy(fixed, deck.Cards)

	deck.Shuffle(rand.New(rand.NewSource(99)))

	assert.Equal(t, fixed, deck.Cards)
}

func TestShuffleTinyDecks(t *testing.T) {
	empty := NewDeck(nil)
	empty.Shuffle(rand.New(rand.NewSource(3)))
	assert.Empty(t, empty.Cards)
	assert.True(t, empty.Shuffled())

	single := NewDeck(testCards(1))
	single.Shuffle(rand.New(rand.NewSource(3)))
	assert.Equal(t, testCards(1), single.Cards)
}
