// internal/game/rooms_test.go
package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinCreatesRoomLazily(t *testing.T) {
	s := NewRoomStore()
	_, ok := s.Get("dfg-misinformation")
	require.False(t, ok)

	room, err := s.Join("dfg-misinformation", &Player{ID: "a", Name: "Ana"})
	require.NoError(t, err)

	assert.Equal(t, "dfg-misinformation", room.Name)
	assert.Equal(t, 1, room.Count)
	assert.Equal(t, 1, room.Round)

	again, ok := s.Get("dfg-misinformation")
	require.True(t, ok)
	assert.Same(t, room, again)
}

// TestRoomCapacity: the sixth join is rejected and the first five members
// are unaffected.
func TestRoomCapacity(t *testing.T) {
	s := NewRoomStore()
	for i := 0; i < MaxRoomSize; i++ {
		_, err := s.Join("party", &Player{ID: fmt.Sprintf("p%d", i)})
		require.NoError(t, err)
	}

	_, err := s.Join("party", &Player{ID: "p5"})
	require.ErrorIs(t, err, ErrRoomFull)

	room, ok := s.Get("party")
	require.True(t, ok)
	assert.Equal(t, MaxRoomSize, room.Count)
	for i, p := range room.Players {
		assert.Equal(t, fmt.Sprintf("p%d", i), p.ID)
	}
}

func TestLeaveDeletesEmptyRoom(t *testing.T) {
	s := NewRoomStore()
	_, err := s.Join("party", &Player{ID: "a"})
	require.NoError(t, err)

	room, existed := s.Leave("party", "a")
	require.True(t, existed)
	assert.Equal(t, 0, room.Count)

	_, ok := s.Get("party")
	assert.False(t, ok, "emptied room must be deleted")
}

func TestLeaveKeepsPopulatedRoom(t *testing.T) {
	s := NewRoomStore()
	_, err := s.Join("party", &Player{ID: "a"})
	require.NoError(t, err)
	_, err = s.Join("party", &Player{ID: "b"})
	require.NoError(t, err)

	room, existed := s.Leave("party", "a")
	require.True(t, existed)
	assert.Equal(t, 1, room.Count)
	assert.Equal(t, "b", room.Players[0].ID)

	_, ok := s.Get("party")
	assert.True(t, ok)
}

func TestLeaveUnknownRoom(t *testing.T) {
	s := NewRoomStore()
	room, existed := s.Leave("nowhere", "a")
	assert.Nil(t, room)
	assert.False(t, existed)
}

func TestFindByPlayer(t *testing.T) {
	s := NewRoomStore()
	_, err := s.Join("alpha", &Player{ID: "a"})
	require.NoError(t, err)
	_, err = s.Join("beta", &Player{ID: "b"})
	require.NoError(t, err)

	room, ok := s.FindByPlayer("b")
	require.True(t, ok)
	assert.Equal(t, "beta", room.Name)

	_, ok = s.FindByPlayer("missing")
	assert.False(t, ok)
}

func TestPlayerStore(t *testing.T) {
	s := NewPlayerStore()
	assert.Equal(t, 0, s.Count())

	a := &Player{ID: "a", Room: "party"}
	b := &Player{ID: "b", Room: "party"}
	s.Add(a)
	s.Add(b)
	assert.Equal(t, 2, s.Count())

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	s.Remove("a")
	assert.Equal(t, 1, s.Count())
	_, ok = s.Get("a")
	assert.False(t, ok)

	s.Remove("a") // removing twice is a no-op
	assert.Equal(t, 1, s.Count())
}

// TestPlayerStoreReplace: scoring returns fresh snapshots; Replace keeps the
// global roster pointing at the same state as the room.
func TestPlayerStoreReplace(t *testing.T) {
	s := NewPlayerStore()
	s.Add(&Player{ID: "a", Score: 0})
	s.Add(&Player{ID: "b", Score: 10})

	s.Replace([]*Player{{ID: "a", Score: 100, Scored: true}})

	got, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 100, got.Score)
	assert.True(t, got.Scored)

	other, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, 10, other.Score)
}
