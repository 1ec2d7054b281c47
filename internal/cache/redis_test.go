// internal/cache/redis_test.go
package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mlenda000/dfg-server/internal/game"
)

type HistorianTestSuite struct {
	suite.Suite
	mr        *miniredis.Miniredis
	client    *redis.Client
	historian *Historian
}

func (s *HistorianTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	historian, err := NewHistorian(s.client, "")
	s.Require().NoError(err)
	s.historian = historian
}

func (s *HistorianTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestHistorianTestSuite(t *testing.T) {
	suite.Run(t, new(HistorianTestSuite))
}

func (s *HistorianTestSuite) TestPublishScoreUpdate() {
	rec := ScoreRecord{
		Room:  "party",
		Round: 3,
		Players: []*game.Player{
			{ID: "a", Name: "Ana", Score: 250, Streak: 3, HasStreak: true},
		},
		Timestamp: 1700000000,
	}

	err := s.historian.PublishScoreUpdate(context.Background(), rec)
	s.Require().NoError(err)

	entries, err := s.client.LRange(context.Background(), DefaultQueueName, 0, -1).Result()
	s.Require().NoError(err)
	s.Require().Len(entries, 1)

	var got ScoreRecord
	s.Require().NoError(json.Unmarshal([]byte(entries[0]), &got))
	s.Equal("party", got.Room)
	s.Equal(3, got.Round)
	s.Require().Len(got.Players, 1)
	s.Equal(250, got.Players[0].Score)
}

func (s *HistorianTestSuite) TestPublishPreservesQueueOrder() {
	ctx := context.Background()
	for round := 1; round <= 3; round++ {
		err := s.historian.PublishScoreUpdate(ctx, ScoreRecord{Room: "party", Round: round})
		s.Require().NoError(err)
	}

	entries, err := s.client.LRange(ctx, DefaultQueueName, 0, -1).Result()
	s.Require().NoError(err)
	s.Require().Len(entries, 3)

	for i, entry := range entries {
		var got ScoreRecord
		s.Require().NoError(json.Unmarshal([]byte(entry), &got))
		s.Equal(i+1, got.Round)
	}
}

func (s *HistorianTestSuite) TestCustomQueueName() {
	historian, err := NewHistorian(s.client, "other_queue")
	s.Require().NoError(err)

	s.Require().NoError(historian.PublishScoreUpdate(context.Background(), ScoreRecord{Room: "party"}))

	entries, err := s.client.LRange(context.Background(), "other_queue", 0, -1).Result()
	s.Require().NoError(err)
	s.Len(entries, 1)
}

func TestNewHistorianRequiresClient(t *testing.T) {
	_, err := NewHistorian(nil, "")
	if err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestNilHistorianIsNoop(t *testing.T) {
	var h *Historian
	if err := h.PublishScoreUpdate(context.Background(), ScoreRecord{Room: "party"}); err != nil {
		t.Fatalf("nil historian should publish nothing and return nil, got %v", err)
	}
}
