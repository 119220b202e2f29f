package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sosgame/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func newMatch(code model.MatchCode, created time.Time, players ...model.PlayerID) *model.Match {
	m := &model.Match{
		Code:      code,
		Mode:      model.ModeSimple,
		Status:    model.MatchStatusWaiting,
		CreatedAt: created.UTC(),
		UpdatedAt: created.UTC(),
	}
	for _, id := range players {
		m.Players = append(m.Players, model.Player{ID: id, Name: string(id)})
	}
	if len(m.Players) == model.MaxPlayers {
		m.Status = model.MatchStatusPlaying
	}
	return m
}

func (s *StorageSuite) TestSaveAndGetMatchRoundTrip() {
	m := newMatch("ABC234", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), "alice", "bob")
	s.Require().NoError(m.Board.Set(model.Position{Row: 0, Col: 0}, model.LetterS, "alice"))
	s.Require().NoError(m.Board.Set(model.Position{Row: 0, Col: 1}, model.LetterO, "bob"))
	m.Players[1].Score = 2
	m.TurnIndex = 1
	m.LastScored = []model.Triple{{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}}
	m.RematchVotes = []model.PlayerID{"bob"}
	m.Winner = model.WinnerPlayer("bob")

	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))

	retrieved, err := s.storage.GetMatch(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(m, retrieved)
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "NOPE22")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *StorageSuite) TestMatchExists() {
	exists, err := s.storage.MatchExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("ABC234", time.Now(), "alice")))

	exists, err = s.storage.MatchExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestDeleteMatchClearsIndexes() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("ABC234", time.Now(), "alice", "bob")))

	s.Require().NoError(s.storage.DeleteMatch(s.ctx, "ABC234"))

	s.False(s.mini.Exists(matchKey("ABC234")))
	s.False(s.mini.Exists(allMatchesIndexKey()))
	s.False(s.mini.Exists(playerMatchesIndexKey("alice")))
	s.False(s.mini.Exists(playerMatchesIndexKey("bob")))
}

func (s *StorageSuite) TestDeleteMissingMatchSucceeds() {
	s.NoError(s.storage.DeleteMatch(s.ctx, "NOPE22"))
}

func (s *StorageSuite) TestSaveWritesIndexes() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("ABC234", time.Now(), "alice", "bob")))

	members, err := s.mini.SMembers(allMatchesIndexKey())
	s.Require().NoError(err)
	s.Equal([]string{"ABC234"}, members)

	members, err = s.mini.SMembers(playerMatchesIndexKey("bob"))
	s.Require().NoError(err)
	s.Equal([]string{"ABC234"}, members)
}

func (s *StorageSuite) TestListMatchesOldestFirst() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("CCC222", base.Add(2*time.Minute), "carol")))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("AAA222", base, "alice")))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("BBB222", base.Add(time.Minute), "bob")))

	matches, err := s.storage.ListMatches(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(matches, 3)
	s.Equal(model.MatchCode("AAA222"), matches[0].Code)
	s.Equal(model.MatchCode("BBB222"), matches[1].Code)
	s.Equal(model.MatchCode("CCC222"), matches[2].Code)
}

func (s *StorageSuite) TestListMatchesForPlayerSkipsDepartedSeats() {
	now := time.Now()
	m := newMatch("AAA222", now, "alice", "bob")
	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("BBB222", now, "bob")))

	// bob leaves AAA222, the stale index entry is pruned on read
	m.Players = m.Players[:1]
	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))

	matches, err := s.storage.ListMatchesForPlayer(s.ctx, "bob")
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(model.MatchCode("BBB222"), matches[0].Code)

	members, err := s.mini.SMembers(playerMatchesIndexKey("bob"))
	s.Require().NoError(err)
	s.Equal([]string{"BBB222"}, members)
}

func (s *StorageSuite) TestListMatchesPrunesExpired() {
	s.storage.cfg.MatchTTL = time.Minute
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("AAA222", time.Now(), "alice")))

	s.mini.FastForward(2 * time.Minute)

	matches, err := s.storage.ListMatches(s.ctx)
	s.Require().NoError(err)
	s.Empty(matches)
	s.False(s.mini.Exists(allMatchesIndexKey()))
}

func (s *StorageSuite) TestMatchTTL() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("AAA222", time.Now(), "alice")))
	s.Equal(time.Duration(0), s.mini.TTL(matchKey("AAA222")), "default config keeps matches")

	s.storage.cfg.MatchTTL = time.Hour
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("BBB222", time.Now(), "bob")))
	s.True(s.mini.TTL(matchKey("BBB222")) > 0)
}
