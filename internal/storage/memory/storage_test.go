package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sosgame/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newMatch(code model.MatchCode, created time.Time, players ...model.PlayerID) *model.Match {
	m := &model.Match{
		Code:      code,
		Mode:      model.ModeGeneral,
		Status:    model.MatchStatusWaiting,
		CreatedAt: created,
	}
	for _, id := range players {
		m.Players = append(m.Players, model.Player{ID: id, Name: string(id)})
	}
	return m
}

func (s *StorageSuite) TestSaveAndGetMatch() {
	m := newMatch("ABC234", time.Now(), "alice")
	s.Require().NoError(m.Board.Set(model.Position{Row: 1, Col: 2}, model.LetterS, "alice"))

	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))

	retrieved, err := s.storage.GetMatch(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(m.Code, retrieved.Code)
	s.Equal(model.LetterS, retrieved.Board.LetterAt(model.Position{Row: 1, Col: 2}))
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "NOPE22")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *StorageSuite) TestGetReturnsIndependentCopy() {
	m := newMatch("ABC234", time.Now(), "alice")
	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))

	// Mutating the caller's value after saving must not leak into storage
	m.Players[0].Score = 10

	first, err := s.storage.GetMatch(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(0, first.Players[0].Score)

	first.Players = append(first.Players, model.Player{ID: "bob"})
	second, err := s.storage.GetMatch(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Len(second.Players, 1)
}

func (s *StorageSuite) TestDeleteMatch() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("ABC234", time.Now(), "alice")))

	s.Require().NoError(s.storage.DeleteMatch(s.ctx, "ABC234"))

	exists, err := s.storage.MatchExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.False(exists)
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

func (s *StorageSuite) TestListMatchesForPlayer() {
	now := time.Now()
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("AAA222", now, "alice", "bob")))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("BBB222", now, "carol")))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, newMatch("CCC222", now, "bob")))

	matches, err := s.storage.ListMatchesForPlayer(s.ctx, "bob")
	s.Require().NoError(err)
	s.Require().Len(matches, 2)
	s.Equal(model.MatchCode("AAA222"), matches[0].Code)
	s.Equal(model.MatchCode("CCC222"), matches[1].Code)

	matches, err = s.storage.ListMatchesForPlayer(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(matches)
}
