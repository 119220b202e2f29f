package registry

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/sosgame/internal/dependencies/mocks"
	"github.com/mcoot/sosgame/internal/model"
	"github.com/mcoot/sosgame/internal/services/board"
	"github.com/mcoot/sosgame/internal/services/match"
	"github.com/mcoot/sosgame/internal/services/scoring"
	"github.com/mcoot/sosgame/internal/storage/memory"
	"github.com/mcoot/sosgame/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	ctx        context.Context
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	storage    *memory.Storage
	controller *Controller
	logs       *testutil.LogCapture
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.storage = memory.New()

	var logger *slog.Logger
	logger, s.logs = testutil.CaptureLogger()
	matchService := match.NewService(board.New(), scoring.New(), s.clock, testutil.NopLogger())
	s.controller = NewController(s.storage, matchService, s.random, logger)
}

// playing creates a match between alice and bob under the given code
func (s *ControllerSuite) playing(code string, mode model.Mode) *model.Match {
	s.random.QueueString(code)
	_, err := s.controller.Create(s.ctx, "alice", "Alice", mode)
	s.Require().NoError(err)
	m, err := s.controller.Join(s.ctx, model.MatchCode(code), "bob", "Bob")
	s.Require().NoError(err)
	return m
}

func (s *ControllerSuite) finished(code string) *model.Match {
	s.playing(code, model.ModeSimple)
	s.move(code, "alice", 0, 0, model.LetterS)
	s.move(code, "bob", 0, 1, model.LetterO)
	m := s.move(code, "alice", 0, 2, model.LetterS)
	s.Require().True(m.IsFinished())
	return m
}

func (s *ControllerSuite) move(code string, player model.PlayerID, row, col int, letter model.Letter) *model.Match {
	m, err := s.controller.Move(s.ctx, model.MatchCode(code), player, model.Position{Row: row, Col: col}, letter)
	s.Require().NoError(err)
	return m
}

// Create tests

func (s *ControllerSuite) TestCreateSucceeds() {
	s.random.QueueString("ABC234")

	m, err := s.controller.Create(s.ctx, "alice", "Alice", model.ModeGeneral)
	s.Require().NoError(err)

	s.Equal(model.MatchCode("ABC234"), m.Code)
	s.Equal(model.MatchStatusWaiting, m.Status)
	s.Equal(model.ModeGeneral, m.Mode)
	s.Require().Len(m.Players, 1)
	s.Equal("Alice", m.Players[0].Name)

	stored, err := s.controller.Get(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(m, stored)
}

func (s *ControllerSuite) TestCreateFailsIfModeInvalid() {
	_, err := s.controller.Create(s.ctx, "alice", "Alice", model.Mode("blitz"))
	s.ErrorIs(err, model.ErrInvalidMode)
}

func (s *ControllerSuite) TestCreateRetriesTakenCode() {
	s.random.QueueString("ABC234", "ABC234", "XYZ789")

	first, err := s.controller.Create(s.ctx, "alice", "Alice", model.ModeSimple)
	s.Require().NoError(err)
	second, err := s.controller.Create(s.ctx, "carol", "Carol", model.ModeSimple)
	s.Require().NoError(err)

	s.Equal(model.MatchCode("ABC234"), first.Code)
	s.Equal(model.MatchCode("XYZ789"), second.Code)
}

func (s *ControllerSuite) TestCreateFailsIfCodesExhausted() {
	_, err := s.controller.Create(s.ctx, "alice", "Alice", model.ModeSimple)
	s.ErrorIs(err, ErrCodesExhausted)

	matches, err := s.controller.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(matches)
}

// Join tests

func (s *ControllerSuite) TestJoinStartsMatch() {
	m := s.playing("ABC234", model.ModeGeneral)

	s.Equal(model.MatchStatusPlaying, m.Status)
	s.Require().Len(m.Players, 2)
	s.Equal(model.PlayerID("alice"), m.CurrentPlayer().ID)
}

func (s *ControllerSuite) TestJoinFailsIfMatchMissing() {
	_, err := s.controller.Join(s.ctx, "NOPE22", "bob", "Bob")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ControllerSuite) TestJoinFailsIfMatchFull() {
	s.playing("ABC234", model.ModeGeneral)

	_, err := s.controller.Join(s.ctx, "ABC234", "carol", "Carol")
	s.ErrorIs(err, model.ErrMatchFull)
}

func (s *ControllerSuite) TestJoinFailsIfAlreadySeated() {
	s.random.QueueString("ABC234")
	_, err := s.controller.Create(s.ctx, "alice", "Alice", model.ModeGeneral)
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, "ABC234", "alice", "Alice")
	s.ErrorIs(err, model.ErrAlreadyInMatch)
}

// Move tests

func (s *ControllerSuite) TestMovePersists() {
	s.playing("ABC234", model.ModeGeneral)

	m := s.move("ABC234", "alice", 3, 3, model.LetterS)
	s.Equal(1, m.TurnIndex)

	stored, err := s.controller.Get(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(model.LetterS, stored.Board.LetterAt(model.Position{Row: 3, Col: 3}))
}

func (s *ControllerSuite) TestMoveFailsIfRejectedAndLeavesMatchUnchanged() {
	s.playing("ABC234", model.ModeGeneral)
	s.move("ABC234", "alice", 3, 3, model.LetterS)
	before, err := s.controller.Get(s.ctx, "ABC234")
	s.Require().NoError(err)

	_, err = s.controller.Move(s.ctx, "ABC234", "alice", model.Position{Row: 4, Col: 4}, model.LetterO)
	s.ErrorIs(err, model.ErrInvalidMove, "out of turn")
	_, err = s.controller.Move(s.ctx, "ABC234", "bob", model.Position{Row: 3, Col: 3}, model.LetterO)
	s.ErrorIs(err, model.ErrInvalidMove, "occupied")
	_, err = s.controller.Move(s.ctx, "ABC234", "bob", model.Position{Row: 8, Col: 0}, model.LetterO)
	s.ErrorIs(err, model.ErrInvalidMove, "off board")

	after, err := s.controller.Get(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(before, after)
}

func (s *ControllerSuite) TestMoveFailsIfMatchMissing() {
	_, err := s.controller.Move(s.ctx, "NOPE22", "alice", model.Position{}, model.LetterS)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ControllerSuite) TestMoveScoringFinishesSimpleMatch() {
	m := s.finished("ABC234")

	s.Equal(model.WinnerPlayer("alice"), m.Winner)
	s.Equal(1, m.GetPlayer("alice").Score)
	s.Len(m.LastScored, 1)
}

// Rematch tests

func (s *ControllerSuite) TestRematchFirstVoteWaits() {
	s.finished("ABC234")

	result, err := s.controller.Rematch(s.ctx, "ABC234", "alice")
	s.Require().NoError(err)

	s.Nil(result.Replacement)
	s.True(result.Match.HasVoted("alice"))

	stored, err := s.controller.Get(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.True(stored.HasVoted("alice"))
}

func (s *ControllerSuite) TestRematchDuplicateVoteHasNoEffect() {
	s.finished("ABC234")

	_, err := s.controller.Rematch(s.ctx, "ABC234", "alice")
	s.Require().NoError(err)
	result, err := s.controller.Rematch(s.ctx, "ABC234", "alice")
	s.Require().NoError(err)

	s.Nil(result.Replacement)
	s.Equal([]model.PlayerID{"alice"}, result.Match.RematchVotes)
}

func (s *ControllerSuite) TestRematchSecondVoteReplacesMatch() {
	s.finished("ABC234")
	s.random.QueueString("XYZ789")

	_, err := s.controller.Rematch(s.ctx, "ABC234", "bob")
	s.Require().NoError(err)
	result, err := s.controller.Rematch(s.ctx, "ABC234", "alice")
	s.Require().NoError(err)

	s.Require().NotNil(result.Replacement)
	next := result.Replacement
	s.Equal(model.MatchCode("XYZ789"), next.Code)
	s.Equal(model.MatchStatusPlaying, next.Status)
	s.Equal(model.ModeSimple, next.Mode)
	s.Equal(0, next.Board.FilledCount())
	s.Equal(model.PlayerID("alice"), next.Players[0].ID)
	s.Equal(0, next.Players[0].Score)
	s.Nil(next.Winner)

	_, err = s.controller.Get(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrNotFound)

	matches, err := s.controller.List(s.ctx)
	s.Require().NoError(err)
	s.Len(matches, 1)
}

func (s *ControllerSuite) TestRematchConcurrentVotesCreateOneMatch() {
	s.finished("ABC234")
	s.random.QueueString("XYZ789", "QRS456")

	var wg sync.WaitGroup
	results := make([]*RematchResult, 2)
	errs := make([]error, 2)
	for i, id := range []model.PlayerID{"alice", "bob"} {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.controller.Rematch(s.ctx, "ABC234", id)
		}()
	}
	wg.Wait()

	s.Require().NoError(errs[0])
	s.Require().NoError(errs[1])
	replacements := 0
	for _, r := range results {
		if r.Replacement != nil {
			replacements++
		}
	}
	s.Equal(1, replacements)

	matches, err := s.controller.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal(model.MatchCode("XYZ789"), matches[0].Code)
}

func (s *ControllerSuite) TestRematchFailsIfNotSeated() {
	s.finished("ABC234")

	_, err := s.controller.Rematch(s.ctx, "ABC234", "carol")
	s.ErrorIs(err, model.ErrNotInMatch)
}

func (s *ControllerSuite) TestRematchFailsIfOpponentGone() {
	s.playing("ABC234", model.ModeGeneral)
	_, err := s.controller.Disconnect(s.ctx, "bob")
	s.Require().NoError(err)

	_, err = s.controller.Rematch(s.ctx, "ABC234", "alice")
	s.ErrorIs(err, model.ErrRematchUnavailable)
}

// Disconnect tests

func (s *ControllerSuite) TestDisconnectForfeitsPlayingMatch() {
	s.playing("ABC234", model.ModeGeneral)

	affected, err := s.controller.Disconnect(s.ctx, "bob")
	s.Require().NoError(err)

	s.Require().Len(affected, 1)
	m := affected[0]
	s.Equal(model.MatchStatusFinished, m.Status)
	s.Equal(model.WinnerPlayer("alice"), m.Winner)
	s.Require().Len(m.Players, 1)

	stored, err := s.controller.Get(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(m, stored)
}

func (s *ControllerSuite) TestDisconnectDeletesEmptyMatch() {
	s.random.QueueString("ABC234")
	_, err := s.controller.Create(s.ctx, "alice", "Alice", model.ModeGeneral)
	s.Require().NoError(err)

	affected, err := s.controller.Disconnect(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(affected)

	_, err = s.controller.Get(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ControllerSuite) TestDisconnectDeletesFinishedMatch() {
	s.finished("ABC234")

	affected, err := s.controller.Disconnect(s.ctx, "bob")
	s.Require().NoError(err)
	s.Empty(affected)

	_, err = s.controller.Get(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ControllerSuite) TestDisconnectThenLastPlayerLeaves() {
	s.playing("ABC234", model.ModeGeneral)
	_, err := s.controller.Disconnect(s.ctx, "bob")
	s.Require().NoError(err)

	affected, err := s.controller.Disconnect(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(affected)

	_, err = s.controller.Get(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ControllerSuite) TestDisconnectCoversEveryMatch() {
	s.playing("AAA222", model.ModeGeneral)
	s.clock.Advance(time.Minute)
	s.random.QueueString("BBB222")
	_, err := s.controller.Create(s.ctx, "carol", "Carol", model.ModeGeneral)
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, "BBB222", "bob", "Bob")
	s.Require().NoError(err)

	affected, err := s.controller.Disconnect(s.ctx, "bob")
	s.Require().NoError(err)

	s.Require().Len(affected, 2)
	s.Equal(model.MatchCode("AAA222"), affected[0].Code)
	s.Equal(model.MatchCode("BBB222"), affected[1].Code)
	s.Equal(model.WinnerPlayer("carol"), affected[1].Winner)
}

func (s *ControllerSuite) TestDisconnectUnknownPlayerIsNoop() {
	s.playing("ABC234", model.ModeGeneral)

	affected, err := s.controller.Disconnect(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(affected)

	m, err := s.controller.Get(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(model.MatchStatusPlaying, m.Status)
}

// List tests

func (s *ControllerSuite) TestListOldestFirst() {
	s.random.QueueString("BBB222", "AAA222")
	_, err := s.controller.Create(s.ctx, "alice", "Alice", model.ModeGeneral)
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	_, err = s.controller.Create(s.ctx, "bob", "Bob", model.ModeSimple)
	s.Require().NoError(err)

	matches, err := s.controller.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(matches, 2)
	s.Equal(model.MatchCode("BBB222"), matches[0].Code)
	s.Equal(model.MatchCode("AAA222"), matches[1].Code)
}

func (s *ControllerSuite) TestMoveLogsScoringPlacement() {
	s.finished("ABC234")

	record := s.logs.Find("move scored")
	s.Require().NotNil(record)
	s.Equal("ABC234", record["match_code"])
	s.Equal("alice", record["player_id"])
	s.EqualValues(1, record["completed"])
	s.EqualValues(1, record["score"])
}
