package redis

import (
	"fmt"

	"github.com/mcoot/sosgame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "sos"

// matchKey returns the Redis key for a Match
func matchKey(code model.MatchCode) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, code)
}

// allMatchesIndexKey returns the Redis key for the SET of every match code
func allMatchesIndexKey() string {
	return fmt.Sprintf("%s:idx:matches", keyPrefix)
}

// playerMatchesIndexKey returns the Redis key for the SET of match codes a player is seated in
func playerMatchesIndexKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_matches:%s", keyPrefix, id)
}
