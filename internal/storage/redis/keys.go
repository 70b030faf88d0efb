package redis

import (
	"fmt"

	"github.com/mcoot/taflgame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "tafl"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// historyKey returns the Redis key for the LIST of history entries of a game
func historyKey(id model.GameID) string {
	return fmt.Sprintf("%s:history:%s", keyPrefix, id)
}
