package redis

import (
	"fmt"

	"github.com/playtrackhq/playtrack/internal/model"
)

// Key prefix for all playtrack data
const keyPrefix = "playtrack"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the name -> user_id index
func usernameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, name)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// achievementKey returns the Redis key for an Achievement
func achievementKey(id model.AchievementID) string {
	return fmt.Sprintf("%s:achievement:%s", keyPrefix, id)
}

// achievementsForGameIndexKey returns the Redis key for the SET of achievements in a game
func achievementsForGameIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:achievements_for_game:%s", keyPrefix, gameID)
}

// eventKey returns the Redis key for an Event
func eventKey(id model.EventID) string {
	return fmt.Sprintf("%s:event:%s", keyPrefix, id)
}

// eventForGameIndexKey returns the Redis key for the game_id -> event_id index
func eventForGameIndexKey(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:event_for_game:%s", keyPrefix, gameID)
}

// mirrorKey returns the Redis key for an EventMirror
func mirrorKey(achievementID model.AchievementID) string {
	return fmt.Sprintf("%s:mirror:%s", keyPrefix, achievementID)
}

// mirrorsForSourceIndexKey returns the Redis key for the SET of mirrors of a source achievement
func mirrorsForSourceIndexKey(sourceID model.AchievementID) string {
	return fmt.Sprintf("%s:idx:mirrors_for_source:%s", keyPrefix, sourceID)
}

// progressKey returns the Redis key for a GameProgress row
func progressKey(userID model.UserID, gameID model.GameID) string {
	return fmt.Sprintf("%s:progress:%s:%s", keyPrefix, userID, gameID)
}

// badgeKey returns the Redis key for a Badge
func badgeKey(id string) string {
	return fmt.Sprintf("%s:badge:%s", keyPrefix, id)
}

// badgesForUserIndexKey returns the Redis key for the SET of a user's badges
func badgesForUserIndexKey(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:badges_for_user:%s", keyPrefix, userID)
}

// sessionKey returns the Redis key for a PlaySession
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// latestSessionIndexKey returns the Redis key for the (user, game) -> session_id index
func latestSessionIndexKey(userID model.UserID, gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:latest_session:%s:%s", keyPrefix, userID, gameID)
}

// sessionActivityIndexKey returns the Redis key for the ZSET of sessions scored by last-active time
func sessionActivityIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions_by_activity", keyPrefix)
}

// unlockKey returns the Redis key for an Unlock
func unlockKey(userID model.UserID, achievementID model.AchievementID) string {
	return fmt.Sprintf("%s:unlock:%s:%s", keyPrefix, userID, achievementID)
}

// unlocksForGameIndexKey returns the Redis key for the SET of a user's unlocks in a game
func unlocksForGameIndexKey(userID model.UserID, gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:unlocks_for_game:%s:%s", keyPrefix, userID, gameID)
}
