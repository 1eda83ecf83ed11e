package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users        map[model.UserID]*model.User
	nameIndex    map[string]model.UserID
	games        map[model.GameID]*model.Game
	achievements map[model.AchievementID]*model.Achievement
	events       map[model.EventID]*model.Event
	eventByGame  map[model.GameID]model.EventID
	mirrors      map[model.AchievementID]*model.EventMirror
	mirrorSource map[model.AchievementID][]model.AchievementID
	progress     map[progressKey]*model.GameProgress
	badges       map[string]*model.Badge
	ownerBadges  map[model.UserID][]string
	sessions     map[model.SessionID]*model.PlaySession
	unlocks      map[unlockKey]*model.Unlock
}

type progressKey struct {
	userID model.UserID
	gameID model.GameID
}

type unlockKey struct {
	userID        model.UserID
	achievementID model.AchievementID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:        make(map[model.UserID]*model.User),
		nameIndex:    make(map[string]model.UserID),
		games:        make(map[model.GameID]*model.Game),
		achievements: make(map[model.AchievementID]*model.Achievement),
		events:       make(map[model.EventID]*model.Event),
		eventByGame:  make(map[model.GameID]model.EventID),
		mirrors:      make(map[model.AchievementID]*model.EventMirror),
		mirrorSource: make(map[model.AchievementID][]model.AchievementID),
		progress:     make(map[progressKey]*model.GameProgress),
		badges:       make(map[string]*model.Badge),
		ownerBadges:  make(map[model.UserID][]string),
		sessions:     make(map[model.SessionID]*model.PlaySession),
		unlocks:      make(map[unlockKey]*model.Unlock),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.nameIndex[user.Name] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.nameIndex[name]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

// Achievement operations

func (s *Storage) SaveAchievement(ctx context.Context, achievement *model.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.achievements[achievement.ID] = achievement
	return nil
}

func (s *Storage) GetAchievement(ctx context.Context, id model.AchievementID) (*model.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	achievement, ok := s.achievements[id]
	if !ok {
		return nil, model.ErrAchievementNotFound
	}
	return achievement, nil
}

func (s *Storage) ListAchievementsForGame(ctx context.Context, gameID model.GameID) ([]*model.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Achievement
	for _, a := range s.achievements {
		if a.GameID == gameID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Event operations

func (s *Storage) SaveEvent(ctx context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event
	s.eventByGame[event.GameID] = event.ID
	return nil
}

func (s *Storage) GetEventForGame(ctx context.Context, gameID model.GameID) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	eventID, ok := s.eventByGame[gameID]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	event, ok := s.events[eventID]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	return event, nil
}

func (s *Storage) SaveEventMirror(ctx context.Context, mirror *model.EventMirror) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.mirrors[mirror.AchievementID]; !exists {
		s.mirrorSource[mirror.SourceAchievementID] = append(
			s.mirrorSource[mirror.SourceAchievementID], mirror.AchievementID)
	}
	s.mirrors[mirror.AchievementID] = mirror
	return nil
}

func (s *Storage) ListMirrorsForSource(ctx context.Context, sourceID model.AchievementID) ([]*model.EventMirror, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.EventMirror
	for _, id := range s.mirrorSource[sourceID] {
		if m, ok := s.mirrors[id]; ok {
			result = append(result, m)
		}
	}
	return result, nil
}

// Progress operations

func (s *Storage) SaveProgress(ctx context.Context, progress *model.GameProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[progressKey{progress.UserID, progress.GameID}] = progress
	return nil
}

func (s *Storage) GetProgress(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.GameProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	progress, ok := s.progress[progressKey{userID, gameID}]
	if !ok {
		return nil, model.ErrProgressNotFound
	}
	return progress, nil
}

// Badge ledger operations

func (s *Storage) SaveBadge(ctx context.Context, badge *model.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.badges[badge.ID]; !exists {
		s.ownerBadges[badge.OwnerID] = append(s.ownerBadges[badge.OwnerID], badge.ID)
	}
	s.badges[badge.ID] = badge
	return nil
}

func (s *Storage) GetBadge(ctx context.Context, id string) (*model.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	badge, ok := s.badges[id]
	if !ok {
		return nil, model.ErrBadgeNotFound
	}
	return badge, nil
}

func (s *Storage) DeleteBadge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	badge, ok := s.badges[id]
	if !ok {
		return nil
	}
	delete(s.badges, id)
	ids := s.ownerBadges[badge.OwnerID]
	for i, existing := range ids {
		if existing == id {
			s.ownerBadges[badge.OwnerID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Storage) ListBadgesForUser(ctx context.Context, userID model.UserID) ([]*model.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Badge
	for _, id := range s.ownerBadges[userID] {
		if b, ok := s.badges[id]; ok {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DisplayOrder < result[j].DisplayOrder })
	return result, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.PlaySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *Storage) LatestSession(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.PlaySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *model.PlaySession
	for _, sess := range s.sessions {
		if sess.UserID != userID || sess.GameID != gameID {
			continue
		}
		if latest == nil || sess.LastActiveAt.After(latest.LastActiveAt) {
			latest = sess
		}
	}
	if latest == nil {
		return nil, model.ErrSessionNotFound
	}
	return latest, nil
}

func (s *Storage) ListSessionsActiveSince(ctx context.Context, since time.Time) ([]*model.PlaySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.PlaySession
	for _, sess := range s.sessions {
		if !sess.LastActiveAt.Before(since) {
			result = append(result, sess)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LastActiveAt.Before(result[j].LastActiveAt) })
	return result, nil
}

// Unlock operations

func (s *Storage) SaveUnlock(ctx context.Context, unlock *model.Unlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocks[unlockKey{unlock.UserID, unlock.AchievementID}] = unlock
	return nil
}

func (s *Storage) GetUnlock(ctx context.Context, userID model.UserID, achievementID model.AchievementID) (*model.Unlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unlock, ok := s.unlocks[unlockKey{userID, achievementID}]
	if !ok {
		return nil, model.ErrAchievementNotFound
	}
	return unlock, nil
}

func (s *Storage) ListUnlocksForGame(ctx context.Context, userID model.UserID, gameID model.GameID) ([]*model.Unlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Unlock
	for _, u := range s.unlocks {
		if u.UserID == userID && u.GameID == gameID {
			result = append(result, u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AchievementID < result[j].AchievementID })
	return result, nil
}
