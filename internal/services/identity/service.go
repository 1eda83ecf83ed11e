package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/playtrackhq/playtrack/internal/dependencies/clock"
	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
)

// Service handles account registration and API-key authentication
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new identity service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Register creates a user account and returns it with its connect API key.
// The key is returned exactly once; only its bcrypt hash is stored.
func (s *Service) Register(ctx context.Context, name string) (*model.User, string, error) {
	_, err := s.storage.GetUserByName(ctx, name)
	if err == nil {
		return nil, "", ErrUsernameExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, "", err
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:         model.UserID(uuid.NewString()),
		Name:       name,
		APIKeyHash: string(hash),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", slog.String("user_id", string(user.ID)), slog.String("name", name))

	return user, apiKey, nil
}

// Authenticate verifies a (name, API key) pair and returns the user
func (s *Service) Authenticate(ctx context.Context, name, apiKey string) (*model.User, error) {
	user, err := s.storage.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.APIKeyHash), []byte(apiKey)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// generateAPIKey creates a random URL-safe key
func generateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
