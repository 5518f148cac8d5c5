package services

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
)

// ThemePreference stores a light/dark flag per client
type ThemePreference interface {
	Get(clientID string) (models.ThemeMode, error)
	Set(clientID string, mode models.ThemeMode) error
}

// ThemeService reads and flips client theme preferences. It never looks at sessions.
type ThemeService struct {
	store ThemePreference
	// mu serialises toggles so two concurrent flips land on the original mode
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewThemeService creates a new ThemeService
func NewThemeService(store ThemePreference, logger zerolog.Logger) *ThemeService {
	return &ThemeService{store: store, logger: logger}
}

// Get returns the client's mode
func (s *ThemeService) Get(clientID string) (models.ThemeMode, error) {
	return s.store.Get(clientID)
}

// Set stores the client's mode
func (s *ThemeService) Set(clientID string, mode models.ThemeMode) error {
	if mode != models.ThemeLight && mode != models.ThemeDark {
		return apperrors.NewBadRequestError("theme mode must be light or dark")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Set(clientID, mode)
}

// Toggle flips the client's mode and returns the new one
func (s *ThemeService) Toggle(clientID string) (models.ThemeMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.Get(clientID)
	if err != nil {
		return "", err
	}
	next := models.ThemeDark
	if current == models.ThemeDark {
		next = models.ThemeLight
	}
	if err := s.store.Set(clientID, next); err != nil {
		return "", err
	}
	s.logger.Debug().Str("clientID", clientID).Str("mode", string(next)).Msg("Theme toggled")
	return next, nil
}
