package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
)

type mapThemes struct {
	mu    sync.Mutex
	modes map[string]models.ThemeMode
}

func (m *mapThemes) Get(clientID string) (models.ThemeMode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mode, ok := m.modes[clientID]; ok {
		return mode, nil
	}
	return models.ThemeLight, nil
}

func (m *mapThemes) Set(clientID string, mode models.ThemeMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[clientID] = mode
	return nil
}

func TestThemeService(t *testing.T) {
	s := NewThemeService(&mapThemes{modes: map[string]models.ThemeMode{}}, zerolog.Nop())

	if mode, _ := s.Get("device-1"); mode != models.ThemeLight {
		t.Fatalf("default mode = %s", mode)
	}
	if mode, _ := s.Toggle("device-1"); mode != models.ThemeDark {
		t.Fatalf("toggle from light = %s", mode)
	}
	if mode, _ := s.Toggle("device-1"); mode != models.ThemeLight {
		t.Fatalf("toggle from dark = %s", mode)
	}
	if err := s.Set("device-2", models.ThemeDark); err != nil {
		t.Fatalf("set: %v", err)
	}
	if mode, _ := s.Get("device-2"); mode != models.ThemeDark {
		t.Fatalf("device-2 = %s", mode)
	}
	if err := s.Set("device-2", "sepia"); !errors.Is(err, apperrors.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestConcurrentTogglesAreSerialised(t *testing.T) {
	s := NewThemeService(&mapThemes{modes: map[string]models.ThemeMode{}}, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle("device")
		}()
	}
	wg.Wait()

	if mode, _ := s.Get("device"); mode != models.ThemeLight {
		t.Fatalf("after an even number of toggles mode = %s", mode)
	}
}
