// Package settings keeps the learner's local preferences and writes every
// change straight to the local cache.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/example/vocabmaster/internal/database"
	"github.com/example/vocabmaster/pkg/models"
)

// ErrInvalidSetting is returned for values outside the supported options
var ErrInvalidSetting = errors.New("invalid setting")

// Cache is the local durable key/value store
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Manager holds the current settings
type Manager struct {
	mu      sync.RWMutex
	cache   Cache
	current models.Settings
}

// Load reads saved settings over the defaults. Unknown or invalid saved
// fields fall back to their default.
func Load(ctx context.Context, cache Cache) (*Manager, error) {
	m := &Manager{cache: cache, current: models.DefaultSettings()}

	data, ok, err := cache.Get(ctx, database.SettingsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !ok {
		return m, nil
	}

	var saved struct {
		Theme        *string  `json:"theme"`
		DefaultVoice *string  `json:"defaultVoice"`
		SpeechSpeed  *float64 `json:"speechSpeed"`
	}
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if saved.Theme != nil {
		if theme, err := ParseTheme(*saved.Theme); err == nil {
			m.current.Theme = theme
		}
	}
	if saved.DefaultVoice != nil {
		if voice, err := ParseVoice(*saved.DefaultVoice); err == nil {
			m.current.DefaultVoice = voice
		}
	}
	if saved.SpeechSpeed != nil && validSpeed(*saved.SpeechSpeed) {
		m.current.SpeechSpeed = *saved.SpeechSpeed
	}
	return m, nil
}

// Current returns a copy of the settings
func (m *Manager) Current() models.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SetTheme changes the color scheme
func (m *Manager) SetTheme(ctx context.Context, theme models.Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	return m.update(ctx, func(s *models.Settings) { s.Theme = theme })
}

// SetDefaultVoice changes the pronunciation accent
func (m *Manager) SetDefaultVoice(ctx context.Context, voice models.Voice) error {
	if _, err := ParseVoice(string(voice)); err != nil {
		return err
	}
	return m.update(ctx, func(s *models.Settings) { s.DefaultVoice = voice })
}

// SetSpeechSpeed changes the speech rate, 0.5 to 2.0
func (m *Manager) SetSpeechSpeed(ctx context.Context, speed float64) error {
	if !validSpeed(speed) {
		return fmt.Errorf("%w: speech speed %.2f outside %.1f..%.1f",
			ErrInvalidSetting, speed, models.MinSpeechSpeed, models.MaxSpeechSpeed)
	}
	return m.update(ctx, func(s *models.Settings) { s.SpeechSpeed = speed })
}

func (m *Manager) update(ctx context.Context, apply func(*models.Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.current
	apply(&next)

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := m.cache.Set(ctx, database.SettingsKey, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	m.current = next
	return nil
}

// ParseTheme validates a theme name
func ParseTheme(s string) (models.Theme, error) {
	switch models.Theme(s) {
	case models.ThemeLight, models.ThemeDark:
		return models.Theme(s), nil
	}
	return "", fmt.Errorf("%w: theme %q", ErrInvalidSetting, s)
}

// ParseVoice validates a voice name
func ParseVoice(s string) (models.Voice, error) {
	switch models.Voice(s) {
	case models.VoiceUK, models.VoiceUS:
		return models.Voice(s), nil
	}
	return "", fmt.Errorf("%w: voice %q", ErrInvalidSetting, s)
}

func validSpeed(speed float64) bool {
	return speed >= models.MinSpeechSpeed && speed <= models.MaxSpeechSpeed
}
