package services

import (
	"errors"
	"fmt"

	"zettaboard/app/models"
	"zettaboard/app/repositories"

	"go.uber.org/zap"
)

const themePref = "theme"

// ThemeService persists the light/dark choice per visitor.
type ThemeService struct {
	prefs repositories.PreferenceRepository
	log   *zap.Logger
}

func NewThemeService(prefs repositories.PreferenceRepository, log *zap.Logger) *ThemeService {
	return &ThemeService{prefs: prefs, log: log}
}

// Get returns the stored theme, or the default when none is stored or the
// store fails.
func (s *ThemeService) Get(visitorID string) models.Theme {
	if visitorID == "" {
		return models.DefaultTheme
	}
	v, err := s.prefs.Get(visitorID, themePref)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.log.Warn("Failed to read theme", zap.String("visitor", visitorID), zap.Error(err))
		}
		return models.DefaultTheme
	}
	return models.ParseTheme(v)
}

func (s *ThemeService) Set(visitorID string, theme models.Theme) error {
	if visitorID == "" {
		return errors.New("visitor id is required")
	}
	if err := s.prefs.Set(visitorID, themePref, string(models.ParseTheme(string(theme)))); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// Toggle flips and stores the visitor's theme.
func (s *ThemeService) Toggle(visitorID string) (models.Theme, error) {
	next := s.Get(visitorID).Toggle()
	return next, s.Set(visitorID, next)
}
