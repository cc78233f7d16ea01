package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tickdo/tickdo-api/internal/config"
	"github.com/tickdo/tickdo-api/internal/domain"
	"github.com/tickdo/tickdo-api/internal/platform/logger"
	"github.com/tickdo/tickdo-api/internal/store"
)

// SettingsService manages per-user display settings.
type SettingsService struct {
	settings store.SettingsStore
	defaults config.ColorsConfig
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(settings store.SettingsStore, defaults config.ColorsConfig) (*SettingsService, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings store cannot be nil")
	}
	return &SettingsService{
		settings: settings,
		defaults: defaults,
	}, nil
}

// Get returns the user's settings row.
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	return s.settings.GetByUser(ctx, userID)
}

// UpdateColors replaces the three importance colors, accumulating
// field-level failures so one submit reports every broken color.
func (s *SettingsService) UpdateColors(ctx context.Context, userID uuid.UUID, importance1, importance2, importance3 string) (*domain.Settings, error) {
	var errs domain.ValidationErrors
	for _, c := range []struct {
		field string
		value string
	}{
		{"importance1", importance1},
		{"importance2", importance2},
		{"importance3", importance3},
	} {
		if !domain.ValidHexColor(c.value) {
			errs = append(errs, domain.NewValidationError(
				c.field, "must be a hex color value like #adff2f", domain.ErrInvalidColor))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if err := s.settings.UpdateColors(ctx, userID, importance1, importance2, importance3); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("settings colors updated",
		"user_id", userID)
	return s.settings.GetByUser(ctx, userID)
}

// Reset restores the configured default colors.
func (s *SettingsService) Reset(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	return s.UpdateColors(ctx, userID,
		s.defaults.Importance1,
		s.defaults.Importance2,
		s.defaults.Importance3,
	)
}
