package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// hexColorRegex matches 3- or 6-digit hex color values like #fd3b3b.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidHexColor reports whether color is a 3- or 6-digit hex color value.
func ValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// Settings holds a user's per-importance display colors and their persisted
// listing filter. Exactly one row exists per confirmed user; it is created
// when the account confirmation token is redeemed and never deleted.
type Settings struct {
	UserID      uuid.UUID `json:"user_id"`
	Importance1 string    `json:"importance1"`
	Importance2 string    `json:"importance2"`
	Importance3 string    `json:"importance3"`
	// ShowDone selects whether task listings show completed or open tasks.
	// It lives server-side so the filter survives across sessions.
	ShowDone  bool      `json:"show_done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSettings creates a Settings row for the given user with the provided
// colors, which are the configured defaults at confirmation time.
// Returns an error if validation fails.
func NewSettings(userID uuid.UUID, importance1, importance2, importance3 string) (*Settings, error) {
	settings := &Settings{
		UserID:      userID,
		Importance1: importance1,
		Importance2: importance2,
		Importance3: importance3,
		ShowDone:    false,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks if the Settings has valid data.
// Returns an error if any field fails validation.
func (s *Settings) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyUserID
	}

	for _, color := range []string{s.Importance1, s.Importance2, s.Importance3} {
		if !hexColorRegex.MatchString(color) {
			return ErrInvalidColor
		}
	}

	return nil
}
