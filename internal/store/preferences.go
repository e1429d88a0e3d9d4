package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Preferences are a user's playback and UI settings.
type Preferences struct {
	Theme          string `json:"theme"`
	Autoplay       bool   `json:"autoplay"`
	DefaultQuality string `json:"defaultQuality"`
	Region         string `json:"region"`
}

// PreferencesUpdate carries a partial update; nil fields are left as-is.
type PreferencesUpdate struct {
	Theme          *string `json:"theme,omitempty"`
	Autoplay       *bool   `json:"autoplay,omitempty"`
	DefaultQuality *string `json:"defaultQuality,omitempty"`
	Region         *string `json:"region,omitempty"`
}

func defaultPreferences() Preferences {
	return Preferences{
		Theme:          "dark",
		Autoplay:       false,
		DefaultQuality: "highest",
		Region:         "JP",
	}
}

// Preferences returns a user's stored preferences, or the defaults when
// the user has never saved any.
func (s *Store) Preferences(ctx context.Context, userID string) (*Preferences, error) {
	var (
		p        Preferences
		autoplay int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT theme, autoplay, default_quality, region
		 FROM user_preferences WHERE user_id = ?`, userID).
		Scan(&p.Theme, &autoplay, &p.DefaultQuality, &p.Region)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := defaultPreferences()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("preferences: query: %w", err)
	}
	p.Autoplay = autoplay != 0
	return &p, nil
}

// UpdatePreferences merges a partial update into a user's preferences and
// returns the resulting state.
func (s *Store) UpdatePreferences(ctx context.Context, userID string, upd PreferencesUpdate) (*Preferences, error) {
	current, err := s.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Theme != nil {
		current.Theme = *upd.Theme
	}
	if upd.Autoplay != nil {
		current.Autoplay = *upd.Autoplay
	}
	if upd.DefaultQuality != nil {
		current.DefaultQuality = *upd.DefaultQuality
	}
	if upd.Region != nil {
		current.Region = *upd.Region
	}

	autoplay := 0
	if current.Autoplay {
		autoplay = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_preferences (user_id, theme, autoplay, default_quality, region)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			theme = excluded.theme,
			autoplay = excluded.autoplay,
			default_quality = excluded.default_quality,
			region = excluded.region`,
		userID, current.Theme, autoplay, current.DefaultQuality, current.Region)
	if err != nil {
		return nil, fmt.Errorf("preferences: upsert: %w", err)
	}
	return current, nil
}
