package domain

import "time"

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// UserSettings holds per-user display and fiscal preferences.
type UserSettings struct {
	ID               string
	UserID           string
	Currency         string
	DateFormat       string
	FiscalStartMonth int
	FiscalStartYear  int
	DefaultAccountID string
	Theme            Theme
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DefaultSettings returns the settings a new user starts with.
func DefaultSettings(id, userID string, now time.Time) *UserSettings {
	return &UserSettings{
		ID:               id,
		UserID:           userID,
		Currency:         "EUR",
		DateFormat:       "DD/MM/YYYY",
		FiscalStartMonth: 1,
		FiscalStartYear:  now.Year(),
		Theme:            ThemeLight,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Validate checks the settings values.
func (s *UserSettings) Validate() error {
	if err := ValidateCurrency(s.Currency); err != nil {
		return err
	}

	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		return ErrInvalidTheme
	}

	if s.FiscalStartMonth < 1 || s.FiscalStartMonth > 12 {
		return ErrInvalidFiscalMonth
	}

	return nil
}
