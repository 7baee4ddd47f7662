package actions

import (
	"log/slog"

	"github.com/kmckee/teamdash/internal/models"
	"github.com/kmckee/teamdash/internal/store"
)

// Setting keys for the three preferences that survive a session.
const (
	SettingTheme    = "theme"
	SettingLanguage = "language"
	SettingRole     = "role"
)

// SetTheme switches the theme and persists the choice.
func (a *Actions) SetTheme(theme string) {
	a.store.Dispatch(store.SetTheme{Theme: theme})
	a.persist(SettingTheme, theme)
}

// SetLanguage switches the language and persists the choice.
func (a *Actions) SetLanguage(lang string) {
	a.store.Dispatch(store.SetLanguage{Language: lang})
	a.persist(SettingLanguage, lang)
}

// SetRole switches the active role and persists the choice. The role
// gates which actions the UI offers; it is not a security boundary.
func (a *Actions) SetRole(role models.Role) {
	a.store.Dispatch(store.SetRole{Role: role})
	a.persist(SettingRole, string(role))
}

// persist writes a preference to the settings table. Failures are
// logged and otherwise ignored; the in-memory preference already
// took effect.
func (a *Actions) persist(key, value string) {
	if err := a.gw.SetSetting(key, value); err != nil {
		a.logger.Warn("persist setting failed", slog.String("key", key), slog.Any("err", err))
	}
}

// LoadPreferences restores the persisted theme, language and role
// into the store, keeping defaults for unset keys.
func (a *Actions) LoadPreferences() {
	if theme, err := a.gw.GetSetting(SettingTheme); err == nil && theme != "" {
		a.store.Dispatch(store.SetTheme{Theme: theme})
	}
	if lang, err := a.gw.GetSetting(SettingLanguage); err == nil && lang != "" {
		a.store.Dispatch(store.SetLanguage{Language: lang})
	}
	if role, err := a.gw.GetSetting(SettingRole); err == nil && role != "" {
		a.store.Dispatch(store.SetRole{Role: models.Role(role)})
	}
}
