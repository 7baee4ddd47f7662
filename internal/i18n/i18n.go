// Package i18n provides the user-facing message catalogs for the
// language preference. English is the source language; German is the
// second catalog. Unknown preferences fall back to English via tag
// matching.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{
	language.English,
	language.German,
}

var matcher = language.NewMatcher(supported)

func init() {
	for key, text := range german {
		message.SetString(language.German, key, text)
	}
}

// Printer returns a message printer for the given language preference
// string ("en", "de", "de-AT", ...).
func Printer(lang string) *message.Printer {
	tag, _ := language.MatchStrings(matcher, lang)
	return message.NewPrinter(tag)
}

// Languages lists the preference values the UI offers.
func Languages() []string {
	return []string{"en", "de"}
}

var german = map[string]string{
	"Success":                                 "Erfolg",
	"Error":                                   "Fehler",
	"Something went wrong. Please try again.": "Etwas ist schiefgelaufen. Bitte erneut versuchen.",
	"Project created":                         "Projekt erstellt",
	"Project %q created by %s":                "Projekt %q erstellt von %s",
	"Project updated":                         "Projekt aktualisiert",
	"Project deleted":                         "Projekt gelöscht",
	"Part added":                              "Abschnitt hinzugefügt",
	"Part updated":                            "Abschnitt aktualisiert",
	"Part deleted":                            "Abschnitt gelöscht",
	"Team created":                            "Team erstellt",
	"Team updated":                            "Team aktualisiert",
	"Team deleted":                            "Team gelöscht",
	"Member added":                            "Mitglied hinzugefügt",
	"Member updated":                          "Mitglied aktualisiert",
	"Member removed":                          "Mitglied entfernt",
	"Task assigned":                           "Aufgabe zugewiesen",
	"Task updated":                            "Aufgabe aktualisiert",
	"Task deleted":                            "Aufgabe gelöscht",
	"Progress updated":                        "Fortschritt aktualisiert",
	"Todo added":                              "Todo hinzugefügt",
	"Todo updated":                            "Todo aktualisiert",
	"Todo deleted":                            "Todo gelöscht",
	"Comment added":                           "Kommentar hinzugefügt",
	"Projects":                                "Projekte",
	"Teams":                                   "Teams",
	"Members":                                 "Mitglieder",
	"Tasks":                                   "Aufgaben",
	"Dashboard":                               "Übersicht",
	"Settings":                                "Einstellungen",
	"Theme":                                   "Farbschema",
	"Language":                                "Sprache",
	"Role":                                    "Rolle",
	"Help":                                    "Hilfe",
	"Loading...":                              "Lädt...",
	"Connected":                               "Verbunden",
	"Offline":                                 "Offline",
}
