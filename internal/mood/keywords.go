package mood

import "strings"

// KeywordConfig holds the keyword sets the extractors classify against.
// Matching is lowercase substring, diacritic-sensitive as authored, so
// sets carry both accented and plain spellings. The config is injected
// rather than read from globals so locales can be swapped without
// touching the scorer.
type KeywordConfig struct {
	// Agenda event classes, checked in priority order.
	SportIntense    []string
	SportModerate   []string
	WorkCreative    []string
	WorkFocusHigh   []string
	WorkFocusNormal []string
	SocialActive    []string
	SocialCalm      []string

	// Weather classes, rain checked first, then cloudy, then sunny.
	WeatherRain   []string
	WeatherCloudy []string
	WeatherSunny  []string
}

// DefaultKeywords returns the mixed French/English sets observed in
// production use.
func DefaultKeywords() *KeywordConfig {
	return &KeywordConfig{
		SportIntense: []string{
			"crossfit", "compétition", "competition", "hiit", "marathon", "triathlon",
			"match", "rugby", "football", "basket", "boxe",
		},
		SportModerate: []string{
			"run", "gym", "yoga", "vélo", "velo", "natation", "fitness", "sport", "musculation",
			"train", "training", "entraînement", "entrainement", "pilates",
		},
		WorkCreative: []string{
			"design", "dev", "développement", "developpement", "art", "création", "creation",
			"creative", "projet perso", "coding", "dessin", "photo", "musique",
			"machine", "conception", "algo", "algorithmique", "programmation",
		},
		WorkFocusHigh: []string{
			"exam", "examen", "partiel", "soutenance", "certification", "concours",
			"final", "controle", "contrôle",
		},
		WorkFocusNormal: []string{
			"réunion", "reunion", "présentation", "presentation",
			"projet", "étude", "etude", "travail", "meeting", "rendu", "deadline",
			"cm", "td", "cours magistral", "travaux dirigés", "tp", "travaux pratiques",
			"comptabilité", "comptabilite", "compta", "gestion", "finance", "eco-gestion",
			"eco gestion", "miage", "business english", "english",
			"système", "systeme", "strat", "stratégie", "strategie",
		},
		SocialActive: []string{
			"fête", "fete", "soirée", "soiree", "concert", "bar", "club", "anniv",
			"anniversaire", "party", "festival", "sortie", "boîte", "boite",
		},
		SocialCalm: []string{
			"resto", "restaurant", "café", "cafe", "apéro", "apero", "dîner", "diner",
			"déjeuner", "dejeuner", "brunch", "repas", "bouffe",
		},
		WeatherRain:   []string{"orage", "storm", "tempête", "tempete", "pluie", "rain", "pluvieux"},
		WeatherCloudy: []string{"grisaille", "gris", "overcast", "nuageux", "cloudy"},
		WeatherSunny:  []string{"soleil", "sunny", "ensoleillé", "ensolleile", "clear"},
	}
}

// matchAny reports whether any keyword occurs as a substring of text.
// Text must already be lowercased by the caller.
func matchAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
