package weather

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
)

var conditionIcons = map[string]string{
	"Clear":        "☀️",
	"Clouds":       "☁️",
	"Rain":         "🌧️",
	"Drizzle":      "🌦️",
	"Thunderstorm": "⛈️",
	"Snow":         "❄️",
	"Mist":         "🌫️",
	"Fog":          "🌫️",
	"Haze":         "🌫️",
}

const defaultIcon = "🌤️"

// Joke templates take (location, temperature °F, lowercase description,
// icon) in varying order; see jokeTemplates for the exact verbs.
var jokeTemplates = []string{
	"The meteorologist's favorite type of music? Heavy metal - especially when it's hailing! Currently in %s: %d°F with %s! %s",
	"Why do clouds never get lonely? Because they're always in good company - they're quite the cumulus crowd! Right now in %s it's %d°F with %s! %s",
	"What did the barometric pressure say to the thermometer? 'I'm feeling quite under pressure today, but you seem to be rising to the occasion!' In %s: %d°F with %s! %s",
	"The wind's favorite type of literature? Gust-ave Flaubert novels, naturally! Today in %s: %d°F with %s and light winds! %s",
	"Why did the dew point become a philosopher? Because it was always questioning the humidity of existence! Current conditions in %s: %d°F with %s! %s",
	"What's a tornado's favorite dance? The twist, obviously! But don't worry, in %s it's just %d°F with %s! %s",
}

// Format renders a snapshot as display text. With withJoke set, one of
// the weather-pun templates is chosen at random; otherwise a plain
// conditions line with humidity and wind commentary.
func Format(snap Snapshot, withJoke bool) string {
	icon := conditionIcons[snap.Condition]
	if icon == "" {
		icon = defaultIcon
	}
	description := strings.ToLower(snap.Description)

	if withJoke {
		template := jokeTemplates[rand.IntN(len(jokeTemplates))]
		return fmt.Sprintf(template, snap.Location, snap.TemperatureF, description, icon)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current weather in %s: %d°F", snap.Location, snap.TemperatureF)
	if snap.FeelsLikeF != snap.TemperatureF {
		fmt.Fprintf(&b, " (feels like %d°F)", snap.FeelsLikeF)
	}
	fmt.Fprintf(&b, " with %s. %s", description, icon)

	if snap.Humidity > 70 {
		fmt.Fprintf(&b, " It's quite humid (%d%% humidity).", snap.Humidity)
	} else if snap.Humidity < 30 {
		fmt.Fprintf(&b, " The air is dry (%d%% humidity).", snap.Humidity)
	}

	if snap.WindMPH > 15 {
		fmt.Fprintf(&b, " Windy conditions with %d mph winds.", snap.WindMPH)
	} else if snap.WindMPH > 5 {
		fmt.Fprintf(&b, " Light breeze at %d mph.", snap.WindMPH)
	}

	return b.String()
}

// titleFirst uppercases the first rune, matching how provider
// descriptions like "clear sky" are displayed.
func titleFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
