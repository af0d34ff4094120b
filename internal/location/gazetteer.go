// Package location turns free-form place text into canonical display
// names and, for known places, fixed coordinates. The gazetteer is a
// small static table loaded at process start and never mutated.
package location

import (
	"strings"
	"unicode"
)

// Default place used when a message names no location.
const (
	DefaultPlace = "Queens,NY,US"
	DefaultLat   = 40.7282
	DefaultLon   = -73.7949
)

// Coord is a fixed latitude/longitude pair for a gazetteer entry.
type Coord struct {
	Lat float64
	Lon float64
}

// displayNames maps normalized place strings to canonical display forms.
// Neighborhood-level keys are distinct from borough and city keys, so a
// broad entry can never mask a specific one.
var displayNames = map[string]string{
	"queens":           "Queens, NY",
	"queens,ny":        "Queens, NY",
	"queens,ny,us":     "Queens, NY",
	"new york":         "New York, NY",
	"new york,ny":      "New York, NY",
	"new york,ny,us":   "New York, NY",
	"manhattan":        "Manhattan, NY",
	"manhattan,ny":     "Manhattan, NY",
	"brooklyn":         "Brooklyn, NY",
	"brooklyn,ny":      "Brooklyn, NY",
	"bronx":            "Bronx, NY",
	"bronx,ny":         "Bronx, NY",
	"staten island":    "Staten Island, NY",
	"staten island,ny": "Staten Island, NY",
}

var coordinates = map[string]Coord{
	"queens":        {40.7282, -73.7949},
	"new york":      {40.7128, -74.0060},
	"manhattan":     {40.7831, -73.9712},
	"brooklyn":      {40.6782, -73.9442},
	"bronx":         {40.8448, -73.8648},
	"staten island": {40.5795, -74.1502},
}

// Normalize maps a raw location string to its canonical display name.
// Unknown places are title-cased segment by segment rather than erroring.
func Normalize(raw string) string {
	key := normalizeKey(raw)
	if name, ok := displayNames[key]; ok {
		return name
	}
	// Retry without a trailing state/country token ("austin,tx" -> "austin").
	if base, ok := stripRegionSuffix(key); ok {
		if name, ok := displayNames[base]; ok {
			return name
		}
	}
	return titleCase(raw)
}

// Coordinates returns fixed coordinates for a known place.
func Coordinates(raw string) (lat, lon float64, ok bool) {
	key := normalizeKey(raw)
	if c, found := coordinates[key]; found {
		return c.Lat, c.Lon, true
	}
	if base, found := stripRegionSuffix(key); found {
		if c, hit := coordinates[base]; hit {
			return c.Lat, c.Lon, true
		}
	}
	return 0, 0, false
}

func normalizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	// "queens, ny" and "queens,ny" share one lookup key.
	parts := strings.Split(key, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}

func stripRegionSuffix(key string) (string, bool) {
	idx := strings.IndexByte(key, ',')
	if idx < 0 {
		return "", false
	}
	return key[:idx], true
}

// titleCase capitalizes each word of each comma-separated segment.
func titleCase(raw string) string {
	segments := strings.Split(raw, ",")
	for i, seg := range segments {
		words := strings.Fields(strings.TrimSpace(seg))
		for j, w := range words {
			words[j] = capitalize(w)
		}
		segments[i] = strings.Join(words, " ")
	}
	return strings.Join(segments, ", ")
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
