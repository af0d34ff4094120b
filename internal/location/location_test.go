package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKnownPlaces(t *testing.T) {
	// All spellings of a known borough share one canonical display form.
	for _, raw := range []string{"queens", "Queens", "Queens, NY", "queens,ny", "QUEENS , NY"} {
		assert.Equal(t, "Queens, NY", Normalize(raw), "raw=%q", raw)
	}
	assert.Equal(t, "Staten Island, NY", Normalize("staten island"))
	assert.Equal(t, "New York, NY", Normalize("new york,ny,us"))
}

func TestNormalizeUnknownPlaceTitleCases(t *testing.T) {
	assert.Equal(t, "Springfield", Normalize("springfield"))
	assert.Equal(t, "Portland, Or", Normalize("portland, or"))
	assert.Equal(t, "San Juan Capistrano", Normalize("san juan capistrano"))
}

func TestCoordinatesKnown(t *testing.T) {
	lat, lon, ok := Coordinates("Brooklyn, NY")
	assert.True(t, ok)
	assert.InDelta(t, 40.6782, lat, 0.001)
	assert.InDelta(t, -73.9442, lon, 0.001)
}

func TestCoordinatesUnknown(t *testing.T) {
	_, _, ok := Coordinates("atlantis")
	assert.False(t, ok)
}

func TestParsePrepositionForms(t *testing.T) {
	cases := map[string]string{
		"What's the weather in Queens, NY?":     "queens,ny",
		"weather in Brooklyn":                   "brooklyn",
		"Tell me the weather for Staten Island": "staten island",
		"show me weather at manhattan today":    "manhattan",
		"Tell me a weather joke for Brooklyn":   "brooklyn",
	}
	for msg, want := range cases {
		got, ok := Parse(msg)
		assert.True(t, ok, "msg=%q", msg)
		assert.Equal(t, want, got, "msg=%q", msg)
	}
}

func TestParseTrailingForm(t *testing.T) {
	got, ok := Parse("brooklyn weather")
	assert.True(t, ok)
	assert.Equal(t, "brooklyn", got)
}

// The "X weather" pattern deliberately matches any leading phrase; this
// mirrors the historical behavior and downstream lookup falls back to
// title-casing for unknown places.
func TestParseLeadingPhraseQuirk(t *testing.T) {
	got, ok := Parse("terrible weather")
	assert.True(t, ok)
	assert.Equal(t, "terrible", got)
}

func TestParseNoLocation(t *testing.T) {
	for _, msg := range []string{"hello there", "tell me a joke", "it weather"} {
		_, ok := Parse(msg)
		assert.False(t, ok, "msg=%q", msg)
	}
}
